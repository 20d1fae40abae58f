package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/philodia/gescom-core/internal/core/domain"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
)

const (
	reportKeyPrefix  = "gescom:report:sales:"
	invalidateBatch  = 100
	DefaultReportTTL = 5 * time.Minute
)

// ReportCache stores generated sales reports as JSON with a TTL.
type ReportCache struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

// NewReportCache creates a cache on an existing client. A non-positive ttl means DefaultReportTTL.
func NewReportCache(client goredis.UniversalClient, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

var _ portssvc.ReportCache = (*ReportCache)(nil)

func reportKey(start, end time.Time) string {
	return fmt.Sprintf("%s%d:%d", reportKeyPrefix, start.UTC().UnixNano(), end.UTC().UnixNano())
}

// GetSalesReport returns (nil, nil) on a miss.
func (c *ReportCache) GetSalesReport(ctx context.Context, start, end time.Time) (*domain.SalesReport, error) {
	data, err := c.client.Get(ctx, reportKey(start, end)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}
	var report domain.SalesReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return &report, nil
}

func (c *ReportCache) SetSalesReport(ctx context.Context, report *domain.SalesReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.client.Set(ctx, reportKey(report.From, report.To), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// Invalidate deletes every cached report. Keys are found with SCAN so the server is never blocked.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, reportKeyPrefix+"*", invalidateBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cached reports: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cached reports: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
