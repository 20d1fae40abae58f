package services

import (
	"context"
	"time"

	"github.com/philodia/gescom-core/internal/core/domain"
)

// ReportingService defines operations for generating sales reports
type ReportingService interface {
	// SalesReport aggregates eligible invoices issued between start and end, both inclusive.
	SalesReport(ctx context.Context, start, end time.Time) (*domain.SalesReport, error)

	// InvalidateCache drops cached reports. It is a no-op when no cache is configured.
	InvalidateCache(ctx context.Context) error
}

// ReportCache stores generated reports. Implementations must treat a miss as (nil, nil).
type ReportCache interface {
	GetSalesReport(ctx context.Context, start, end time.Time) (*domain.SalesReport, error)
	SetSalesReport(ctx context.Context, report *domain.SalesReport) error
	// Invalidate drops every cached report.
	Invalidate(ctx context.Context) error
}
