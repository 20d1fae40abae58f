package repositories

import (
	"context"
	"time"

	"github.com/philodia/gescom-core/internal/core/domain"
)

// ReportingRepository defines operations for retrieving sales report data
type ReportingRepository interface {
	// ListInvoicesForReport returns invoices, with lines, whose issue date falls in [from, to]
	// and whose status is one of statuses.
	ListInvoicesForReport(ctx context.Context, from, to time.Time, statuses []domain.DocumentStatus) ([]domain.SalesInvoice, error)

	// FindClientNames maps client IDs to names. Unknown IDs are absent from the result.
	FindClientNames(ctx context.Context, clientIDs []string) (map[string]string, error)

	// FindProductNames maps product IDs to names. Unknown IDs are absent from the result.
	FindProductNames(ctx context.Context, productIDs []string) (map[string]string, error)
}
