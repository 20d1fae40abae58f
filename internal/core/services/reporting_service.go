package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
)

// TopRankingSize is the number of rows kept in each ranking of a sales report.
const TopRankingSize = 5

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	cache         portssvc.ReportCache
	now           func() time.Time
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportCache sets the cache consulted before and filled after building a report.
func WithReportCache(cache portssvc.ReportCache) ReportingServiceOption {
	return func(s *reportingService) {
		s.cache = cache
	}
}

// WithReportingClock overrides the time source used to stamp reports.
func WithReportingClock(now func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.now = now
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		now:           time.Now,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// InvalidateCache drops every cached report
func (s *reportingService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.LogError(ctx, err, "Failed to invalidate report cache")
		return fmt.Errorf("failed to invalidate report cache: %w", err)
	}
	s.LogInfo(ctx, "Report cache invalidated")
	return nil
}

// SalesReport generates the sales report of invoices issued in [start, end]
func (s *reportingService) SalesReport(ctx context.Context, start, end time.Time) (*domain.SalesReport, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: report start %s is after end %s", apperrors.ErrValidation,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	periodAttrs := []any{
		slog.String("from", start.Format(time.RFC3339)),
		slog.String("to", end.Format(time.RFC3339)),
	}

	if s.cache != nil {
		cached, err := s.cache.GetSalesReport(ctx, start, end)
		if err != nil {
			s.LogWarn(ctx, "Report cache read failed", append(periodAttrs, slog.String("error", err.Error()))...)
		} else if cached != nil {
			s.LogDebug(ctx, "Sales report served from cache", periodAttrs...)
			return cached, nil
		}
	}

	invoices, err := s.reportingRepo.ListInvoicesForReport(ctx, start, end, domain.ReportableStatuses)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve sales report data", periodAttrs...)
		return nil, fmt.Errorf("failed to retrieve sales report data: %w", err)
	}

	clients := rankCounterparties(invoices)
	products := rankProducts(invoices)

	clientNames, productNames, err := s.lookupNames(ctx, invoices, products)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve report names", periodAttrs...)
		return nil, fmt.Errorf("failed to resolve report names: %w", err)
	}

	for i := range clients {
		if name, ok := clientNames[clients[i].ClientID]; ok {
			clients[i].Name = name
		}
	}
	for i := range products {
		if name, ok := productNames[products[i].ProductID]; ok {
			products[i].Name = name
		}
	}

	documents := make([]domain.SalesInvoice, len(invoices))
	copy(documents, invoices)
	for i := range documents {
		if name, ok := clientNames[documents[i].ClientID]; ok {
			documents[i].ClientName = name
		}
	}
	sort.SliceStable(documents, func(i, j int) bool {
		if documents[i].IssueDate.Equal(documents[j].IssueDate) {
			return documents[i].Number > documents[j].Number
		}
		return documents[i].IssueDate.After(documents[j].IssueDate)
	})

	report := &domain.SalesReport{
		From:              start,
		To:                end,
		KPIs:              computeKPIs(invoices),
		TopCounterparties: clients,
		TopProducts:       products,
		Documents:         documents,
		GeneratedAt:       s.now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.SetSalesReport(ctx, report); err != nil {
			s.LogWarn(ctx, "Report cache write failed", append(periodAttrs, slog.String("error", err.Error()))...)
		}
	}

	s.LogInfo(ctx, "Sales report generated successfully",
		append(periodAttrs,
			slog.Int("invoice_count", report.KPIs.InvoiceCount),
			slog.String("revenue_excl_tax", report.KPIs.RevenueExclTax.String()))...)
	return report, nil
}

// lookupNames fetches client names for every document and product names for the ranked products.
func (s *reportingService) lookupNames(ctx context.Context, invoices []domain.SalesInvoice, products []domain.ProductRanking) (map[string]string, map[string]string, error) {
	clientIDs := make([]string, 0, len(invoices))
	seen := make(map[string]bool, len(invoices))
	for _, inv := range invoices {
		if !seen[inv.ClientID] {
			seen[inv.ClientID] = true
			clientIDs = append(clientIDs, inv.ClientID)
		}
	}
	productIDs := make([]string, len(products))
	for i, p := range products {
		productIDs[i] = p.ProductID
	}

	var clientNames, productNames map[string]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(clientIDs) == 0 {
			return nil
		}
		var err error
		clientNames, err = s.reportingRepo.FindClientNames(gctx, clientIDs)
		return err
	})
	g.Go(func() error {
		if len(productIDs) == 0 {
			return nil
		}
		var err error
		productNames, err = s.reportingRepo.FindProductNames(gctx, productIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return clientNames, productNames, nil
}

func computeKPIs(invoices []domain.SalesInvoice) domain.SalesKPIs {
	kpis := domain.SalesKPIs{
		RevenueExclTax:       decimal.Zero,
		RevenueInclTax:       decimal.Zero,
		AverageBasketExclTax: decimal.Zero,
		InvoiceCount:         len(invoices),
	}
	for _, inv := range invoices {
		kpis.RevenueExclTax = kpis.RevenueExclTax.Add(inv.TotalExclTax)
		kpis.RevenueInclTax = kpis.RevenueInclTax.Add(inv.TotalInclTax)
	}
	if kpis.InvoiceCount > 0 {
		kpis.AverageBasketExclTax = domain.RoundCurrency(kpis.RevenueExclTax.Div(decimal.NewFromInt(int64(kpis.InvoiceCount))))
	}
	return kpis
}

// rankCounterparties returns the top clients by revenue excl. tax. Ties rank by client ID.
func rankCounterparties(invoices []domain.SalesInvoice) []domain.CounterpartyRanking {
	byClient := make(map[string]*domain.CounterpartyRanking)
	for _, inv := range invoices {
		r, ok := byClient[inv.ClientID]
		if !ok {
			name := inv.ClientName
			if name == "" {
				name = inv.ClientID
			}
			r = &domain.CounterpartyRanking{ClientID: inv.ClientID, Name: name, RevenueExclTax: decimal.Zero}
			byClient[inv.ClientID] = r
		}
		r.RevenueExclTax = r.RevenueExclTax.Add(inv.TotalExclTax)
		r.InvoiceCount++
	}

	ranking := make([]domain.CounterpartyRanking, 0, len(byClient))
	for _, r := range byClient {
		ranking = append(ranking, *r)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if c := ranking[i].RevenueExclTax.Cmp(ranking[j].RevenueExclTax); c != 0 {
			return c > 0
		}
		return ranking[i].ClientID < ranking[j].ClientID
	})
	if len(ranking) > TopRankingSize {
		ranking = ranking[:TopRankingSize]
	}
	return ranking
}

// rankProducts returns the top products by summed quantity x unit price. Ties rank by product ID.
func rankProducts(invoices []domain.SalesInvoice) []domain.ProductRanking {
	byProduct := make(map[string]*domain.ProductRanking)
	for _, inv := range invoices {
		for _, line := range inv.Lines {
			if line.ProductID == "" {
				continue
			}
			r, ok := byProduct[line.ProductID]
			if !ok {
				name := line.ProductName
				if name == "" {
					name = line.ProductID
				}
				r = &domain.ProductRanking{ProductID: line.ProductID, Name: name, TotalQuantity: decimal.Zero, RevenueExclTax: decimal.Zero}
				byProduct[line.ProductID] = r
			}
			r.TotalQuantity = r.TotalQuantity.Add(line.Quantity)
			r.RevenueExclTax = r.RevenueExclTax.Add(domain.RoundCurrency(line.Quantity.Mul(line.UnitPrice)))
		}
	}

	ranking := make([]domain.ProductRanking, 0, len(byProduct))
	for _, r := range byProduct {
		ranking = append(ranking, *r)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if c := ranking[i].RevenueExclTax.Cmp(ranking[j].RevenueExclTax); c != 0 {
			return c > 0
		}
		return ranking[i].ProductID < ranking[j].ProductID
	})
	if len(ranking) > TopRankingSize {
		ranking = ranking[:TopRankingSize]
	}
	return ranking
}
