//go:build integration

package pgsql_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
	"github.com/philodia/gescom-core/internal/core/services"
	"github.com/philodia/gescom-core/internal/repositories/database/pgsql"
	"github.com/philodia/gescom-core/pkg/database"
)

type PgsqlIntegrationSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	inventory portssvc.InventorySvcFacade
	posting   portssvc.PostingSvcFacade
	reporting portssvc.ReportingService
}

func TestPgsqlIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PgsqlIntegrationSuite))
}

func (s *PgsqlIntegrationSuite) SetupSuite() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gescom_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err, "Failed to start PostgreSQL container")
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.Require().NoError(database.RunMigrations(dsn, logger))

	s.pool, err = database.NewPgxPool(ctx, dsn, true, logger)
	s.Require().NoError(err)

	repos := pgsql.NewRepositoryProvider(s.pool)
	resolver := services.NewResolverService(repos.ReferenceRepo)
	s.inventory = services.NewInventoryService(repos.InventoryRepo)
	s.posting = services.NewPostingService(repos.LedgerRepo, resolver)
	s.reporting = services.NewReportingService(repos.ReportingRepo)
}

func (s *PgsqlIntegrationSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.NoError(s.container.Terminate(context.Background()))
	}
}

func (s *PgsqlIntegrationSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `
		TRUNCATE stock_movements, sales_invoice_lines, sales_invoices,
		         journal_entry_lines, journal_entries, products, clients CASCADE;
	`)
	s.Require().NoError(err)

	_, err = s.pool.Exec(ctx, `
		INSERT INTO clients (client_id, name) VALUES ('c1', 'Acme');
		INSERT INTO products (product_id, name, sku, quantity_on_hand) VALUES ('p1', 'Widget', 'WID-1', 0);
		INSERT INTO sales_invoices (invoice_id, number, client_id, issue_date, status, total_excl_tax, total_incl_tax)
		VALUES ('inv1', 'FAC-0001', 'c1', '2024-03-10T09:00:00Z', 'SENT', 1000, 1180);
		INSERT INTO sales_invoice_lines (invoice_id, line_no, product_id, quantity, unit_price, tax_rate)
		VALUES ('inv1', 1, 'p1', 10, 100, NULL);
	`)
	s.Require().NoError(err)
}

func (s *PgsqlIntegrationSuite) TestPostSalesInvoice_PersistsBalancedEntryOnce() {
	ctx := context.Background()

	result, err := s.posting.PostSalesInvoiceByID(ctx, "inv1", "tester")
	s.Require().NoError(err)
	s.False(result.AlreadyPosted)
	s.Len(result.Entry.Lines, 3)

	stored, err := s.posting.GetJournalEntry(ctx, result.Entry.EntryID)
	s.Require().NoError(err)
	s.Equal("VE", stored.JournalCode)
	s.Equal("sales-invoice:inv1", stored.SourceRef)
	s.True(stored.IsBalanced())
	s.Equal("411000", stored.Lines[0].AccountCode)

	again, err := s.posting.PostSalesInvoiceByID(ctx, "inv1", "tester")
	s.Require().NoError(err)
	s.True(again.AlreadyPosted)
	s.Equal(result.Entry.EntryID, again.Entry.EntryID)

	var balance decimal.Decimal
	s.Require().NoError(s.pool.QueryRow(ctx, `SELECT balance FROM clients WHERE client_id = 'c1'`).Scan(&balance))
	s.True(balance.Equal(decimal.NewFromInt(1180)), "balance was %s", balance)
}

func (s *PgsqlIntegrationSuite) TestPostSalesInvoice_ConcurrentCallersPostOnce() {
	ctx := context.Background()
	const callers = 8

	var wg sync.WaitGroup
	results := make(chan *domain.PostingResult, callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.posting.PostSalesInvoiceByID(ctx, "inv1", "tester")
			if err != nil {
				errs <- err
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		s.Failf("unexpected posting error", "%v", err)
	}
	fresh := 0
	for res := range results {
		if !res.AlreadyPosted {
			fresh++
		}
	}
	s.Equal(1, fresh)

	var entries int
	s.Require().NoError(s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries`).Scan(&entries))
	s.Equal(1, entries)
}

func (s *PgsqlIntegrationSuite) TestStockMovements_ConcurrentOutflowsNeverGoNegative() {
	ctx := context.Background()
	_, err := s.inventory.StockIn(ctx, "p1", decimal.NewFromInt(10), "", domain.MovementMetadata{DocumentRef: "PO-1"})
	s.Require().NoError(err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, refused := 0, 0
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.inventory.StockOut(ctx, "p1", decimal.NewFromInt(6), "", domain.MovementMetadata{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrInsufficientStock):
				refused++
			default:
				s.Failf("unexpected stock error", "%v", err)
			}
		}()
	}
	wg.Wait()
	s.Equal(1, succeeded)
	s.Equal(1, refused)

	rec, err := s.inventory.ReconcileProduct(ctx, "p1")
	s.Require().NoError(err)
	s.True(rec.Balanced)
	s.True(rec.QuantityOnHand.Equal(decimal.NewFromInt(4)))
	s.Equal(2, rec.MovementCount)
}

func (s *PgsqlIntegrationSuite) TestListMovements_PagesNewestFirst() {
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		_, err := s.inventory.StockIn(ctx, "p1", decimal.NewFromInt(int64(i)), "", domain.MovementMetadata{})
		s.Require().NoError(err)
	}

	first, token, err := s.inventory.ListMovements(ctx, "p1", 3, nil)
	s.Require().NoError(err)
	s.Require().Len(first, 3)
	s.Require().NotNil(token)
	s.True(first[0].Quantity.Equal(decimal.NewFromInt(5)))

	second, token, err := s.inventory.ListMovements(ctx, "p1", 3, token)
	s.Require().NoError(err)
	s.Len(second, 2)
	s.Nil(token)
	s.True(second[1].Quantity.Equal(decimal.NewFromInt(1)))
}

func (s *PgsqlIntegrationSuite) TestSalesReport_ReadsInvoicesWithLines() {
	ctx := context.Background()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)

	report, err := s.reporting.SalesReport(ctx, from, to)
	s.Require().NoError(err)
	s.Equal(1, report.KPIs.InvoiceCount)
	s.Require().Len(report.TopProducts, 1)
	s.Equal("Widget", report.TopProducts[0].Name)
	s.Require().Len(report.TopCounterparties, 1)
	s.Equal("Acme", report.TopCounterparties[0].Name)
}
