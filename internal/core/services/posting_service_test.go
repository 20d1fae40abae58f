package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
	"github.com/philodia/gescom-core/internal/core/services"
	"github.com/philodia/gescom-core/internal/repositories/memory"
)

type PostingServiceTestSuite struct {
	suite.Suite
	store     *memory.Store
	repos     portsrepo.RepositoryProvider
	publisher *MockEventPublisher
	service   portssvc.PostingSvcFacade
	ctx       context.Context
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.store = memory.New()
	suite.store.SeedDefaultChart()
	suite.repos = memory.NewRepositoryProvider(suite.store)
	suite.publisher = new(MockEventPublisher)
	suite.publisher.On("Publish", mock.Anything, mock.AnythingOfType("domain.Event")).Return(nil).Maybe()

	resolver := services.NewResolverService(suite.repos.ReferenceRepo)
	suite.service = services.NewPostingService(suite.repos.LedgerRepo, resolver,
		services.WithPostingEventPublisher(suite.publisher),
		services.WithPostingClock(fixedClock),
	)
	suite.ctx = context.Background()

	suite.store.AddClient(domain.Client{ClientID: "c1", Name: "Acme", Balance: decimal.Zero, IsActive: true})
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}

func (suite *PostingServiceTestSuite) addInvoice(id, number string, excl, incl int64, lines ...domain.InvoiceLine) domain.SalesInvoice {
	inv := domain.SalesInvoice{
		InvoiceID:    id,
		Number:       number,
		ClientID:     "c1",
		IssueDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:       domain.StatusSent,
		TotalExclTax: decimal.NewFromInt(excl),
		TotalInclTax: decimal.NewFromInt(incl),
		Lines:        lines,
	}
	suite.store.AddInvoice(inv)
	return inv
}

func (suite *PostingServiceTestSuite) clientBalance() decimal.Decimal {
	c, err := suite.repos.LedgerRepo.FindClientByID(suite.ctx, "c1")
	suite.Require().NoError(err)
	return c.Balance
}

func (suite *PostingServiceTestSuite) assertBalanced(entry domain.JournalEntry) {
	debit, credit := entry.Totals()
	suite.True(debit.Sub(credit).Abs().LessThanOrEqual(domain.BalanceTolerance), "debit %s credit %s", debit, credit)
	for _, l := range entry.Lines {
		suite.True(l.Debit.IsZero() != l.Credit.IsZero(), "line %d must be one-sided", l.LineNo)
	}
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_StandardRate() {
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180)

	result, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.Require().NoError(err)
	suite.False(result.AlreadyPosted)
	entry := result.Entry
	suite.assertBalanced(entry)
	suite.Equal("VE", entry.JournalCode)
	suite.Equal("Posting of invoice n°F-001", entry.Label)
	suite.Equal(inv.IssueDate, entry.EntryDate)
	suite.Equal("u1", entry.CreatedBy)
	suite.Equal(fixedNow, entry.CreatedAt)

	suite.Require().Len(entry.Lines, 3)
	suite.Equal("411000", entry.Lines[0].AccountCode)
	suite.Equal("Invoice F-001 - Acme", entry.Lines[0].Label)
	suite.True(entry.Lines[0].Debit.Equal(decimal.NewFromInt(1180)))
	suite.Equal("701000", entry.Lines[1].AccountCode)
	suite.Equal("Sales on invoice F-001", entry.Lines[1].Label)
	suite.True(entry.Lines[1].Credit.Equal(decimal.NewFromInt(1000)))
	suite.Equal("443000", entry.Lines[2].AccountCode)
	suite.Equal("Tax on invoice F-001", entry.Lines[2].Label)
	suite.True(entry.Lines[2].Credit.Equal(decimal.NewFromInt(180)))
	for i, l := range entry.Lines {
		suite.Equal(i+1, l.LineNo)
		suite.Equal(entry.EntryID, l.EntryID)
	}

	suite.True(suite.clientBalance().Equal(decimal.NewFromInt(1180)))

	stored, err := suite.repos.LedgerRepo.FindInvoiceByID(suite.ctx, "inv-1")
	suite.Require().NoError(err)
	suite.True(stored.Posted)
	suite.Require().NotNil(stored.JournalEntryID)
	suite.Equal(entry.EntryID, *stored.JournalEntryID)

	suite.publisher.AssertCalled(suite.T(), "Publish", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventInvoicePosted && e.RecordID == entry.EntryID && e.Amount.Equal(decimal.NewFromInt(1180))
	}))
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_FromLinesWithDefaultRate() {
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180, domain.InvoiceLine{
		ProductID: "p1", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100),
	})

	result, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.Require().NoError(err)
	suite.assertBalanced(result.Entry)
	suite.Len(result.Entry.Lines, 3)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_MixedRates() {
	eighteen, zero := decimal.NewFromInt(18), decimal.Zero
	inv := suite.addInvoice("inv-2", "F-002", 300, 318,
		domain.InvoiceLine{ProductID: "p1", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50), TaxRate: &eighteen},
		domain.InvoiceLine{ProductID: "p2", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(200), TaxRate: &zero},
	)

	result, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.Require().NoError(err)
	lines := result.Entry.Lines
	suite.assertBalanced(result.Entry)
	suite.Require().Len(lines, 4)
	suite.Equal("Sales on invoice F-002 (0%)", lines[1].Label)
	suite.True(lines[1].Credit.Equal(decimal.NewFromInt(200)))
	suite.Equal("Sales on invoice F-002 (18%)", lines[2].Label)
	suite.True(lines[2].Credit.Equal(decimal.NewFromInt(100)))
	suite.Equal("Tax on invoice F-002 (18%)", lines[3].Label)
	suite.True(lines[3].Credit.Equal(decimal.NewFromInt(18)))
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_TaxFreeNeedsNoTaxAccount() {
	store := memory.New()
	store.AddJournal(domain.Journal{JournalID: "j1", Code: "VE"})
	store.AddAccount(domain.Account{AccountID: "a1", Code: "411000"})
	store.AddAccount(domain.Account{AccountID: "a2", Code: "701000"})
	store.AddClient(domain.Client{ClientID: "c1", Name: "Acme"})
	inv := domain.SalesInvoice{InvoiceID: "inv-3", Number: "F-003", ClientID: "c1", Status: domain.StatusPaid,
		TotalExclTax: decimal.NewFromInt(500), TotalInclTax: decimal.NewFromInt(500)}
	store.AddInvoice(inv)
	repos := memory.NewRepositoryProvider(store)
	svc := services.NewPostingService(repos.LedgerRepo, services.NewResolverService(repos.ReferenceRepo))

	result, err := svc.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.Require().NoError(err)
	suite.Len(result.Entry.Lines, 2)
	suite.assertBalanced(result.Entry)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_TwiceReturnsOriginal() {
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180)

	first, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")
	suite.Require().NoError(err)
	second, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u2")
	suite.Require().NoError(err)

	suite.True(second.AlreadyPosted)
	suite.Equal(first.Entry.EntryID, second.Entry.EntryID)
	suite.Equal("u1", second.Entry.CreatedBy)
	suite.True(suite.clientBalance().Equal(decimal.NewFromInt(1180)))
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_ConcurrentPostingsCreateOneEntry() {
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180)

	const workers = 4
	var wg sync.WaitGroup
	results := make([]*domain.PostingResult, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = suite.service.PostSalesInvoice(suite.ctx, inv, "u1")
		}(i)
	}
	wg.Wait()

	fresh := 0
	for i := 0; i < workers; i++ {
		suite.Require().NoError(errs[i])
		suite.Equal(results[0].Entry.EntryID, results[i].Entry.EntryID)
		if !results[i].AlreadyPosted {
			fresh++
		}
	}
	suite.Equal(1, fresh)
	suite.True(suite.clientBalance().Equal(decimal.NewFromInt(1180)))
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_ImbalanceWritesNothing() {
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1200, domain.InvoiceLine{
		ProductID: "p1", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100),
	})

	result, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrImbalance)
	suite.True(suite.clientBalance().IsZero())
	stored, err := suite.repos.LedgerRepo.FindInvoiceByID(suite.ctx, "inv-1")
	suite.Require().NoError(err)
	suite.False(stored.Posted)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_Preconditions() {
	valid := suite.addInvoice("inv-1", "F-001", 1000, 1180)

	tests := []struct {
		name    string
		mutate  func(inv *domain.SalesInvoice)
		wantErr error
	}{
		{"zero total incl. tax", func(inv *domain.SalesInvoice) { inv.TotalInclTax = decimal.Zero }, apperrors.ErrValidation},
		{"negative total excl. tax", func(inv *domain.SalesInvoice) { inv.TotalExclTax = decimal.NewFromInt(-1) }, apperrors.ErrValidation},
		{"no client", func(inv *domain.SalesInvoice) { inv.ClientID = "" }, apperrors.ErrValidation},
		{"unknown client", func(inv *domain.SalesInvoice) { inv.ClientID = "ghost" }, apperrors.ErrNotFound},
		{"unknown invoice", func(inv *domain.SalesInvoice) { inv.InvoiceID = "inv-404" }, apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			inv := valid
			tt.mutate(&inv)
			_, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")
			suite.ErrorIs(err, tt.wantErr)
		})
	}
	suite.True(suite.clientBalance().IsZero())
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_DraftIsRefused() {
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180)
	inv.Status = domain.StatusDraft
	suite.store.AddInvoice(inv)

	_, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.True(suite.clientBalance().IsZero())
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_MissingChartAccount() {
	store := memory.New()
	store.AddJournal(domain.Journal{JournalID: "j1", Code: "VE"})
	store.AddClient(domain.Client{ClientID: "c1", Name: "Acme"})
	inv := domain.SalesInvoice{InvoiceID: "inv-1", Number: "F-001", ClientID: "c1", Status: domain.StatusSent,
		TotalExclTax: decimal.NewFromInt(1000), TotalInclTax: decimal.NewFromInt(1180)}
	store.AddInvoice(inv)
	repos := memory.NewRepositoryProvider(store)
	svc := services.NewPostingService(repos.LedgerRepo, services.NewResolverService(repos.ReferenceRepo))

	_, err := svc.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_ClientReceivableOverride() {
	suite.store.AddAccount(domain.Account{AccountID: "acc-411100", Code: "411100", Name: "Export clients", AccountType: domain.Asset})
	suite.store.AddClient(domain.Client{ClientID: "c1", Name: "Acme", ReceivableAccountCode: "411100"})
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180)

	result, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.Require().NoError(err)
	suite.Equal("411100", result.Entry.Lines[0].AccountCode)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_AbortedCommitLeavesStateUnchanged() {
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180)
	suite.store.FailNextCommit(apperrors.NewPermanentAbort("commit transaction", errors.New("connection reset")))

	_, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.ErrorIs(err, apperrors.ErrTransactionAborted)
	suite.False(apperrors.IsRetryable(err))
	suite.True(suite.clientBalance().IsZero())
	stored, err := suite.repos.LedgerRepo.FindInvoiceByID(suite.ctx, "inv-1")
	suite.Require().NoError(err)
	suite.False(stored.Posted)
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoiceByID_AndGetJournalEntry() {
	suite.addInvoice("inv-1", "F-001", 1000, 1180)

	result, err := suite.service.PostSalesInvoiceByID(suite.ctx, "inv-1", "u1")
	suite.Require().NoError(err)

	entry, err := suite.service.GetJournalEntry(suite.ctx, result.Entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(result.Entry.EntryID, entry.EntryID)
	suite.Len(entry.Lines, 3)
	suite.assertBalanced(*entry)

	_, err = suite.service.PostSalesInvoiceByID(suite.ctx, "inv-404", "u1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.service.GetJournalEntry(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_LinesDisagreeWithTotalExclTax() {
	inv := suite.addInvoice("inv-1", "F-001", 900, 1180, domain.InvoiceLine{
		ProductID: "p1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000),
	})

	result, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrImbalance)
	suite.True(suite.clientBalance().IsZero())
	stored, err := suite.repos.LedgerRepo.FindInvoiceByID(suite.ctx, "inv-1")
	suite.Require().NoError(err)
	suite.False(stored.Posted)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_LinesDisagreeWithTax() {
	ten := decimal.NewFromInt(10)
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180, domain.InvoiceLine{
		ProductID: "p1", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000), TaxRate: &ten,
	})

	_, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.ErrorIs(err, apperrors.ErrImbalance)
	suite.True(suite.clientBalance().IsZero())
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_PostedInvoiceIgnoresStaleSnapshot() {
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180)
	first, err := suite.service.PostSalesInvoice(suite.ctx, inv, "u1")
	suite.Require().NoError(err)

	stale := inv
	stale.TotalExclTax = decimal.NewFromInt(900)
	stale.TotalInclTax = decimal.Zero

	second, err := suite.service.PostSalesInvoice(suite.ctx, stale, "u1")

	suite.Require().NoError(err)
	suite.True(second.AlreadyPosted)
	suite.Equal(first.Entry.EntryID, second.Entry.EntryID)
	suite.True(suite.clientBalance().Equal(decimal.NewFromInt(1180)))

	other := inv
	other.ClientID = "c2"
	_, err = suite.service.PostSalesInvoice(suite.ctx, other, "u1")
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_InvalidatesReportCache() {
	cache := new(MockReportCache)
	cache.On("Invalidate", mock.Anything).Return(nil).Once()
	svc := services.NewPostingService(suite.repos.LedgerRepo, services.NewResolverService(suite.repos.ReferenceRepo),
		services.WithPostingReportCache(cache))
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180)

	_, err := svc.PostSalesInvoice(suite.ctx, inv, "u1")
	suite.Require().NoError(err)
	again, err := svc.PostSalesInvoice(suite.ctx, inv, "u1")
	suite.Require().NoError(err)
	suite.True(again.AlreadyPosted)

	cache.AssertNumberOfCalls(suite.T(), "Invalidate", 1)
}

func (suite *PostingServiceTestSuite) TestPostSalesInvoice_CacheFailureDoesNotFailPosting() {
	cache := new(MockReportCache)
	cache.On("Invalidate", mock.Anything).Return(errors.New("redis down"))
	svc := services.NewPostingService(suite.repos.LedgerRepo, services.NewResolverService(suite.repos.ReferenceRepo),
		services.WithPostingReportCache(cache))
	inv := suite.addInvoice("inv-1", "F-001", 1000, 1180)

	result, err := svc.PostSalesInvoice(suite.ctx, inv, "u1")

	suite.Require().NoError(err)
	suite.False(result.AlreadyPosted)
	suite.True(suite.clientBalance().Equal(decimal.NewFromInt(1180)))
}
