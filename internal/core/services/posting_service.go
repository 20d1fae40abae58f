package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
	"github.com/philodia/gescom-core/internal/utils/accounting"
)

// ChartCodes names the journal and accounts used for sales postings.
type ChartCodes struct {
	SalesJournal        string
	ReceivableAccount   string
	RevenueAccount      string
	TaxCollectedAccount string
}

// DefaultChartCodes is the chart seeded by the migrations and by memory.SeedDefaultChart.
var DefaultChartCodes = ChartCodes{
	SalesJournal:        "VE",
	ReceivableAccount:   "411000",
	RevenueAccount:      "701000",
	TaxCollectedAccount: "443000",
}

// postingService is the ledger posting engine.
type postingService struct {
	BaseService
	ledgerRepo portsrepo.LedgerStore
	resolver   portssvc.ResolverSvc
	publisher  portssvc.EventPublisher
	cache      portssvc.ReportCache
	codes      ChartCodes
	now        func() time.Time
}

// PostingServiceOption is a functional option for configuring the posting service
type PostingServiceOption func(*postingService)

// WithChartCodes overrides the journal and account codes used for postings.
// Empty fields keep their default.
func WithChartCodes(codes ChartCodes) PostingServiceOption {
	return func(s *postingService) {
		if codes.SalesJournal != "" {
			s.codes.SalesJournal = codes.SalesJournal
		}
		if codes.ReceivableAccount != "" {
			s.codes.ReceivableAccount = codes.ReceivableAccount
		}
		if codes.RevenueAccount != "" {
			s.codes.RevenueAccount = codes.RevenueAccount
		}
		if codes.TaxCollectedAccount != "" {
			s.codes.TaxCollectedAccount = codes.TaxCollectedAccount
		}
	}
}

// WithPostingEventPublisher sets the publisher notified after each committed posting.
func WithPostingEventPublisher(p portssvc.EventPublisher) PostingServiceOption {
	return func(s *postingService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithPostingReportCache sets the report cache dropped after each committed posting.
func WithPostingReportCache(cache portssvc.ReportCache) PostingServiceOption {
	return func(s *postingService) {
		s.cache = cache
	}
}

// WithPostingClock overrides the time source used to stamp entries.
func WithPostingClock(now func() time.Time) PostingServiceOption {
	return func(s *postingService) {
		s.now = now
	}
}

// NewPostingService creates a new posting service with the provided options
func NewPostingService(ledgerRepo portsrepo.LedgerStore, resolver portssvc.ResolverSvc, options ...PostingServiceOption) portssvc.PostingSvcFacade {
	svc := &postingService{
		ledgerRepo: ledgerRepo,
		resolver:   resolver,
		publisher:  portssvc.NoopPublisher{},
		codes:      DefaultChartCodes,
		now:        time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// validateInvoice checks the preconditions that do not need the store.
func validateInvoice(invoice domain.SalesInvoice) error {
	if strings.TrimSpace(invoice.InvoiceID) == "" {
		return fmt.Errorf("%w: invoice ID is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(invoice.ClientID) == "" {
		return fmt.Errorf("%w: invoice %s has no client", apperrors.ErrValidation, invoice.InvoiceID)
	}
	if !invoice.TotalInclTax.IsPositive() {
		return fmt.Errorf("%w: invoice %s total incl. tax must be positive", apperrors.ErrValidation, invoice.InvoiceID)
	}
	if invoice.TotalExclTax.IsNegative() {
		return fmt.Errorf("%w: invoice %s total excl. tax must not be negative", apperrors.ErrValidation, invoice.InvoiceID)
	}
	return nil
}

// postingAccounts are the resolved reference records of one posting.
type postingAccounts struct {
	journal      *domain.Journal
	receivable   *domain.Account
	revenue      *domain.Account
	taxCollected *domain.Account // nil when the invoice carries no tax
}

func (s *postingService) resolveAccounts(ctx context.Context, client *domain.Client, needsTax bool) (*postingAccounts, error) {
	journal, err := s.resolver.ResolveJournal(ctx, s.codes.SalesJournal)
	if err != nil {
		return nil, err
	}

	receivableCode := s.codes.ReceivableAccount
	if client.ReceivableAccountCode != "" {
		receivableCode = client.ReceivableAccountCode
	}
	receivable, err := s.resolver.ResolveAccount(ctx, receivableCode)
	if err != nil {
		return nil, err
	}

	revenue, err := s.resolver.ResolveAccount(ctx, s.codes.RevenueAccount)
	if err != nil {
		return nil, err
	}

	accounts := &postingAccounts{journal: journal, receivable: receivable, revenue: revenue}
	if needsTax {
		if accounts.taxCollected, err = s.resolver.ResolveAccount(ctx, s.codes.TaxCollectedAccount); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

// invoiceLabel is the number shown in labels, falling back to the ID.
func invoiceLabel(invoice domain.SalesInvoice) string {
	if n := strings.TrimSpace(invoice.Number); n != "" {
		return n
	}
	return invoice.InvoiceID
}

// buildSalesLines creates one receivable debit and, per tax rate, a revenue credit
// and a tax credit. Zero-amount credits are omitted.
func buildSalesLines(invoice domain.SalesInvoice, clientName string, groups []accounting.TaxGroup, accounts *postingAccounts) []domain.EntryLine {
	number := invoiceLabel(invoice)
	mixed := len(groups) > 1

	lines := []domain.EntryLine{{
		AccountID:   accounts.receivable.AccountID,
		AccountCode: accounts.receivable.Code,
		Label:       fmt.Sprintf("Invoice %s - %s", number, clientName),
		Debit:       domain.RoundCurrency(invoice.TotalInclTax),
		Credit:      decimal.Zero,
	}}

	for _, g := range groups {
		suffix := ""
		if mixed {
			suffix = fmt.Sprintf(" (%s%%)", g.Rate.String())
		}
		if g.BaseExcl.IsPositive() {
			lines = append(lines, domain.EntryLine{
				AccountID:   accounts.revenue.AccountID,
				AccountCode: accounts.revenue.Code,
				Label:       fmt.Sprintf("Sales on invoice %s%s", number, suffix),
				Debit:       decimal.Zero,
				Credit:      domain.RoundCurrency(g.BaseExcl),
			})
		}
		if g.TaxAmount.IsPositive() && accounts.taxCollected != nil {
			lines = append(lines, domain.EntryLine{
				AccountID:   accounts.taxCollected.AccountID,
				AccountCode: accounts.taxCollected.Code,
				Label:       fmt.Sprintf("Tax on invoice %s%s", number, suffix),
				Debit:       decimal.Zero,
				Credit:      domain.RoundCurrency(g.TaxAmount),
			})
		}
	}

	for i := range lines {
		lines[i].LineNo = i + 1
		lines[i].LineID = uuid.NewString()
	}
	return lines
}

// checkGroupsAgainstTotals refuses lines whose base or tax disagree with the invoice totals.
func checkGroupsAgainstTotals(invoice domain.SalesInvoice, groups []accounting.TaxGroup) error {
	base, tax := accounting.SumGroups(groups)
	wantBase := domain.RoundCurrency(invoice.TotalExclTax)
	wantTax := domain.RoundCurrency(invoice.TaxAmount())
	if base.Sub(wantBase).Abs().GreaterThan(domain.BalanceTolerance) {
		return fmt.Errorf("%w: invoice %s lines total %s excl. tax, invoice says %s",
			apperrors.ErrImbalance, invoice.InvoiceID, base.StringFixed(2), wantBase.StringFixed(2))
	}
	if tax.Sub(wantTax).Abs().GreaterThan(domain.BalanceTolerance) {
		return fmt.Errorf("%w: invoice %s lines carry %s tax, invoice says %s",
			apperrors.ErrImbalance, invoice.InvoiceID, tax.StringFixed(2), wantTax.StringFixed(2))
	}
	return nil
}

func hasTax(groups []accounting.TaxGroup) bool {
	for _, g := range groups {
		if g.TaxAmount.IsPositive() {
			return true
		}
	}
	return false
}

// PostSalesInvoice implements portssvc.PostingWriterSvc
func (s *postingService) PostSalesInvoice(ctx context.Context, invoice domain.SalesInvoice, userID string) (*domain.PostingResult, error) {
	if strings.TrimSpace(invoice.InvoiceID) == "" {
		return nil, fmt.Errorf("%w: invoice ID is required", apperrors.ErrValidation)
	}
	logAttrs := []any{
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.Number),
		slog.String("client_id", invoice.ClientID),
	}

	// A posted invoice returns its entry whatever the caller's snapshot says.
	original, err := s.findPostedEntry(ctx, invoice)
	if err != nil {
		return nil, err
	}
	if original != nil {
		s.LogInfo(ctx, "Invoice already posted, returning original entry",
			append(logAttrs, slog.String("entry_id", original.EntryID))...)
		return &domain.PostingResult{Entry: *original, AlreadyPosted: true}, nil
	}

	if err := validateInvoice(invoice); err != nil {
		return nil, err
	}

	client, err := s.ledgerRepo.FindClientByID(ctx, invoice.ClientID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load client for posting", logAttrs...)
		}
		return nil, fmt.Errorf("failed to find client %s: %w", invoice.ClientID, err)
	}

	groups := accounting.TaxGroupsForInvoice(invoice)
	if err := checkGroupsAgainstTotals(invoice, groups); err != nil {
		s.LogWarn(ctx, "Posting refused, lines disagree with invoice totals",
			append(logAttrs, slog.String("reason", err.Error()))...)
		return nil, err
	}
	accounts, err := s.resolveAccounts(ctx, client, hasTax(groups))
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve posting accounts", logAttrs...)
		return nil, err
	}

	now := s.now().UTC()
	entryID := uuid.NewString()
	lines := buildSalesLines(invoice, client.Name, groups, accounts)
	for i := range lines {
		lines[i].EntryID = entryID
	}

	debit, credit, balanced := accounting.LinesBalance(lines)
	if !balanced {
		s.LogWarn(ctx, "Posting refused, entry does not balance",
			append(logAttrs,
				slog.String("debit", debit.String()),
				slog.String("credit", credit.String()))...)
		return nil, fmt.Errorf("%w: invoice %s debits %s, credits %s",
			apperrors.ErrImbalance, invoice.InvoiceID, debit.StringFixed(2), credit.StringFixed(2))
	}

	entryDate := invoice.IssueDate
	if entryDate.IsZero() {
		entryDate = now
	}
	entry := domain.JournalEntry{
		EntryID:     entryID,
		JournalID:   accounts.journal.JournalID,
		JournalCode: accounts.journal.Code,
		EntryDate:   entryDate,
		Label:       fmt.Sprintf("Posting of invoice n°%s", invoiceLabel(invoice)),
		SourceRef:   salesInvoiceSourceRef(invoice.InvoiceID),
		Lines:       lines,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: userID},
	}
	amount := domain.RoundCurrency(invoice.TotalInclTax)

	var newBalance decimal.Decimal
	err = s.ledgerRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		stored, err := tx.LockInvoice(ctx, invoice.InvoiceID)
		if err != nil {
			return err
		}
		if stored.ClientID != invoice.ClientID {
			return fmt.Errorf("%w: invoice %s belongs to client %s", apperrors.ErrConflict, invoice.InvoiceID, stored.ClientID)
		}

		if stored.Posted {
			if stored.JournalEntryID == nil {
				return fmt.Errorf("%w: invoice %s is posted without an entry", apperrors.ErrConflict, invoice.InvoiceID)
			}
			original, err = tx.FindJournalEntryByID(ctx, *stored.JournalEntryID)
			if err != nil {
				return err
			}
			return apperrors.ErrAlreadyPosted
		}

		switch stored.Status {
		case domain.StatusDraft, domain.StatusCancelled:
			return fmt.Errorf("%w: invoice %s in status %s cannot be posted", apperrors.ErrValidation, invoice.InvoiceID, stored.Status)
		}

		if err := tx.InsertJournalEntry(ctx, entry); err != nil {
			return err
		}
		if newBalance, err = tx.IncrementClientBalance(ctx, invoice.ClientID, amount); err != nil {
			return err
		}
		return tx.MarkInvoicePosted(ctx, invoice.InvoiceID, entry.EntryID)
	})

	if errors.Is(err, apperrors.ErrAlreadyPosted) {
		s.LogInfo(ctx, "Invoice already posted, returning original entry",
			append(logAttrs, slog.String("entry_id", original.EntryID))...)
		return &domain.PostingResult{Entry: *original, AlreadyPosted: true}, nil
	}
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrConflict):
			s.LogWarn(ctx, "Posting refused", append(logAttrs, slog.String("reason", err.Error()))...)
		default:
			s.LogError(ctx, err, "Failed to post invoice", logAttrs...)
		}
		return nil, fmt.Errorf("failed to post invoice %s: %w", invoice.InvoiceID, err)
	}

	s.LogInfo(ctx, "Invoice posted",
		append(logAttrs,
			slog.String("entry_id", entry.EntryID),
			slog.String("amount", amount.String()),
			slog.String("client_balance", newBalance.String()),
			slog.Int("line_count", len(entry.Lines)))...)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.LogWarn(ctx, "Failed to invalidate report cache after posting",
				append(logAttrs, slog.String("error", err.Error()))...)
		}
	}

	s.publishWith(ctx, s.publisher, domain.Event{
		Type:        domain.EventInvoicePosted,
		AggregateID: invoice.InvoiceID,
		RecordID:    entry.EntryID,
		Amount:      amount,
		Reference:   invoice.Number,
		OccurredAt:  now,
	})
	return &domain.PostingResult{Entry: entry}, nil
}

// findPostedEntry returns the entry of an already-posted invoice, or nil when the
// invoice is not posted yet. The locked check inside the posting transaction still
// decides races between concurrent callers.
func (s *postingService) findPostedEntry(ctx context.Context, invoice domain.SalesInvoice) (*domain.JournalEntry, error) {
	stored, err := s.ledgerRepo.FindInvoiceByID(ctx, invoice.InvoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load invoice", slog.String("invoice_id", invoice.InvoiceID))
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoice.InvoiceID, err)
	}
	if !stored.Posted {
		return nil, nil
	}
	if invoice.ClientID != "" && stored.ClientID != invoice.ClientID {
		return nil, fmt.Errorf("%w: invoice %s belongs to client %s", apperrors.ErrConflict, invoice.InvoiceID, stored.ClientID)
	}
	if stored.JournalEntryID == nil {
		return nil, fmt.Errorf("%w: invoice %s is posted without an entry", apperrors.ErrConflict, invoice.InvoiceID)
	}
	entry, err := s.ledgerRepo.FindJournalEntryByID(ctx, *stored.JournalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry of posted invoice %s: %w", invoice.InvoiceID, err)
	}
	return entry, nil
}

// PostSalesInvoiceByID implements portssvc.PostingWriterSvc
func (s *postingService) PostSalesInvoiceByID(ctx context.Context, invoiceID string, userID string) (*domain.PostingResult, error) {
	invoice, err := s.ledgerRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return s.PostSalesInvoice(ctx, *invoice, userID)
}

// GetJournalEntry implements portssvc.PostingReaderSvc
func (s *postingService) GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.ledgerRepo.FindJournalEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load journal entry", slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

func salesInvoiceSourceRef(invoiceID string) string {
	return "sales-invoice:" + invoiceID
}
