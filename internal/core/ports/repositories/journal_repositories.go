package repositories

import (
	"context"

	"github.com/philodia/gescom-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations on postings and their source documents.
type LedgerReader interface {
	// FindJournalEntryByID retrieves an entry with its lines.
	FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindInvoiceByID retrieves a sales invoice with its lines.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.SalesInvoice, error)

	// FindClientByID retrieves a counterparty.
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
}

// LedgerTx is the set of operations available inside a posting transaction.
type LedgerTx interface {
	// LockInvoice loads the invoice header and holds its row lock until the transaction ends.
	LockInvoice(ctx context.Context, invoiceID string) (*domain.SalesInvoice, error)

	// FindJournalEntryByID reads an entry with its lines using the transaction.
	FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// InsertJournalEntry persists an entry and all of its lines.
	InsertJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// IncrementClientBalance adds delta to the counterparty balance and returns the new balance.
	IncrementClientBalance(ctx context.Context, clientID string, delta decimal.Decimal) (decimal.Decimal, error)

	// MarkInvoicePosted sets the posted flag and the entry link of an invoice.
	MarkInvoicePosted(ctx context.Context, invoiceID string, entryID string) error
}

// LedgerStore combines ledger reads with the transactional boundary of the posting engine.
type LedgerStore interface {
	LedgerReader
	TxRunner[LedgerTx]
}
