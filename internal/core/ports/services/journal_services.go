package services

import (
	"context"

	"github.com/philodia/gescom-core/internal/core/domain"
)

// PostingWriterSvc defines the posting operations of the ledger engine.
type PostingWriterSvc interface {
	// PostSalesInvoice records the journal entry of a finalized sales invoice exactly once.
	// A second call returns the original entry with AlreadyPosted set.
	PostSalesInvoice(ctx context.Context, invoice domain.SalesInvoice, userID string) (*domain.PostingResult, error)

	// PostSalesInvoiceByID loads the invoice from the store and posts it.
	PostSalesInvoiceByID(ctx context.Context, invoiceID string, userID string) (*domain.PostingResult, error)
}

// PostingReaderSvc defines read operations on posted entries.
type PostingReaderSvc interface {
	// GetJournalEntry retrieves an entry with its lines.
	GetJournalEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
}

// PostingSvcFacade combines all posting service interfaces
type PostingSvcFacade interface {
	PostingWriterSvc
	PostingReaderSvc
}
