package dto

import (
	"time"

	"github.com/philodia/gescom-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineResponse is one debit or credit row of a journal entry.
type EntryLineResponse struct {
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Label       string          `json:"label"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntryResponse is a posted journal entry with its lines and totals.
type JournalEntryResponse struct {
	EntryID     string              `json:"entryID"`
	JournalCode string              `json:"journalCode"`
	EntryDate   time.Time           `json:"entryDate"`
	Label       string              `json:"label"`
	SourceRef   string              `json:"sourceRef"`
	Lines       []EntryLineResponse `json:"lines"`
	TotalDebit  decimal.Decimal     `json:"totalDebit"`
	TotalCredit decimal.Decimal     `json:"totalCredit"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
}

// PostInvoiceResponse is returned by the invoice posting endpoint.
type PostInvoiceResponse struct {
	AlreadyPosted bool                 `json:"alreadyPosted"`
	Entry         JournalEntryResponse `json:"entry"`
}

func ToJournalEntryResponse(e domain.JournalEntry) JournalEntryResponse {
	debit, credit := e.Totals()
	lines := make([]EntryLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = EntryLineResponse{
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Label:       l.Label,
			Debit:       l.Debit,
			Credit:      l.Credit,
		}
	}
	return JournalEntryResponse{
		EntryID:     e.EntryID,
		JournalCode: e.JournalCode,
		EntryDate:   e.EntryDate,
		Label:       e.Label,
		SourceRef:   e.SourceRef,
		Lines:       lines,
		TotalDebit:  debit,
		TotalCredit: credit,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

func ToPostInvoiceResponse(r domain.PostingResult) PostInvoiceResponse {
	return PostInvoiceResponse{
		AlreadyPosted: r.AlreadyPosted,
		Entry:         ToJournalEntryResponse(r.Entry),
	}
}
