package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is a named ledger stream grouping entries by business process (e.g. "VE" for sales).
type Journal struct {
	JournalID string `json:"journalID"` // Primary Key (e.g., UUID)
	Code      string `json:"code"`      // Unique code, e.g. "VE"
	Name      string `json:"name"`
}

// JournalEntry is one atomic accounting event. It is created once, inside the same
// transaction as the balance and document updates it implies, and never mutated.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`     // Primary Key (e.g., UUID)
	JournalID   string      `json:"journalID"`   // FK -> journals.journal_id
	JournalCode string      `json:"journalCode"` // Denormalized for display
	EntryDate   time.Time   `json:"entryDate"`   // Business date of the event
	Label       string      `json:"label"`
	SourceRef   string      `json:"sourceRef"` // Source document reference, unique per entry
	Lines       []EntryLine `json:"lines"`
	AuditFields
}

// EntryLine is a single debit or credit row of a JournalEntry. Exactly one of
// Debit and Credit is non-zero.
type EntryLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Label       string          `json:"label"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Totals returns the sum of debits and the sum of credits.
func (e *JournalEntry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// IsBalanced reports whether debits and credits agree within BalanceTolerance.
func (e *JournalEntry) IsBalanced() bool {
	debit, credit := e.Totals()
	return debit.Sub(credit).Abs().LessThanOrEqual(BalanceTolerance)
}

// PostingResult is what the posting engine returns. AlreadyPosted is true when the
// source document had been posted before and Entry is the original entry.
type PostingResult struct {
	Entry         JournalEntry `json:"entry"`
	AlreadyPosted bool         `json:"alreadyPosted"`
}
