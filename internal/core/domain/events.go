package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a post-commit notification.
type EventType string

const (
	EventInvoicePosted EventType = "invoice.posted"
	EventStockMoved    EventType = "stock.moved"
)

// Event is published after a posting or movement has committed.
type Event struct {
	Type        EventType       `json:"type"`
	AggregateID string          `json:"aggregateID"` // Invoice or product ID
	RecordID    string          `json:"recordID"`    // Journal entry or movement ID
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
	OccurredAt  time.Time       `json:"occurredAt"`
}
