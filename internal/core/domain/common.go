package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds the creation stamp of append-only records.
// Entries and movements are never updated, so there is no last-updated pair.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"` // UserID Reference
}

// CurrencyPlaces is the number of decimal places of the currency of record.
const CurrencyPlaces int32 = 2

// BalanceTolerance is the largest debit/credit difference accepted for an entry.
var BalanceTolerance = decimal.New(1, -CurrencyPlaces)

// RoundCurrency rounds an amount to the currency of record (half away from zero).
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}
