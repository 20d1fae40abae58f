package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement. Every type has a fixed direction.
type MovementType string

const (
	MovementPurchaseIn        MovementType = "PURCHASE_IN"
	MovementSaleOut           MovementType = "SALE_OUT"
	MovementCustomerReturnIn  MovementType = "CUSTOMER_RETURN_IN"
	MovementSupplierReturnOut MovementType = "SUPPLIER_RETURN_OUT"
	MovementAdjustmentIn      MovementType = "ADJUSTMENT_IN"
	MovementAdjustmentOut     MovementType = "ADJUSTMENT_OUT"
	MovementTransferIn        MovementType = "TRANSFER_IN"
	MovementTransferOut       MovementType = "TRANSFER_OUT"
)

// IsValid returns true if the movement type is known.
func (t MovementType) IsValid() bool {
	return t.IsIncrease() || t.IsDecrease()
}

// IsIncrease returns true if this movement type adds stock.
func (t MovementType) IsIncrease() bool {
	switch t {
	case MovementPurchaseIn, MovementCustomerReturnIn, MovementAdjustmentIn, MovementTransferIn:
		return true
	}
	return false
}

// IsDecrease returns true if this movement type removes stock.
func (t MovementType) IsDecrease() bool {
	switch t {
	case MovementSaleOut, MovementSupplierReturnOut, MovementAdjustmentOut, MovementTransferOut:
		return true
	}
	return false
}

// AllowsSign reports whether a signed quantity matches the direction of the type.
func (t MovementType) AllowsSign(qty decimal.Decimal) bool {
	if qty.IsPositive() {
		return t.IsIncrease()
	}
	if qty.IsNegative() {
		return t.IsDecrease()
	}
	return false
}

// Product carries the on-hand quantity. QuantityOnHand is never negative and is
// changed only through stock movements.
type Product struct {
	ProductID      string          `json:"productID"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	QuantityOnHand decimal.Decimal `json:"quantityOnHand"`
	IsActive       bool            `json:"isActive"`
}

// MovementMetadata is the optional audit information attached to a movement.
type MovementMetadata struct {
	DocumentRef string `json:"documentRef,omitempty"`
	Notes       string `json:"notes,omitempty"`
	UserID      string `json:"userID,omitempty"`
}

// StockMovement is an immutable, signed change of a product's on-hand quantity.
type StockMovement struct {
	MovementID   string          `json:"movementID"`
	ProductID    string          `json:"productID"`
	Quantity     decimal.Decimal `json:"quantity"` // Signed: positive in, negative out
	MovementType MovementType    `json:"movementType"`
	DocumentRef  string          `json:"documentRef,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	AuditFields
}

// StockReconciliation compares a product's stored quantity with the sum of its movements.
type StockReconciliation struct {
	ProductID      string          `json:"productID"`
	QuantityOnHand decimal.Decimal `json:"quantityOnHand"`
	MovementSum    decimal.Decimal `json:"movementSum"`
	MovementCount  int             `json:"movementCount"`
	Balanced       bool            `json:"balanced"`
	CheckedAt      time.Time       `json:"checkedAt"`
}

// QuantityPlaces is the number of decimal places stored for stock quantities.
const QuantityPlaces int32 = 4

// FitsQuantityScale reports whether q is representable with QuantityPlaces decimals.
func FitsQuantityScale(q decimal.Decimal) bool {
	return q.Equal(q.Round(QuantityPlaces))
}
