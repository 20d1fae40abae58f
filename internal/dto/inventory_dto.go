package dto

import (
	"time"

	"github.com/philodia/gescom-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest records a signed quantity change of a given type.
type RecordMovementRequest struct {
	Quantity     decimal.Decimal     `json:"quantity" binding:"decimal_nonzero"`
	MovementType domain.MovementType `json:"movementType" binding:"required,oneof=PURCHASE_IN SALE_OUT CUSTOMER_RETURN_IN SUPPLIER_RETURN_OUT ADJUSTMENT_IN ADJUSTMENT_OUT TRANSFER_IN TRANSFER_OUT"`
	DocumentRef  string              `json:"documentRef" binding:"max=100"`
	Notes        string              `json:"notes"`
}

// StockChangeRequest is the body of stock-in and stock-out. Quantity is always positive;
// the endpoint decides the direction. An empty type takes the endpoint default.
type StockChangeRequest struct {
	Quantity     decimal.Decimal     `json:"quantity" binding:"decimal_positive"`
	MovementType domain.MovementType `json:"movementType" binding:"omitempty,oneof=PURCHASE_IN SALE_OUT CUSTOMER_RETURN_IN SUPPLIER_RETURN_OUT ADJUSTMENT_IN ADJUSTMENT_OUT TRANSFER_IN TRANSFER_OUT"`
	DocumentRef  string              `json:"documentRef" binding:"max=100"`
	Notes        string              `json:"notes"`
}

// ListMovementsParams are the query parameters of the movement history endpoint.
type ListMovementsParams struct {
	Limit     int     `form:"limit,default=50" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// StockMovementResponse is one recorded movement.
type StockMovementResponse struct {
	MovementID   string              `json:"movementID"`
	ProductID    string              `json:"productID"`
	Quantity     decimal.Decimal     `json:"quantity"`
	MovementType domain.MovementType `json:"movementType"`
	DocumentRef  string              `json:"documentRef,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	BalanceAfter decimal.Decimal     `json:"balanceAfter"`
	CreatedAt    time.Time           `json:"createdAt"`
	CreatedBy    string              `json:"createdBy"`
}

// ListMovementsResponse is a page of movements, newest first.
type ListMovementsResponse struct {
	Movements []StockMovementResponse `json:"movements"`
	NextToken *string                 `json:"nextToken,omitempty"`
}

// ReconciliationResponse compares stored quantity with the movement history.
type ReconciliationResponse struct {
	ProductID      string          `json:"productID"`
	QuantityOnHand decimal.Decimal `json:"quantityOnHand"`
	MovementSum    decimal.Decimal `json:"movementSum"`
	MovementCount  int             `json:"movementCount"`
	Balanced       bool            `json:"balanced"`
	CheckedAt      time.Time       `json:"checkedAt"`
}

func (r RecordMovementRequest) Metadata(userID string) domain.MovementMetadata {
	return domain.MovementMetadata{DocumentRef: r.DocumentRef, Notes: r.Notes, UserID: userID}
}

func (r StockChangeRequest) Metadata(userID string) domain.MovementMetadata {
	return domain.MovementMetadata{DocumentRef: r.DocumentRef, Notes: r.Notes, UserID: userID}
}

func ToStockMovementResponse(m domain.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		MovementID:   m.MovementID,
		ProductID:    m.ProductID,
		Quantity:     m.Quantity,
		MovementType: m.MovementType,
		DocumentRef:  m.DocumentRef,
		Notes:        m.Notes,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
}

func ToListMovementsResponse(movements []domain.StockMovement, nextToken *string) ListMovementsResponse {
	resp := ListMovementsResponse{
		Movements: make([]StockMovementResponse, len(movements)),
		NextToken: nextToken,
	}
	for i, m := range movements {
		resp.Movements[i] = ToStockMovementResponse(m)
	}
	return resp
}

func ToReconciliationResponse(r domain.StockReconciliation) ReconciliationResponse {
	return ReconciliationResponse(r)
}
