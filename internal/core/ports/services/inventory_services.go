package services

import (
	"context"

	"github.com/philodia/gescom-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryWriterSvc defines the stock-changing operations of the movement engine.
type InventoryWriterSvc interface {
	// RecordMovement applies a signed quantity change to a product and records it.
	RecordMovement(ctx context.Context, productID string, signedQty decimal.Decimal, movementType domain.MovementType, meta domain.MovementMetadata) (*domain.StockMovement, error)

	// StockIn records an incoming movement of a positive quantity. An empty type means PURCHASE_IN.
	StockIn(ctx context.Context, productID string, qty decimal.Decimal, movementType domain.MovementType, meta domain.MovementMetadata) (*domain.StockMovement, error)

	// StockOut records an outgoing movement of a positive quantity. An empty type means SALE_OUT.
	StockOut(ctx context.Context, productID string, qty decimal.Decimal, movementType domain.MovementType, meta domain.MovementMetadata) (*domain.StockMovement, error)
}

// InventoryReaderSvc defines read operations on movements.
type InventoryReaderSvc interface {
	// ListMovements returns a page of a product's movements, newest first.
	ListMovements(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error)

	// ReconcileProduct compares the stored quantity with the sum of the product's movements.
	ReconcileProduct(ctx context.Context, productID string) (*domain.StockReconciliation, error)
}

// InventorySvcFacade combines all inventory service interfaces
type InventorySvcFacade interface {
	InventoryWriterSvc
	InventoryReaderSvc
}
