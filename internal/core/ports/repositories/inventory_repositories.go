package repositories

import (
	"context"

	"github.com/philodia/gescom-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryReader defines read operations on products and their movements.
type InventoryReader interface {
	// FindProductByID retrieves a product without locking it.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// ListMovementsByProduct returns movements of a product, newest first, using token-based pagination.
	// It returns the movements, a token for the next page, and an error.
	ListMovementsByProduct(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error)
}

// InventoryTx is the set of operations available inside an inventory transaction.
type InventoryTx interface {
	// LockProduct loads the product and holds its row lock until the transaction ends.
	LockProduct(ctx context.Context, productID string) (*domain.Product, error)

	// SetProductQuantity stores the new on-hand quantity of a locked product.
	SetProductQuantity(ctx context.Context, productID string, quantity decimal.Decimal) error

	// InsertStockMovement appends a movement record.
	InsertStockMovement(ctx context.Context, movement domain.StockMovement) error

	// SumMovementsByProduct returns the signed sum and the number of a product's movements.
	SumMovementsByProduct(ctx context.Context, productID string) (decimal.Decimal, int, error)
}

// InventoryStore combines inventory reads with the transactional boundary of the movement engine.
type InventoryStore interface {
	InventoryReader
	TxRunner[InventoryTx]
}
