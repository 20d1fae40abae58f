package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
	"github.com/philodia/gescom-core/internal/utils/pagination"
)

type inventoryRepository struct {
	store *Store
}

var _ portsrepo.InventoryStore = (*inventoryRepository)(nil)

func (r *inventoryRepository) FindProductByID(_ context.Context, productID string) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, apperrors.ErrNotFound)
	}
	return &p, nil
}

func (r *inventoryRepository) ListMovementsByProduct(_ context.Context, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	var after int64 = -1
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeMovementToken(*nextToken, productID)
		if err != nil {
			return nil, nil, err
		}
		after = seq
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := r.store.movements[productID]

	page := make([]domain.StockMovement, 0, limit)
	var lastSeq int64
	hasMore := false
	for i := len(all) - 1; i >= 0; i-- {
		if after >= 0 && all[i].seq >= after {
			continue
		}
		if len(page) == limit {
			hasMore = true
			break
		}
		page = append(page, all[i].movement)
		lastSeq = all[i].seq
	}

	if !hasMore {
		return page, nil, nil
	}
	token := pagination.EncodeMovementToken(productID, lastSeq)
	return page, &token, nil
}

func (r *inventoryRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.InventoryTx) error) error {
	return r.store.runTx(ctx, func(ctx context.Context, st *txState) error {
		return fn(ctx, &inventoryTx{st: st})
	})
}

type inventoryTx struct {
	st *txState
}

func (t *inventoryTx) LockProduct(_ context.Context, productID string) (*domain.Product, error) {
	p, ok := t.st.product(productID)
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, apperrors.ErrNotFound)
	}
	return &p, nil
}

func (t *inventoryTx) SetProductQuantity(_ context.Context, productID string, quantity decimal.Decimal) error {
	p, ok := t.st.product(productID)
	if !ok {
		return fmt.Errorf("product %s: %w", productID, apperrors.ErrNotFound)
	}
	p.QuantityOnHand = quantity
	t.st.products[productID] = p
	return nil
}

func (t *inventoryTx) InsertStockMovement(_ context.Context, movement domain.StockMovement) error {
	t.st.movements = append(t.st.movements, movement)
	return nil
}

func (t *inventoryTx) SumMovementsByProduct(_ context.Context, productID string) (decimal.Decimal, int, error) {
	sum, count := t.st.movementSum(productID)
	return sum, count, nil
}
