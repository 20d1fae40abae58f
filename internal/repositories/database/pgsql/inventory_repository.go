package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
	"github.com/philodia/gescom-core/internal/utils/pagination"
)

// PgxInventoryRepository persists products and stock movements.
type PgxInventoryRepository struct {
	BaseRepository
}

func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryStore {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryStore = (*PgxInventoryRepository)(nil)

const productColumns = `product_id, name, sku, quantity_on_hand, is_active`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ProductID, &p.Name, &p.SKU, &p.QuantityOnHand, &p.IsActive); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProductByID retrieves a product without locking it.
func (r *PgxInventoryRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	p, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, mapQueryError("failed to find product "+productID, err)
	}
	return p, nil
}

// ListMovementsByProduct returns a page of movements ordered by insertion, newest first.
func (r *PgxInventoryRepository) ListMovementsByProduct(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	args := []any{productID, limit + 1}
	query := `
		SELECT movement_seq, movement_id, product_id, quantity, movement_type,
		       COALESCE(document_ref, ''), COALESCE(notes, ''), balance_after, created_at, COALESCE(created_by, '')
		FROM stock_movements
		WHERE product_id = $1`
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeMovementToken(*nextToken, productID)
		if err != nil {
			return nil, nil, err
		}
		query += ` AND movement_seq < $3`
		args = append(args, seq)
	}
	query += ` ORDER BY movement_seq DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapQueryError("failed to list movements for product "+productID, err)
	}
	defer rows.Close()

	movements := make([]domain.StockMovement, 0, limit)
	var seqs []int64
	for rows.Next() {
		var seq int64
		var m domain.StockMovement
		if err := rows.Scan(&seq, &m.MovementID, &m.ProductID, &m.Quantity, &m.MovementType,
			&m.DocumentRef, &m.Notes, &m.BalanceAfter, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, nil, mapQueryError("failed to scan movement", err)
		}
		movements = append(movements, m)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapQueryError("failed to iterate movements", err)
	}

	if len(movements) <= limit {
		return movements, nil, nil
	}
	movements = movements[:limit]
	token := pagination.EncodeMovementToken(productID, seqs[limit-1])
	return movements, &token, nil
}

// WithinTx runs fn in one database transaction.
func (r *PgxInventoryRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.InventoryTx) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxInventoryTx{tx: tx})
	})
}

type pgxInventoryTx struct {
	tx pgx.Tx
}

func (t *pgxInventoryTx) LockProduct(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1 FOR UPDATE;`
	p, err := scanProduct(t.tx.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, mapQueryError("failed to lock product "+productID, err)
	}
	return p, nil
}

func (t *pgxInventoryTx) SetProductQuantity(ctx context.Context, productID string, quantity decimal.Decimal) error {
	tag, err := t.tx.Exec(ctx, `UPDATE products SET quantity_on_hand = $2 WHERE product_id = $1;`, productID, quantity)
	if err != nil {
		return mapQueryError("failed to update quantity of product "+productID, err)
	}
	if tag.RowsAffected() == 0 {
		return mapQueryError("failed to update quantity of product "+productID, pgx.ErrNoRows)
	}
	return nil
}

func (t *pgxInventoryTx) InsertStockMovement(ctx context.Context, m domain.StockMovement) error {
	query := `
		INSERT INTO stock_movements (
			movement_id, product_id, quantity, movement_type, document_ref, notes,
			balance_after, created_at, created_by
		)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, NULLIF($9, ''));
	`
	_, err := t.tx.Exec(ctx, query,
		m.MovementID,
		m.ProductID,
		m.Quantity,
		m.MovementType,
		m.DocumentRef,
		m.Notes,
		m.BalanceAfter,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return mapQueryError("failed to insert movement "+m.MovementID, err)
	}
	return nil
}

func (t *pgxInventoryTx) SumMovementsByProduct(ctx context.Context, productID string) (decimal.Decimal, int, error) {
	var sum decimal.Decimal
	var count int
	err := t.tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0), COUNT(*) FROM stock_movements WHERE product_id = $1;`,
		productID,
	).Scan(&sum, &count)
	if err != nil {
		return decimal.Zero, 0, mapQueryError("failed to sum movements of product "+productID, err)
	}
	return sum, count, nil
}
