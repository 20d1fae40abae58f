package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
)

const (
	defaultMovementPageSize = 50
	maxMovementPageSize     = 200
)

// inventoryService is the movement engine. Conflicting movements on one product
// serialize on the store's product row lock; the service itself holds no lock.
type inventoryService struct {
	BaseService
	inventoryRepo portsrepo.InventoryStore
	publisher     portssvc.EventPublisher
	now           func() time.Time
}

// InventoryServiceOption is a functional option for configuring the inventory service
type InventoryServiceOption func(*inventoryService)

// WithInventoryEventPublisher sets the publisher notified after each committed movement.
func WithInventoryEventPublisher(p portssvc.EventPublisher) InventoryServiceOption {
	return func(s *inventoryService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithInventoryClock overrides the time source used to stamp movements.
func WithInventoryClock(now func() time.Time) InventoryServiceOption {
	return func(s *inventoryService) {
		s.now = now
	}
}

// NewInventoryService creates a new inventory service with the provided options
func NewInventoryService(repo portsrepo.InventoryStore, options ...InventoryServiceOption) portssvc.InventorySvcFacade {
	svc := &inventoryService{
		inventoryRepo: repo,
		publisher:     portssvc.NoopPublisher{},
		now:           time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// RecordMovement implements portssvc.InventoryWriterSvc
func (s *inventoryService) RecordMovement(ctx context.Context, productID string, signedQty decimal.Decimal, movementType domain.MovementType, meta domain.MovementMetadata) (*domain.StockMovement, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product ID is required", apperrors.ErrValidation)
	}
	if signedQty.IsZero() {
		return nil, fmt.Errorf("%w: movement quantity must not be zero", apperrors.ErrValidation)
	}
	if !domain.FitsQuantityScale(signedQty) {
		return nil, fmt.Errorf("%w: quantity %s has more than %d decimal places", apperrors.ErrValidation, signedQty, domain.QuantityPlaces)
	}
	if !movementType.IsValid() {
		return nil, fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, movementType)
	}
	if !movementType.AllowsSign(signedQty) {
		return nil, fmt.Errorf("%w: quantity %s contradicts the direction of movement type %s", apperrors.ErrValidation, signedQty, movementType)
	}

	movement := domain.StockMovement{
		MovementID:   uuid.NewString(),
		ProductID:    productID,
		Quantity:     signedQty,
		MovementType: movementType,
		DocumentRef:  strings.TrimSpace(meta.DocumentRef),
		Notes:        meta.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt: s.now().UTC(),
			CreatedBy: meta.UserID,
		},
	}

	err := s.inventoryRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.InventoryTx) error {
		product, err := tx.LockProduct(ctx, productID)
		if err != nil {
			return err
		}

		newQty := product.QuantityOnHand.Add(signedQty)
		if newQty.IsNegative() {
			return fmt.Errorf("%w: product %s has %s on hand, %s requested",
				apperrors.ErrInsufficientStock, productID, product.QuantityOnHand, signedQty.Neg())
		}

		if err := tx.SetProductQuantity(ctx, productID, newQty); err != nil {
			return err
		}
		movement.BalanceAfter = newQty
		return tx.InsertStockMovement(ctx, movement)
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientStock), errors.Is(err, apperrors.ErrNotFound):
			s.LogWarn(ctx, "Stock movement refused",
				slog.String("product_id", productID),
				slog.String("movement_type", string(movementType)),
				slog.String("quantity", signedQty.String()),
				slog.String("reason", err.Error()))
		default:
			s.LogError(ctx, err, "Failed to record stock movement",
				slog.String("product_id", productID),
				slog.String("movement_type", string(movementType)))
		}
		return nil, fmt.Errorf("failed to record movement for product %s: %w", productID, err)
	}

	s.LogInfo(ctx, "Stock movement recorded",
		slog.String("movement_id", movement.MovementID),
		slog.String("product_id", productID),
		slog.String("movement_type", string(movementType)),
		slog.String("quantity", signedQty.String()),
		slog.String("balance_after", movement.BalanceAfter.String()))

	s.publish(ctx, domain.Event{
		Type:        domain.EventStockMoved,
		AggregateID: productID,
		RecordID:    movement.MovementID,
		Amount:      signedQty,
		Reference:   movement.DocumentRef,
		OccurredAt:  movement.CreatedAt,
	})
	return &movement, nil
}

// StockIn implements portssvc.InventoryWriterSvc
func (s *inventoryService) StockIn(ctx context.Context, productID string, qty decimal.Decimal, movementType domain.MovementType, meta domain.MovementMetadata) (*domain.StockMovement, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: stock-in quantity must be positive", apperrors.ErrValidation)
	}
	if movementType == "" {
		movementType = domain.MovementPurchaseIn
	}
	return s.RecordMovement(ctx, productID, qty, movementType, meta)
}

// StockOut implements portssvc.InventoryWriterSvc
func (s *inventoryService) StockOut(ctx context.Context, productID string, qty decimal.Decimal, movementType domain.MovementType, meta domain.MovementMetadata) (*domain.StockMovement, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: stock-out quantity must be positive", apperrors.ErrValidation)
	}
	if movementType == "" {
		movementType = domain.MovementSaleOut
	}
	return s.RecordMovement(ctx, productID, qty.Neg(), movementType, meta)
}

// ListMovements implements portssvc.InventoryReaderSvc
func (s *inventoryService) ListMovements(ctx context.Context, productID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	if limit <= 0 {
		limit = defaultMovementPageSize
	}
	if limit > maxMovementPageSize {
		limit = maxMovementPageSize
	}

	if _, err := s.inventoryRepo.FindProductByID(ctx, productID); err != nil {
		return nil, nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}

	movements, next, err := s.inventoryRepo.ListMovementsByProduct(ctx, productID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list stock movements", slog.String("product_id", productID))
		return nil, nil, fmt.Errorf("failed to list movements for product %s: %w", productID, err)
	}

	s.LogDebug(ctx, "Stock movements listed",
		slog.String("product_id", productID),
		slog.Int("count", len(movements)))
	return movements, next, nil
}

// ReconcileProduct implements portssvc.InventoryReaderSvc
func (s *inventoryService) ReconcileProduct(ctx context.Context, productID string) (*domain.StockReconciliation, error) {
	var result domain.StockReconciliation

	err := s.inventoryRepo.WithinTx(ctx, func(ctx context.Context, tx portsrepo.InventoryTx) error {
		product, err := tx.LockProduct(ctx, productID)
		if err != nil {
			return err
		}
		sum, count, err := tx.SumMovementsByProduct(ctx, productID)
		if err != nil {
			return err
		}
		result = domain.StockReconciliation{
			ProductID:      productID,
			QuantityOnHand: product.QuantityOnHand,
			MovementSum:    sum,
			MovementCount:  count,
			Balanced:       product.QuantityOnHand.Equal(sum),
			CheckedAt:      s.now().UTC(),
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to reconcile product", slog.String("product_id", productID))
		}
		return nil, fmt.Errorf("failed to reconcile product %s: %w", productID, err)
	}

	if !result.Balanced {
		s.LogWarn(ctx, "Product quantity does not match its movements",
			slog.String("product_id", productID),
			slog.String("quantity_on_hand", result.QuantityOnHand.String()),
			slog.String("movement_sum", result.MovementSum.String()))
	}
	return &result, nil
}

func (s *inventoryService) publish(ctx context.Context, event domain.Event) {
	s.publishWith(ctx, s.publisher, event)
}
