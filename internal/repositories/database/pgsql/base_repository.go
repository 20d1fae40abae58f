package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/philodia/gescom-core/internal/apperrors"
)

// SQLSTATE codes that abort a transaction but succeed when the caller retries.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateUniqueViolation      = "23505"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateCheckViolation       = "23514"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// withTx runs fn in a READ COMMITTED transaction. Row locks taken with
// SELECT ... FOR UPDATE inside fn serialize conflicting units of work.
func (r *BaseRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapTxError("begin transaction", err)
	}
	// Will be ignored if transaction is committed successfully
	defer r.rollback(ctx, tx)

	if err := fn(tx); err != nil {
		return abortUnclassified(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapTxError("commit transaction", err)
	}
	return nil
}

// rollback discards an unfinished transaction. After a commit it returns
// pgx.ErrTxClosed, which is expected.
func (r *BaseRepository) rollback(ctx context.Context, tx pgx.Tx) {
	// A cancelled request context must not prevent the rollback
	_ = tx.Rollback(context.WithoutCancel(ctx))
}

// mapTxError classifies a begin or commit failure.
func mapTxError(op string, err error) error {
	if isRetryablePgError(err) {
		return apperrors.NewRetryableAbort(op, err)
	}
	return apperrors.NewPermanentAbort(op, err)
}

// mapQueryError translates a statement failure into the application error taxonomy.
func mapQueryError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	if isRetryablePgError(err) {
		return apperrors.NewRetryableAbort(op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return apperrors.NewAppError(http.StatusConflict, op, fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.ConstraintName))
		case sqlStateForeignKeyViolation:
			return apperrors.NewAppError(http.StatusNotFound, op, fmt.Errorf("%w: %s", apperrors.ErrNotFound, pgErr.ConstraintName))
		case sqlStateCheckViolation:
			return apperrors.NewAppError(http.StatusConflict, op, fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.ConstraintName))
		}
	}
	return apperrors.NewAppError(http.StatusInternalServerError, op, err)
}

// abortUnclassified reports a statement failure inside a transaction that has no
// domain meaning (lost connection, cancelled context, internal error) as a
// permanent abort. Domain refusals and retryable aborts pass through unchanged.
func abortUnclassified(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == http.StatusInternalServerError {
		return apperrors.NewPermanentAbort(appErr.Message, appErr.Err)
	}
	return err
}

func isRetryablePgError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
		return true
	}
	return false
}
