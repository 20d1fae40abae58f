package repositories

import "context"

// TxRunner runs fn inside one store transaction. The unit commits only when fn
// returns nil; any error from fn, begin or commit leaves the store unchanged.
// Begin and commit failures are reported as *apperrors.TxAbortedError.
type TxRunner[T any] interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx T) error) error
}
