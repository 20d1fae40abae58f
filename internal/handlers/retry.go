package handlers

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/philodia/gescom-core/internal/apperrors"
)

// RetryPolicy bounds the retries of units of work aborted by lock conflicts.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
}

// NoRetry runs every operation exactly once.
var NoRetry = RetryPolicy{}

// withRetry runs op and runs it again while it fails with a retryable transaction abort.
// Any other error stops the loop at once.
func withRetry[T any](ctx context.Context, policy RetryPolicy, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		b.InitialInterval = policy.InitialInterval
	}
	b.MaxElapsedTime = 0

	return backoff.RetryWithData(func() (T, error) {
		res, err := op()
		if err != nil && !apperrors.IsRetryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}, backoff.WithContext(backoff.WithMaxRetries(b, policy.MaxRetries), ctx))
}
