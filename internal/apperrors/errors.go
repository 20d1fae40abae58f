package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of the resource.
var ErrConflict = errors.New("resource state conflict")

// ErrInternal indicates an unexpected failure inside the application.
var ErrInternal = errors.New("internal error")

// ErrImbalance indicates a journal entry whose debits and credits differ beyond the rounding tolerance.
var ErrImbalance = errors.New("journal entry does not balance")

// ErrInsufficientStock indicates a movement would drive a product's quantity on hand below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrAlreadyPosted indicates the source document was already posted.
// Posting engines treat it as an idempotent success, never as a failure.
var ErrAlreadyPosted = errors.New("document already posted")

// ErrTransactionAborted indicates the underlying store could not commit.
var ErrTransactionAborted = errors.New("transaction aborted")

// AppError carries an HTTP-ish status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// TxAbortedError reports a store transaction that did not commit.
// Retryable is set for conflicts (serialization failure, deadlock, lock timeout)
// where re-running the whole operation may succeed; everything else is permanent.
type TxAbortedError struct {
	Retryable bool
	Op        string
	Err       error
}

// NewRetryableAbort wraps err as a transient abort.
func NewRetryableAbort(op string, err error) *TxAbortedError {
	return &TxAbortedError{Retryable: true, Op: op, Err: err}
}

// NewPermanentAbort wraps err as an abort that retrying will not fix.
func NewPermanentAbort(op string, err error) *TxAbortedError {
	return &TxAbortedError{Retryable: false, Op: op, Err: err}
}

func (e *TxAbortedError) Error() string {
	kind := "permanent"
	if e.Retryable {
		kind = "retryable"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s (%s): %s", ErrTransactionAborted.Error(), kind, e.Op)
	}
	return fmt.Sprintf("%s (%s): %s: %v", ErrTransactionAborted.Error(), kind, e.Op, e.Err)
}

func (e *TxAbortedError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransactionAborted) match any TxAbortedError.
func (e *TxAbortedError) Is(target error) bool {
	return target == ErrTransactionAborted
}

// IsRetryable reports whether err is a transaction abort that may succeed when re-run.
// Validation, not-found, imbalance and stock errors are permanent.
func IsRetryable(err error) bool {
	var abort *TxAbortedError
	if errors.As(err, &abort) {
		return abort.Retryable
	}
	return false
}
