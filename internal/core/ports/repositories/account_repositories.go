package repositories

import (
	"context"

	"github.com/philodia/gescom-core/internal/core/domain"
)

// ReferenceDataReader defines read operations on the chart of accounts and journals.
// Reference data is owned by another module; this core never writes it.
type ReferenceDataReader interface {
	// FindAccountByCode retrieves an account by its chart code. Fails with apperrors.ErrNotFound.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindJournalByCode retrieves a journal by its code. Fails with apperrors.ErrNotFound.
	FindJournalByCode(ctx context.Context, code string) (*domain.Journal, error)
}
