package memory

import (
	"context"
	"fmt"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
)

type referenceRepository struct {
	store *Store
}

var _ portsrepo.ReferenceDataReader = (*referenceRepository)(nil)

func (r *referenceRepository) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := r.store.accounts[code]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", code, apperrors.ErrNotFound)
	}
	return &a, nil
}

func (r *referenceRepository) FindJournalByCode(_ context.Context, code string) (*domain.Journal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	j, ok := r.store.journals[code]
	if !ok {
		return nil, fmt.Errorf("journal %s: %w", code, apperrors.ErrNotFound)
	}
	return &j, nil
}
