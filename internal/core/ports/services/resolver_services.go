package services

import (
	"context"

	"github.com/philodia/gescom-core/internal/core/domain"
)

// ResolverSvc translates chart and journal codes into reference records.
type ResolverSvc interface {
	// ResolveAccount returns the account with the given code. Fails with apperrors.ErrNotFound.
	ResolveAccount(ctx context.Context, code string) (*domain.Account, error)

	// ResolveJournal returns the journal with the given code. Fails with apperrors.ErrNotFound.
	ResolveJournal(ctx context.Context, code string) (*domain.Journal, error)

	// Reload drops every cached code so the next lookups read the store again.
	Reload(ctx context.Context) error
}
