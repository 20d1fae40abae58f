package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
)

// PgxReferenceRepository reads the chart of accounts and the journals.
type PgxReferenceRepository struct {
	BaseRepository
}

func newPgxReferenceRepository(pool *pgxpool.Pool) portsrepo.ReferenceDataReader {
	return &PgxReferenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReferenceDataReader = (*PgxReferenceRepository)(nil)

// FindAccountByCode retrieves an account by its chart code.
func (r *PgxReferenceRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `
		SELECT account_id, code, name, account_type, is_active
		FROM accounts
		WHERE code = $1;
	`
	var acc domain.Account
	err := r.Pool.QueryRow(ctx, query, code).Scan(
		&acc.AccountID,
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&acc.IsActive,
	)
	if err != nil {
		return nil, mapQueryError("failed to find account "+code, err)
	}
	return &acc, nil
}

// FindJournalByCode retrieves a journal by its code.
func (r *PgxReferenceRepository) FindJournalByCode(ctx context.Context, code string) (*domain.Journal, error) {
	query := `
		SELECT journal_id, code, name
		FROM journals
		WHERE code = $1;
	`
	var j domain.Journal
	if err := r.Pool.QueryRow(ctx, query, code).Scan(&j.JournalID, &j.Code, &j.Name); err != nil {
		return nil, mapQueryError("failed to find journal "+code, err)
	}
	return &j, nil
}
