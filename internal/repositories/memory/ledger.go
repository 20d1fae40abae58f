package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
)

type ledgerRepository struct {
	store *Store
}

var _ portsrepo.LedgerStore = (*ledgerRepository)(nil)

func (r *ledgerRepository) FindJournalEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	e, ok := r.store.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	e = cloneEntry(e)
	return &e, nil
}

func (r *ledgerRepository) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.SalesInvoice, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	inv, ok := r.store.invoices[invoiceID]
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", invoiceID, apperrors.ErrNotFound)
	}
	inv = cloneInvoice(inv)
	return &inv, nil
}

func (r *ledgerRepository) FindClientByID(_ context.Context, clientID string) (*domain.Client, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %s: %w", clientID, apperrors.ErrNotFound)
	}
	return &c, nil
}

func (r *ledgerRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return r.store.runTx(ctx, func(ctx context.Context, st *txState) error {
		return fn(ctx, &ledgerTx{st: st})
	})
}

type ledgerTx struct {
	st *txState
}

func (t *ledgerTx) LockInvoice(_ context.Context, invoiceID string) (*domain.SalesInvoice, error) {
	inv, ok := t.st.invoice(invoiceID)
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", invoiceID, apperrors.ErrNotFound)
	}
	return &inv, nil
}

func (t *ledgerTx) FindJournalEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	e, ok := t.st.entry(entryID)
	if !ok {
		return nil, fmt.Errorf("journal entry %s: %w", entryID, apperrors.ErrNotFound)
	}
	return &e, nil
}

func (t *ledgerTx) InsertJournalEntry(_ context.Context, entry domain.JournalEntry) error {
	t.st.store.mu.RLock()
	_, exists := t.st.store.sourceRef[entry.SourceRef]
	t.st.store.mu.RUnlock()
	for _, staged := range t.st.entries {
		if staged.SourceRef == entry.SourceRef {
			exists = true
		}
	}
	if exists {
		return apperrors.NewAppError(409, "failed to insert journal entry "+entry.SourceRef, apperrors.ErrDuplicate)
	}
	t.st.entries = append(t.st.entries, cloneEntry(entry))
	return nil
}

func (t *ledgerTx) IncrementClientBalance(_ context.Context, clientID string, delta decimal.Decimal) (decimal.Decimal, error) {
	c, ok := t.st.client(clientID)
	if !ok {
		return decimal.Zero, fmt.Errorf("client %s: %w", clientID, apperrors.ErrNotFound)
	}
	c.Balance = c.Balance.Add(delta)
	t.st.clients[clientID] = c
	return c.Balance, nil
}

func (t *ledgerTx) MarkInvoicePosted(_ context.Context, invoiceID string, entryID string) error {
	inv, ok := t.st.invoice(invoiceID)
	if !ok {
		return fmt.Errorf("invoice %s: %w", invoiceID, apperrors.ErrNotFound)
	}
	inv.Posted = true
	inv.JournalEntryID = &entryID
	t.st.invoices[invoiceID] = inv
	return nil
}
