package memory

import (
	"context"
	"time"

	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
)

type reportingRepository struct {
	store *Store
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) ListInvoicesForReport(_ context.Context, from, to time.Time, statuses []domain.DocumentStatus) ([]domain.SalesInvoice, error) {
	allowed := make(map[domain.DocumentStatus]bool, len(statuses))
	for _, st := range statuses {
		allowed[st] = true
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.SalesInvoice, 0)
	for _, inv := range r.store.invoices {
		if !allowed[inv.Status] || inv.IssueDate.Before(from) || inv.IssueDate.After(to) {
			continue
		}
		out = append(out, cloneInvoice(inv))
	}
	return out, nil
}

func (r *reportingRepository) FindClientNames(_ context.Context, clientIDs []string) (map[string]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	names := make(map[string]string, len(clientIDs))
	for _, id := range clientIDs {
		if c, ok := r.store.clients[id]; ok {
			names[id] = c.Name
		}
	}
	return names, nil
}

func (r *reportingRepository) FindProductNames(_ context.Context, productIDs []string) (map[string]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	names := make(map[string]string, len(productIDs))
	for _, id := range productIDs {
		if p, ok := r.store.products[id]; ok {
			names[id] = p.Name
		}
	}
	return names, nil
}
