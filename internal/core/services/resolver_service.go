package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
)

// resolverService caches reference records by code for the life of the process.
// Only successful lookups are cached; Reload empties both caches.
type resolverService struct {
	BaseService
	refRepo portsrepo.ReferenceDataReader

	mu         sync.RWMutex
	generation uint64 // Bumped by Reload so in-flight fills do not repopulate a cleared cache
	accounts   map[string]domain.Account
	journals   map[string]domain.Journal

	group singleflight.Group
}

// NewResolverService creates a new ResolverSvc backed by refRepo.
func NewResolverService(refRepo portsrepo.ReferenceDataReader) portssvc.ResolverSvc {
	return &resolverService{
		refRepo:  refRepo,
		accounts: make(map[string]domain.Account),
		journals: make(map[string]domain.Journal),
	}
}

var _ portssvc.ResolverSvc = (*resolverService)(nil)

// ResolveAccount implements portssvc.ResolverSvc
func (s *resolverService) ResolveAccount(ctx context.Context, code string) (*domain.Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}

	s.mu.RLock()
	acc, ok := s.accounts[code]
	gen := s.generation
	s.mu.RUnlock()
	if ok {
		return &acc, nil
	}

	v, err := s.fill(ctx, "account:"+code, func(ctx context.Context) (any, error) {
		found, err := s.refRepo.FindAccountByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if s.generation == gen {
			s.accounts[code] = *found
		}
		s.mu.Unlock()
		s.LogDebug(ctx, "Account cached", slog.String("account_code", code))
		return *found, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account %s: %w", code, err)
	}

	resolved := v.(domain.Account)
	return &resolved, nil
}

// ResolveJournal implements portssvc.ResolverSvc
func (s *resolverService) ResolveJournal(ctx context.Context, code string) (*domain.Journal, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: journal code is required", apperrors.ErrValidation)
	}

	s.mu.RLock()
	j, ok := s.journals[code]
	gen := s.generation
	s.mu.RUnlock()
	if ok {
		return &j, nil
	}

	v, err := s.fill(ctx, "journal:"+code, func(ctx context.Context) (any, error) {
		found, err := s.refRepo.FindJournalByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if s.generation == gen {
			s.journals[code] = *found
		}
		s.mu.Unlock()
		s.LogDebug(ctx, "Journal cached", slog.String("journal_code", code))
		return *found, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve journal %s: %w", code, err)
	}

	resolved := v.(domain.Journal)
	return &resolved, nil
}

// fill runs one shared lookup per key. The lookup is detached from the caller's
// cancellation so one caller giving up does not fail the others waiting on it.
func (s *resolverService) fill(ctx context.Context, key string, lookup func(context.Context) (any, error)) (any, error) {
	fillCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return lookup(fillCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Reload implements portssvc.ResolverSvc
func (s *resolverService) Reload(ctx context.Context) error {
	s.mu.Lock()
	accounts, journals := len(s.accounts), len(s.journals)
	s.accounts = make(map[string]domain.Account)
	s.journals = make(map[string]domain.Journal)
	s.generation++
	s.mu.Unlock()

	s.LogInfo(ctx, "Reference data cache cleared",
		slog.Int("accounts_dropped", accounts),
		slog.Int("journals_dropped", journals))
	return nil
}
