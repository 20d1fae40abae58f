// Package memory provides an in-process implementation of the repository ports.
// It backs the engine tests and the STORE_DRIVER=memory mode.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/philodia/gescom-core/internal/apperrors"
	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
)

type sequencedMovement struct {
	seq      int64
	movement domain.StockMovement
}

// Store holds every record in maps guarded by mu. Transactions are serialized by
// txMu, which stands in for the row locks of the Postgres store, and their writes
// are staged and applied together on commit.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	accounts  map[string]domain.Account // by code
	journals  map[string]domain.Journal // by code
	products  map[string]domain.Product
	movements map[string][]sequencedMovement // by product, oldest first
	movSeq    int64
	clients   map[string]domain.Client
	invoices  map[string]domain.SalesInvoice
	entries   map[string]domain.JournalEntry
	sourceRef map[string]string // source ref -> entry ID

	commitErr error
}

// New creates an empty store.
func New() *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		journals:  make(map[string]domain.Journal),
		products:  make(map[string]domain.Product),
		movements: make(map[string][]sequencedMovement),
		clients:   make(map[string]domain.Client),
		invoices:  make(map[string]domain.SalesInvoice),
		entries:   make(map[string]domain.JournalEntry),
		sourceRef: make(map[string]string),
	}
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ReferenceRepo: &referenceRepository{store: s},
		InventoryRepo: &inventoryRepository{store: s},
		LedgerRepo:    &ledgerRepository{store: s},
		ReportingRepo: &reportingRepository{store: s},
	}
}

// SeedDefaultChart inserts the sales journal and the accounts used by sales postings.
func (s *Store) SeedDefaultChart() {
	s.AddJournal(domain.Journal{JournalID: uuid.NewString(), Code: "VE", Name: "Sales"})
	s.AddAccount(domain.Account{AccountID: uuid.NewString(), Code: "411000", Name: "Clients", AccountType: domain.Asset, IsActive: true})
	s.AddAccount(domain.Account{AccountID: uuid.NewString(), Code: "701000", Name: "Sales of finished goods", AccountType: domain.Revenue, IsActive: true})
	s.AddAccount(domain.Account{AccountID: uuid.NewString(), Code: "443000", Name: "VAT collected", AccountType: domain.Liability, IsActive: true})
}

// AddAccount inserts or replaces an account.
func (s *Store) AddAccount(a domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.Code] = a
}

// AddJournal inserts or replaces a journal.
func (s *Store) AddJournal(j domain.Journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journals[j.Code] = j
}

// AddProduct inserts or replaces a product. A non-zero opening quantity is
// recorded as an ADJUSTMENT_IN movement so the product reconciles.
func (s *Store) AddProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ProductID] = p
	if p.QuantityOnHand.IsPositive() {
		s.movSeq++
		s.movements[p.ProductID] = append(s.movements[p.ProductID], sequencedMovement{
			seq: s.movSeq,
			movement: domain.StockMovement{
				MovementID:   uuid.NewString(),
				ProductID:    p.ProductID,
				Quantity:     p.QuantityOnHand,
				MovementType: domain.MovementAdjustmentIn,
				Notes:        "opening balance",
				BalanceAfter: p.QuantityOnHand,
			},
		})
	}
}

// AddClient inserts or replaces a client.
func (s *Store) AddClient(c domain.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ClientID] = c
}

// AddInvoice inserts or replaces an invoice.
func (s *Store) AddInvoice(inv domain.SalesInvoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[inv.InvoiceID] = cloneInvoice(inv)
}

// FailNextCommit makes the next transaction fail at commit time with err, leaving the store unchanged.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
}

// txState stages the writes of one transaction.
type txState struct {
	store     *Store
	products  map[string]domain.Product
	movements []domain.StockMovement
	clients   map[string]domain.Client
	invoices  map[string]domain.SalesInvoice
	entries   []domain.JournalEntry
}

// runTx serializes fn against every other transaction and applies its staged
// writes only when fn and the commit both succeed.
func (s *Store) runTx(ctx context.Context, fn func(ctx context.Context, st *txState) error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewPermanentAbort("begin transaction", err)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	st := &txState{
		store:    s,
		products: make(map[string]domain.Product),
		clients:  make(map[string]domain.Client),
		invoices: make(map[string]domain.SalesInvoice),
	}
	if err := fn(ctx, st); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return apperrors.NewPermanentAbort("commit transaction", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.commitErr != nil {
		err := s.commitErr
		s.commitErr = nil
		return err
	}

	for id, p := range st.products {
		s.products[id] = p
	}
	for _, m := range st.movements {
		s.movSeq++
		s.movements[m.ProductID] = append(s.movements[m.ProductID], sequencedMovement{seq: s.movSeq, movement: m})
	}
	for id, c := range st.clients {
		s.clients[id] = c
	}
	for id, inv := range st.invoices {
		s.invoices[id] = inv
	}
	for _, e := range st.entries {
		s.entries[e.EntryID] = cloneEntry(e)
		s.sourceRef[e.SourceRef] = e.EntryID
	}
	return nil
}

func (st *txState) product(id string) (domain.Product, bool) {
	if p, ok := st.products[id]; ok {
		return p, true
	}
	st.store.mu.RLock()
	defer st.store.mu.RUnlock()
	p, ok := st.store.products[id]
	return p, ok
}

func (st *txState) client(id string) (domain.Client, bool) {
	if c, ok := st.clients[id]; ok {
		return c, true
	}
	st.store.mu.RLock()
	defer st.store.mu.RUnlock()
	c, ok := st.store.clients[id]
	return c, ok
}

func (st *txState) invoice(id string) (domain.SalesInvoice, bool) {
	if inv, ok := st.invoices[id]; ok {
		return inv, true
	}
	st.store.mu.RLock()
	defer st.store.mu.RUnlock()
	inv, ok := st.store.invoices[id]
	return cloneInvoice(inv), ok
}

func (st *txState) entry(id string) (domain.JournalEntry, bool) {
	for _, e := range st.entries {
		if e.EntryID == id {
			return cloneEntry(e), true
		}
	}
	st.store.mu.RLock()
	defer st.store.mu.RUnlock()
	e, ok := st.store.entries[id]
	return cloneEntry(e), ok
}

func (st *txState) movementSum(productID string) (decimal.Decimal, int) {
	sum, count := decimal.Zero, 0
	st.store.mu.RLock()
	for _, m := range st.store.movements[productID] {
		sum = sum.Add(m.movement.Quantity)
		count++
	}
	st.store.mu.RUnlock()
	for _, m := range st.movements {
		if m.ProductID == productID {
			sum = sum.Add(m.Quantity)
			count++
		}
	}
	return sum, count
}

func cloneInvoice(inv domain.SalesInvoice) domain.SalesInvoice {
	if inv.Lines != nil {
		inv.Lines = append([]domain.InvoiceLine(nil), inv.Lines...)
	}
	if inv.JournalEntryID != nil {
		id := *inv.JournalEntryID
		inv.JournalEntryID = &id
	}
	return inv
}

func cloneEntry(e domain.JournalEntry) domain.JournalEntry {
	if e.Lines != nil {
		e.Lines = append([]domain.EntryLine(nil), e.Lines...)
	}
	return e
}
