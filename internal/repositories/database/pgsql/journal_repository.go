package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgxLedgerRepository persists journal entries, client balances and the posted state of invoices.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerStore {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerStore = (*PgxLedgerRepository)(nil)

func (r *PgxLedgerRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return findJournalEntry(ctx, r.Pool, entryID)
}

func (r *PgxLedgerRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.SalesInvoice, error) {
	inv, err := scanInvoiceHeader(r.Pool.QueryRow(ctx, invoiceHeaderQuery+` WHERE i.invoice_id = $1;`, invoiceID))
	if err != nil {
		return nil, mapQueryError("failed to find invoice "+invoiceID, err)
	}
	lines, err := findInvoiceLines(ctx, r.Pool, []string{invoiceID})
	if err != nil {
		return nil, err
	}
	inv.Lines = lines[invoiceID]
	return inv, nil
}

func (r *PgxLedgerRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `
		SELECT client_id, name, COALESCE(receivable_account_code, ''), balance, is_active
		FROM clients
		WHERE client_id = $1;
	`
	var c domain.Client
	err := r.Pool.QueryRow(ctx, query, clientID).Scan(
		&c.ClientID,
		&c.Name,
		&c.ReceivableAccountCode,
		&c.Balance,
		&c.IsActive,
	)
	if err != nil {
		return nil, mapQueryError("failed to find client "+clientID, err)
	}
	return &c, nil
}

// WithinTx runs fn in one database transaction.
func (r *PgxLedgerRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxLedgerTx{tx: tx})
	})
}

type pgxLedgerTx struct {
	tx pgx.Tx
}

func (t *pgxLedgerTx) LockInvoice(ctx context.Context, invoiceID string) (*domain.SalesInvoice, error) {
	query := invoiceHeaderQuery + ` WHERE i.invoice_id = $1 FOR UPDATE OF i;`
	inv, err := scanInvoiceHeader(t.tx.QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, mapQueryError("failed to lock invoice "+invoiceID, err)
	}
	return inv, nil
}

func (t *pgxLedgerTx) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return findJournalEntry(ctx, t.tx, entryID)
}

func (t *pgxLedgerTx) InsertJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	entryQuery := `
		INSERT INTO journal_entries (entry_id, journal_id, entry_date, label, source_ref, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''));
	`
	_, err := t.tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.JournalID,
		entry.EntryDate,
		entry.Label,
		entry.SourceRef,
		entry.CreatedAt,
		entry.CreatedBy,
	)
	if err != nil {
		return mapQueryError("failed to insert journal entry "+entry.SourceRef, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, line_no, account_id, label, debit, credit)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, l := range entry.Lines {
		batch.Queue(lineQuery, l.LineID, entry.EntryID, l.LineNo, l.AccountID, l.Label, l.Debit, l.Credit)
	}
	br := t.tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapQueryError("failed to insert lines of journal entry "+entry.EntryID, err)
	}
	return nil
}

func (t *pgxLedgerTx) IncrementClientBalance(ctx context.Context, clientID string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := t.tx.QueryRow(ctx,
		`UPDATE clients SET balance = balance + $2 WHERE client_id = $1 RETURNING balance;`,
		clientID, delta,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, mapQueryError("failed to update balance of client "+clientID, err)
	}
	return balance, nil
}

func (t *pgxLedgerTx) MarkInvoicePosted(ctx context.Context, invoiceID string, entryID string) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE sales_invoices SET posted = TRUE, journal_entry_id = $2 WHERE invoice_id = $1;`,
		invoiceID, entryID,
	)
	if err != nil {
		return mapQueryError("failed to mark invoice "+invoiceID+" as posted", err)
	}
	if tag.RowsAffected() == 0 {
		return mapQueryError("failed to mark invoice "+invoiceID+" as posted", pgx.ErrNoRows)
	}
	return nil
}

func findJournalEntry(ctx context.Context, q querier, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT e.entry_id, e.journal_id, j.code, e.entry_date, e.label, e.source_ref,
		       e.created_at, COALESCE(e.created_by, '')
		FROM journal_entries e
		JOIN journals j ON j.journal_id = e.journal_id
		WHERE e.entry_id = $1;
	`
	var e domain.JournalEntry
	err := q.QueryRow(ctx, query, entryID).Scan(
		&e.EntryID,
		&e.JournalID,
		&e.JournalCode,
		&e.EntryDate,
		&e.Label,
		&e.SourceRef,
		&e.CreatedAt,
		&e.CreatedBy,
	)
	if err != nil {
		return nil, mapQueryError("failed to find journal entry "+entryID, err)
	}

	linesQuery := `
		SELECT l.line_id, l.entry_id, l.line_no, l.account_id, a.code, l.label, l.debit, l.credit
		FROM journal_entry_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.entry_id = $1
		ORDER BY l.line_no;
	`
	rows, err := q.Query(ctx, linesQuery, entryID)
	if err != nil {
		return nil, mapQueryError("failed to list lines of journal entry "+entryID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var l domain.EntryLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.LineNo, &l.AccountID, &l.AccountCode, &l.Label, &l.Debit, &l.Credit); err != nil {
			return nil, mapQueryError("failed to scan entry line", err)
		}
		e.Lines = append(e.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapQueryError("failed to iterate entry lines", err)
	}
	return &e, nil
}

const invoiceHeaderQuery = `
	SELECT i.invoice_id, i.number, i.client_id, c.name, i.issue_date, i.status,
	       i.total_excl_tax, i.total_incl_tax, i.posted, i.journal_entry_id
	FROM sales_invoices i
	JOIN clients c ON c.client_id = i.client_id`

func scanInvoiceHeader(row pgx.Row) (*domain.SalesInvoice, error) {
	var inv domain.SalesInvoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.Number,
		&inv.ClientID,
		&inv.ClientName,
		&inv.IssueDate,
		&inv.Status,
		&inv.TotalExclTax,
		&inv.TotalInclTax,
		&inv.Posted,
		&inv.JournalEntryID,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// findInvoiceLines loads the lines of several invoices in one round trip, keyed by invoice ID.
func findInvoiceLines(ctx context.Context, q querier, invoiceIDs []string) (map[string][]domain.InvoiceLine, error) {
	result := make(map[string][]domain.InvoiceLine, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT l.invoice_id, l.product_id, COALESCE(p.name, ''), l.quantity, l.unit_price, l.tax_rate
		FROM sales_invoice_lines l
		LEFT JOIN products p ON p.product_id = l.product_id
		WHERE l.invoice_id = ANY($1)
		ORDER BY l.invoice_id, l.line_no;
	`
	rows, err := q.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, mapQueryError("failed to list invoice lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var invoiceID string
		var l domain.InvoiceLine
		var rate decimal.NullDecimal
		if err := rows.Scan(&invoiceID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &rate); err != nil {
			return nil, mapQueryError(fmt.Sprintf("failed to scan line of invoice %s", invoiceID), err)
		}
		if rate.Valid {
			r := rate.Decimal
			l.TaxRate = &r
		}
		result[invoiceID] = append(result[invoiceID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapQueryError("failed to iterate invoice lines", err)
	}
	return result, nil
}
