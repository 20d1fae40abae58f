package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/philodia/gescom-core/internal/core/domain"
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
)

type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) ListInvoicesForReport(ctx context.Context, from, to time.Time, statuses []domain.DocumentStatus) ([]domain.SalesInvoice, error) {
	statusValues := make([]string, len(statuses))
	for i, s := range statuses {
		statusValues[i] = string(s)
	}
	query := invoiceHeaderQuery + `
		WHERE i.issue_date BETWEEN $1 AND $2
		  AND i.status = ANY($3)
		ORDER BY i.issue_date DESC, i.number DESC;
	`
	rows, err := r.Pool.Query(ctx, query, from, to, statusValues)
	if err != nil {
		return nil, mapQueryError("failed to list invoices for report", err)
	}
	defer rows.Close()

	var invoices []domain.SalesInvoice
	var ids []string
	for rows.Next() {
		inv, err := scanInvoiceHeader(rows)
		if err != nil {
			return nil, mapQueryError("failed to scan invoice", err)
		}
		invoices = append(invoices, *inv)
		ids = append(ids, inv.InvoiceID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapQueryError("failed to iterate invoices", err)
	}

	lines, err := findInvoiceLines(ctx, r.Pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Lines = lines[invoices[i].InvoiceID]
	}
	return invoices, nil
}

func (r *reportingRepository) FindClientNames(ctx context.Context, clientIDs []string) (map[string]string, error) {
	return r.findNames(ctx, `SELECT client_id, name FROM clients WHERE client_id = ANY($1);`, clientIDs)
}

func (r *reportingRepository) FindProductNames(ctx context.Context, productIDs []string) (map[string]string, error) {
	return r.findNames(ctx, `SELECT product_id, name FROM products WHERE product_id = ANY($1);`, productIDs)
}

func (r *reportingRepository) findNames(ctx context.Context, query string, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, mapQueryError("failed to look up names", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, mapQueryError("failed to scan name", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, mapQueryError("failed to iterate names", err)
	}
	return names, nil
}
