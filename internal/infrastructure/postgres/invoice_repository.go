package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/magazynpro/magazyn-api/internal/domain"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
	"github.com/magazynpro/magazyn-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, filename, invoice_number, date, vendor, total_net, total_gross, processed_at`
const invoiceItemColumns = `id, invoice_id, name, quantity, unit, percentage, net_price, gross_price, total_net, total_gross`

// InvoiceRepo implements InvoiceRepository over PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass a pool or a tx.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persists the invoice and all of its items. Callers run this inside
// a transaction; a partial aggregate is never committed.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	ctx := context.Background()
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Filename, inv.InvoiceNumber, inv.Date, inv.Vendor,
		inv.TotalNet, inv.TotalGross, inv.ProcessedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	itemQuery := `
		INSERT INTO invoice_items (` + invoiceItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, it := range inv.Items {
		_, err := r.q.Exec(ctx, itemQuery,
			it.ID, inv.ID, it.Name, it.Quantity, it.Unit, it.Percentage,
			it.NetPrice, it.GrossPrice, it.TotalNet, it.TotalGross,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

// GetByID returns an invoice with its items, or nil when absent.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.getOne(`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByNumber returns an invoice by its unique number, or nil.
func (r *InvoiceRepo) GetByNumber(invoiceNumber string) (*entity.Invoice, error) {
	return r.getOne(`SELECT `+invoiceColumns+` FROM invoices WHERE invoice_number = $1`, invoiceNumber)
}

func (r *InvoiceRepo) getOne(query string, arg any) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&inv.ID, &inv.Filename, &inv.InvoiceNumber, &inv.Date, &inv.Vendor,
		&inv.TotalNet, &inv.TotalGross, &inv.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	items, err := r.loadItems(inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func (r *InvoiceRepo) loadItems(invoiceID string) ([]entity.InvoiceItem, error) {
	query := `SELECT ` + invoiceItemColumns + ` FROM invoice_items WHERE invoice_id = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var items []entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Name, &it.Quantity, &it.Unit,
			&it.Percentage, &it.NetPrice, &it.GrossPrice, &it.TotalNet, &it.TotalGross); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List returns invoices (headers only), newest first.
func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY date DESC, invoice_number LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(&inv.ID, &inv.Filename, &inv.InvoiceNumber, &inv.Date, &inv.Vendor,
			&inv.TotalNet, &inv.TotalGross, &inv.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

// Delete removes the invoice; items go via ON DELETE CASCADE. Ledger
// reversal is the caller's responsibility, before this runs, in the same
// transaction.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}
