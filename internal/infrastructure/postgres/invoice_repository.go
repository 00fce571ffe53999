package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, company_id, partner_id, prefix, number, invoice_date, currency_code,
		                      net_total, tax_total, grand_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CompanyID, invoice.PartnerID, invoice.Prefix, invoice.Number,
		invoice.InvoiceDate, invoice.CurrencyCode,
		invoice.NetTotal, invoice.TaxTotal, invoice.GrandTotal,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// NextNumber devuelve el mayor número puramente numérico del prefijo más uno.
// La restricción UNIQUE (company_id, prefix, number) detecta carreras entre transacciones.
func (r *InvoiceRepo) NextNumber(ctx context.Context, companyID, prefix string) (int64, error) {
	query := `
		SELECT COALESCE(MAX(number::bigint), 0) + 1
		FROM invoices
		WHERE company_id = $1 AND prefix = $2 AND number ~ '^[0-9]{1,18}$'`
	var next int64
	if err := r.q.QueryRow(ctx, query, companyID, prefix).Scan(&next); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return next, nil
}

// Update actualiza fecha contable y totales de la cabecera.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET invoice_date = $2,
		    net_total    = $3,
		    tax_total    = $4,
		    grand_total  = $5,
		    updated_at   = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.InvoiceDate, invoice.NetTotal, invoice.TaxTotal, invoice.GrandTotal, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const invoiceColumns = `id, company_id, partner_id, prefix, number, invoice_date, currency_code,
	net_total, tax_total, grand_total, created_at, updated_at`

// rowScanner abstrae pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.PartnerID, &inv.Prefix, &inv.Number, &inv.InvoiceDate, &inv.CurrencyCode,
		&inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByCompany lista las facturas de la empresa, las más recientes primero.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE company_id = $1 ORDER BY created_at DESC, number DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// GetByID obtiene la cabecera de una factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// CreateLine persiste una línea de la factura.
func (r *InvoiceRepo) CreateLine(ctx context.Context, line *entity.InvoiceLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_lines (id, invoice_id, product_id, name, display_type, quantity, price_unit,
		                           discount, discount_fixed, tax_rate, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.InvoiceID, nullIfEmpty(line.ProductID), line.Name, line.DisplayType,
		line.Quantity, line.PriceUnit, line.Discount, line.DiscountFixed, line.TaxRate, line.Subtotal,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		}
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// UpdateLine actualiza los campos editables y el subtotal de una línea.
func (r *InvoiceRepo) UpdateLine(ctx context.Context, line *entity.InvoiceLine) error {
	query := `
		UPDATE invoice_lines
		SET name = $2, quantity = $3, price_unit = $4, discount = $5, discount_fixed = $6,
		    tax_rate = $7, subtotal = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		line.ID, line.Name, line.Quantity, line.PriceUnit, line.Discount, line.DiscountFixed,
		line.TaxRate, line.Subtotal,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
		}
		return fmt.Errorf("update invoice line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// lineSelect une la línea con su factura para exponer la fecha contable como
// name_history_invoice_date.
const lineSelect = `
	SELECT l.id, l.invoice_id, COALESCE(l.product_id::text, ''), l.name, l.display_type,
	       l.quantity, l.price_unit, l.discount, l.discount_fixed, l.tax_rate, l.subtotal,
	       i.invoice_date
	FROM invoice_lines l
	JOIN invoices i ON i.id = l.invoice_id`

func scanLine(row rowScanner) (*entity.InvoiceLine, error) {
	var l entity.InvoiceLine
	err := row.Scan(
		&l.ID, &l.InvoiceID, &l.ProductID, &l.Name, &l.DisplayType,
		&l.Quantity, &l.PriceUnit, &l.Discount, &l.DiscountFixed, &l.TaxRate, &l.Subtotal,
		&l.NameHistoryInvoiceDate,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetLineByID obtiene una línea por ID.
func (r *InvoiceRepo) GetLineByID(ctx context.Context, id string) (*entity.InvoiceLine, error) {
	l, err := scanLine(r.q.QueryRow(ctx, lineSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice line: %w", err)
	}
	return l, nil
}

// GetLinesByInvoiceID devuelve las líneas de una factura en orden de creación.
func (r *InvoiceRepo) GetLinesByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	rows, err := r.q.Query(ctx, lineSelect+` WHERE l.invoice_id = $1 ORDER BY l.seq`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
