package memory

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación en memoria de InvoiceRepository.
type InvoiceRepo struct {
	s *Store
}

// Create persiste la cabecera de la factura. (empresa, prefijo, número) es único.
func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.CompanyID == invoice.CompanyID && inv.Prefix == invoice.Prefix && inv.Number == invoice.Number {
			return domain.ErrDuplicate
		}
	}
	row := invoiceRow(*invoice)
	row.InvoiceDate = copyTime(invoice.InvoiceDate)
	r.s.invoices[invoice.ID] = row
	return nil
}

// NextNumber devuelve el mayor número numérico del prefijo más uno.
func (r *InvoiceRepo) NextNumber(_ context.Context, companyID, prefix string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var last int64
	for _, inv := range r.s.invoices {
		if inv.CompanyID != companyID || inv.Prefix != prefix {
			continue
		}
		if n, err := strconv.ParseInt(inv.Number, 10, 64); err == nil && n > last {
			last = n
		}
	}
	return last + 1, nil
}

// Update actualiza fecha contable y totales de la cabecera.
func (r *InvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.invoices[invoice.ID]
	if !ok {
		return domain.ErrNotFound
	}
	row.InvoiceDate = copyTime(invoice.InvoiceDate)
	row.NetTotal = invoice.NetTotal
	row.TaxTotal = invoice.TaxTotal
	row.GrandTotal = invoice.GrandTotal
	row.UpdatedAt = invoice.UpdatedAt
	r.s.invoices[invoice.ID] = row
	return nil
}

// GetByID obtiene la cabecera; nil si no existe.
func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	inv := entity.Invoice(row)
	inv.InvoiceDate = copyTime(row.InvoiceDate)
	return &inv, nil
}

// ListByCompany lista las facturas de la empresa, las más recientes primero.
func (r *InvoiceRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	all := make([]*entity.Invoice, 0)
	for _, row := range r.s.invoices {
		if row.CompanyID != companyID {
			continue
		}
		inv := entity.Invoice(row)
		inv.InvoiceDate = copyTime(row.InvoiceDate)
		all = append(all, &inv)
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Number > all[j].Number
	})
	return page(all, limit, offset), nil
}

// CreateLine persiste una línea; la factura debe existir.
func (r *InvoiceRepo) CreateLine(_ context.Context, line *entity.InvoiceLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[line.InvoiceID]; !ok {
		return domain.ErrNotFound
	}
	row := lineRow(*line)
	row.NameHistoryInvoiceDate = nil
	r.s.lines = append(r.s.lines, row)
	return nil
}

// UpdateLine actualiza los campos editables y el subtotal de una línea.
func (r *InvoiceRepo) UpdateLine(_ context.Context, line *entity.InvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.lines {
		if r.s.lines[i].ID != line.ID {
			continue
		}
		row := &r.s.lines[i]
		row.Name = line.Name
		row.Quantity = line.Quantity
		row.PriceUnit = line.PriceUnit
		row.Discount = line.Discount
		row.DiscountFixed = line.DiscountFixed
		row.TaxRate = line.TaxRate
		row.Subtotal = line.Subtotal
		return nil
	}
	return domain.ErrNotFound
}

// GetLineByID obtiene una línea; nil si no existe.
func (r *InvoiceRepo) GetLineByID(_ context.Context, id string) (*entity.InvoiceLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.lines {
		if row.ID == id {
			return r.withInvoiceDate(row), nil
		}
	}
	return nil, nil
}

// GetLinesByInvoiceID devuelve las líneas de la factura en orden de creación.
func (r *InvoiceRepo) GetLinesByInvoiceID(_ context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.InvoiceLine
	for _, row := range r.s.lines {
		if row.InvoiceID == invoiceID {
			list = append(list, r.withInvoiceDate(row))
		}
	}
	return list, nil
}

// withInvoiceDate copia la fila y refleja la fecha de su factura. Requiere r.s.mu tomado.
func (r *InvoiceRepo) withInvoiceDate(row lineRow) *entity.InvoiceLine {
	l := entity.InvoiceLine(row)
	if inv, ok := r.s.invoices[row.InvoiceID]; ok {
		l.NameHistoryInvoiceDate = copyTime(inv.InvoiceDate)
	}
	return &l
}
