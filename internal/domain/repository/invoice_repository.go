package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// Las lecturas de líneas llenan NameHistoryInvoiceDate desde la factura.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// NextNumber siguiente consecutivo numérico para (empresa, prefijo).
	NextNumber(ctx context.Context, companyID, prefix string) (int64, error)
	// Update actualiza fecha, totales y updated_at de la cabecera.
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// ListByCompany lista cabeceras de la empresa, las más recientes primero.
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Invoice, error)
	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
	UpdateLine(ctx context.Context, line *entity.InvoiceLine) error
	GetLineByID(ctx context.Context, id string) (*entity.InvoiceLine, error)
	GetLinesByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error)
}
