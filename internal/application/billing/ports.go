package billing

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de facturación.
// Si fn retorna error se hace rollback.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		partnerRepo repository.PartnerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoiceLineForPDF línea enriquecida con el nombre a imprimir.
type InvoiceLineForPDF struct {
	entity.InvoiceLine
	Description string
}

// InvoiceForPDF datos ya resueltos para la representación gráfica.
// PartnerName es el nombre del tercero vigente en la fecha de la factura.
type InvoiceForPDF struct {
	Invoice     *entity.Invoice
	Company     *entity.Company
	Partner     *entity.Partner
	PartnerName string
	Lines       []InvoiceLineForPDF
}

// InvoicePDFGenerator genera el PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, data InvoiceForPDF) ([]byte, error)
}
