package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/namehistory"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
// El documento muestra el nombre del tercero vigente en la fecha de la factura,
// no el actual.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	companyRepo repository.CompanyRepository
	partnerRepo repository.PartnerRepository
	productRepo repository.ProductRepository
	resolver    *namehistory.Resolver
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	partnerRepo repository.PartnerRepository,
	productRepo repository.ProductRepository,
	resolver *namehistory.Resolver,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		partnerRepo: partnerRepo,
		productRepo: productRepo,
		resolver:    resolver,
		generator:   generator,
	}
}

// DownloadInvoicePDF recupera la factura y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece a la empresa del token.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, companyID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}

	// ── 2. Empresa y tercero ──────────────────────────────────────────────────
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	partner, err := uc.partnerRepo.GetByID(ctx, inv.PartnerID)
	if err != nil || partner == nil {
		return nil, "", fmt.Errorf("pdf: obtener tercero: %w", err)
	}
	partnerName, err := uc.resolver.PartnerName(
		namehistory.WithNameHistory(ctx), entity.ModelInvoice, inv, entity.FieldPartnerID, partner,
	)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: nombre del tercero: %w", err)
	}

	// ── 3. Líneas + descripción ───────────────────────────────────────────────
	rawLines, err := uc.invoiceRepo.GetLinesByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	lines := make([]InvoiceLineForPDF, 0, len(rawLines))
	for _, l := range rawLines {
		desc := l.Name
		if desc == "" && l.ProductID != "" {
			desc = "Producto " + l.ProductID
			if product, pErr := uc.productRepo.GetByID(ctx, l.ProductID); pErr == nil && product != nil {
				desc = product.Name
			}
		}
		lines = append(lines, InvoiceLineForPDF{InvoiceLine: *l, Description: desc})
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoiceForPDF{
		Invoice:     inv,
		Company:     company,
		Partner:     partner,
		PartnerName: partnerName,
		Lines:       lines,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("factura_%s%s.pdf", inv.Prefix, inv.Number)
	return pdfBytes, filename, nil
}
