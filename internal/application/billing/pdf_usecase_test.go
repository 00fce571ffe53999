package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

type captureGenerator struct {
	got billing.InvoiceForPDF
	err error
}

func (g *captureGenerator) GenerateInvoicePDF(_ context.Context, data billing.InvoiceForPDF) ([]byte, error) {
	g.got = data
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.3"), nil
}

func newPDFUseCase(e *env, gen billing.InvoicePDFGenerator) *billing.PDFUseCase {
	return billing.NewPDFUseCase(
		e.store.Invoices(), e.store.Companies(), e.store.Partners(), e.store.Products(), e.resolver, gen,
	)
}

func TestDownloadInvoicePDF_UsaNombreVigenteEnLaFecha(t *testing.T) {
	e := newEnv(t)
	p := e.partner(t, "Alice")
	require.NoError(t, e.store.Products().Create(context.Background(), &entity.Product{
		ID: "prod-1", CompanyID: companyID, SKU: "SKU-1", Name: "Licencia", Price: d("50"),
	}))
	inv := e.invoice(t, p.ID, "2024-01-15",
		dto.InvoiceLineRequest{ProductID: "prod-1", Quantity: d("1")},
		dto.InvoiceLineRequest{DisplayType: entity.DisplayTypeNote, Name: "Gracias"},
	)
	e.rename(t, p.ID, "Bob", "2024-06-01")

	gen := &captureGenerator{}
	pdf, filename, err := newPDFUseCase(e, gen).DownloadInvoicePDF(context.Background(), companyID, inv.ID)
	require.NoError(t, err)

	assert.Equal(t, "factura_FV"+inv.Number+".pdf", filename)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "Alice", gen.got.PartnerName)
	assert.Equal(t, "Bob", gen.got.Partner.Name)
	assert.Equal(t, "Emisor S.A.S.", gen.got.Company.Name)
	require.Len(t, gen.got.Lines, 2)
	assert.Equal(t, "Licencia", gen.got.Lines[0].Description)
	assert.Equal(t, "Gracias", gen.got.Lines[1].Description)
}

func TestDownloadInvoicePDF_Errores(t *testing.T) {
	e := newEnv(t)
	p := e.partner(t, "Alice")
	inv := e.invoice(t, p.ID, "")

	_, _, err := newPDFUseCase(e, &captureGenerator{}).DownloadInvoicePDF(context.Background(), companyID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = newPDFUseCase(e, &captureGenerator{}).DownloadInvoicePDF(context.Background(), "otra", inv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	boom := errors.New("boom")
	_, _, err = newPDFUseCase(e, &captureGenerator{err: boom}).DownloadInvoicePDF(context.Background(), companyID, inv.ID)
	assert.ErrorIs(t, err, boom)
}
