package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/namehistory"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/memory"
)

const companyID = "c1"

type env struct {
	store    *memory.Store
	partners *billing.PartnerUseCase
	invoices *billing.InvoiceUseCase
	resolver *namehistory.Resolver
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Companies().Create(context.Background(), &entity.Company{
		ID: companyID, Name: "Emisor S.A.S.", NIT: "900123456",
	}))
	resolver := namehistory.NewResolver(namehistory.DefaultRegistry(), store.Partners())
	return &env{
		store:    store,
		partners: billing.NewPartnerUseCase(store, store.Partners()),
		invoices: billing.NewInvoiceUseCase(store, store.Partners(), store.Products(), store.Invoices(), resolver, "USD"),
		resolver: resolver,
	}
}

func (e *env) partner(t *testing.T, name string) *dto.PartnerResponse {
	t.Helper()
	p, err := e.partners.Create(context.Background(), companyID, dto.CreatePartnerRequest{Name: name, TaxID: "NIT-" + name})
	require.NoError(t, err)
	return p
}

func (e *env) rename(t *testing.T, partnerID, name, date string) {
	t.Helper()
	_, err := e.partners.Rename(context.Background(), companyID, partnerID, dto.RenamePartnerRequest{Name: name, EffectiveDate: date})
	require.NoError(t, err)
}

func (e *env) invoice(t *testing.T, partnerID, date string, lines ...dto.InvoiceLineRequest) *dto.InvoiceResponse {
	t.Helper()
	if len(lines) == 0 {
		lines = []dto.InvoiceLineRequest{productLine("1", "100", "0", "0")}
	}
	inv, err := e.invoices.CreateInvoice(context.Background(), companyID, dto.CreateInvoiceRequest{
		PartnerID:   partnerID,
		Prefix:      "FV",
		InvoiceDate: date,
		Lines:       lines,
	})
	require.NoError(t, err)
	return inv
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func productLine(qty, price, fixed, pct string) dto.InvoiceLineRequest {
	return dto.InvoiceLineRequest{
		Name:          "Servicio",
		Quantity:      d(qty),
		PriceUnit:     d(price),
		DiscountFixed: d(fixed),
		Discount:      d(pct),
		TaxRate:       d("19"),
	}
}
