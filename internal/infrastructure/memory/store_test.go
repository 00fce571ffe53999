package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInvoice(t *testing.T, s *memory.Store, date *time.Time) *entity.Invoice {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Companies().Create(ctx, &entity.Company{ID: "c1", NIT: "900"}))
	require.NoError(t, s.Partners().Create(ctx, &entity.Partner{ID: "p1", CompanyID: "c1", Name: "Alice", TaxID: "1"}))
	inv := &entity.Invoice{ID: "i1", CompanyID: "c1", PartnerID: "p1", Number: "1", InvoiceDate: date}
	require.NoError(t, s.Invoices().Create(ctx, inv))
	return inv
}

func TestInvoiceLines_ReflejanFechaDeFactura(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := seedInvoice(t, s, &d)
	require.NoError(t, s.Invoices().CreateLine(ctx, &entity.InvoiceLine{ID: "l1", InvoiceID: inv.ID, DisplayType: entity.DisplayTypeProduct}))

	line, err := s.Invoices().GetLineByID(ctx, "l1")
	require.NoError(t, err)
	require.NotNil(t, line.NameHistoryInvoiceDate)
	assert.True(t, line.NameHistoryInvoiceDate.Equal(d))

	d2 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	inv.InvoiceDate = &d2
	require.NoError(t, s.Invoices().Update(ctx, inv))
	lines, err := s.Invoices().GetLinesByInvoiceID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].NameHistoryInvoiceDate.Equal(d2))

	inv.InvoiceDate = nil
	require.NoError(t, s.Invoices().Update(ctx, inv))
	line, err = s.Invoices().GetLineByID(ctx, "l1")
	require.NoError(t, err)
	assert.Nil(t, line.NameHistoryInvoiceDate)
}

func TestRunBilling_RollbackRestauraEstado(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	inv := seedInvoice(t, s, nil)
	require.NoError(t, s.Invoices().CreateLine(ctx, &entity.InvoiceLine{
		ID: "l1", InvoiceID: inv.ID, DisplayType: entity.DisplayTypeProduct, Discount: decimal.NewFromInt(10),
	}))

	boom := errors.New("boom")
	err := s.RunBilling(ctx, func(partners repository.PartnerRepository, invoices repository.InvoiceRepository) error {
		require.NoError(t, partners.AddNameChange(ctx, &entity.PartnerNameChange{ID: "h1", PartnerID: "p1", OldName: "Alice", NewName: "Bob"}))
		require.NoError(t, invoices.UpdateLine(ctx, &entity.InvoiceLine{ID: "l1", Discount: decimal.NewFromInt(50)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	changes, err := s.Partners().ListNameChanges(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, changes)
	line, err := s.Invoices().GetLineByID(ctx, "l1")
	require.NoError(t, err)
	assert.True(t, line.Discount.Equal(decimal.NewFromInt(10)))
}

func TestRunBilling_CommitConservaCambios(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	seedInvoice(t, s, nil)

	err := s.RunBilling(ctx, func(partners repository.PartnerRepository, _ repository.InvoiceRepository) error {
		return partners.AddNameChange(ctx, &entity.PartnerNameChange{ID: "h1", PartnerID: "p1", OldName: "Alice", NewName: "Bob"})
	})
	require.NoError(t, err)
	changes, err := s.Partners().ListNameChanges(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, changes, 1)
}

func TestListNameChanges_OrdenPorFechaYRegistro(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	seedInvoice(t, s, nil)
	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := s.Partners()
	require.NoError(t, repo.AddNameChange(ctx, &entity.PartnerNameChange{ID: "a", PartnerID: "p1", ChangeDate: d1}))
	require.NoError(t, repo.AddNameChange(ctx, &entity.PartnerNameChange{ID: "b", PartnerID: "p1", ChangeDate: d0}))
	require.NoError(t, repo.AddNameChange(ctx, &entity.PartnerNameChange{ID: "c", PartnerID: "p1", ChangeDate: d1}))

	changes, err := repo.ListNameChanges(ctx, "p1")
	require.NoError(t, err)
	ids := []string{changes[0].ID, changes[1].ID, changes[2].ID}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestCompanyModules_UpsertYVencimiento(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	repo := s.Companies()
	require.NoError(t, repo.Create(ctx, &entity.Company{ID: "c1", NIT: "900"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Company{ID: "c2", NIT: "900"}), domain.ErrDuplicate)

	ok, err := repo.HasActiveModule(ctx, "c1", entity.ModuleBilling)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpsertModule(ctx, &entity.CompanyModule{ID: "m1", CompanyID: "c1", ModuleName: entity.ModuleBilling, IsActive: true}))
	ok, _ = repo.HasActiveModule(ctx, "c1", entity.ModuleBilling)
	assert.True(t, ok)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, repo.UpsertModule(ctx, &entity.CompanyModule{ID: "m2", CompanyID: "c1", ModuleName: entity.ModuleBilling, IsActive: true, ExpiresAt: &past}))
	ok, _ = repo.HasActiveModule(ctx, "c1", entity.ModuleBilling)
	assert.False(t, ok)

	assert.ErrorIs(t, repo.UpsertModule(ctx, &entity.CompanyModule{CompanyID: "nope", ModuleName: entity.ModuleBilling}), domain.ErrNotFound)
}
