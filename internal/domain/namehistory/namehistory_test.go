package namehistory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/namehistory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type historyStub struct {
	changes map[string][]*entity.PartnerNameChange
	err     error
	calls   int
}

func (h *historyStub) ListNameChanges(_ context.Context, partnerID string) ([]*entity.PartnerNameChange, error) {
	h.calls++
	return h.changes[partnerID], h.err
}

// Cambios del tercero: "Original" -> "Nombre 2019" (2019-01-01) -> "Nombre 2020" (2020-01-01).
func twoChanges() []*entity.PartnerNameChange {
	return []*entity.PartnerNameChange{
		{PartnerID: "p1", OldName: "Original", NewName: "Nombre 2019", ChangeDate: date(2019, 1, 1)},
		{PartnerID: "p1", OldName: "Nombre 2019", NewName: "Nombre 2020", ChangeDate: date(2020, 1, 1)},
	}
}

func TestNameAt_SinCambiosDevuelveActual(t *testing.T) {
	assert.Equal(t, "Actual", namehistory.NameAt("Actual", nil, date(2020, 5, 1)))
}

func TestNameAt_Limites(t *testing.T) {
	changes := twoChanges()
	cases := []struct {
		asOf time.Time
		want string
	}{
		{date(2018, 12, 31), "Original"},
		{date(2019, 1, 1), "Nombre 2019"},
		{date(2019, 1, 2), "Nombre 2019"},
		{date(2019, 12, 31), "Nombre 2019"},
		{date(2020, 1, 1), "Nombre 2020"},
		{date(2020, 1, 2), "Nombre 2020"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, namehistory.NameAt("Nombre 2020", changes, tc.asOf), tc.asOf.Format("2006-01-02"))
	}
}

func TestNameAt_IgnoraHoraYOrdenDeEntrada(t *testing.T) {
	changes := twoChanges()
	reversed := []*entity.PartnerNameChange{changes[1], changes[0]}
	asOf := time.Date(2019, 12, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "Nombre 2019", namehistory.NameAt("Nombre 2020", reversed, asOf))
}

func TestNameAt_MismaFechaGanaElUltimoRegistrado(t *testing.T) {
	changes := []*entity.PartnerNameChange{
		{OldName: "A", NewName: "B", ChangeDate: date(2021, 3, 1)},
		{OldName: "B", NewName: "C", ChangeDate: date(2021, 3, 1)},
	}
	assert.Equal(t, "C", namehistory.NameAt("C", changes, date(2021, 3, 1)))
	assert.Equal(t, "A", namehistory.NameAt("C", changes, date(2021, 2, 28)))
}

func TestRegistry_MapeoPorDefecto(t *testing.T) {
	r := namehistory.DefaultRegistry()

	f, ok := r.DateField(entity.ModelInvoiceLine, entity.FieldPartnerID)
	require.True(t, ok)
	assert.Equal(t, entity.FieldNameHistoryInvoiceDate, f)

	f, ok = r.DateField(entity.ModelInvoice, entity.FieldPartnerID)
	require.True(t, ok)
	assert.Equal(t, entity.FieldInvoiceDate, f)

	_, ok = r.DateField("otro_modelo", entity.FieldPartnerID)
	assert.False(t, ok)
}

func TestRegistry_RegisterAmpliaModelo(t *testing.T) {
	r := namehistory.NewRegistry()
	r.Register("pago", namehistory.FieldMap{"partner_id": "payment_date"})
	r.Register("pago", namehistory.FieldMap{"bank_partner_id": "payment_date"})

	f, ok := r.DateField("pago", "partner_id")
	require.True(t, ok)
	assert.Equal(t, "payment_date", f)
	_, ok = r.DateField("pago", "bank_partner_id")
	assert.True(t, ok)
}

func TestContext_Flag(t *testing.T) {
	ctx := context.Background()
	assert.False(t, namehistory.Enabled(ctx))
	assert.True(t, namehistory.Enabled(namehistory.WithNameHistory(ctx)))
	assert.False(t, namehistory.Enabled(namehistory.WithoutNameHistory(namehistory.WithNameHistory(ctx))))
}

func TestResolver_SinFlagDevuelveNombreActual(t *testing.T) {
	stub := &historyStub{changes: map[string][]*entity.PartnerNameChange{"p1": twoChanges()}}
	res := namehistory.NewResolver(namehistory.DefaultRegistry(), stub)
	partner := &entity.Partner{ID: "p1", Name: "Nombre 2020"}
	d := date(2018, 6, 1)
	line := &entity.InvoiceLine{NameHistoryInvoiceDate: &d}

	name, err := res.PartnerName(context.Background(), entity.ModelInvoiceLine, line, entity.FieldPartnerID, partner)
	require.NoError(t, err)
	assert.Equal(t, "Nombre 2020", name)
	assert.Zero(t, stub.calls, "sin flag no se consulta el historial")
}

func TestResolver_ConFlagUsaFechaDeLaLinea(t *testing.T) {
	stub := &historyStub{changes: map[string][]*entity.PartnerNameChange{"p1": twoChanges()}}
	res := namehistory.NewResolver(namehistory.DefaultRegistry(), stub)
	partner := &entity.Partner{ID: "p1", Name: "Nombre 2020"}
	ctx := namehistory.WithNameHistory(context.Background())

	d := date(2018, 6, 1)
	line := &entity.InvoiceLine{NameHistoryInvoiceDate: &d}
	name, err := res.PartnerName(ctx, entity.ModelInvoiceLine, line, entity.FieldPartnerID, partner)
	require.NoError(t, err)
	assert.Equal(t, "Original", name)

	inv := &entity.Invoice{InvoiceDate: &d}
	name, err = res.PartnerName(ctx, entity.ModelInvoice, inv, entity.FieldPartnerID, partner)
	require.NoError(t, err)
	assert.Equal(t, "Original", name)
}

func TestResolver_SinFechaDevuelveNombreActual(t *testing.T) {
	stub := &historyStub{changes: map[string][]*entity.PartnerNameChange{"p1": twoChanges()}}
	res := namehistory.NewResolver(namehistory.DefaultRegistry(), stub)
	partner := &entity.Partner{ID: "p1", Name: "Nombre 2020"}
	ctx := namehistory.WithNameHistory(context.Background())

	name, err := res.PartnerName(ctx, entity.ModelInvoiceLine, &entity.InvoiceLine{}, entity.FieldPartnerID, partner)
	require.NoError(t, err)
	assert.Equal(t, "Nombre 2020", name)
}

func TestResolver_PropagaErrorDelHistorial(t *testing.T) {
	boom := errors.New("db caída")
	res := namehistory.NewResolver(namehistory.DefaultRegistry(), &historyStub{err: boom})
	d := date(2019, 6, 1)
	_, err := res.PartnerName(namehistory.WithNameHistory(context.Background()),
		entity.ModelInvoice, &entity.Invoice{InvoiceDate: &d}, entity.FieldPartnerID,
		&entity.Partner{ID: "p1", Name: "X"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestResolver_ForRequestConsultaUnaVezPorTercero(t *testing.T) {
	stub := &historyStub{changes: map[string][]*entity.PartnerNameChange{"p1": twoChanges()}}
	res := namehistory.NewResolver(namehistory.DefaultRegistry(), stub).ForRequest()
	partner := &entity.Partner{ID: "p1", Name: "Nombre 2020"}
	ctx := namehistory.WithNameHistory(context.Background())

	for _, d := range []time.Time{date(2018, 1, 1), date(2019, 6, 1), date(2021, 1, 1)} {
		day := d
		_, err := res.PartnerName(ctx, entity.ModelInvoiceLine, &entity.InvoiceLine{NameHistoryInvoiceDate: &day}, entity.FieldPartnerID, partner)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, stub.calls)
}
