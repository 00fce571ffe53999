package discount_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/discount"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

var cent = decimal.New(1, -2)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func productLine(qty, price, fixed, pct string) *entity.InvoiceLine {
	return &entity.InvoiceLine{
		DisplayType:   entity.DisplayTypeProduct,
		Quantity:      d(qty),
		PriceUnit:     d(price),
		DiscountFixed: d(fixed),
		Discount:      d(pct),
	}
}

func TestFromFixed_SinDescuentoFijoDevuelveCero(t *testing.T) {
	line := productLine("2", "100", "0", "15")
	assert.True(t, discount.FromFixed(line).IsZero())
}

func TestFromFixed_CalculaPorcentaje(t *testing.T) {
	line := productLine("2", "200", "30", "0")
	assert.True(t, d("15").Equal(discount.FromFixed(line)))
}

func TestCheck_DescuentoFijoCeroNuncaFalla(t *testing.T) {
	for _, pct := range []string{"0", "5", "33.33", "100"} {
		line := productLine("1", "100", "0", pct)
		assert.NoError(t, discount.Check(line, cent), "discount=%s", pct)
	}
}

func TestCheck_PorcentajeCeroNoSeValida(t *testing.T) {
	line := productLine("1", "100", "12", "0")
	assert.NoError(t, discount.Check(line, cent))
}

func TestCheck_Coherentes(t *testing.T) {
	cases := []struct{ price, fixed, pct string }{
		{"100", "10", "10"},
		{"30", "10", "33.33"},
		{"7", "1", "14.29"},
	}
	for _, tc := range cases {
		line := productLine("1", tc.price, tc.fixed, tc.pct)
		assert.NoError(t, discount.Check(line, cent), "price=%s fixed=%s", tc.price, tc.fixed)
	}
}

func TestCheck_IncoherentesDevuelveMismatch(t *testing.T) {
	line := productLine("1", "30", "10", "33.34")
	err := discount.Check(line, cent)
	require.Error(t, err)

	var mismatch *discount.MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.True(t, d("10").Equal(mismatch.Fixed))
	assert.True(t, d("33.34").Equal(mismatch.Discount))
	assert.Contains(t, err.Error(), "10")
	assert.Contains(t, err.Error(), "33.34")
}

func TestCheck_RedondeoDeLaMoneda(t *testing.T) {
	// 10/30*100 = 33.333..., con redondeo de 1 queda 33.
	line := productLine("1", "30", "10", "33")
	assert.NoError(t, discount.Check(line, decimal.NewFromInt(1)))
	assert.Error(t, discount.Check(line, cent))
}

func TestCheck_PrecioCeroEsErrorDeValidacion(t *testing.T) {
	line := productLine("1", "0", "10", "5")
	err := discount.Check(line, cent)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestOnchange_LineaNoProductoReiniciaDescuentoFijo(t *testing.T) {
	for _, dt := range []string{entity.DisplayTypeSection, entity.DisplayTypeNote, ""} {
		line := productLine("2", "100", "10", "7")
		line.DisplayType = dt
		discount.Onchange(line)
		assert.True(t, line.DiscountFixed.IsZero(), "display_type=%q", dt)
		assert.True(t, d("7").Equal(line.Discount), "no debe tocar el porcentaje")
	}
}

func TestOnchange_CantidadOPrecioCeroReinicia(t *testing.T) {
	line := productLine("0", "100", "10", "0")
	discount.Onchange(line)
	assert.True(t, line.DiscountFixed.IsZero())

	line = productLine("2", "0", "10", "0")
	discount.Onchange(line)
	assert.True(t, line.DiscountFixed.IsZero())
}

func TestOnchange_CalculaPorcentaje(t *testing.T) {
	// El descuento fijo es por unidad: 10/100*100 = 10, la cantidad no interviene.
	line := productLine("2", "100", "10", "0")
	discount.Onchange(line)
	assert.True(t, d("10").Equal(line.DiscountFixed))
	assert.True(t, d("10").Equal(line.Discount), "10/100*100")
}

func TestOnchange_SinDescuentoFijoConservaPorcentaje(t *testing.T) {
	line := productLine("2", "100", "0", "12")
	discount.Onchange(line)
	assert.True(t, d("12").Equal(line.Discount))
}

func TestOnchange_Idempotente(t *testing.T) {
	line := productLine("3", "30", "10", "0")
	discount.Onchange(line)
	first := line.Discount
	discount.Onchange(line)
	assert.True(t, first.Equal(line.Discount))
	assert.True(t, d("10").Equal(line.DiscountFixed))
}
