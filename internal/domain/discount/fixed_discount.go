// Package discount mantiene coherentes el descuento fijo por unidad y el
// descuento porcentual de una línea de factura.
package discount

import (
	"fmt"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/pkg/money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MismatchError el descuento fijo y el porcentual no coinciden tras redondear.
type MismatchError struct {
	Fixed    decimal.Decimal
	Discount decimal.Decimal
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf(
		"el descuento fijo %s no coincide con el descuento calculado %s %%; corrija uno de los descuentos",
		e.Fixed.String(), e.Discount.String(),
	)
}

// Unwrap permite errors.Is(err, domain.ErrValidation).
func (e *MismatchError) Unwrap() error { return domain.ErrValidation }

// FromFixed calcula el porcentaje equivalente al descuento fijo, sin redondear.
// Devuelve 0 si la línea no tiene descuento fijo.
func FromFixed(line *entity.InvoiceLine) decimal.Decimal {
	if line.DiscountFixed.IsZero() {
		return decimal.Zero
	}
	return line.DiscountFixed.Div(line.PriceUnit).Mul(hundred)
}

// Check verifica que DiscountFixed y Discount sean coherentes.
// Solo se compara cuando ambos son distintos de cero; un porcentaje sin
// descuento fijo (o viceversa) no se valida.
func Check(line *entity.InvoiceLine, rounding decimal.Decimal) error {
	if line.DiscountFixed.IsZero() || line.Discount.IsZero() {
		return nil
	}
	if line.PriceUnit.IsZero() {
		return fmt.Errorf("%w: descuento fijo %s sobre un precio unitario en cero",
			domain.ErrValidation, line.DiscountFixed.String())
	}
	expected := money.Round(FromFixed(line), rounding)
	if !expected.Equal(line.Discount) {
		return &MismatchError{Fixed: line.DiscountFixed, Discount: line.Discount}
	}
	return nil
}

// Onchange recalcula los campos de descuento cuando cambian DiscountFixed,
// Quantity o PriceUnit, antes de guardar.
//
// Fuera de una línea de producto con cantidad y precio, el descuento fijo vuelve
// a cero. Si hay descuento fijo, Discount pasa a ser su porcentaje sin redondear.
func Onchange(line *entity.InvoiceLine) {
	if !line.IsProduct() || line.Quantity.IsZero() || line.PriceUnit.IsZero() {
		line.DiscountFixed = decimal.Zero
		return
	}
	if !line.DiscountFixed.IsZero() {
		line.Discount = FromFixed(line)
	}
}
