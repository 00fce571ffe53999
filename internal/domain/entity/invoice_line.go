package entity

import (
	"time"

	"github.com/jhoicas/facturacion-api/pkg/money"
	"github.com/shopspring/decimal"
)

// Tipos de línea de factura.
const (
	DisplayTypeProduct = "product"      // línea regular de producto
	DisplayTypeSection = "line_section" // título de sección
	DisplayTypeNote    = "line_note"    // nota libre
)

var hundred = decimal.NewFromInt(100)

// DiscountRounding precisión con la que se guarda el porcentaje de descuento
// (columna NUMERIC(5,2)).
var DiscountRounding = decimal.New(1, -2)

// InvoiceLine representa una línea de una factura.
type InvoiceLine struct {
	ID            string
	InvoiceID     string
	ProductID     string
	Name          string
	DisplayType   string
	Quantity      decimal.Decimal
	PriceUnit     decimal.Decimal
	Discount      decimal.Decimal // porcentaje
	DiscountFixed decimal.Decimal // monto fijo por unidad, en la moneda de la factura
	TaxRate       decimal.Decimal // porcentaje: 0, 5, 19
	Subtotal      decimal.Decimal

	// NameHistoryInvoiceDate refleja Invoice.InvoiceDate; se usa como fecha de
	// consulta del historial de nombres del tercero.
	NameHistoryInvoiceDate *time.Time
}

// IsProduct informa si la línea es una línea regular de producto.
func (l *InvoiceLine) IsProduct() bool {
	return l.DisplayType == DisplayTypeProduct
}

// FieldDate expone los campos fecha de la línea por nombre.
func (l *InvoiceLine) FieldDate(field string) (time.Time, bool) {
	if field == FieldNameHistoryInvoiceDate && l.NameHistoryInvoiceDate != nil {
		return *l.NameHistoryInvoiceDate, true
	}
	return time.Time{}, false
}

// NormalizeDiscount redondea Discount a la precisión con la que se persiste.
func (l *InvoiceLine) NormalizeDiscount() {
	l.Discount = money.Round(l.Discount, DiscountRounding)
}

// ComputeSubtotal calcula Quantity * PriceUnit * (1 - Discount/100) redondeado a la moneda.
// Secciones y notas no tienen importe.
func (l *InvoiceLine) ComputeSubtotal(rounding decimal.Decimal) {
	if !l.IsProduct() {
		l.Subtotal = decimal.Zero
		return
	}
	factor := decimal.NewFromInt(1).Sub(l.Discount.Div(hundred))
	l.Subtotal = money.Round(l.Quantity.Mul(l.PriceUnit).Mul(factor), rounding)
}

// TaxAmount impuesto de la línea sobre el subtotal.
func (l *InvoiceLine) TaxAmount(rounding decimal.Decimal) decimal.Decimal {
	return money.Round(l.Subtotal.Mul(l.TaxRate).Div(hundred), rounding)
}
