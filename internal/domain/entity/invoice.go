package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Identificadores de modelo y de campo usados por el mapeo de historial de nombres.
const (
	ModelInvoice     = "invoice"
	ModelInvoiceLine = "invoice_line"

	FieldPartnerID              = "partner_id"
	FieldInvoiceDate            = "invoice_date"
	FieldNameHistoryInvoiceDate = "name_history_invoice_date"
)

// Invoice representa la cabecera de una factura.
type Invoice struct {
	ID           string
	CompanyID    string
	PartnerID    string
	Prefix       string
	Number       string
	InvoiceDate  *time.Time // nil mientras la factura no tenga fecha contable
	CurrencyCode string     // ISO 4217
	NetTotal     decimal.Decimal
	TaxTotal     decimal.Decimal
	GrandTotal   decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FieldDate expone los campos fecha de la factura por nombre.
func (inv *Invoice) FieldDate(field string) (time.Time, bool) {
	if field == FieldInvoiceDate && inv.InvoiceDate != nil {
		return *inv.InvoiceDate, true
	}
	return time.Time{}, false
}

// RecomputeTotals recalcula neto, impuestos y total a partir de las líneas.
func (inv *Invoice) RecomputeTotals(lines []*InvoiceLine, rounding decimal.Decimal) {
	var net, tax decimal.Decimal
	for _, l := range lines {
		if !l.IsProduct() {
			continue
		}
		net = net.Add(l.Subtotal)
		tax = tax.Add(l.TaxAmount(rounding))
	}
	inv.NetTotal = net
	inv.TaxTotal = tax
	inv.GrandTotal = net.Add(tax)
}

// MirrorInvoiceDate copia la fecha de la factura en cada línea (campo derivado de solo lectura).
func MirrorInvoiceDate(inv *Invoice, lines []*InvoiceLine) {
	for _, l := range lines {
		if inv.InvoiceDate == nil {
			l.NameHistoryInvoiceDate = nil
			continue
		}
		d := *inv.InvoiceDate
		l.NameHistoryInvoiceDate = &d
	}
}
