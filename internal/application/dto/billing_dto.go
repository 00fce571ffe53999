package dto

import "github.com/shopspring/decimal"

// Formato de fecha en la API (fechas contables, sin hora).
const DateLayout = "2006-01-02"

// CreatePartnerRequest body para POST /api/partners.
type CreatePartnerRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	TaxID string `json:"tax_id" validate:"required,max=30"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

// PartnerResponse tercero en respuestas.
type PartnerResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// RenamePartnerRequest body para POST /api/partners/:id/rename.
// EffectiveDate vacío = hoy.
type RenamePartnerRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	EffectiveDate string `json:"effective_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// PartnerNameChangeResponse fila del historial de nombres.
type PartnerNameChangeResponse struct {
	ID         string `json:"id"`
	OldName    string `json:"old_name"`
	NewName    string `json:"new_name"`
	ChangeDate string `json:"change_date"`
}

// PartnerNameAtResponse nombre vigente de un tercero en una fecha.
type PartnerNameAtResponse struct {
	PartnerID string `json:"partner_id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	PartnerID    string               `json:"partner_id" validate:"required"`
	Prefix       string               `json:"prefix" validate:"required,max=10"`
	Number       string               `json:"number,omitempty"` // opcional; si va vacío se genera
	InvoiceDate  string               `json:"invoice_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CurrencyCode string               `json:"currency,omitempty" validate:"omitempty,len=3"`
	Lines        []InvoiceLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// InvoiceLineRequest línea de factura.
// DisplayType vacío = "product". UnitPrice en cero toma el precio del producto.
type InvoiceLineRequest struct {
	ProductID     string          `json:"product_id,omitempty"`
	Name          string          `json:"name,omitempty"`
	DisplayType   string          `json:"display_type,omitempty" validate:"omitempty,oneof=product line_section line_note"`
	Quantity      decimal.Decimal `json:"quantity"`
	PriceUnit     decimal.Decimal `json:"price_unit"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountFixed decimal.Decimal `json:"discount_fixed"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
}

// UpdateInvoiceLineRequest body para PATCH /api/invoices/:id/lines/:lineId (campos opcionales).
type UpdateInvoiceLineRequest struct {
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	PriceUnit     *decimal.Decimal `json:"price_unit,omitempty"`
	Discount      *decimal.Decimal `json:"discount,omitempty"`
	DiscountFixed *decimal.Decimal `json:"discount_fixed,omitempty"`
}

// SetInvoiceDateRequest body para PUT /api/invoices/:id/date. Vacío quita la fecha.
type SetInvoiceDateRequest struct {
	InvoiceDate string `json:"invoice_date" validate:"omitempty,datetime=2006-01-02"`
}

// LineOnchangeRequest línea en edición para POST /api/invoice-lines/onchange.
type LineOnchangeRequest struct {
	DisplayType   string          `json:"display_type" validate:"omitempty,oneof=product line_section line_note"`
	Quantity      decimal.Decimal `json:"quantity"`
	PriceUnit     decimal.Decimal `json:"price_unit"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountFixed decimal.Decimal `json:"discount_fixed"`
	CurrencyCode  string          `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// LineOnchangeResponse valores recalculados (no se persisten).
type LineOnchangeResponse struct {
	DisplayType   string          `json:"display_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	PriceUnit     decimal.Decimal `json:"price_unit"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountFixed decimal.Decimal `json:"discount_fixed"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
// PartnerName es el nombre actual o, con use_partner_name_history, el vigente en invoice_date.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	CompanyID    string                `json:"company_id"`
	PartnerID    string                `json:"partner_id"`
	PartnerName  string                `json:"partner_name,omitempty"`
	Prefix       string                `json:"prefix"`
	Number       string                `json:"number"`
	InvoiceDate  string                `json:"invoice_date,omitempty"`
	CurrencyCode string                `json:"currency"`
	NetTotal     decimal.Decimal       `json:"net_total"`
	TaxTotal     decimal.Decimal       `json:"tax_total"`
	GrandTotal   decimal.Decimal       `json:"grand_total"`
	Lines        []InvoiceLineResponse `json:"lines"`
}

// InvoiceLineResponse línea en la respuesta.
type InvoiceLineResponse struct {
	ID                     string          `json:"id"`
	ProductID              string          `json:"product_id,omitempty"`
	Name                   string          `json:"name,omitempty"`
	DisplayType            string          `json:"display_type"`
	Quantity               decimal.Decimal `json:"quantity"`
	PriceUnit              decimal.Decimal `json:"price_unit"`
	Discount               decimal.Decimal `json:"discount"`
	DiscountFixed          decimal.Decimal `json:"discount_fixed"`
	TaxRate                decimal.Decimal `json:"tax_rate"`
	Subtotal               decimal.Decimal `json:"subtotal"`
	NameHistoryInvoiceDate string          `json:"name_history_invoice_date,omitempty"`
	PartnerName            string          `json:"partner_name,omitempty"`
}

// InvoiceSummaryResponse fila de GET /api/invoices (sin líneas).
type InvoiceSummaryResponse struct {
	ID           string          `json:"id"`
	PartnerID    string          `json:"partner_id"`
	PartnerName  string          `json:"partner_name,omitempty"`
	Prefix       string          `json:"prefix"`
	Number       string          `json:"number"`
	InvoiceDate  string          `json:"invoice_date,omitempty"`
	CurrencyCode string          `json:"currency"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}
