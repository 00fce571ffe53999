// Package pdf implementa la representación gráfica (PDF) de la factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  N° Factura + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email                             │
//	│  RECEPTOR: Nombre en la fecha de la factura + NIT/CC         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Desc% | Desc.fijo |    │
//	│         IVA | Subtotal  (secciones y notas a lo ancho)       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal neto / Impuestos / TOTAL A PAGAR          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 230, Green: 236, Blue: 243}
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, data appbilling.InvoiceForPDF) ([]byte, error) {
	if data.Invoice == nil || data.Company == nil || data.Partner == nil {
		return nil, fmt.Errorf("pdf: factura, empresa y tercero son obligatorios")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura de venta "+data.Invoice.Prefix+data.Invoice.Number, true).
		WithAuthor(data.Company.Name, true).
		Build()

	m := maroto.New(cfg)
	f := newFormatter(data.Invoice.CurrencyCode)

	m.AddRows(headerRow(data.Invoice, data.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(data.Company))
	m.AddRows(receptorRow(data.PartnerName, data.Partner))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(data.Lines, f)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data.Invoice, f))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: Razón social + NIT (izq) y N° Factura + Fecha (der).
func headerRow(invoice *entity.Invoice, company *entity.Company) core.Row {
	fecha := "sin fecha"
	if invoice.InvoiceDate != nil {
		fecha = invoice.InvoiceDate.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Prefix+invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha+"   Moneda: "+invoice.CurrencyCode, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos del emisor (empresa).
func emisorRow(company *entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.Address, "-"),
				nonEmpty(company.Phone, "-"),
				nonEmpty(company.Email, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// receptorRow: datos del adquiriente con el nombre vigente en la fecha de la factura.
func receptorRow(name string, partner *entity.Partner) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("RECEPTOR / ADQUIRIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(name, partner.Name), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Email: %s   |   Tel: %s",
				partner.TaxID,
				nonEmpty(partner.Email, "-"),
				nonEmpty(partner.Phone, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 4, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Desc.%", 1, align.Center),
		h("Desc. fijo", 1, align.Right),
		h("IVA%", 1, align.Center),
		h("Subtotal", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorLight})
}

// tableLineRows: una fila por línea; secciones y notas ocupan todo el ancho.
func tableLineRows(lines []appbilling.InvoiceLineForPDF, f formatter) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		switch l.DisplayType {
		case entity.DisplayTypeSection:
			result = append(result, row.New(7).Add(col.New(12).Add(
				text.New(l.Description, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1, Left: 1}),
			)))
			continue
		case entity.DisplayTypeNote:
			result = append(result, row.New(6).Add(col.New(12).Add(
				text.New(l.Description, props.Text{Style: fontstyle.Italic, Size: 8, Top: 1, Left: 1, Color: colorGray}),
			)))
			continue
		}
		fixed := ""
		if !l.DiscountFixed.IsZero() {
			fixed = f.amount(l.DiscountFixed)
		}
		pct := ""
		if !l.Discount.IsZero() {
			pct = l.Discount.StringFixed(2) + "%"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				l.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				f.amount(l.PriceUnit),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(pct, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fixed, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(
				l.TaxRate.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				f.amount(l.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(invoice *entity.Invoice, f formatter) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right,
		Color: colorPrimary, Right: 1, Top: 16,
	}

	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal neto:", 2),
			label("Impuestos:", 9),
			text.New("TOTAL A PAGAR:", grand),
		),
		col.New(3).Add(
			value(f.amount(invoice.NetTotal), 2),
			value(f.amount(invoice.TaxTotal), 9),
			text.New(f.amount(invoice.GrandTotal), grand),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatter formatea importes con la precisión de la moneda de la factura.
type formatter struct {
	places int32
}

func newFormatter(currencyCode string) formatter {
	places := -money.MustRounding(currencyCode).Exponent()
	if places < 0 {
		places = 0
	}
	return formatter{places: places}
}

// amount formatea con separador de miles "." y decimal ",".
// Ej: 1234567.5 (2 decimales) → "$1.234.567,50"
func (f formatter) amount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(f.places)
	intPart, frac, _ := strings.Cut(s, ".")
	out := "$" + formatThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
