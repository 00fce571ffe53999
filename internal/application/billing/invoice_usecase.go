package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/discount"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/namehistory"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
	"github.com/jhoicas/facturacion-api/pkg/money"
)

// InvoiceUseCase crea, modifica y consulta facturas.
//
// Las reglas de descuento se aplican aquí de forma explícita: discount.Check se
// ejecuta después de escribir descuento fijo o porcentual (un error aborta la
// transacción) y discount.Onchange solo en PreviewLine, que no persiste nada.
type InvoiceUseCase struct {
	txRunner        BillingTxRunner
	partnerRepo     repository.PartnerRepository
	productRepo     repository.ProductRepository
	invoiceRepo     repository.InvoiceRepository
	resolver        *namehistory.Resolver
	defaultCurrency string
	now             func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	partnerRepo repository.PartnerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	resolver *namehistory.Resolver,
	defaultCurrency string,
) *InvoiceUseCase {
	if defaultCurrency == "" {
		defaultCurrency = "COP"
	}
	return &InvoiceUseCase{
		txRunner:        txRunner,
		partnerRepo:     partnerRepo,
		productRepo:     productRepo,
		invoiceRepo:     invoiceRepo,
		resolver:        resolver,
		defaultCurrency: strings.ToUpper(defaultCurrency),
		now:             time.Now,
	}
}

// CreateInvoice valida las líneas, calcula totales y guarda cabecera y líneas en una transacción.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.PartnerID == "" || in.Prefix == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	partner, err := uc.partnerRepo.GetByID(ctx, in.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, domain.ErrNotFound
	}
	if partner.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	currency := uc.defaultCurrency
	if in.CurrencyCode != "" {
		currency = strings.ToUpper(in.CurrencyCode)
	}
	rounding, err := money.Rounding(currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	invoiceDate, err := parseDate(in.InvoiceDate)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		PartnerID:    partner.ID,
		Prefix:       in.Prefix,
		Number:       in.Number,
		InvoiceDate:  invoiceDate,
		CurrencyCode: currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	lines := make([]*entity.InvoiceLine, 0, len(in.Lines))
	for i, item := range in.Lines {
		line, err := uc.buildLine(ctx, companyID, inv.ID, item)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		if err := discount.Check(line, rounding); err != nil {
			return nil, err
		}
		line.ComputeSubtotal(rounding)
		lines = append(lines, line)
	}
	inv.RecomputeTotals(lines, rounding)

	err = uc.txRunner.RunBilling(ctx, func(_ repository.PartnerRepository, invoiceRepo repository.InvoiceRepository) error {
		if inv.Number == "" {
			next, err := invoiceRepo.NextNumber(ctx, companyID, inv.Prefix)
			if err != nil {
				return err
			}
			inv.Number = strconv.FormatInt(next, 10)
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, line := range lines {
			if err := invoiceRepo.CreateLine(ctx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	entity.MirrorInvoiceDate(inv, lines)
	return uc.toResponse(ctx, inv, partner, lines)
}

func (uc *InvoiceUseCase) buildLine(ctx context.Context, companyID, invoiceID string, item dto.InvoiceLineRequest) (*entity.InvoiceLine, error) {
	line := &entity.InvoiceLine{
		ID:            uuid.New().String(),
		InvoiceID:     invoiceID,
		ProductID:     item.ProductID,
		Name:          item.Name,
		DisplayType:   item.DisplayType,
		Quantity:      item.Quantity,
		PriceUnit:     item.PriceUnit,
		Discount:      item.Discount,
		DiscountFixed: item.DiscountFixed,
		TaxRate:       item.TaxRate,
	}
	if line.DisplayType == "" {
		line.DisplayType = entity.DisplayTypeProduct
	}
	if line.Quantity.IsNegative() || line.PriceUnit.IsNegative() || line.DiscountFixed.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if line.ProductID != "" {
		product, err := uc.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		if line.Name == "" {
			line.Name = product.Name
		}
		if line.PriceUnit.IsZero() {
			line.PriceUnit = product.Price
		}
		if line.TaxRate.IsZero() {
			line.TaxRate = product.TaxRate
		}
	}
	line.NormalizeDiscount()
	return line, nil
}

// UpdateLine modifica cantidad, precio o descuentos de una línea y recalcula los totales.
// La coherencia de descuentos se valida solo si se escribió discount o discount_fixed.
func (uc *InvoiceUseCase) UpdateLine(ctx context.Context, companyID, invoiceID, lineID string, in dto.UpdateInvoiceLineRequest) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	var lines []*entity.InvoiceLine
	err := uc.txRunner.RunBilling(ctx, func(_ repository.PartnerRepository, invoiceRepo repository.InvoiceRepository) error {
		var err error
		inv, err = uc.loadInvoice(ctx, invoiceRepo, companyID, invoiceID)
		if err != nil {
			return err
		}
		line, err := invoiceRepo.GetLineByID(ctx, lineID)
		if err != nil {
			return err
		}
		if line == nil || line.InvoiceID != inv.ID {
			return domain.ErrNotFound
		}
		rounding, err := money.Rounding(inv.CurrencyCode)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}

		if in.Quantity != nil {
			line.Quantity = *in.Quantity
		}
		if in.PriceUnit != nil {
			line.PriceUnit = *in.PriceUnit
		}
		if in.Discount != nil {
			line.Discount = *in.Discount
		}
		if in.DiscountFixed != nil {
			line.DiscountFixed = *in.DiscountFixed
		}
		if line.Quantity.IsNegative() || line.PriceUnit.IsNegative() || line.DiscountFixed.IsNegative() {
			return domain.ErrInvalidInput
		}
		line.NormalizeDiscount()
		if in.Discount != nil || in.DiscountFixed != nil {
			if err := discount.Check(line, rounding); err != nil {
				return err
			}
		}
		line.ComputeSubtotal(rounding)
		if err := invoiceRepo.UpdateLine(ctx, line); err != nil {
			return err
		}

		lines, err = invoiceRepo.GetLinesByInvoiceID(ctx, inv.ID)
		if err != nil {
			return err
		}
		inv.RecomputeTotals(lines, rounding)
		inv.UpdatedAt = uc.now()
		return invoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return uc.responseWithPartner(ctx, inv, lines)
}

// SetInvoiceDate cambia la fecha de la factura; las líneas la reflejan en name_history_invoice_date.
func (uc *InvoiceUseCase) SetInvoiceDate(ctx context.Context, companyID, invoiceID string, in dto.SetInvoiceDateRequest) (*dto.InvoiceResponse, error) {
	newDate, err := parseDate(in.InvoiceDate)
	if err != nil {
		return nil, err
	}
	var inv *entity.Invoice
	var lines []*entity.InvoiceLine
	err = uc.txRunner.RunBilling(ctx, func(_ repository.PartnerRepository, invoiceRepo repository.InvoiceRepository) error {
		var err error
		inv, err = uc.loadInvoice(ctx, invoiceRepo, companyID, invoiceID)
		if err != nil {
			return err
		}
		inv.InvoiceDate = newDate
		inv.UpdatedAt = uc.now()
		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		lines, err = invoiceRepo.GetLinesByInvoiceID(ctx, inv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	entity.MirrorInvoiceDate(inv, lines)
	return uc.responseWithPartner(ctx, inv, lines)
}

// PreviewLine recalcula los descuentos de una línea en edición sin guardar nada.
func (uc *InvoiceUseCase) PreviewLine(_ context.Context, in dto.LineOnchangeRequest) (*dto.LineOnchangeResponse, error) {
	currency := uc.defaultCurrency
	if in.CurrencyCode != "" {
		currency = strings.ToUpper(in.CurrencyCode)
	}
	rounding, err := money.Rounding(currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	line := &entity.InvoiceLine{
		DisplayType:   in.DisplayType,
		Quantity:      in.Quantity,
		PriceUnit:     in.PriceUnit,
		Discount:      in.Discount,
		DiscountFixed: in.DiscountFixed,
	}
	if line.DisplayType == "" {
		line.DisplayType = entity.DisplayTypeProduct
	}
	discount.Onchange(line)
	line.ComputeSubtotal(rounding)
	return &dto.LineOnchangeResponse{
		DisplayType:   line.DisplayType,
		Quantity:      line.Quantity,
		PriceUnit:     line.PriceUnit,
		Discount:      line.Discount,
		DiscountFixed: line.DiscountFixed,
		Subtotal:      line.Subtotal,
	}, nil
}

// GetInvoice obtiene una factura con sus líneas. Con namehistory.WithNameHistory en ctx
// los nombres del tercero se resuelven a la fecha de la factura.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadInvoice(ctx, uc.invoiceRepo, companyID, id)
	if err != nil {
		return nil, err
	}
	lines, err := uc.invoiceRepo.GetLinesByInvoiceID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.responseWithPartner(ctx, inv, lines)
}

// ListInvoices lista las facturas de la empresa. Con namehistory.WithNameHistory en ctx
// cada fila lleva el nombre del tercero vigente en su fecha.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, companyID string, limit, offset int) ([]dto.InvoiceSummaryResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.invoiceRepo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	res := uc.resolver.ForRequest()
	partners := make(map[string]*entity.Partner)
	out := make([]dto.InvoiceSummaryResponse, 0, len(list))
	for _, inv := range list {
		partner, ok := partners[inv.PartnerID]
		if !ok {
			if partner, err = uc.partnerRepo.GetByID(ctx, inv.PartnerID); err != nil {
				return nil, err
			}
			partners[inv.PartnerID] = partner
		}
		name, err := res.PartnerName(ctx, entity.ModelInvoice, inv, entity.FieldPartnerID, partner)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.InvoiceSummaryResponse{
			ID:           inv.ID,
			PartnerID:    inv.PartnerID,
			PartnerName:  name,
			Prefix:       inv.Prefix,
			Number:       inv.Number,
			InvoiceDate:  formatDate(inv.InvoiceDate),
			CurrencyCode: inv.CurrencyCode,
			GrandTotal:   inv.GrandTotal,
		})
	}
	return out, nil
}

func (uc *InvoiceUseCase) loadInvoice(ctx context.Context, repo repository.InvoiceRepository, companyID, id string) (*entity.Invoice, error) {
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func (uc *InvoiceUseCase) responseWithPartner(ctx context.Context, inv *entity.Invoice, lines []*entity.InvoiceLine) (*dto.InvoiceResponse, error) {
	partner, err := uc.partnerRepo.GetByID(ctx, inv.PartnerID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, inv, partner, lines)
}

func (uc *InvoiceUseCase) toResponse(ctx context.Context, inv *entity.Invoice, partner *entity.Partner, lines []*entity.InvoiceLine) (*dto.InvoiceResponse, error) {
	res := uc.resolver.ForRequest()
	partnerName, err := res.PartnerName(ctx, entity.ModelInvoice, inv, entity.FieldPartnerID, partner)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceResponse{
		ID:           inv.ID,
		CompanyID:    inv.CompanyID,
		PartnerID:    inv.PartnerID,
		PartnerName:  partnerName,
		Prefix:       inv.Prefix,
		Number:       inv.Number,
		InvoiceDate:  formatDate(inv.InvoiceDate),
		CurrencyCode: inv.CurrencyCode,
		NetTotal:     inv.NetTotal,
		TaxTotal:     inv.TaxTotal,
		GrandTotal:   inv.GrandTotal,
		Lines:        make([]dto.InvoiceLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		lineName, err := res.PartnerName(ctx, entity.ModelInvoiceLine, l, entity.FieldPartnerID, partner)
		if err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, dto.InvoiceLineResponse{
			ID:                     l.ID,
			ProductID:              l.ProductID,
			Name:                   l.Name,
			DisplayType:            l.DisplayType,
			Quantity:               l.Quantity,
			PriceUnit:              l.PriceUnit,
			Discount:               l.Discount,
			DiscountFixed:          l.DiscountFixed,
			TaxRate:                l.TaxRate,
			Subtotal:               l.Subtotal,
			NameHistoryInvoiceDate: formatDate(l.NameHistoryInvoiceDate),
			PartnerName:            lineName,
		})
	}
	return out, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateLayout)
}
