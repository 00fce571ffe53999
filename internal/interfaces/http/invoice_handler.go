package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain/namehistory"
	"github.com/rs/zerolog"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc    *billing.InvoiceUseCase
	pdfUC *billing.PDFUseCase
	log   zerolog.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdfUC *billing.PDFUseCase, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdfUC: pdfUC, log: log}
}

// nameHistoryContext activa la resolución histórica si la query trae use_partner_name_history=true.
func nameHistoryContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if c.QueryBool(namehistory.ContextKey, false) {
		return namehistory.WithNameHistory(ctx)
	}
	return ctx
}

// Create godoc
// @Summary      Crear factura
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Factura con líneas"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse  "DISCOUNT_MISMATCH"
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateInvoice(nameHistoryContext(c), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	h.log.Info().Str("invoice_id", out.ID).Str("company_id", out.CompanyID).Msg("factura creada")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        limit                     query  int   false  "Límite"
// @Param        offset                    query  int   false  "Desplazamiento"
// @Param        use_partner_name_history  query  bool  false  "Resolver nombres históricos"
// @Success      200  {array}  dto.InvoiceSummaryResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListInvoices(nameHistoryContext(c), GetCompanyID(c), limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Description  Con use_partner_name_history=true los nombres del tercero son los vigentes en la fecha de la factura.
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id                        path   string  true   "ID de la factura"
// @Param        use_partner_name_history  query  bool    false  "Resolver nombres históricos"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(nameHistoryContext(c), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetDate godoc
// @Summary      Cambiar la fecha contable de la factura
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la factura"
// @Param        body  body  dto.SetInvoiceDateRequest  true  "Fecha (vacía = sin fecha)"
// @Success      200   {object}  dto.InvoiceResponse
// @Router       /api/invoices/{id}/date [put]
func (h *InvoiceHandler) SetDate(c *fiber.Ctx) error {
	var in dto.SetInvoiceDateRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetInvoiceDate(nameHistoryContext(c), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateLine godoc
// @Summary      Modificar una línea de la factura
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path  string                        true  "ID de la factura"
// @Param        lineId  path  string                        true  "ID de la línea"
// @Param        body    body  dto.UpdateInvoiceLineRequest  true  "Campos a modificar"
// @Success      200     {object}  dto.InvoiceResponse
// @Failure      422     {object}  dto.ErrorResponse  "DISCOUNT_MISMATCH"
// @Router       /api/invoices/{id}/lines/{lineId} [patch]
func (h *InvoiceHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceLineRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateLine(nameHistoryContext(c), GetCompanyID(c), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PreviewLine godoc
// @Summary      Recalcular una línea en edición (no persiste)
// @Description  Con discount_fixed distinto de cero recalcula el porcentaje; secciones/notas o cantidad/precio en cero limpian el descuento fijo.
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LineOnchangeRequest  true  "Línea en edición"
// @Success      200   {object}  dto.LineOnchangeResponse
// @Router       /api/invoice-lines/onchange [post]
func (h *InvoiceHandler) PreviewLine(c *fiber.Ctx) error {
	var in dto.LineOnchangeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.PreviewLine(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar la factura en PDF
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
