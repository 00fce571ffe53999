package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/rs/zerolog"
)

// PartnerHandler maneja terceros y su historial de nombres (protegido).
type PartnerHandler struct {
	uc  *billing.PartnerUseCase
	log zerolog.Logger
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(uc *billing.PartnerUseCase, log zerolog.Logger) *PartnerHandler {
	return &PartnerHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear tercero
// @Tags         partners
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartnerRequest  true  "Tercero"
// @Success      201   {object}  dto.PartnerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/partners [post]
func (h *PartnerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartnerRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar terceros
// @Tags         partners
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.PartnerResponse
// @Router       /api/partners [get]
func (h *PartnerHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener tercero
// @Tags         partners
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del tercero"
// @Success      200  {object}  dto.PartnerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/partners/{id} [get]
func (h *PartnerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Rename godoc
// @Summary      Cambiar el nombre de un tercero (queda en el historial)
// @Tags         partners
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del tercero"
// @Param        body  body  dto.RenamePartnerRequest  true  "Nuevo nombre y fecha efectiva"
// @Success      200   {object}  dto.PartnerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/partners/{id}/rename [post]
func (h *PartnerHandler) Rename(c *fiber.Ctx) error {
	var in dto.RenamePartnerRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Rename(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// NameHistory godoc
// @Summary      Historial de nombres del tercero
// @Tags         partners
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del tercero"
// @Success      200  {array}  dto.PartnerNameChangeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/partners/{id}/name-history [get]
func (h *PartnerHandler) NameHistory(c *fiber.Ctx) error {
	out, err := h.uc.NameHistory(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// NameAt godoc
// @Summary      Nombre vigente del tercero en una fecha
// @Tags         partners
// @Security     BearerAuth
// @Produce      json
// @Param        id    path   string  true  "ID del tercero"
// @Param        date  query  string  true  "Fecha YYYY-MM-DD"
// @Success      200   {object}  dto.PartnerNameAtResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/partners/{id}/name [get]
func (h *PartnerHandler) NameAt(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date es requerido (YYYY-MM-DD)"})
	}
	out, err := h.uc.NameAt(c.UserContext(), GetCompanyID(c), c.Params("id"), date)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
