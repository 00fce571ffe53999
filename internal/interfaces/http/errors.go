package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/discount"
	"github.com/rs/zerolog"
)

// validate valida los DTOs con los tags `validate`; los campos se reportan con su nombre JSON.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON y lo valida. Si falla ya escribió la respuesta 400 y devuelve false.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(validationResponse(err))
	}
	return true, nil
}

func validationResponse(err error) dto.ErrorResponse {
	resp := dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			field := e.Namespace()
			if _, rest, ok := strings.Cut(field, "."); ok {
				field = rest // sin el nombre del struct raíz
			}
			resp.Details = append(resp.Details, dto.FieldDetail{Field: field, Message: fieldMessage(e)})
		}
	}
	return resp
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo obligatorio"
	case "email":
		return "email inválido"
	case "oneof":
		return "debe ser uno de: " + e.Param()
	case "datetime":
		return "fecha inválida, formato " + e.Param()
	case "min":
		return "mínimo " + e.Param()
	case "max":
		return "máximo " + e.Param()
	case "len":
		return "longitud exacta " + e.Param()
	}
	return "valor inválido (" + e.Tag() + ")"
}

// respondError traduce errores de dominio a la respuesta HTTP.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var mismatch *discount.MismatchError
	switch {
	case errors.As(err, &mismatch):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "DISCOUNT_MISMATCH", Message: mismatch.Error()})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// pageParams lee limit/offset de la query con valores por defecto.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	if p.Limit > 100 {
		p.Limit = 100
	}
	p.DefaultPage()
	return p.Limit, p.Offset
}
