package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sedes-inventario/internal/application/dto"
	"github.com/jhoicas/sedes-inventario/internal/domain"
	"github.com/jhoicas/sedes-inventario/pkg/logger"
	"github.com/jhoicas/sedes-inventario/pkg/validator"
)

// errorStatus traduce un error de dominio a status HTTP y código de respuesta.
func errorStatus(err error) (int, string) {
	var (
		verr  *domain.ValidationError
		perr  *domain.PermissionError
		serr  *domain.InsufficientStockError
		cerr  *domain.ConflictError
		cferr *domain.ConfigurationError
	)
	switch {
	case errors.As(err, &verr), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.As(err, &perr), errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.As(err, &serr):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.As(err, &cerr), errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.As(err, &cferr):
		return fiber.StatusInternalServerError, "CONFIGURATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// writeError responde con el ErrorResponse correspondiente. Los 5xx se registran en el log.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error en petición")
		if code == "INTERNAL" {
			msg = "error interno"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// validate aplica los tags validate del DTO; devuelve false si ya respondió con 400.
func validate(c *fiber.Ctx, in any) (bool, error) {
	errs := validator.ValidateStruct(in)
	if len(errs) == 0 {
		return true, nil
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: strings.Join(parts, "; "),
	})
}

// pageParams lee limit/offset normalizados con dto.NewPageRequest.
func pageParams(c *fiber.Ctx, max int) (int, int) {
	p := dto.NewPageRequest(c.QueryInt("limit", 0), c.QueryInt("offset", 0), max)
	return p.Limit, p.Offset
}
