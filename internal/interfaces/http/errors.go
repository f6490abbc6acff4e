package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/domain"
)

// errorMapping código HTTP y código de negocio por error de dominio; el primero que coincide gana.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrOversell, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrNegativeNetPay, fiber.StatusConflict, "NEGATIVE_NET_PAY"},
	{domain.ErrAlreadyCommitted, fiber.StatusConflict, "ALREADY_COMMITTED"},
	{domain.ErrImportFrozen, fiber.StatusConflict, "IMPORT_FROZEN"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrZeroBasisAllocation, fiber.StatusUnprocessableEntity, "ZERO_BASIS_ALLOCATION"},
	{domain.ErrUnknownProduct, fiber.StatusNotFound, "UNKNOWN_PRODUCT"},
	{domain.ErrUnknownWarehouse, fiber.StatusNotFound, "UNKNOWN_WAREHOUSE"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidProduct, fiber.StatusBadRequest, "INVALID_PRODUCT"},
	{domain.ErrInvalidRate, fiber.StatusBadRequest, "INVALID_RATE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// writeError traduce un error de caso de uso a la respuesta JSON.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: what + " no encontrado"})
}

func missingParam(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_PARAM", Message: name + " es requerido"})
}

// pageParams limit/offset con los topes de la API; valores no numéricos usan el default.
func pageParams(c *fiber.Ctx) (int, int) {
	var p dto.PageRequest
	_ = c.QueryParser(&p)
	p.DefaultPage()
	return p.Limit, p.Offset
}
