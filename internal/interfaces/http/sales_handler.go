package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/sales"
)

// SalesHandler cotizaciones y ventas confirmadas.
type SalesHandler struct {
	uc *sales.SalesUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *sales.SalesUseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Quote godoc
// @Summary      Registrar cotización
// @Description  Resuelve precios por tarifa y guarda la cotización sin mover stock.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/quotes [post]
func (h *SalesHandler) Quote(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Quote(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Commit godoc
// @Summary      Confirmar venta
// @Description  Registra la venta y descuenta el stock de todas sus líneas en una sola transacción.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) Commit(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Commit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Promote godoc
// @Summary      Confirmar una cotización
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true   "ID de la cotización"
// @Param        body  body  dto.PromoteQuoteRequest  false  "Opciones"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/commit [post]
func (h *SalesHandler) Promote(c *fiber.Ctx) error {
	var in dto.PromoteQuoteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.Promote(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CheckAvailability godoc
// @Summary      Verificar stock para una venta
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/availability [post]
func (h *SalesHandler) CheckAvailability(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CheckAvailability(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta o cotización
// @Tags         sales
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "venta")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Historial de ventas y cotizaciones
// @Description  Más recientes primero. Sin status lista cotizaciones y ventas confirmadas.
// @Tags         sales
// @Produce      json
// @Param        status  query  string  false  "QUOTE o COMMITTED"
// @Param        limit   query  int     false  "Límite (default 20, máx 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Discard godoc
// @Summary      Descartar una cotización
// @Description  Solo cotizaciones; no mueve stock. Una venta confirmada responde 409.
// @Tags         sales
// @Param        id   path  string  true  "ID de la cotización"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SalesHandler) Discard(c *fiber.Ctx) error {
	if err := h.uc.Discard(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
