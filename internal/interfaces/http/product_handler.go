package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cressendo-erp/internal/application/catalog"
	"github.com/jhoicas/cressendo-erp/internal/application/dto"
)

// ProductHandler maneja las peticiones HTTP del catálogo de productos.
type ProductHandler struct {
	uc *catalog.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20, máx 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdatePrices godoc
// @Summary      Reemplazar tarifas por volumen
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del producto"
// @Param        body  body  dto.UpdatePricesRequest  true  "Tarifas"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/prices [put]
func (h *ProductHandler) UpdatePrices(c *fiber.Ctx) error {
	var in dto.UpdatePricesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdatePrices(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "producto")
	}
	return c.JSON(out)
}

// Price godoc
// @Summary      Resolver precio por cantidad
// @Tags         products
// @Produce      json
// @Param        id   path   string  true  "ID del producto"
// @Param        qty  query  string  true  "Cantidad"
// @Success      200  {object}  dto.PriceQuoteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/price [get]
func (h *ProductHandler) Price(c *fiber.Ctx) error {
	raw := c.Query("qty")
	if raw == "" {
		return missingParam(c, "qty")
	}
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "qty inválido"})
	}
	out, err := h.uc.Price(c.UserContext(), c.Params("id"), qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
