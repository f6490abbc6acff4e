package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cressendo-erp/internal/application/catalog"
	"github.com/jhoicas/cressendo-erp/internal/application/dto"
)

// WarehouseHandler maneja las peticiones HTTP de almacenes.
type WarehouseHandler struct {
	uc *catalog.WarehouseUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *catalog.WarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear almacén
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "Datos del almacén"
// @Success      201   {object}  dto.WarehouseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouses [post]
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
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
// @Summary      Obtener almacén por ID
// @Tags         warehouses
// @Produce      json
// @Param        id   path  string  true  "ID del almacén"
// @Success      200  {object}  dto.WarehouseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "almacén")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar almacenes
// @Tags         warehouses
// @Produce      json
// @Success      200  {object}  dto.WarehouseListResponse
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
