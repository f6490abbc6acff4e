package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/imports"
)

// ImportHandler embarques de importación y su costeo.
type ImportHandler struct {
	uc *imports.ImportUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *imports.ImportUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar importación
// @Tags         imports
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateImportRequest  true  "Cabecera"
// @Success      201  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/imports [post]
func (h *ImportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateImportRequest
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
// @Summary      Obtener importación
// @Tags         imports
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.ImportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/imports/{id} [get]
func (h *ImportHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "importación")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar importaciones
// @Tags         imports
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20, máx 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ImportListResponse
// @Router       /api/imports [get]
func (h *ImportHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCosts godoc
// @Summary      Actualizar flete, seguro, arancel o tipo de cambio
// @Tags         imports
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID"
// @Param        body  body  dto.UpdateImportCostsRequest  true  "Costos"
// @Success      200  {object}  dto.ImportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/imports/{id} [patch]
func (h *ImportHandler) UpdateCosts(c *fiber.Ctx) error {
	var in dto.UpdateImportCostsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateCosts(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar ítem a la importación
// @Tags         imports
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID"
// @Param        body  body  dto.ImportItemRequest  true  "Ítem"
// @Success      201  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/items [post]
func (h *ImportHandler) AddItem(c *fiber.Ctx) error {
	var in dto.ImportItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddItem(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar ítem de la importación
// @Tags         imports
// @Produce      json
// @Param        id      path  string  true  "ID"
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ImportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/items/{itemId} [delete]
func (h *ImportHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.uc.RemoveItem(c.UserContext(), c.Params("id"), c.Params("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Cambiar estado de la importación
// @Tags         imports
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID"
// @Param        body  body  dto.ImportStatusRequest  true  "Estado"
// @Success      200  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/status [put]
func (h *ImportHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.ImportStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Costing godoc
// @Summary      Costo de internamiento (vista previa)
// @Description  Prorratea flete, seguro y arancel por FOB y calcula IGV y percepción sin persistir.
// @Tags         imports
// @Produce      json
// @Param        id    path   string  true   "ID"
// @Param        tier  query  string  false  "FIRST_IMPORT | FREQUENT | OTHER"
// @Success      200  {object}  dto.LandedCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/costing [get]
func (h *ImportHandler) Costing(c *fiber.Ctx) error {
	out, err := h.uc.Costing(c.UserContext(), c.Params("id"), c.Query("tier"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Nationalize godoc
// @Summary      Nacionalizar importación
// @Description  Ingresa la mercadería al almacén con su costo de internamiento y congela la importación.
// @Tags         imports
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.NationalizeRequest  true  "Destino"
// @Success      200  {object}  dto.NationalizeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/nationalize [post]
func (h *ImportHandler) Nationalize(c *fiber.Ctx) error {
	var in dto.NationalizeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Nationalize(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
