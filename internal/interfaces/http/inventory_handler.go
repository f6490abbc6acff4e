package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/inventory"
)

// InventoryHandler expone el kardex: movimientos, transferencias, saldos y valorización.
type InventoryHandler struct {
	ledger  *inventory.Ledger
	rebuild *rate.Limiter // nil: sin límite
}

// NewInventoryHandler construye el handler. rebuildLimiter acota los recálculos completos del kardex.
func NewInventoryHandler(ledger *inventory.Ledger, rebuildLimiter *rate.Limiter) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, rebuild: rebuildLimiter}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Agrega una fila al kardex y actualiza el saldo del par producto/almacén.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.RecordFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Transferir stock entre almacenes
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "Transferencia"
// @Success      201  {object}  dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.Transfer(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Balance godoc
// @Summary      Saldo de un producto en un almacén
// @Tags         inventory
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID del almacén"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/balance [get]
func (h *InventoryHandler) Balance(c *fiber.Ctx) error {
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return missingParam(c, "product_id y warehouse_id")
	}
	out, err := h.ledger.Balance(c.UserContext(), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Kardex godoc
// @Summary      Kardex con saldo corrido
// @Tags         inventory
// @Produce      json
// @Param        product_id    query  string  true   "ID del producto"
// @Param        warehouse_id  query  string  true   "ID del almacén"
// @Param        from          query  string  false  "Desde (YYYY-MM-DD o RFC3339, inclusive)"
// @Param        to            query  string  false  "Hasta (YYYY-MM-DD o RFC3339, exclusivo)"
// @Success      200  {object}  dto.KardexResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	productID, warehouseID := c.Query("product_id"), c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return missingParam(c, "product_id y warehouse_id")
	}
	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido"})
	}
	out, err := h.ledger.Kardex(c.UserContext(), productID, warehouseID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Valuation godoc
// @Summary      Kardex valorizado de un almacén
// @Tags         inventory
// @Produce      json
// @Param        id   path  string  true  "ID del almacén"
// @Success      200  {object}  dto.ValuationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/valuation [get]
func (h *InventoryHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.ledger.Valuation(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Rebuild godoc
// @Summary      Recalcular saldos desde el kardex
// @Description  Sin repair solo informa las diferencias; con repair=true reescribe los saldos.
// @Tags         inventory
// @Produce      json
// @Param        repair  query  bool  false  "Reescribir saldos"
// @Success      200  {object}  dto.RebuildResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/inventory/rebuild [post]
func (h *InventoryHandler) Rebuild(c *fiber.Ctx) error {
	if h.rebuild != nil && !h.rebuild.Allow() {
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "recálculo en curso o reciente; reintente más tarde"})
	}
	out, err := h.ledger.Rebuild(c.UserContext(), c.QueryBool("repair", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseTimeQuery acepta YYYY-MM-DD (UTC) o RFC3339; vacío devuelve nil.
func parseTimeQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
