package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cressendo-erp/internal/application/accounting"
	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AccountingHandler registros de ventas y compras del periodo.
type AccountingHandler struct {
	uc *accounting.AccountingUseCase
}

// NewAccountingHandler construye el handler.
func NewAccountingHandler(uc *accounting.AccountingUseCase) *AccountingHandler {
	return &AccountingHandler{uc: uc}
}

// bounds resuelve el periodo: ?period=YYYY-MM o ?start=…&end=… ([start, end)).
func (h *AccountingHandler) bounds(c *fiber.Ctx) (time.Time, time.Time, error) {
	if p := c.Query("period"); p != "" {
		return h.uc.MonthBounds(p)
	}
	start, err := parseTimeQuery(c.Query("start"))
	if err != nil || start == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: period o start/end requeridos", domain.ErrInvalidInput)
	}
	end, err := parseTimeQuery(c.Query("end"))
	if err != nil || end == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end inválido", domain.ErrInvalidInput)
	}
	return *start, *end, nil
}

// SalesRegister godoc
// @Summary      Registro de ventas del periodo
// @Tags         accounting
// @Produce      json
// @Param        period  query  string  false  "YYYY-MM"
// @Param        start   query  string  false  "Inicio (inclusive)"
// @Param        end     query  string  false  "Fin (exclusivo)"
// @Success      200  {object}  dto.SalesRegisterResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/accounting/sales-register [get]
func (h *AccountingHandler) SalesRegister(c *fiber.Ctx) error {
	start, end, err := h.bounds(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SalesRegister(c.UserContext(), start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportSalesRegister godoc
// @Summary      Registro de ventas en Excel
// @Tags         accounting
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        period  query  string  false  "YYYY-MM"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/accounting/sales-register/export [get]
func (h *AccountingHandler) ExportSalesRegister(c *fiber.Ctx) error {
	start, end, err := h.bounds(c)
	if err != nil {
		return writeError(c, err)
	}
	data, err := h.uc.ExportSalesRegister(c.UserContext(), start, end)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="registro-ventas-%s.xlsx"`, start.Format("2006-01")))
	return c.Send(data)
}

// RegisterPurchase godoc
// @Summary      Registrar comprobante de compra
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Comprobante"
// @Success      201  {object}  dto.PurchaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/accounting/purchases [post]
func (h *AccountingHandler) RegisterPurchase(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RegisterPurchase(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PurchaseRegister godoc
// @Summary      Registro de compras del periodo
// @Tags         accounting
// @Produce      json
// @Param        period  query  string  false  "YYYY-MM"
// @Success      200  {object}  dto.PurchaseRegisterResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/accounting/purchase-register [get]
func (h *AccountingHandler) PurchaseRegister(c *fiber.Ctx) error {
	start, end, err := h.bounds(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.PurchaseRegister(c.UserContext(), start, end)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
