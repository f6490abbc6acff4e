package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/payroll"
)

// PayrollHandler trabajadores, planillas y boletas.
type PayrollHandler struct {
	uc *payroll.PayrollUseCase
}

// NewPayrollHandler construye el handler.
func NewPayrollHandler(uc *payroll.PayrollUseCase) *PayrollHandler {
	return &PayrollHandler{uc: uc}
}

// CreateEmployee godoc
// @Summary      Registrar trabajador
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEmployeeRequest  true  "Trabajador"
// @Success      201  {object}  dto.EmployeeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payroll/employees [post]
func (h *PayrollHandler) CreateEmployee(c *fiber.Ctx) error {
	var in dto.CreateEmployeeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateEmployee(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListEmployees godoc
// @Summary      Listar trabajadores
// @Tags         payroll
// @Produce      json
// @Success      200  {array}  dto.EmployeeResponse
// @Router       /api/payroll/employees [get]
func (h *PayrollHandler) ListEmployees(c *fiber.Ctx) error {
	out, err := h.uc.ListEmployees(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Process godoc
// @Summary      Procesar planilla de un trabajador
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProcessPayrollRequest  true  "Planilla"
// @Success      201  {object}  dto.PayrollRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payroll/records [post]
func (h *PayrollHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessPayrollRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ProcessPayroll(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByPeriod godoc
// @Summary      Planillas de un periodo
// @Tags         payroll
// @Produce      json
// @Param        period  query  string  true  "YYYY-MM"
// @Success      200  {array}  dto.PayrollRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/payroll/records [get]
func (h *PayrollHandler) ListByPeriod(c *fiber.Ctx) error {
	period := c.Query("period")
	if period == "" {
		return missingParam(c, "period")
	}
	out, err := h.uc.ListByPeriod(c.UserContext(), period)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de planillas de un trabajador
// @Tags         payroll
// @Produce      json
// @Param        id   path  string  true  "ID del trabajador"
// @Success      200  {array}  dto.PayrollRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payroll/employees/{id}/records [get]
func (h *PayrollHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Payslip godoc
// @Summary      Boleta de pago en PDF
// @Tags         payroll
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la planilla"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payroll/records/{id}/payslip [get]
func (h *PayrollHandler) Payslip(c *fiber.Ctx) error {
	id := c.Params("id")
	data, err := h.uc.GeneratePayslip(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="boleta-%s.pdf"`, id))
	return c.Send(data)
}
