package http

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/cressendo-erp/internal/application/accounting"
	"github.com/jhoicas/cressendo-erp/internal/application/catalog"
	"github.com/jhoicas/cressendo-erp/internal/application/imports"
	"github.com/jhoicas/cressendo-erp/internal/application/inventory"
	"github.com/jhoicas/cressendo-erp/internal/application/payroll"
	"github.com/jhoicas/cressendo-erp/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *catalog.ProductUseCase
	WarehouseUC  *catalog.WarehouseUseCase
	Ledger       *inventory.Ledger
	SalesUC      *sales.SalesUseCase
	ImportUC     *imports.ImportUseCase
	AccountingUC *accounting.AccountingUseCase
	PayrollUC    *payroll.PayrollUseCase

	// RebuildLimiter opcional; limita POST /api/inventory/rebuild.
	RebuildLimiter *rate.Limiter
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.RebuildLimiter)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Get("/:id/valuation", inventoryHandler.Valuation)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id/prices", productHandler.UpdatePrices)
	products.Get("/:id/price", productHandler.Price)

	// Inventory (kardex)
	invGroup := api.Group("/inventory")
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Post("/transfers", inventoryHandler.Transfer)
	invGroup.Get("/balance", inventoryHandler.Balance)
	invGroup.Get("/kardex", inventoryHandler.Kardex)
	invGroup.Post("/rebuild", inventoryHandler.Rebuild)

	// Sales
	salesGroup := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC)
	salesGroup.Get("/", salesHandler.List)
	salesGroup.Post("/", salesHandler.Commit)
	salesGroup.Post("/quotes", salesHandler.Quote)
	salesGroup.Post("/availability", salesHandler.CheckAvailability)
	salesGroup.Get("/:id", salesHandler.GetByID)
	salesGroup.Delete("/:id", salesHandler.Discard)
	salesGroup.Post("/:id/commit", salesHandler.Promote)

	// Imports
	importsGroup := api.Group("/imports")
	importHandler := NewImportHandler(deps.ImportUC)
	importsGroup.Post("/", importHandler.Create)
	importsGroup.Get("/", importHandler.List)
	importsGroup.Get("/:id", importHandler.GetByID)
	importsGroup.Patch("/:id", importHandler.UpdateCosts)
	importsGroup.Post("/:id/items", importHandler.AddItem)
	importsGroup.Delete("/:id/items/:itemId", importHandler.RemoveItem)
	importsGroup.Put("/:id/status", importHandler.SetStatus)
	importsGroup.Get("/:id/costing", importHandler.Costing)
	importsGroup.Post("/:id/nationalize", importHandler.Nationalize)

	// Accounting
	acc := api.Group("/accounting")
	accountingHandler := NewAccountingHandler(deps.AccountingUC)
	acc.Get("/sales-register", accountingHandler.SalesRegister)
	acc.Get("/sales-register/export", accountingHandler.ExportSalesRegister)
	acc.Post("/purchases", accountingHandler.RegisterPurchase)
	acc.Get("/purchase-register", accountingHandler.PurchaseRegister)

	// Payroll
	pay := api.Group("/payroll")
	payrollHandler := NewPayrollHandler(deps.PayrollUC)
	pay.Post("/employees", payrollHandler.CreateEmployee)
	pay.Get("/employees", payrollHandler.ListEmployees)
	pay.Get("/employees/:id/records", payrollHandler.History)
	pay.Post("/records", payrollHandler.Process)
	pay.Get("/records", payrollHandler.ListByPeriod)
	pay.Get("/records/:id/payslip", payrollHandler.Payslip)
}
