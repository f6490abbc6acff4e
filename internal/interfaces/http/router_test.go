package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/jhoicas/cressendo-erp/internal/application/accounting"
	"github.com/jhoicas/cressendo-erp/internal/application/catalog"
	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/imports"
	"github.com/jhoicas/cressendo-erp/internal/application/inventory"
	"github.com/jhoicas/cressendo-erp/internal/application/payroll"
	"github.com/jhoicas/cressendo-erp/internal/application/sales"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/landedcost"
	dompayroll "github.com/jhoicas/cressendo-erp/internal/domain/payroll"
	"github.com/jhoicas/cressendo-erp/internal/domain/tax"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/memory"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/spreadsheet"
	httpiface "github.com/jhoicas/cressendo-erp/internal/interfaces/http"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newTestApp arma la API completa sobre el almacenamiento en memoria.
func newTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	warehouseUC := catalog.NewWarehouseUseCase(store.Warehouses())
	central, err := warehouseUC.EnsureCentral(ctx)
	require.NoError(t, err)

	ledger := inventory.NewLedger(runner, store.Products(), store.Warehouses(), store.Stock(), store.Movements(), false, log)
	engine, err := tax.NewEngine(d("0.18"), d("0.015"))
	require.NoError(t, err)
	calc := dompayroll.NewCalculator(dompayroll.RateSchedule{Pension: map[entity.PensionSystem]decimal.Decimal{
		entity.PensionONP: d("0.13"),
	}}, d("0.09"))
	payslips := pdf.NewPayslipGenerator(pdf.Employer{Name: "Cressendo SAC", RUC: "20123456789"}, language.Spanish)

	app := fiber.New()
	httpiface.Router(app, httpiface.RouterDeps{
		ProductUC:    catalog.NewProductUseCase(store.Products()),
		WarehouseUC:  warehouseUC,
		Ledger:       ledger,
		SalesUC:      sales.NewSalesUseCase(runner, store.Products(), store.Sales(), ledger, nil, log),
		ImportUC:     imports.NewImportUseCase(runner, store.Imports(), store.Products(), ledger, landedcost.NewAllocator(d("0.18"), landedcost.DefaultPerceptionRates()), log),
		AccountingUC: accounting.NewAccountingUseCase(store.Sales(), store.Purchases(), engine, nil, spreadsheet.NewSalesRegisterExporter(), time.UTC, log),
		PayrollUC:    payroll.NewPayrollUseCase(store.Employees(), store.Payroll(), calc, d("102.50"), payslips, log),

		RebuildLimiter: rate.NewLimiter(rate.Every(time.Hour), 1),
	})
	return app, central.ID
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func createProduct(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, raw := do(t, app, fiber.MethodPost, "/api/products",
		`{"sku":"BEB-001","name":"Bebedero 5L","unit_price":"10","dozen_price":"8"}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(raw, &p))
	return p.ID
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	status, raw := do(t, app, fiber.MethodGet, "/health", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestProducts_PrecioPorTarifa(t *testing.T) {
	app, _ := newTestApp(t)
	id := createProduct(t, app)

	tests := []struct {
		qty  string
		tier string
		unit string
	}{
		{"5", "UNIT", "10"},
		{"12", "DOZEN", "8"},
	}
	for _, tt := range tests {
		t.Run(tt.qty, func(t *testing.T) {
			status, raw := do(t, app, fiber.MethodGet, "/api/products/"+id+"/price?qty="+tt.qty, "")
			require.Equal(t, fiber.StatusOK, status, string(raw))
			var q dto.PriceQuoteResponse
			require.NoError(t, json.Unmarshal(raw, &q))
			assert.Equal(t, tt.tier, q.Tier)
			assert.True(t, d(tt.unit).Equal(q.UnitPrice))
		})
	}

	status, _ := do(t, app, fiber.MethodGet, "/api/products/"+id+"/price", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = do(t, app, fiber.MethodGet, "/api/products/no-existe", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestProducts_SKUDuplicado(t *testing.T) {
	app, _ := newTestApp(t)
	createProduct(t, app)
	status, raw := do(t, app, fiber.MethodPost, "/api/products", `{"sku":"BEB-001","name":"Otro"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "DUPLICATE", e.Code)
}

func TestInventory_MovimientosYSobreventa(t *testing.T) {
	app, wh := newTestApp(t)
	id := createProduct(t, app)

	status, raw := do(t, app, fiber.MethodPost, "/api/inventory/movements",
		`{"product_id":"`+id+`","warehouse_id":"`+wh+`","type":"INBOUND","reason":"purchase","delta":"5"}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))

	sale := `{"customer":"Bodega Rosita","document_type":"BOLETA","warehouse_id":"` + wh +
		`","lines":[{"product_id":"` + id + `","quantity":"8"}]}`
	status, raw = do(t, app, fiber.MethodPost, "/api/sales", sale)
	assert.Equal(t, fiber.StatusConflict, status)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	status, raw = do(t, app, fiber.MethodGet, "/api/inventory/balance?product_id="+id+"&warehouse_id="+wh, "")
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var b dto.BalanceResponse
	require.NoError(t, json.Unmarshal(raw, &b))
	assert.True(t, d("5").Equal(b.Quantity), "la venta rechazada no mueve stock")

	status, raw = do(t, app, fiber.MethodGet, "/api/inventory/kardex?product_id="+id+"&warehouse_id="+wh, "")
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var k dto.KardexResponse
	require.NoError(t, json.Unmarshal(raw, &k))
	assert.Len(t, k.Lines, 1)
}

func TestInventory_ProductoDesconocido(t *testing.T) {
	app, wh := newTestApp(t)
	status, raw := do(t, app, fiber.MethodPost, "/api/inventory/movements",
		`{"product_id":"fantasma","warehouse_id":"`+wh+`","type":"INBOUND","delta":"1"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "UNKNOWN_PRODUCT", e.Code)
}

func TestInventory_CuerpoInvalido(t *testing.T) {
	app, _ := newTestApp(t)
	status, raw := do(t, app, fiber.MethodPost, "/api/inventory/movements", `{"product_id":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "INVALID_BODY", e.Code)
}

func TestSales_CotizacionYRegistro(t *testing.T) {
	app, wh := newTestApp(t)
	id := createProduct(t, app)
	status, _ := do(t, app, fiber.MethodPost, "/api/inventory/movements",
		`{"product_id":"`+id+`","warehouse_id":"`+wh+`","type":"INBOUND","delta":"24"}`)
	require.Equal(t, fiber.StatusCreated, status)

	sale := `{"customer":"Bodega Rosita","document_type":"FACTURA","warehouse_id":"` + wh +
		`","lines":[{"product_id":"` + id + `","quantity":"12"}]}`
	status, raw := do(t, app, fiber.MethodPost, "/api/sales/quotes", sale)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var quote dto.SaleResponse
	require.NoError(t, json.Unmarshal(raw, &quote))
	assert.True(t, d("96").Equal(quote.Total))

	status, raw = do(t, app, fiber.MethodPost, "/api/sales/"+quote.ID+"/commit", "")
	require.Equal(t, fiber.StatusOK, status, string(raw))
	status, _ = do(t, app, fiber.MethodPost, "/api/sales/"+quote.ID+"/commit", "")
	assert.Equal(t, fiber.StatusConflict, status)

	period := time.Now().UTC().Format("2006-01")
	status, raw = do(t, app, fiber.MethodGet, "/api/accounting/sales-register?period="+period, "")
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var reg dto.SalesRegisterResponse
	require.NoError(t, json.Unmarshal(raw, &reg))
	assert.Equal(t, 1, reg.TaxableDocuments)
	assert.True(t, d("96").Equal(reg.TaxableTotal))

	status, _ = do(t, app, fiber.MethodGet, "/api/accounting/sales-register", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	req := httptest.NewRequest(fiber.MethodGet, "/api/accounting/sales-register/export?period="+period, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "spreadsheetml")
}

func TestPayroll_ProcesoYBoleta(t *testing.T) {
	app, _ := newTestApp(t)
	status, raw := do(t, app, fiber.MethodPost, "/api/payroll/employees",
		`{"full_name":"Rosa Quispe","dni":"45678912","base_salary":"1897.50","family_allowance":true,"pension_system":"ONP","start_date":"2024-03-01T00:00:00Z"}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var emp dto.EmployeeResponse
	require.NoError(t, json.Unmarshal(raw, &emp))

	status, raw = do(t, app, fiber.MethodPost, "/api/payroll/records",
		`{"employee_id":"`+emp.ID+`","period":"2026-09"}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var rec dto.PayrollRecordResponse
	require.NoError(t, json.Unmarshal(raw, &rec))
	assert.True(t, d("2000").Equal(rec.GrossIncome))

	req := httptest.NewRequest(fiber.MethodGet, "/api/payroll/records/"+rec.ID+"/payslip", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))

	status, _ = do(t, app, fiber.MethodGet, "/api/payroll/records/no-existe/payslip", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = do(t, app, fiber.MethodGet, "/api/payroll/records", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestProducts_ListaPaginada(t *testing.T) {
	app, _ := newTestApp(t)
	createProduct(t, app)

	tests := []struct {
		query string
		limit int
	}{
		{"", 20},
		{"?limit=500", 100},
		{"?limit=abc", 20},
		{"?limit=5&offset=0", 5},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			status, raw := do(t, app, fiber.MethodGet, "/api/products"+tt.query, "")
			require.Equal(t, fiber.StatusOK, status, string(raw))
			var out dto.ProductListResponse
			require.NoError(t, json.Unmarshal(raw, &out))
			assert.Equal(t, tt.limit, out.Page.Limit)
			assert.Len(t, out.Items, 1)
		})
	}
}

func TestInventory_RebuildLimitado(t *testing.T) {
	app, wh := newTestApp(t)
	id := createProduct(t, app)
	status, _ := do(t, app, fiber.MethodPost, "/api/inventory/movements",
		`{"product_id":"`+id+`","warehouse_id":"`+wh+`","type":"INBOUND","delta":"3"}`)
	require.Equal(t, fiber.StatusCreated, status)

	status, raw := do(t, app, fiber.MethodPost, "/api/inventory/rebuild", "")
	require.Equal(t, fiber.StatusOK, status, string(raw))
	var res dto.RebuildResponse
	require.NoError(t, json.Unmarshal(raw, &res))
	assert.Equal(t, 1, res.Movements)
	assert.Empty(t, res.Drift)

	status, raw = do(t, app, fiber.MethodPost, "/api/inventory/rebuild", "")
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.Equal(t, "RATE_LIMITED", e.Code)
}

func TestSales_HistorialYDescarte(t *testing.T) {
	app, wh := newTestApp(t)
	id := createProduct(t, app)
	status, _ := do(t, app, fiber.MethodPost, "/api/inventory/movements",
		`{"product_id":"`+id+`","warehouse_id":"`+wh+`","type":"INBOUND","delta":"10"}`)
	require.Equal(t, fiber.StatusCreated, status)

	sale := `{"customer":"Bodega Rosita","document_type":"BOLETA","warehouse_id":"` + wh +
		`","lines":[{"product_id":"` + id + `","quantity":"2"}]}`
	var quotes []dto.SaleResponse
	for i := 0; i < 2; i++ {
		status, raw := do(t, app, fiber.MethodPost, "/api/sales/quotes", sale)
		require.Equal(t, fiber.StatusCreated, status, string(raw))
		var q dto.SaleResponse
		require.NoError(t, json.Unmarshal(raw, &q))
		quotes = append(quotes, q)
	}

	list := func(query string) dto.SaleListResponse {
		t.Helper()
		status, raw := do(t, app, fiber.MethodGet, "/api/sales"+query, "")
		require.Equal(t, fiber.StatusOK, status, string(raw))
		var out dto.SaleListResponse
		require.NoError(t, json.Unmarshal(raw, &out))
		return out
	}
	assert.Len(t, list("?status=QUOTE").Items, 2)

	status, _ = do(t, app, fiber.MethodDelete, "/api/sales/"+quotes[0].ID, "")
	assert.Equal(t, fiber.StatusNoContent, status)
	status, raw := do(t, app, fiber.MethodDelete, "/api/sales/"+quotes[0].ID, "")
	assert.Equal(t, fiber.StatusNotFound, status, string(raw))
	status, _ = do(t, app, fiber.MethodPost, "/api/sales/"+quotes[0].ID+"/commit", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, fiber.MethodPost, "/api/sales/"+quotes[1].ID+"/commit", "")
	require.Equal(t, fiber.StatusOK, status)
	status, raw = do(t, app, fiber.MethodDelete, "/api/sales/"+quotes[1].ID, "")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, string(raw), "ALREADY_COMMITTED")

	assert.Empty(t, list("?status=QUOTE").Items)
	committed := list("?status=COMMITTED")
	require.Len(t, committed.Items, 1)
	assert.Equal(t, quotes[1].ID, committed.Items[0].ID)
	assert.Len(t, list("").Items, 1)

	status, _ = do(t, app, fiber.MethodGet, "/api/sales?status=ANULADA", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}
