package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/jhoicas/cressendo-erp/internal/application/ports"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/landedcost"
	dompayroll "github.com/jhoicas/cressendo-erp/internal/domain/payroll"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
	"github.com/jhoicas/cressendo-erp/internal/domain/tax"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/cache"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/memory"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/cressendo-erp/pkg/config"
)

// store repositorios fuera de transacción más el runner transaccional del driver elegido.
type store struct {
	txRunner   ports.TxRunner
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	stock      repository.StockRepository
	movements  repository.StockMovementRepository
	sales      repository.SalesRepository
	imports    repository.ImportRepository
	employees  repository.EmployeeRepository
	payroll    repository.PayrollRepository
	purchases  repository.PurchaseRepository
	close      func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	if cfg.Store.Driver == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		m := memory.NewStore()
		return &store{
			txRunner:   memory.NewTxRunner(m),
			products:   m.Products(),
			warehouses: m.Warehouses(),
			stock:      m.Stock(),
			movements:  m.Movements(),
			sales:      m.Sales(),
			imports:    m.Imports(),
			employees:  m.Employees(),
			payroll:    m.Payroll(),
			purchases:  m.Purchases(),
			close:      func() {},
		}, nil
	}

	if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
		return nil, fmt.Errorf("migraciones: %w", err)
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return &store{
		txRunner:   postgres.NewTxRunner(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		stock:      postgres.NewStockRepository(pool),
		movements:  postgres.NewStockMovementRepository(pool),
		sales:      postgres.NewSalesRepository(pool),
		imports:    postgres.NewImportRepository(pool),
		employees:  postgres.NewEmployeeRepository(pool),
		payroll:    postgres.NewPayrollRepository(pool),
		purchases:  postgres.NewPurchaseRepository(pool),
		close:      pool.Close,
	}, nil
}

// openCache caché Redis de totales por periodo; sin REDIS_ADDR o si no responde se trabaja sin caché.
func openCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.PeriodTotalsCache, func()) {
	if !cfg.Redis.Enabled() {
		return nil, func() {}
	}
	client, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible; se continúa sin caché")
		return nil, func() {}
	}
	ttl := time.Duration(cfg.Redis.TTLMinutes) * time.Minute
	return cache.NewPeriodTotals(client, ttl, log), func() { _ = client.Close() }
}

// domainServices servicios de dominio parametrizados por configuración.
type domainServices struct {
	engine     *tax.Engine
	allocator  *landedcost.Allocator
	calculator *dompayroll.Calculator
	payslips   *pdf.PayslipGenerator
	exporter   *spreadsheet.SalesRegisterExporter
}

func newDomainServices(cfg *config.Config) (*domainServices, error) {
	engine, err := tax.NewEngine(cfg.Tax.VATRate, cfg.Tax.IncomeTaxRate)
	if err != nil {
		return nil, err
	}
	rates := landedcost.PerceptionRates{
		landedcost.PerceptionFirstImport: cfg.Import.PerceptionFirstImport,
		landedcost.PerceptionFrequent:    cfg.Import.PerceptionFrequent,
		landedcost.PerceptionOther:       cfg.Import.PerceptionOther,
	}
	pension := make(map[entity.PensionSystem]decimal.Decimal, len(cfg.Payroll.PensionRates))
	for k, v := range cfg.Payroll.PensionRates {
		pension[entity.PensionSystem(k)] = v
	}
	return &domainServices{
		engine:     engine,
		allocator:  landedcost.NewAllocator(cfg.Tax.VATRate, rates),
		calculator: dompayroll.NewCalculator(dompayroll.RateSchedule{Pension: pension}, cfg.Payroll.EsSaludRate),
		payslips: pdf.NewPayslipGenerator(pdf.Employer{Name: cfg.App.CompanyName, RUC: cfg.App.CompanyRUC},
			language.LatinAmericanSpanish),
		exporter: spreadsheet.NewSalesRegisterExporter(),
	}, nil
}
