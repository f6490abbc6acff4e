package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/jhoicas/cressendo-erp/internal/application/accounting"
	"github.com/jhoicas/cressendo-erp/internal/application/catalog"
	"github.com/jhoicas/cressendo-erp/internal/application/imports"
	"github.com/jhoicas/cressendo-erp/internal/application/inventory"
	"github.com/jhoicas/cressendo-erp/internal/application/payroll"
	"github.com/jhoicas/cressendo-erp/internal/application/sales"
	httpRouter "github.com/jhoicas/cressendo-erp/internal/interfaces/http"
	"github.com/jhoicas/cressendo-erp/pkg/config"
	"github.com/jhoicas/cressendo-erp/pkg/logger"
)

func main() {
	// .env opcional en desarrollo; las variables ya exportadas tienen prioridad.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.App.TimeZone)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.App.TimeZone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	periodCache, closeCache := openCache(ctx, cfg, log.Component("cache"))
	defer closeCache()

	dom, err := newDomainServices(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("parámetros tributarios o de planilla")
	}

	warehouseUC := catalog.NewWarehouseUseCase(st.warehouses)
	central, err := warehouseUC.EnsureCentral(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén central")
	}
	log.Info().Str("warehouse_id", central.ID).Msg("almacén central disponible")

	ledger := inventory.NewLedger(st.txRunner, st.products, st.warehouses, st.stock, st.movements,
		cfg.Inventory.AllowOversell, log.Component("ledger"))
	salesUC := sales.NewSalesUseCase(st.txRunner, st.products, st.sales, ledger, periodCache, log.Component("sales"))
	importUC := imports.NewImportUseCase(st.txRunner, st.imports, st.products, ledger, dom.allocator, log.Component("imports"))
	accountingUC := accounting.NewAccountingUseCase(st.sales, st.purchases, dom.engine, periodCache,
		dom.exporter, loc, log.Component("accounting"))
	payrollUC := payroll.NewPayrollUseCase(st.employees, st.payroll, dom.calculator,
		cfg.Payroll.FamilyAllowance, dom.payslips, log.Component("payroll"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    catalog.NewProductUseCase(st.products),
		WarehouseUC:  warehouseUC,
		Ledger:       ledger,
		SalesUC:      salesUC,
		ImportUC:     importUC,
		AccountingUC: accountingUC,
		PayrollUC:    payrollUC,

		RebuildLimiter: rate.NewLimiter(rate.Every(time.Minute), 1),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
