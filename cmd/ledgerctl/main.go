// ledgerctl tareas de mantenimiento del kardex sobre PostgreSQL.
//
// Uso:
//
//	ledgerctl migrate [-down]
//	ledgerctl verify
//	ledgerctl rebuild [-repair]
//
// verify termina con código 1 si algún saldo en caché difiere del kardex.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/inventory"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/cressendo-erp/pkg/config"
	"github.com/jhoicas/cressendo-erp/pkg/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "uso: ledgerctl <migrate|verify|rebuild> [opciones]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "ledgerctl"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "migrate":
		fs := flag.NewFlagSet("migrate", flag.ExitOnError)
		down := fs.Bool("down", false, "revertir todas las migraciones")
		_ = fs.Parse(args)
		if *down {
			err = postgres.MigrateDown(cfg.DB.ConnectionString(), log.Zerolog())
		} else {
			err = postgres.Migrate(cfg.DB.ConnectionString(), log.Zerolog())
		}
	case "verify":
		var res *dto.RebuildResponse
		res, err = rebuild(ctx, cfg, log.Component("ledger"), false)
		if err == nil && len(res.Drift) > 0 {
			report(log.Zerolog(), res)
			os.Exit(1)
		}
		if err == nil {
			report(log.Zerolog(), res)
		}
	case "rebuild":
		fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
		repair := fs.Bool("repair", false, "reescribir los saldos con los valores del kardex")
		_ = fs.Parse(args)
		var res *dto.RebuildResponse
		res, err = rebuild(ctx, cfg, log.Component("ledger"), *repair)
		if err == nil {
			report(log.Zerolog(), res)
		}
	default:
		usage()
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", cmd).Msg("comando fallido")
		os.Exit(1)
	}
}

func rebuild(ctx context.Context, cfg *config.Config, log zerolog.Logger, repair bool) (*dto.RebuildResponse, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	ledger := inventory.NewLedger(
		postgres.NewTxRunner(pool),
		postgres.NewProductRepository(pool),
		postgres.NewWarehouseRepository(pool),
		postgres.NewStockRepository(pool),
		postgres.NewStockMovementRepository(pool),
		cfg.Inventory.AllowOversell,
		log,
	)
	return ledger.Rebuild(ctx, repair)
}

func report(log zerolog.Logger, res *dto.RebuildResponse) {
	for _, d := range res.Drift {
		log.Warn().
			Str("product_id", d.ProductID).
			Str("warehouse_id", d.WarehouseID).
			Str("cached", d.Cached.String()).
			Str("recomputed", d.Recomputed.String()).
			Msg("saldo desalineado")
	}
	log.Info().
		Int("movements", res.Movements).
		Int("pairs", res.Pairs).
		Int("drift", len(res.Drift)).
		Bool("repaired", res.Repaired).
		Msg("kardex verificado")
}
