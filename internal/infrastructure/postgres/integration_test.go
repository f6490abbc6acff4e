package postgres_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/internal/application/catalog"
	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/inventory"
	"github.com/jhoicas/cressendo-erp/internal/application/sales"
	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/cressendo-erp/pkg/config"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// setupDB levanta PostgreSQL en un contenedor y aplica las migraciones.
// Sin Docker (o con -short) el test se omite.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Docker no disponible: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Docker no responde: %v", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=cressendo_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "no se pudo iniciar PostgreSQL")
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("purge: %v", err)
		}
	})

	port, err := strconv.Atoi(resource.GetPort("5432/tcp"))
	require.NoError(t, err)
	cfg := config.DBConfig{
		Host: "localhost", Port: port, User: "test", Password: "test",
		DBName: "cressendo_test", SSLMode: "disable", MaxConns: 16,
	}

	var db *pgxpool.Pool
	err = pool.Retry(func() error {
		p, err := postgres.NewPool(context.Background(), cfg)
		if err != nil {
			return err
		}
		db = p
		return nil
	})
	require.NoError(t, err, "PostgreSQL no quedó disponible")
	t.Cleanup(db.Close)

	require.NoError(t, postgres.Migrate(cfg.DSN(), zerolog.Nop()))
	return db
}

type pgFixture struct {
	db        *pgxpool.Pool
	ledger    *inventory.Ledger
	productID string
	central   string
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()
	db := setupDB(t)

	products := postgres.NewProductRepository(db)
	warehouses := postgres.NewWarehouseRepository(db)
	central, err := catalog.NewWarehouseUseCase(warehouses).EnsureCentral(ctx)
	require.NoError(t, err)

	unit, dozen := d("10"), d("8")
	p, err := catalog.NewProductUseCase(products).Create(ctx, dto.CreateProductRequest{
		SKU: "BEB-001", Name: "Bebedero 5L", UnitPrice: &unit, DozenPrice: &dozen,
	})
	require.NoError(t, err)

	ledger := inventory.NewLedger(postgres.NewTxRunner(db), products, warehouses,
		postgres.NewStockRepository(db), postgres.NewStockMovementRepository(db), false, zerolog.Nop())
	return &pgFixture{db: db, ledger: ledger, productID: p.ID, central: central.ID}
}

func TestPostgres_SobreventaConcurrente(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Record(ctx, inventory.RecordInput{
		ProductID: f.productID, WarehouseID: f.central, Type: entity.MovementInbound, Delta: d("5"),
	})
	require.NoError(t, err)

	const workers = 10
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, over   int
		unexpected []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Record(ctx, inventory.RecordInput{
				ProductID: f.productID, WarehouseID: f.central, Type: entity.MovementOutbound,
				Reason: entity.ReasonSale, Delta: d("-1"),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrOversell):
				over++
			default:
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpected)
	assert.Equal(t, 5, ok)
	assert.Equal(t, 5, over)

	b, err := f.ledger.Balance(ctx, f.productID, f.central)
	require.NoError(t, err)
	assert.True(t, b.Quantity.IsZero(), "saldo final %s", b.Quantity)

	res, err := f.ledger.Rebuild(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, res.Drift)
	assert.Equal(t, 6, res.Movements)
}

func TestPostgres_KardexSoloInsercion(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	mov, err := f.ledger.Record(ctx, inventory.RecordInput{
		ProductID: f.productID, WarehouseID: f.central, Type: entity.MovementInbound, Delta: d("3"),
	})
	require.NoError(t, err)

	_, err = f.db.Exec(ctx, `UPDATE stock_movements SET delta = 100 WHERE id = $1`, mov.ID)
	assert.Error(t, err)
	_, err = f.db.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, mov.ID)
	assert.Error(t, err)
}

func TestPostgres_VentaYCotizacion(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	_, err := f.ledger.Record(ctx, inventory.RecordInput{
		ProductID: f.productID, WarehouseID: f.central, Type: entity.MovementInbound, Delta: d("24"),
	})
	require.NoError(t, err)

	salesRepo := postgres.NewSalesRepository(f.db)
	uc := sales.NewSalesUseCase(postgres.NewTxRunner(f.db), postgres.NewProductRepository(f.db), salesRepo, f.ledger, nil, zerolog.Nop())

	req := dto.CreateSaleRequest{
		Customer: "Bodega Rosita", DocumentType: string(entity.DocFactura), WarehouseID: f.central,
		Lines: []dto.SalesLineRequest{{ProductID: f.productID, Quantity: d("12")}},
	}
	quote, err := uc.Quote(ctx, req)
	require.NoError(t, err)
	assert.True(t, d("96").Equal(quote.Total))

	committed, err := uc.Promote(ctx, quote.ID, dto.PromoteQuoteRequest{})
	require.NoError(t, err)
	require.Len(t, committed.Lines, 1)
	assert.NotZero(t, committed.Lines[0].MovementID)

	_, err = uc.Promote(ctx, quote.ID, dto.PromoteQuoteRequest{})
	assert.ErrorIs(t, err, domain.ErrAlreadyCommitted)

	b, err := f.ledger.Balance(ctx, f.productID, f.central)
	require.NoError(t, err)
	assert.True(t, d("12").Equal(b.Quantity))

	list, err := salesRepo.ListCommitted(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, quote.ID, list[0].ID)
}
