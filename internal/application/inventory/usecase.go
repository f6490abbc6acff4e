package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/ports"
	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/inventory"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

const rebuildPageSize = 1000

// Ledger es el único escritor del kardex. Cada movimiento se registra dentro de una transacción
// que bloquea el saldo del par (producto, almacén), de modo que la verificación de sobreventa y
// la actualización del saldo no se intercalan con otra escritura del mismo par.
type Ledger struct {
	txRunner      ports.TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	movementRepo  repository.StockMovementRepository
	allowOversell bool
	log           zerolog.Logger
}

// NewLedger construye el caso de uso. allowOversell es la política por defecto; cada llamada
// puede autorizar la sobreventa de forma explícita.
func NewLedger(
	txRunner ports.TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
	allowOversell bool,
	log zerolog.Logger,
) *Ledger {
	return &Ledger{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		movementRepo:  movementRepo,
		allowOversell: allowOversell,
		log:           log,
	}
}

// RecordInput datos de un movimiento. TransactionID vacío genera uno nuevo.
type RecordInput struct {
	ProductID     string
	WarehouseID   string
	Type          entity.MovementType
	Reason        string
	Delta         decimal.Decimal
	TransactionID string
	AllowOversell bool
}

func (in RecordInput) validate() error {
	if in.ProductID == "" || in.WarehouseID == "" {
		return fmt.Errorf("%w: producto y almacén son obligatorios", domain.ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	if !in.Type.AcceptsDelta(in.Delta) {
		return fmt.Errorf("%w: delta %s no corresponde a %s", domain.ErrInvalidInput, in.Delta, in.Type)
	}
	if !entity.FitsQuantityScale(in.Delta) {
		return fmt.Errorf("%w: delta %s con más de %d decimales", domain.ErrInvalidInput, in.Delta, entity.QuantityScale)
	}
	return nil
}

// CheckReferences verifica que producto y almacén existan. Se llama antes de abrir la transacción.
func (l *Ledger) CheckReferences(ctx context.Context, productID, warehouseID string) (*entity.Product, error) {
	p, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.UnknownProduct(productID)
	}
	if err := l.CheckWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	return p, nil
}

// CheckWarehouse verifica que el almacén exista.
func (l *Ledger) CheckWarehouse(ctx context.Context, warehouseID string) error {
	w, err := l.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.UnknownWarehouse(warehouseID)
	}
	return nil
}

// Record agrega un movimiento al kardex y actualiza el saldo en una sola transacción.
// Las referencias se validan antes de mutar: un producto o almacén desconocido no deja rastro.
func (l *Ledger) Record(ctx context.Context, in RecordInput) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := l.CheckReferences(ctx, in.ProductID, in.WarehouseID); err != nil {
		return nil, err
	}
	if in.TransactionID == "" {
		in.TransactionID = uuid.New().String()
	}
	now := time.Now()

	var mov *entity.StockMovement
	err := l.txRunner.Run(ctx, func(repos ports.Repos) error {
		var err error
		mov, err = l.RecordInTx(ctx, repos, in, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RecordFromRequest adapta el request HTTP a Record.
func (l *Ledger) RecordFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	mov, err := l.Record(ctx, RecordInput{
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		Type:          entity.MovementType(in.Type),
		Reason:        in.Reason,
		Delta:         in.Delta,
		AllowOversell: in.AllowOversell,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(mov)
	return &out, nil
}

// RecordInTx registra el movimiento con los repositorios de una transacción abierta por el llamador
// (venta, nacionalización, traslado). Bloquea el saldo del par, verifica sobreventa, agrega el
// movimiento y actualiza el saldo.
func (l *Ledger) RecordInTx(ctx context.Context, repos ports.Repos, in RecordInput, now time.Time) (*entity.StockMovement, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.UnknownProduct(in.ProductID)
	}

	bal, err := repos.Stock.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	next := bal.Quantity.Add(in.Delta)
	if in.Delta.IsNegative() && next.IsNegative() {
		oe := &domain.OversellError{
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Balance:     bal.Quantity,
			Requested:   in.Delta.Neg(),
		}
		if !in.AllowOversell && !l.allowOversell {
			return nil, oe
		}
		l.log.Warn().
			Str("product_id", in.ProductID).
			Str("warehouse_id", in.WarehouseID).
			Str("balance", bal.Quantity.String()).
			Str("requested", in.Delta.Neg().String()).
			Msg("sobreventa autorizada: el saldo queda negativo")
	}

	mov := &entity.StockMovement{
		TransactionID: in.TransactionID,
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		Type:          in.Type,
		Reason:        in.Reason,
		Delta:         in.Delta,
		CreatedAt:     now,
	}
	id, err := repos.Movements.Append(ctx, mov)
	if err != nil {
		return nil, err
	}
	mov.ID = id

	bal.Quantity = next
	bal.LastMovementID = id
	bal.UpdatedAt = now
	if err := repos.Stock.Upsert(ctx, bal); err != nil {
		return nil, err
	}

	l.log.Debug().
		Int64("movement_id", id).
		Str("type", string(in.Type)).
		Str("product_id", in.ProductID).
		Str("warehouse_id", in.WarehouseID).
		Str("delta", in.Delta.String()).
		Str("balance", next.String()).
		Msg("movimiento registrado")
	return mov, nil
}

// Balance saldo cacheado del par; cero si nunca tuvo movimientos.
func (l *Ledger) Balance(ctx context.Context, productID, warehouseID string) (*dto.BalanceResponse, error) {
	if _, err := l.CheckReferences(ctx, productID, warehouseID); err != nil {
		return nil, err
	}
	b, err := l.stockRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	out := &dto.BalanceResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
	if b != nil {
		out.Quantity = b.Quantity
		out.LastMovementID = b.LastMovementID
	}
	return out, nil
}

// WouldOversell indica si retirar qty dejaría el saldo en negativo. No bloquea: el resultado es
// orientativo y la verificación definitiva ocurre dentro de la transacción.
func (l *Ledger) WouldOversell(ctx context.Context, productID, warehouseID string, qty decimal.Decimal) (bool, error) {
	b, err := l.Balance(ctx, productID, warehouseID)
	if err != nil {
		return false, err
	}
	return b.Quantity.Sub(qty).IsNegative(), nil
}

// Transfer traslada qty entre almacenes: una salida y una entrada TRANSFER en la misma transacción.
func (l *Ledger) Transfer(ctx context.Context, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, fmt.Errorf("%w: origen y destino iguales", domain.ErrInvalidInput)
	}
	if !in.Quantity.IsPositive() || !entity.FitsQuantityScale(in.Quantity) {
		return nil, fmt.Errorf("%w: cantidad %s debe ser positiva y con hasta %d decimales",
			domain.ErrInvalidInput, in.Quantity, entity.QuantityScale)
	}
	if _, err := l.CheckReferences(ctx, in.ProductID, in.FromWarehouseID); err != nil {
		return nil, err
	}
	if err := l.CheckWarehouse(ctx, in.ToWarehouseID); err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	now := time.Now()
	from := inventory.PairKey{ProductID: in.ProductID, WarehouseID: in.FromWarehouseID}
	to := inventory.PairKey{ProductID: in.ProductID, WarehouseID: in.ToWarehouseID}

	var outMov, inMov *entity.StockMovement
	err := l.txRunner.Run(ctx, func(repos ports.Repos) error {
		// bloqueo en orden fijo para no cruzarse con un traslado inverso
		if err := LockPairs(ctx, repos, []inventory.PairKey{from, to}); err != nil {
			return err
		}
		var err error
		outMov, err = l.RecordInTx(ctx, repos, RecordInput{
			ProductID: in.ProductID, WarehouseID: in.FromWarehouseID,
			Type: entity.MovementTransfer, Reason: entity.ReasonTransfer,
			Delta: in.Quantity.Neg(), TransactionID: txID,
		}, now)
		if err != nil {
			return err
		}
		inMov, err = l.RecordInTx(ctx, repos, RecordInput{
			ProductID: in.ProductID, WarehouseID: in.ToWarehouseID,
			Type: entity.MovementTransfer, Reason: entity.ReasonTransfer,
			Delta: in.Quantity, TransactionID: txID,
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.TransferResponse{
		TransactionID: txID,
		Out:           ToMovementResponse(outMov),
		In:            ToMovementResponse(inMov),
	}, nil
}

// LockPairs bloquea los saldos en orden (producto, almacén) para evitar interbloqueos
// entre transacciones que tocan varios pares.
func LockPairs(ctx context.Context, repos ports.Repos, keys []inventory.PairKey) error {
	sorted := inventory.SortedKeys(keys)
	for _, k := range sorted {
		if _, err := repos.Stock.GetForUpdate(ctx, k.ProductID, k.WarehouseID); err != nil {
			return err
		}
	}
	return nil
}

// Kardex movimientos del par en orden de inserción con saldo corrido. from/to filtran
// el rango [from, to) sin alterar el saldo corrido.
func (l *Ledger) Kardex(ctx context.Context, productID, warehouseID string, from, to *time.Time) (*dto.KardexResponse, error) {
	if _, err := l.CheckReferences(ctx, productID, warehouseID); err != nil {
		return nil, err
	}
	movs, err := l.movementRepo.List(ctx, repository.KardexFilter{ProductID: productID, WarehouseID: warehouseID})
	if err != nil {
		return nil, err
	}
	entries := inventory.RunningBalance(decimal.Zero, movs)

	out := &dto.KardexResponse{ProductID: productID, WarehouseID: warehouseID, Lines: []dto.KardexLine{}, Balance: decimal.Zero}
	for _, e := range entries {
		out.Balance = e.Balance
		if from != nil && e.Movement.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && !e.Movement.CreatedAt.Before(*to) {
			continue
		}
		out.Lines = append(out.Lines, dto.KardexLine{MovementResponse: ToMovementResponse(e.Movement), Balance: e.Balance})
	}
	return out, nil
}

// Valuation kardex valorizado: cantidad × costo base por producto y total del almacén.
func (l *Ledger) Valuation(ctx context.Context, warehouseID string) (*dto.ValuationResponse, error) {
	if err := l.CheckWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	balances, err := l.stockRepo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	out := &dto.ValuationResponse{WarehouseID: warehouseID, Lines: []dto.ValuationLine{}, Total: decimal.Zero}
	for _, b := range balances {
		if b.Quantity.IsZero() {
			continue
		}
		p, err := l.productRepo.GetByID(ctx, b.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.UnknownProduct(b.ProductID)
		}
		value := b.Quantity.Mul(p.Cost)
		out.Lines = append(out.Lines, dto.ValuationLine{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Quantity:  b.Quantity,
			UnitCost:  p.Cost,
			Value:     value,
		})
		out.Total = out.Total.Add(value)
	}
	return out, nil
}

// Rebuild recalcula todos los saldos desde el historial completo y los compara con el caché.
// Con repair=true reescribe los pares con diferencias; sin repair solo informa.
// Bloquea los saldos mientras recorre el kardex para que nadie registre a la vez.
func (l *Ledger) Rebuild(ctx context.Context, repair bool) (*dto.RebuildResponse, error) {
	out := &dto.RebuildResponse{Drift: []dto.DriftResponse{}}
	err := l.txRunner.Run(ctx, func(repos ports.Repos) error {
		if err := repos.Stock.LockAll(ctx); err != nil {
			return err
		}
		fold := inventory.NewBalanceFold()
		var after int64
		for {
			page, err := repos.Movements.ListAfter(ctx, after, rebuildPageSize)
			if err != nil {
				return err
			}
			for _, m := range page {
				fold.Apply(m)
				after = m.ID
			}
			out.Movements += len(page)
			if len(page) < rebuildPageSize {
				break
			}
		}
		cached, err := repos.Stock.ListAll(ctx)
		if err != nil {
			return err
		}
		out.Pairs = len(fold.Keys())

		now := time.Now()
		for _, d := range fold.Compare(cached) {
			l.log.Warn().
				Str("product_id", d.Key.ProductID).
				Str("warehouse_id", d.Key.WarehouseID).
				Str("cached", d.Cached.String()).
				Str("recomputed", d.Recomputed.String()).
				Msg("saldo cacheado no coincide con el kardex")
			out.Drift = append(out.Drift, dto.DriftResponse{
				ProductID:   d.Key.ProductID,
				WarehouseID: d.Key.WarehouseID,
				Cached:      d.Cached,
				Recomputed:  d.Recomputed,
			})
			if !repair {
				continue
			}
			if err := repos.Stock.Upsert(ctx, &entity.InventoryBalance{
				ProductID:      d.Key.ProductID,
				WarehouseID:    d.Key.WarehouseID,
				Quantity:       d.Recomputed,
				LastMovementID: fold.LastMovementID(d.Key),
				UpdatedAt:      now,
			}); err != nil {
				return err
			}
		}
		out.Repaired = repair && len(out.Drift) > 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out.Drift) == 0 {
		l.log.Info().Int("movements", out.Movements).Int("pairs", out.Pairs).Msg("saldos consistentes con el kardex")
	}
	return out, nil
}

// IsOversell indica si err es una sobreventa y devuelve el detalle.
func IsOversell(err error) (*domain.OversellError, bool) {
	var oe *domain.OversellError
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}

// ToMovementResponse convierte un movimiento a su DTO.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Type:          string(m.Type),
		Reason:        m.Reason,
		Delta:         m.Delta,
		CreatedAt:     m.CreatedAt,
	}
}
