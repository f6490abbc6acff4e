package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	appinventory "github.com/jhoicas/cressendo-erp/internal/application/inventory"
	"github.com/jhoicas/cressendo-erp/internal/application/ports"
	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/inventory"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

// SalesUseCase cotiza y confirma ventas. Confirmar escribe una salida de kardex por línea;
// todas las salidas de una venta se confirman juntas o ninguna.
type SalesUseCase struct {
	txRunner    ports.TxRunner
	productRepo repository.ProductRepository
	salesRepo   repository.SalesRepository
	ledger      *appinventory.Ledger
	cache       ports.PeriodTotalsCache
	log         zerolog.Logger
}

// NewSalesUseCase construye el caso de uso. cache puede ser nil.
func NewSalesUseCase(
	txRunner ports.TxRunner,
	productRepo repository.ProductRepository,
	salesRepo repository.SalesRepository,
	ledger *appinventory.Ledger,
	cache ports.PeriodTotalsCache,
	log zerolog.Logger,
) *SalesUseCase {
	return &SalesUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		salesRepo:   salesRepo,
		ledger:      ledger,
		cache:       cache,
		log:         log,
	}
}

// BuildFromRequest arma el carrito resolviendo productos y tarifas.
func (uc *SalesUseCase) BuildFromRequest(ctx context.Context, in dto.CreateSaleRequest) (*TransactionBuilder, error) {
	b, err := NewTransactionBuilder(in.Customer, entity.DocumentType(in.DocumentType), in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if err := uc.ledger.CheckWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}
	for _, l := range in.Lines {
		p, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.UnknownProduct(l.ProductID)
		}
		if err := b.Add(p, l.Quantity); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Quote guarda una cotización: sin efecto en stock.
func (uc *SalesUseCase) Quote(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	b, err := uc.BuildFromRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	tx, err := b.Build(uuid.New().String(), entity.StatusQuote, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.salesRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return toSaleResponse(tx), nil
}

// Commit arma y confirma la venta en una sola transacción.
func (uc *SalesUseCase) Commit(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	b, err := uc.BuildFromRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	tx, err := b.Build(uuid.New().String(), entity.StatusQuote, now)
	if err != nil {
		return nil, err
	}
	if err := uc.commit(ctx, tx, false, in.AllowOversell, now); err != nil {
		return nil, err
	}
	return toSaleResponse(tx), nil
}

// Promote confirma una cotización guardada con los precios cotizados. Solo se puede una vez:
// la segunda llamada devuelve domain.ErrAlreadyCommitted.
func (uc *SalesUseCase) Promote(ctx context.Context, quoteID string, in dto.PromoteQuoteRequest) (*dto.SaleResponse, error) {
	tx, err := uc.salesRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	if tx.Status != entity.StatusQuote {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyCommitted, quoteID)
	}
	if err := uc.commit(ctx, tx, true, in.AllowOversell, time.Now()); err != nil {
		return nil, err
	}
	return toSaleResponse(tx), nil
}

func (uc *SalesUseCase) commit(ctx context.Context, tx *entity.SalesTransaction, existing, allowOversell bool, now time.Time) error {
	keys := make([]inventory.PairKey, 0, len(tx.Lines))
	for _, l := range tx.Lines {
		keys = append(keys, inventory.PairKey{ProductID: l.ProductID, WarehouseID: tx.WarehouseID})
	}

	staged := tx.Clone()
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		if err := appinventory.LockPairs(ctx, repos, keys); err != nil {
			return err
		}
		for i := range staged.Lines {
			line := &staged.Lines[i]
			mov, err := uc.ledger.RecordInTx(ctx, repos, appinventory.RecordInput{
				ProductID:     line.ProductID,
				WarehouseID:   staged.WarehouseID,
				Type:          entity.MovementOutbound,
				Reason:        entity.ReasonSale,
				Delta:         line.Quantity.Neg(),
				TransactionID: staged.ID,
				AllowOversell: allowOversell,
			}, now)
			if err != nil {
				return err
			}
			line.MovementID = mov.ID
		}
		staged.Status = entity.StatusCommitted
		staged.CommittedAt = &now
		if existing {
			return repos.Sales.MarkCommitted(ctx, staged)
		}
		return repos.Sales.Create(ctx, staged)
	})
	if err != nil {
		return err
	}
	*tx = *staged

	uc.log.Info().
		Str("transaction_id", tx.ID).
		Str("document_type", string(tx.DocumentType)).
		Int("lines", len(tx.Lines)).
		Str("total", tx.Total.String()).
		Msg("venta confirmada")
	uc.invalidatePeriods(ctx)
	return nil
}

func (uc *SalesUseCase) invalidatePeriods(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar el caché de periodos")
	}
}

// CheckAvailability compara lo pedido con el saldo de cada producto sin escribir nada.
func (uc *SalesUseCase) CheckAvailability(ctx context.Context, in dto.CreateSaleRequest) (*dto.AvailabilityResponse, error) {
	b, err := uc.BuildFromRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	out := &dto.AvailabilityResponse{WarehouseID: in.WarehouseID, Available: true}
	for _, l := range b.Lines() {
		bal, err := uc.ledger.Balance(ctx, l.ProductID, in.WarehouseID)
		if err != nil {
			return nil, err
		}
		over := bal.Quantity.Sub(l.Quantity).IsNegative()
		if over {
			out.Available = false
		}
		out.Lines = append(out.Lines, dto.AvailabilityLine{
			ProductID:     l.ProductID,
			Requested:     l.Quantity,
			Balance:       bal.Quantity,
			WouldOversell: over,
		})
	}
	return out, nil
}

// Discard descarta una cotización. No escribe movimientos; una venta confirmada no se descarta
// (domain.ErrAlreadyCommitted) y una cotización descartada ya no puede promoverse.
func (uc *SalesUseCase) Discard(ctx context.Context, quoteID string) error {
	tx, err := uc.salesRepo.GetByID(ctx, quoteID)
	if err != nil {
		return err
	}
	if tx == nil {
		return domain.ErrNotFound
	}
	if tx.Status != entity.StatusQuote {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyCommitted, quoteID)
	}
	if err := uc.salesRepo.Discard(ctx, quoteID); err != nil {
		return err
	}
	uc.log.Info().Str("transaction_id", quoteID).Msg("cotización descartada")
	return nil
}

// List historial de ventas y cotizaciones, las más recientes primero. status vacío lista todas.
func (uc *SalesUseCase) List(ctx context.Context, status string, limit, offset int) (*dto.SaleListResponse, error) {
	st := entity.TransactionStatus(status)
	if st != "" && st != entity.StatusQuote && st != entity.StatusCommitted {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	list, err := uc.salesRepo.List(ctx, st, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, tx := range list {
		items = append(items, *toSaleResponse(tx))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetByID devuelve la venta o cotización; nil si no existe.
func (uc *SalesUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	tx, err := uc.salesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, nil
	}
	return toSaleResponse(tx), nil
}

func toSaleResponse(tx *entity.SalesTransaction) *dto.SaleResponse {
	lines := make([]dto.SalesLineResponse, 0, len(tx.Lines))
	for _, l := range tx.Lines {
		lines = append(lines, dto.SalesLineResponse{
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Tier:       string(l.Tier),
			Subtotal:   l.Subtotal,
			MovementID: l.MovementID,
		})
	}
	return &dto.SaleResponse{
		ID:           tx.ID,
		Customer:     tx.Customer,
		DocumentType: string(tx.DocumentType),
		WarehouseID:  tx.WarehouseID,
		Status:       string(tx.Status),
		Lines:        lines,
		Total:        tx.Total,
		CreatedAt:    tx.CreatedAt,
		CommittedAt:  tx.CommittedAt,
	}
}
