// Package imports gestiona el ciclo de vida de una importación y su nacionalización.
package imports

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
	"github.com/jhoicas/cressendo-erp/internal/domain/landedcost"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

// ImportUseCase casos de uso de importaciones. El costeo no se persiste: se recalcula
// desde la importación vigente cada vez que se pide.
type ImportUseCase struct {
	txRunner    ports.TxRunner
	importRepo  repository.ImportRepository
	productRepo repository.ProductRepository
	ledger      *appinventory.Ledger
	allocator   *landedcost.Allocator
	defaultTier landedcost.PerceptionTier
	log         zerolog.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(
	txRunner ports.TxRunner,
	importRepo repository.ImportRepository,
	productRepo repository.ProductRepository,
	ledger *appinventory.Ledger,
	allocator *landedcost.Allocator,
	log zerolog.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		txRunner:    txRunner,
		importRepo:  importRepo,
		productRepo: productRepo,
		ledger:      ledger,
		allocator:   allocator,
		defaultTier: landedcost.PerceptionOther,
		log:         log,
	}
}

func validateCosts(s *entity.ImportShipment) error {
	if s.Freight.IsNegative() || s.Insurance.IsNegative() || s.AdValoremRate.IsNegative() {
		return fmt.Errorf("%w: flete, seguro y ad valorem no pueden ser negativos", domain.ErrInvalidInput)
	}
	if !s.FXRate.IsPositive() {
		return fmt.Errorf("%w: tipo de cambio debe ser positivo", domain.ErrInvalidInput)
	}
	return nil
}

// Create registra la cabecera en DRAFT.
func (uc *ImportUseCase) Create(ctx context.Context, in dto.CreateImportRequest) (*dto.ImportResponse, error) {
	now := time.Now()
	s := &entity.ImportShipment{
		ID:            uuid.New().String(),
		CustomsRef:    in.CustomsRef,
		ArrivalDate:   now,
		Status:        entity.ImportDraft,
		Freight:       in.Freight,
		Insurance:     in.Insurance,
		AdValoremRate: in.AdValoremRate,
		FXRate:        in.FXRate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.ArrivalDate != nil {
		s.ArrivalDate = *in.ArrivalDate
	}
	if err := validateCosts(s); err != nil {
		return nil, err
	}
	if err := uc.importRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toImportResponse(s), nil
}

// GetByID importación con sus líneas; nil si no existe.
func (uc *ImportUseCase) GetByID(ctx context.Context, id string) (*dto.ImportResponse, error) {
	s, err := uc.importRepo.GetByID(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	return toImportResponse(s), nil
}

// List importaciones recientes primero.
func (uc *ImportUseCase) List(ctx context.Context, limit, offset int) (*dto.ImportListResponse, error) {
	list, err := uc.importRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ImportResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toImportResponse(s))
	}
	return &dto.ImportListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

func (uc *ImportUseCase) editable(ctx context.Context, id string) (*entity.ImportShipment, error) {
	s, err := uc.importRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.Status == entity.ImportNationalized {
		return nil, fmt.Errorf("%w: %s", domain.ErrImportFrozen, id)
	}
	return s, nil
}

// UpdateCosts modifica los costos compartidos mientras la importación no esté nacionalizada.
func (uc *ImportUseCase) UpdateCosts(ctx context.Context, id string, in dto.UpdateImportCostsRequest) (*dto.ImportResponse, error) {
	s, err := uc.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CustomsRef != nil {
		s.CustomsRef = *in.CustomsRef
	}
	if in.ArrivalDate != nil {
		s.ArrivalDate = *in.ArrivalDate
	}
	if in.Freight != nil {
		s.Freight = *in.Freight
	}
	if in.Insurance != nil {
		s.Insurance = *in.Insurance
	}
	if in.AdValoremRate != nil {
		s.AdValoremRate = *in.AdValoremRate
	}
	if in.FXRate != nil {
		s.FXRate = *in.FXRate
	}
	if err := validateCosts(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now()
	if err := uc.importRepo.UpdateHeader(ctx, s); err != nil {
		return nil, err
	}
	return toImportResponse(s), nil
}

// AddItem agrega una línea. ProductID es opcional hasta nacionalizar, pero si viene debe existir.
func (uc *ImportUseCase) AddItem(ctx context.Context, importID string, in dto.ImportItemRequest) (*dto.ImportResponse, error) {
	s, err := uc.editable(ctx, importID)
	if err != nil {
		return nil, err
	}
	if !in.Quantity.IsPositive() || !entity.FitsQuantityScale(in.Quantity) || in.FOBUnit.IsNegative() {
		return nil, fmt.Errorf("%w: cantidad %s, FOB %s", domain.ErrInvalidInput, in.Quantity, in.FOBUnit)
	}
	if in.ProductID != "" {
		p, err := uc.productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.UnknownProduct(in.ProductID)
		}
	}
	it := entity.ImportLineItem{
		ID:          uuid.New().String(),
		ImportID:    importID,
		Description: in.Description,
		HSCode:      in.HSCode,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		FOBUnit:     in.FOBUnit,
	}
	if err := uc.importRepo.AddItem(ctx, &it); err != nil {
		return nil, err
	}
	s.Items = append(s.Items, it)
	return toImportResponse(s), nil
}

// RemoveItem quita una línea de una importación editable.
func (uc *ImportUseCase) RemoveItem(ctx context.Context, importID, itemID string) (*dto.ImportResponse, error) {
	if _, err := uc.editable(ctx, importID); err != nil {
		return nil, err
	}
	if err := uc.importRepo.RemoveItem(ctx, importID, itemID); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, importID)
}

// SetStatus avanza el estado (DRAFT → IN_TRANSIT). NATIONALIZED solo se alcanza con Nationalize.
func (uc *ImportUseCase) SetStatus(ctx context.Context, id string, in dto.ImportStatusRequest) (*dto.ImportResponse, error) {
	next := entity.ImportStatus(in.Status)
	if next == entity.ImportNationalized {
		return nil, fmt.Errorf("%w: use la nacionalización para cerrar la importación", domain.ErrInvalidInput)
	}
	s, err := uc.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrConflict, s.Status, next)
	}
	s.Status = next
	s.UpdatedAt = time.Now()
	if err := uc.importRepo.UpdateHeader(ctx, s); err != nil {
		return nil, err
	}
	return toImportResponse(s), nil
}

func (uc *ImportUseCase) tier(raw string) landedcost.PerceptionTier {
	if raw == "" {
		return uc.defaultTier
	}
	return landedcost.PerceptionTier(raw)
}

// Costing prorrateo y estimado tributario sobre el estado actual de la importación.
func (uc *ImportUseCase) Costing(ctx context.Context, id, tier string) (*dto.LandedCostResponse, error) {
	s, err := uc.importRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	res, err := uc.allocator.Cost(s, uc.tier(tier))
	if err != nil {
		return nil, err
	}
	return toLandedCostResponse(res), nil
}

// Nationalize cierra la importación: registra una entrada por línea en el almacén destino al costo
// puesto en almacén y actualiza el costo base de cada producto con el promedio ponderado.
// Todo ocurre en una transacción; la importación queda congelada.
func (uc *ImportUseCase) Nationalize(ctx context.Context, id string, in dto.NationalizeRequest) (*dto.NationalizeResponse, error) {
	if err := uc.ledger.CheckWarehouse(ctx, in.WarehouseID); err != nil {
		return nil, err
	}
	tier := uc.tier(in.PerceptionTier)

	var (
		result *landedcost.Result
		final  *entity.ImportShipment
		movs   []*entity.StockMovement
	)
	err := uc.txRunner.Run(ctx, func(repos ports.Repos) error {
		s, err := repos.Imports.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if !s.Status.CanTransitionTo(entity.ImportNationalized) {
			return fmt.Errorf("%w: %s", domain.ErrImportFrozen, id)
		}
		for _, it := range s.Items {
			if it.ProductID == "" {
				return fmt.Errorf("%w: la línea %q no está asociada a un producto", domain.ErrInvalidInput, it.Description)
			}
		}
		result, err = uc.allocator.Cost(s, tier)
		if err != nil {
			return err
		}

		keys := make([]inventory.PairKey, 0, len(result.Lines))
		for _, l := range result.Lines {
			keys = append(keys, inventory.PairKey{ProductID: l.ProductID, WarehouseID: in.WarehouseID})
		}
		if err := appinventory.LockPairs(ctx, repos, keys); err != nil {
			return err
		}

		now := time.Now()
		for _, l := range result.Lines {
			p, err := repos.Products.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.UnknownProduct(l.ProductID)
			}
			bal, err := repos.Stock.GetForUpdate(ctx, l.ProductID, in.WarehouseID)
			if err != nil {
				return err
			}
			cost := inventory.WeightedAverageCost(bal.Quantity, p.Cost, l.Quantity, l.LandedUnitHome)
			if err := repos.Products.UpdateCost(ctx, l.ProductID, cost); err != nil {
				return err
			}
			mov, err := uc.ledger.RecordInTx(ctx, repos, appinventory.RecordInput{
				ProductID:     l.ProductID,
				WarehouseID:   in.WarehouseID,
				Type:          entity.MovementInbound,
				Reason:        entity.ReasonPurchase,
				Delta:         l.Quantity,
				TransactionID: s.ID,
			}, now)
			if err != nil {
				return err
			}
			movs = append(movs, mov)
		}

		s.Status = entity.ImportNationalized
		s.UpdatedAt = now
		if err := repos.Imports.UpdateHeader(ctx, s); err != nil {
			return err
		}
		final = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("import_id", id).
		Str("customs_ref", final.CustomsRef).
		Int("lines", len(movs)).
		Str("perception", result.Summary.Perception.String()).
		Msg("importación nacionalizada")

	out := &dto.NationalizeResponse{
		Import:    *toImportResponse(final),
		Costing:   *toLandedCostResponse(result),
		Movements: make([]dto.MovementResponse, 0, len(movs)),
	}
	for _, m := range movs {
		out.Movements = append(out.Movements, appinventory.ToMovementResponse(m))
	}
	return out, nil
}

func toImportResponse(s *entity.ImportShipment) *dto.ImportResponse {
	items := make([]dto.ImportItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.ImportItemResponse{
			ID:          it.ID,
			Description: it.Description,
			HSCode:      it.HSCode,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			FOBUnit:     it.FOBUnit,
		})
	}
	return &dto.ImportResponse{
		ID:            s.ID,
		CustomsRef:    s.CustomsRef,
		ArrivalDate:   s.ArrivalDate,
		Status:        string(s.Status),
		Freight:       s.Freight,
		Insurance:     s.Insurance,
		AdValoremRate: s.AdValoremRate,
		FXRate:        s.FXRate,
		Items:         items,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toLandedCostResponse(r *landedcost.Result) *dto.LandedCostResponse {
	lines := make([]dto.LandedCostLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.LandedCostLine{
			ItemID:            l.ItemID,
			Description:       l.Description,
			ProductID:         l.ProductID,
			Quantity:          l.Quantity,
			FOBUnit:           l.FOBUnit,
			FOBTotal:          l.FOBTotal,
			Factor:            l.Factor.Round(6),
			Freight:           l.Freight,
			Insurance:         l.Insurance,
			Duty:              l.Duty,
			CIF:               l.CIF,
			LandedUnitForeign: l.LandedUnitForeign,
			LandedUnitHome:    l.LandedUnitHome,
		})
	}
	s := r.Summary
	return &dto.LandedCostResponse{
		ImportID:       r.ImportID,
		Lines:          lines,
		TotalFOB:       s.TotalFOB,
		TotalFreight:   s.TotalFreight,
		TotalInsurance: s.TotalInsurance,
		TotalCIF:       s.TotalCIF,
		TotalDuty:      s.TotalDuty,
		IGVBase:        s.IGVBase,
		IGV:            s.IGV,
		PerceptionTier: string(s.PerceptionTier),
		PerceptionRate: s.PerceptionRate,
		Perception:     s.Perception,
		PerceptionHome: s.PerceptionHome,
	}
}
