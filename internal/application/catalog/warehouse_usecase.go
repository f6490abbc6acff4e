package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

// WarehouseUseCase casos de uso de almacenes.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea un almacén. El nombre es único.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: almacén %s", domain.ErrDuplicate, name)
	}
	now := time.Now()
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      name,
		Location:  in.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// GetByID obtiene un almacén; nil si no existe.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil || w == nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// List todos los almacenes por nombre.
func (uc *WarehouseUseCase) List(ctx context.Context) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{Items: items}, nil
}

// EnsureCentral crea el almacén central si no existe y lo devuelve. Es idempotente.
func (uc *WarehouseUseCase) EnsureCentral(ctx context.Context) (*dto.WarehouseResponse, error) {
	w, err := uc.repo.GetByName(ctx, entity.CentralWarehouseName)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return toWarehouseResponse(w), nil
	}
	return uc.Create(ctx, dto.CreateWarehouseRequest{Name: entity.CentralWarehouseName, Location: "principal"})
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Location:  w.Location,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
