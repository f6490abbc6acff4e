// Package catalog mantiene productos (con tarifas por volumen) y almacenes.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/pricing"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Cost no se edita aquí: lo actualiza la nacionalización.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

func tierOf(v *decimal.Decimal) entity.PriceTier {
	if v == nil {
		return entity.NoTier()
	}
	return entity.TierOf(*v)
}

// Create crea un producto con costo cero. El SKU es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: SKU y nombre son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: sku %s", domain.ErrDuplicate, sku)
	}
	now := time.Now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          sku,
		Name:         in.Name,
		Category:     in.Category,
		UnitPrice:    tierOf(in.UnitPrice),
		DozenPrice:   tierOf(in.DozenPrice),
		HundredPrice: tierOf(in.HundredPrice),
		Cost:         decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !p.ValidTiers() {
		return nil, fmt.Errorf("%w: tarifas negativas", domain.ErrInvalidInput)
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID obtiene un producto; nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// UpdatePrices reemplaza nombre, categoría y tarifas. Las tarifas omitidas quedan ausentes.
func (uc *ProductUseCase) UpdatePrices(ctx context.Context, id string, in dto.UpdatePricesRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	p.UnitPrice = tierOf(in.UnitPrice)
	p.DozenPrice = tierOf(in.DozenPrice)
	p.HundredPrice = tierOf(in.HundredPrice)
	if !p.ValidTiers() {
		return nil, fmt.Errorf("%w: tarifas negativas", domain.ErrInvalidInput)
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List lista productos por SKU con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Price resuelve el precio unitario para una cantidad.
func (uc *ProductUseCase) Price(ctx context.Context, id string, qty decimal.Decimal) (*dto.PriceQuoteResponse, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.UnknownProduct(id)
	}
	price, tier, err := pricing.Resolve(p, qty)
	if err != nil {
		return nil, err
	}
	return &dto.PriceQuoteResponse{
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: price,
		Tier:      string(tier),
		Subtotal:  price.Mul(qty),
	}, nil
}

func tierPtr(t entity.PriceTier) *decimal.Decimal {
	v, ok := t.Value()
	if !ok {
		return nil
	}
	return &v
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		UnitPrice:    tierPtr(p.UnitPrice),
		DozenPrice:   tierPtr(p.DozenPrice),
		HundredPrice: tierPtr(p.HundredPrice),
		Cost:         p.Cost,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
