// Package accounting arma los registros tributarios del periodo: ventas (PLE), compras y
// el estimado de renta. Los agregados de ventas se cachean porque son re-derivables.
package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cressendo-erp/internal/application/dto"
	"github.com/jhoicas/cressendo-erp/internal/application/ports"
	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/repository"
	"github.com/jhoicas/cressendo-erp/internal/domain/tax"
)

// AccountingUseCase registros del periodo. cache y exporter pueden ser nil.
type AccountingUseCase struct {
	salesRepo    repository.SalesRepository
	purchaseRepo repository.PurchaseRepository
	engine       *tax.Engine
	cache        ports.PeriodTotalsCache
	exporter     ports.RegisterExporter
	loc          *time.Location
	log          zerolog.Logger
}

// NewAccountingUseCase construye el caso de uso. loc define los límites de los periodos mensuales.
func NewAccountingUseCase(
	salesRepo repository.SalesRepository,
	purchaseRepo repository.PurchaseRepository,
	engine *tax.Engine,
	cache ports.PeriodTotalsCache,
	exporter ports.RegisterExporter,
	loc *time.Location,
	log zerolog.Logger,
) *AccountingUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &AccountingUseCase{
		salesRepo:    salesRepo,
		purchaseRepo: purchaseRepo,
		engine:       engine,
		cache:        cache,
		exporter:     exporter,
		loc:          loc,
		log:          log,
	}
}

// PeriodKey clave de caché del registro de ventas de [start, end) en la generación gen.
// Cada invalidación sube la generación: lo calculado antes queda en claves que nadie lee.
func PeriodKey(start, end time.Time, gen int64) string {
	return fmt.Sprintf("ple:%d:%s:%s", gen, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
}

// MonthBounds límites [inicio, fin) del periodo "2006-01" en la zona configurada.
func (uc *AccountingUseCase) MonthBounds(period string) (time.Time, time.Time, error) {
	return tax.MonthBounds(period, uc.loc)
}

func (uc *AccountingUseCase) periodTotals(ctx context.Context, start, end time.Time) (*tax.PeriodTotals, error) {
	list, err := uc.salesRepo.ListCommitted(ctx, start, end)
	if err != nil {
		return nil, err
	}
	entries := make([]tax.Entry, 0, len(list))
	for _, tx := range list {
		entries = append(entries, tax.Entry{
			ID:           tx.ID,
			Date:         *tx.CommittedAt,
			DocumentType: tx.DocumentType,
			Customer:     tx.Customer,
			Total:        tx.Total,
		})
	}
	return uc.engine.AggregatePeriod(entries, start, end)
}

// SalesRegister registro de ventas de [start, end) con totales separados: flujo de caja
// (todo documento) e imponible (boletas y facturas).
func (uc *AccountingUseCase) SalesRegister(ctx context.Context, start, end time.Time) (*dto.SalesRegisterResponse, error) {
	if uc.cache == nil {
		return uc.computeSalesRegister(ctx, start, end)
	}
	// La generación se lee antes de calcular: si una venta se confirma en medio,
	// el Set cae en la generación vieja y no se sirve.
	gen, err := uc.cache.Generation(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("generación de caché no disponible; se recalcula sin caché")
		return uc.computeSalesRegister(ctx, start, end)
	}
	key := PeriodKey(start, end, gen)

	var cached dto.SalesRegisterResponse
	hit, err := uc.cache.Get(ctx, key, &cached)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida; se recalcula")
	} else if hit {
		return &cached, nil
	}

	out, err := uc.computeSalesRegister(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, key, out); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar en caché")
	}
	return out, nil
}

func (uc *AccountingUseCase) computeSalesRegister(ctx context.Context, start, end time.Time) (*dto.SalesRegisterResponse, error) {
	totals, err := uc.periodTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toSalesRegisterResponse(totals), nil
}

// ExportSalesRegister registro de ventas del periodo en hoja de cálculo.
func (uc *AccountingUseCase) ExportSalesRegister(ctx context.Context, start, end time.Time) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("%w: exportación no configurada", domain.ErrInvalidInput)
	}
	totals, err := uc.periodTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportSalesRegister(ctx, totals)
}

// RegisterPurchase registra un comprobante de compra. Sin IGV explícito se calcula base × tasa.
func (uc *AccountingUseCase) RegisterPurchase(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.BaseAmount.IsNegative() {
		return nil, fmt.Errorf("%w: base imponible negativa", domain.ErrInvalidInput)
	}
	if in.Provider == "" || in.RUC == "" || in.Number == "" {
		return nil, fmt.Errorf("%w: proveedor, RUC y número son obligatorios", domain.ErrInvalidInput)
	}
	igv := in.BaseAmount.Mul(uc.engine.VATRate).Round(2)
	if in.IGVAmount != nil {
		if in.IGVAmount.IsNegative() {
			return nil, fmt.Errorf("%w: IGV negativo", domain.ErrInvalidInput)
		}
		igv = *in.IGVAmount
	}
	docType := in.DocType
	if docType == "" {
		docType = string(entity.DocFactura)
	}
	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	inv := &entity.PurchaseInvoice{
		ID:          uuid.New().String(),
		Date:        date,
		Provider:    in.Provider,
		RUC:         in.RUC,
		DocType:     docType,
		Series:      in.Series,
		Number:      in.Number,
		BaseAmount:  in.BaseAmount,
		IGVAmount:   igv,
		TotalAmount: in.BaseAmount.Add(igv),
		CreatedAt:   now,
	}
	if err := uc.purchaseRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	out := toPurchaseResponse(inv)
	return &out, nil
}

// PurchaseRegister registro de compras de [start, end) con el crédito fiscal del periodo.
func (uc *AccountingUseCase) PurchaseRegister(ctx context.Context, start, end time.Time) (*dto.PurchaseRegisterResponse, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: periodo vacío", domain.ErrInvalidInput)
	}
	list, err := uc.purchaseRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	t := tax.SummarizePurchases(list, start, end)
	out := &dto.PurchaseRegisterResponse{
		Start:     t.Start,
		End:       t.End,
		Base:      t.Base,
		IGVCredit: t.VAT,
		Total:     t.Total,
		Documents: t.Documents,
		Items:     make([]dto.PurchaseResponse, 0, len(t.Invoices)),
	}
	for _, inv := range t.Invoices {
		out.Items = append(out.Items, toPurchaseResponse(inv))
	}
	return out, nil
}

func toSalesRegisterResponse(t *tax.PeriodTotals) *dto.SalesRegisterResponse {
	lines := make([]dto.RegisterLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, dto.RegisterLineResponse{
			TransactionID: l.EntryID,
			Date:          l.Date,
			DocumentType:  string(l.DocumentType),
			Customer:      l.Customer,
			Total:         l.Total,
			Base:          l.Base,
			IGV:           l.VAT,
			Taxable:       l.Taxable,
		})
	}
	return &dto.SalesRegisterResponse{
		Start:            t.Start,
		End:              t.End,
		CashFlowTotal:    t.CashFlowTotal,
		TaxableTotal:     t.TaxableTotal,
		TaxableBase:      t.TaxableBase,
		IGV:              t.VAT,
		IncomeTax:        t.IncomeTax,
		Documents:        t.Documents,
		TaxableDocuments: t.TaxableDocuments,
		Lines:            lines,
	}
}

func toPurchaseResponse(inv *entity.PurchaseInvoice) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:          inv.ID,
		Date:        inv.Date,
		Provider:    inv.Provider,
		RUC:         inv.RUC,
		DocType:     inv.DocType,
		Series:      inv.Series,
		Number:      inv.Number,
		BaseAmount:  inv.BaseAmount,
		IGVAmount:   inv.IGVAmount,
		TotalAmount: inv.TotalAmount,
	}
}
