package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Integridad referencial del kardex: se rechaza antes de mutar.
	ErrUnknownProduct   = errors.New("producto desconocido")
	ErrUnknownWarehouse = errors.New("almacén desconocido")

	// ErrInvalidProduct el producto no tiene precio unitario definido.
	ErrInvalidProduct = errors.New("producto sin precio unitario")

	// ErrZeroBasisAllocation el FOB total de la importación es cero: no hay base para prorratear.
	ErrZeroBasisAllocation = errors.New("prorrateo sin base (FOB total = 0)")

	// ErrOversell señal de negocio: el movimiento dejaría el saldo en negativo.
	ErrOversell = errors.New("stock insuficiente")

	// ErrNegativeNetPay señal de reporte: el neto a pagar resultó negativo.
	ErrNegativeNetPay = errors.New("neto a pagar negativo")

	ErrAlreadyCommitted = errors.New("la transacción ya fue confirmada")
	ErrInvalidRate      = errors.New("tasa inválida")
	ErrImportFrozen     = errors.New("la importación ya fue nacionalizada")
)

// OversellError detalla qué par (producto, almacén) quedaría en negativo.
// errors.Is(err, ErrOversell) es verdadero.
type OversellError struct {
	ProductID   string
	WarehouseID string
	Balance     decimal.Decimal
	Requested   decimal.Decimal
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("%s: producto=%s almacén=%s saldo=%s solicitado=%s",
		ErrOversell, e.ProductID, e.WarehouseID, e.Balance.String(), e.Requested.String())
}

func (e *OversellError) Unwrap() error { return ErrOversell }

// NegativeNetPayError detalla la planilla cuyo neto resultó negativo.
type NegativeNetPayError struct {
	EmployeeID string
	Period     string
	NetPay     decimal.Decimal
}

func (e *NegativeNetPayError) Error() string {
	return fmt.Sprintf("%s: empleado=%s periodo=%s neto=%s", ErrNegativeNetPay, e.EmployeeID, e.Period, e.NetPay.String())
}

func (e *NegativeNetPayError) Unwrap() error { return ErrNegativeNetPay }

// UnknownProduct envuelve ErrUnknownProduct con el ID buscado.
func UnknownProduct(id string) error {
	return fmt.Errorf("%w: %s", ErrUnknownProduct, id)
}

// UnknownWarehouse envuelve ErrUnknownWarehouse con el ID buscado.
func UnknownWarehouse(id string) error {
	return fmt.Errorf("%w: %s", ErrUnknownWarehouse, id)
}
