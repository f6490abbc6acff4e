package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRecord boleta de pago de un periodo. Inmutable: una corrección es un registro nuevo
// con CorrectsID apuntando al anterior.
type PayrollRecord struct {
	ID                   string
	EmployeeID           string
	Period               string // YYYY-MM
	BaseSalary           decimal.Decimal
	FamilyAllowance      decimal.Decimal
	Bonuses              decimal.Decimal
	GrossIncome          decimal.Decimal
	PensionSystem        PensionSystem
	StatutoryDeductions  decimal.Decimal // aportes retenidos según el esquema vigente
	Deductions           decimal.Decimal // descuentos manuales
	NetPay               decimal.Decimal
	EmployerContribution decimal.Decimal // EsSalud, a cargo del empleador
	Withholdings         []PayrollWithholding // detalle con las tasas vigentes al procesar
	CorrectsID           string
	ProcessedAt          time.Time
}

// PayrollWithholding aporte retenido, guardado con el registro para que una reimpresión
// muestre lo que se descontó y no lo que diría el esquema actual.
type PayrollWithholding struct {
	Concept string          `json:"concept"`
	Rate    decimal.Decimal `json:"rate"`
	Amount  decimal.Decimal `json:"amount"`
}

// Clone copia el registro sin compartir el detalle de aportes.
func (r *PayrollRecord) Clone() *PayrollRecord {
	c := *r
	c.Withholdings = append([]PayrollWithholding(nil), r.Withholdings...)
	return &c
}
