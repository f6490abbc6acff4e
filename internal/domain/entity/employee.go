package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PensionSystem sistema previsional del trabajador.
type PensionSystem string

const (
	PensionONP          PensionSystem = "ONP"
	PensionAFPIntegra   PensionSystem = "AFP_INTEGRA"
	PensionAFPPrima     PensionSystem = "AFP_PRIMA"
	PensionAFPHabitat   PensionSystem = "AFP_HABITAT"
	PensionAFPProfuturo PensionSystem = "AFP_PROFUTURO"
)

// Valid indica si el sistema es conocido.
func (p PensionSystem) Valid() bool {
	switch p {
	case PensionONP, PensionAFPIntegra, PensionAFPPrima, PensionAFPHabitat, PensionAFPProfuturo:
		return true
	}
	return false
}

// Employee trabajador en planilla.
type Employee struct {
	ID              string
	FullName        string
	DNI             string
	Role            string
	StartDate       time.Time
	BaseSalary      decimal.Decimal
	FamilyAllowance bool
	PensionSystem   PensionSystem
	CreatedAt       time.Time
}
