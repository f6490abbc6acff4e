package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cressendo-erp/internal/domain"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/payroll"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		bonuses    string
		deductions string
		want       string
		wantErr    error
	}{
		{"básico", "1500", "0", "0", "1500", nil},
		{"con bono y descuento", "1500", "200", "150.50", "1549.5", nil},
		{"neto cero", "100", "0", "100", "0", nil},
		{"neto negativo", "100", "0", "250", "-150", domain.ErrNegativeNetPay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := payroll.Compute(d(tt.base), d(tt.bonuses), d(tt.deductions))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, net.Equal(d(tt.want)), "neto %s", net)
		})
	}
}

func schedule() payroll.RateSchedule {
	return payroll.RateSchedule{Pension: map[entity.PensionSystem]decimal.Decimal{
		entity.PensionONP:        d("0.13"),
		entity.PensionAFPIntegra: d("0.1137"),
	}}
}

func TestCalculator_ONP(t *testing.T) {
	calc := payroll.NewCalculator(schedule(), d("0.09"))
	res, err := calc.Compute(payroll.Input{
		BaseSalary:      d("2000"),
		FamilyAllowance: d("102.50"),
		Bonuses:         d("97.50"),
		Deductions:      d("50"),
		PensionSystem:   entity.PensionONP,
	})
	require.NoError(t, err)

	assert.True(t, res.GrossIncome.Equal(d("2200")))
	require.Len(t, res.Withholdings, 1)
	assert.Equal(t, "ONP", res.Withholdings[0].Concept)
	assert.True(t, res.StatutoryTotal.Equal(d("286")))
	assert.True(t, res.NetPay.Equal(d("1864")))
	assert.True(t, res.EmployerContribution.Equal(d("198")))
}

func TestCalculator_NetoNegativoDevuelveResultado(t *testing.T) {
	calc := payroll.NewCalculator(schedule(), d("0.09"))
	res, err := calc.Compute(payroll.Input{
		BaseSalary:    d("1000"),
		Deductions:    d("1000"),
		PensionSystem: entity.PensionONP,
	})
	assert.ErrorIs(t, err, domain.ErrNegativeNetPay)
	require.NotNil(t, res)
	assert.True(t, res.NetPay.Equal(d("-130")))
}

func TestCalculator_SinEsquema(t *testing.T) {
	calc := payroll.NewCalculator(nil, decimal.Zero)
	res, err := calc.Compute(payroll.Input{BaseSalary: d("1200"), Bonuses: d("300"), Deductions: d("100")})
	require.NoError(t, err)
	assert.Empty(t, res.Withholdings)
	assert.True(t, res.NetPay.Equal(d("1400")))
}

func TestCalculator_SistemaSinTasa(t *testing.T) {
	calc := payroll.NewCalculator(schedule(), d("0.09"))
	_, err := calc.Compute(payroll.Input{BaseSalary: d("1200"), PensionSystem: entity.PensionAFPPrima})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestCalculator_MontosNegativos(t *testing.T) {
	calc := payroll.NewCalculator(nil, decimal.Zero)
	_, err := calc.Compute(payroll.Input{BaseSalary: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRateSchedule_ConceptosExtra(t *testing.T) {
	s := schedule()
	s.Extra = map[string]decimal.Decimal{"SEGURO": d("0.0170"), "COMISION": d("0.0155")}
	wh, err := s.Withholdings(entity.PensionAFPIntegra, d("1000"))
	require.NoError(t, err)
	require.Len(t, wh, 3)
	assert.Equal(t, "COMISION", wh[1].Concept)
	assert.Equal(t, "SEGURO", wh[2].Concept)
	assert.True(t, wh[0].Amount.Equal(d("113.7")))
}
