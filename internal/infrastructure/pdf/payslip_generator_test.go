package pdf

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	pdfreader "github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/payroll"
)

func TestPayslipGenerator_Generate(t *testing.T) {
	g := NewPayslipGenerator(Employer{Name: "Cressendo SAC", RUC: "20123456789"}, language.Spanish)
	emp := &entity.Employee{ID: "e1", FullName: "Ana Quispe", DNI: "45678912", Role: "Almacén", PensionSystem: entity.PensionONP}
	rec := &entity.PayrollRecord{
		ID:                   "p1",
		EmployeeID:           "e1",
		Period:               "2026-03",
		BaseSalary:           decimal.RequireFromString("2000"),
		FamilyAllowance:      decimal.RequireFromString("102.50"),
		Bonuses:              decimal.RequireFromString("97.50"),
		GrossIncome:          decimal.RequireFromString("2200"),
		PensionSystem:        entity.PensionONP,
		StatutoryDeductions:  decimal.RequireFromString("286"),
		NetPay:               decimal.RequireFromString("1914"),
		EmployerContribution: decimal.RequireFromString("198"),
		ProcessedAt:          time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC),
	}
	wh := []payroll.Withholding{{Concept: "ONP", Rate: decimal.RequireFromString("0.13"), Amount: decimal.RequireFromString("286")}}

	out, err := g.Generate(context.Background(), emp, rec, wh)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	r, err := pdfreader.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	plain, err := r.GetPlainText()
	require.NoError(t, err)
	text, err := io.ReadAll(plain)
	require.NoError(t, err)
	assert.Contains(t, string(text), "20123456789")
	assert.Contains(t, string(text), "45678912")

	_, err = g.Generate(context.Background(), nil, rec, wh)
	assert.Error(t, err)
}

func TestPayslipGenerator_Money(t *testing.T) {
	g := NewPayslipGenerator(Employer{Name: "x"}, language.English)
	tests := []struct {
		in   string
		want string
	}{
		{"1234.5", "S/ 1,234.50"},
		{"0", "S/ 0.00"},
		{"1864.005", "S/ 1,864.01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.money(decimal.RequireFromString(tt.in)))
	}
}
