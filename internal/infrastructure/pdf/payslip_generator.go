// Package pdf genera la boleta de pago del trabajador.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empleador + RUC     │  BOLETA DE PAGO + Periodo     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRABAJADOR: Nombre / DNI / Cargo / Sistema pensionario      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INGRESOS          │  DESCUENTOS                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NETO A PAGAR  +  aporte del empleador (EsSalud)             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/cressendo-erp/internal/application/ports"
	"github.com/jhoicas/cressendo-erp/internal/domain/entity"
	"github.com/jhoicas/cressendo-erp/internal/domain/payroll"
)

var _ ports.PayslipGenerator = (*PayslipGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Employer datos del empleador impresos en la cabecera.
type Employer struct {
	Name string
	RUC  string
}

// PayslipGenerator implementa ports.PayslipGenerator usando Maroto v2.
type PayslipGenerator struct {
	employer Employer
	printer  *message.Printer
}

// NewPayslipGenerator construye el generador. tag define separadores de miles y decimales.
func NewPayslipGenerator(employer Employer, tag language.Tag) *PayslipGenerator {
	return &PayslipGenerator{employer: employer, printer: message.NewPrinter(tag)}
}

// Generate genera el PDF de la boleta y devuelve sus bytes.
func (g *PayslipGenerator) Generate(
	_ context.Context,
	emp *entity.Employee,
	rec *entity.PayrollRecord,
	withholdings []payroll.Withholding,
) ([]byte, error) {
	if emp == nil || rec == nil {
		return nil, fmt.Errorf("pdf: boleta sin trabajador o registro")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Boleta de pago "+rec.Period, true).
		WithAuthor(g.employer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(workerRow(emp, rec))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitleRow("INGRESOS", "DESCUENTOS"))
	for _, r := range g.detailRows(rec, withholdings) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(rec))
	if rec.CorrectsID != "" {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Rectifica la boleta "+rec.CorrectsID, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar boleta: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *PayslipGenerator) headerRow(rec *entity.PayrollRecord) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.employer.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("RUC: "+nonEmpty(g.employer.RUC, "—"), props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("BOLETA DE PAGO", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New("Periodo "+rec.Period, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Emitida: "+rec.ProcessedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func workerRow(emp *entity.Employee, rec *entity.PayrollRecord) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("TRABAJADOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(emp.FullName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("DNI: %s   |   Cargo: %s   |   Sistema: %s",
				emp.DNI, nonEmpty(emp.Role, "—"), rec.PensionSystem,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func sectionTitleRow(left, right string) core.Row {
	h := func(label string) core.Col {
		return col.New(6).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}))
	}
	return row.New(8).Add(h(left), h(right))
}

type concept struct {
	label  string
	amount decimal.Decimal
}

// detailRows ingresos a la izquierda y descuentos a la derecha, fila por fila.
func (g *PayslipGenerator) detailRows(rec *entity.PayrollRecord, withholdings []payroll.Withholding) []core.Row {
	income := []concept{{"Remuneración básica", rec.BaseSalary}}
	if rec.FamilyAllowance.IsPositive() {
		income = append(income, concept{"Asignación familiar", rec.FamilyAllowance})
	}
	if rec.Bonuses.IsPositive() {
		income = append(income, concept{"Bonificaciones", rec.Bonuses})
	}

	var discounts []concept
	for _, w := range withholdings {
		label := w.Concept
		if !w.Rate.IsZero() {
			label = fmt.Sprintf("%s (%s%%)", w.Concept, w.Rate.Mul(decimal.NewFromInt(100)).StringFixed(2))
		}
		discounts = append(discounts, concept{label, w.Amount})
	}
	if rec.Deductions.IsPositive() {
		discounts = append(discounts, concept{"Otros descuentos", rec.Deductions})
	}

	n := len(income)
	if len(discounts) > n {
		n = len(discounts)
	}
	rows := make([]core.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, row.New(6).Add(g.conceptCols(income, i)...).Add(g.conceptCols(discounts, i)...))
	}
	return rows
}

func (g *PayslipGenerator) conceptCols(list []concept, i int) []core.Col {
	if i >= len(list) {
		return []core.Col{col.New(4), col.New(2)}
	}
	return []core.Col{
		col.New(4).Add(text.New(list[i].label, props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(g.money(list[i].amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 2})),
	}
}

func (g *PayslipGenerator) totalsRow(rec *entity.PayrollRecord) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(26).Add(
		col.New(5),
		col.New(4).Add(
			label("Total ingresos:"),
			label("Total descuentos:"),
			text.New("NETO A PAGAR:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2}),
			label("Aporte EsSalud (empleador):"),
		),
		col.New(3).Add(
			value(g.money(rec.GrossIncome)),
			value(g.money(rec.StatutoryDeductions.Add(rec.Deductions))),
			text.New(g.money(rec.NetPay), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1}),
			value(g.money(rec.EmployerContribution)),
		),
	)
}

// money formatea en soles con dos decimales según el locale del generador. Solo para impresión.
func (g *PayslipGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("S/ %v", number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
