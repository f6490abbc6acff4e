// Package spreadsheet exporta el registro de ventas (PLE) a XLSX.
package spreadsheet

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tealeg/xlsx/v3"

	"github.com/jhoicas/cressendo-erp/internal/application/ports"
	"github.com/jhoicas/cressendo-erp/internal/domain/tax"
)

var _ ports.RegisterExporter = (*SalesRegisterExporter)(nil)

// SalesRegisterHeaders columnas de la hoja de detalle, en orden.
var SalesRegisterHeaders = []string{"Fecha", "Comprobante", "Cliente", "Total", "Base imponible", "IGV", "Gravado", "ID"}

// SalesRegisterExporter genera el libro con una hoja de detalle y una de resumen.
type SalesRegisterExporter struct{}

// NewSalesRegisterExporter construye el exportador.
func NewSalesRegisterExporter() *SalesRegisterExporter { return &SalesRegisterExporter{} }

// ExportSalesRegister escribe las líneas del periodo y sus totales. Los montos van como texto
// con dos decimales para no pasar por float64.
func (e *SalesRegisterExporter) ExportSalesRegister(_ context.Context, totals *tax.PeriodTotals) ([]byte, error) {
	if totals == nil {
		return nil, fmt.Errorf("xlsx: registro vacío")
	}
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Registro de ventas")
	if err != nil {
		return nil, fmt.Errorf("xlsx: agregar hoja: %w", err)
	}
	header := sheet.AddRow()
	for _, h := range SalesRegisterHeaders {
		cell := header.AddCell()
		cell.Value = h
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}
	for _, l := range totals.Lines {
		taxable := "NO"
		if l.Taxable {
			taxable = "SI"
		}
		addRow(sheet,
			l.Date.Format("2006-01-02"),
			string(l.DocumentType),
			l.Customer,
			l.Total.StringFixed(2),
			l.Base.StringFixed(2),
			l.VAT.StringFixed(2),
			taxable,
			l.EntryID,
		)
	}
	for i := range SalesRegisterHeaders {
		sheet.SetColWidth(i+1, i+1, 16)
	}

	summary, err := file.AddSheet("Resumen")
	if err != nil {
		return nil, fmt.Errorf("xlsx: agregar hoja: %w", err)
	}
	addRow(summary, "Desde", totals.Start.Format("2006-01-02"))
	addRow(summary, "Hasta (excluido)", totals.End.Format("2006-01-02"))
	addRow(summary, "Total caja", totals.CashFlowTotal.StringFixed(2))
	addRow(summary, "Total gravado", totals.TaxableTotal.StringFixed(2))
	addRow(summary, "Base imponible", totals.TaxableBase.StringFixed(2))
	addRow(summary, "IGV", totals.VAT.StringFixed(2))
	addRow(summary, "Renta estimada", totals.IncomeTax.StringFixed(2))
	addRow(summary, "Documentos", fmt.Sprint(totals.Documents))
	addRow(summary, "Documentos gravados", fmt.Sprint(totals.TaxableDocuments))

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	r := sheet.AddRow()
	for _, v := range values {
		r.AddCell().Value = v
	}
}
