// Package excel implementa la exportación del libro de ingresos/egresos a XLSX.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/jhoicas/kardex-api/internal/application/reports"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

var _ reports.LedgerRenderer = (*ExcelizeLedgerRenderer)(nil)

// ExcelizeLedgerRenderer implementa reports.LedgerRenderer usando excelize.
type ExcelizeLedgerRenderer struct{}

// NewExcelizeLedgerRenderer construye el renderer.
func NewExcelizeLedgerRenderer() *ExcelizeLedgerRenderer { return &ExcelizeLedgerRenderer{} }

const sheetName = "Libro"

// Render genera el XLSX del libro y devuelve sus bytes. Una fila por asiento;
// los egresos van con monto negativo para que SUM en la hoja dé el neto.
func (r *ExcelizeLedgerRenderer) Render(doc *reports.LedgerDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("excel: crear hoja: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// Cabecera del documento
	f.SetCellValue(sheetName, "A1", doc.Title)
	f.SetCellValue(sheetName, "A2", "Sucursal: "+doc.BranchName)
	f.SetCellValue(sheetName, "A3", fmt.Sprintf("Del %s al %s",
		doc.From.Format("02/01/2006"), doc.To.Format("02/01/2006")))

	// Cabecera de la tabla
	headers := []string{"Fecha", "Tipo", "Categoría", "Descripción", "Documento", "Monto"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(sheetName, cell, h)
	}

	// Filas
	rowNo := 6
	for _, it := range doc.Rows {
		kind := "Ingreso"
		amount, _ := it.Amount.Float64()
		if it.Kind == entity.EntryKindExpense {
			kind = "Egreso"
			amount = -amount
		}
		f.SetCellValue(sheetName, "A"+fmt.Sprint(rowNo), it.Date.Format("02/01/2006"))
		f.SetCellValue(sheetName, "B"+fmt.Sprint(rowNo), kind)
		f.SetCellValue(sheetName, "C"+fmt.Sprint(rowNo), it.Category)
		f.SetCellValue(sheetName, "D"+fmt.Sprint(rowNo), it.Description)
		f.SetCellValue(sheetName, "E"+fmt.Sprint(rowNo), it.DocumentRef)
		f.SetCellValue(sheetName, "F"+fmt.Sprint(rowNo), amount)
		rowNo++
	}

	// Totales
	rowNo++
	income, _ := doc.TotalIncome.Float64()
	expense, _ := doc.TotalExpense.Float64()
	net, _ := doc.Net.Float64()
	f.SetCellValue(sheetName, "E"+fmt.Sprint(rowNo), "Total ingresos")
	f.SetCellValue(sheetName, "F"+fmt.Sprint(rowNo), income)
	rowNo++
	f.SetCellValue(sheetName, "E"+fmt.Sprint(rowNo), "Total egresos")
	f.SetCellValue(sheetName, "F"+fmt.Sprint(rowNo), expense)
	rowNo++
	f.SetCellValue(sheetName, "E"+fmt.Sprint(rowNo), "NETO")
	f.SetCellValue(sheetName, "F"+fmt.Sprint(rowNo), net)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}
