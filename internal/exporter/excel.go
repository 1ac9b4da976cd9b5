package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// sheetName is the single worksheet of an export workbook.
const sheetName = "Rechnungen"

// BuildWorkbook assembles the export as an XLSX workbook with the same
// schema and summary semantics as the CSV document. Dates and amounts are
// written as native cell values with German display formats, so Excel sorts
// and sums them correctly.
func BuildWorkbook(records []Record, opts BuildOptions) (*excelize.File, error) {
	cols := ActiveColumns(opts.Columns)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	dateFmt := "DD.MM.YYYY"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create date style: %w", err)
	}
	amountFmt := "#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create amount style: %w", err)
	}

	// Header row
	for i, col := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("invalid header coordinate: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, col.Label); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header cell: %w", err)
		}
	}

	// Data rows
	for rowIdx, rec := range records {
		row := rowIdx + 2
		for i, col := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return nil, fmt.Errorf("invalid cell coordinate: %w", err)
			}
			if err := writeCell(f, cell, rec, col, dateStyle, amountStyle); err != nil {
				return nil, err
			}
		}
	}

	// Summary row
	if opts.IncludeSummary && len(records) > 0 {
		totals := Summarize(records)
		row := len(records) + 2
		for i, col := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return nil, fmt.Errorf("invalid summary coordinate: %w", err)
			}
			switch {
			case col.Key == "datum":
				if err := f.SetCellValue(sheetName, cell, summaryLabel); err != nil {
					return nil, fmt.Errorf("failed to write summary label: %w", err)
				}
				if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
					return nil, fmt.Errorf("failed to style summary label: %w", err)
				}
			case IsNumericColumn(col.Key):
				if err := f.SetCellValue(sheetName, cell, round2(totals[col.Key])); err != nil {
					return nil, fmt.Errorf("failed to write summary cell: %w", err)
				}
				if err := f.SetCellStyle(sheetName, cell, cell, amountStyle); err != nil {
					return nil, fmt.Errorf("failed to style summary cell: %w", err)
				}
			}
		}
	}

	// Readable default widths: dates and amounts fit, product names get room.
	if len(cols) > 0 {
		last, _ := excelize.ColumnNumberToName(len(cols))
		if err := f.SetColWidth(sheetName, "A", last, 14); err != nil {
			return nil, fmt.Errorf("failed to set column widths: %w", err)
		}
	}

	return f, nil
}

func writeCell(f *excelize.File, cell string, rec Record, col Column, dateStyle, amountStyle int) error {
	switch col.Type {
	case TypeDate:
		if !rec.Date.IsZero() {
			if err := f.SetCellValue(sheetName, cell, rec.Date); err != nil {
				return fmt.Errorf("failed to write date cell: %w", err)
			}
		}
		if err := f.SetCellStyle(sheetName, cell, cell, dateStyle); err != nil {
			return fmt.Errorf("failed to style date cell: %w", err)
		}
	case TypeCurrency, TypeNumber:
		if err := f.SetCellValue(sheetName, cell, CoerceNumber(rec.Value(col.Key))); err != nil {
			return fmt.Errorf("failed to write amount cell: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, amountStyle); err != nil {
			return fmt.Errorf("failed to style amount cell: %w", err)
		}
	default:
		if err := f.SetCellValue(sheetName, cell, stringify(rec.Value(col.Key))); err != nil {
			return fmt.Errorf("failed to write text cell: %w", err)
		}
	}
	return nil
}
