package export

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxColumnWidth = 60

// WriteXLSX writes one sheet with a bold header row and columns sized to
// their content.
func WriteXLSX[T any](w io.Writer, sheet string, columns []Column[T], items []T) error {
	if len(items) == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F3F4F6"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	widths := make([]int, len(columns))
	write := func(rowNum int, values []string) error {
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
			widths[i] = max(widths[i], utf8.RuneCountInString(v))
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &cells)
	}

	if err := write(1, headers(columns)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows(columns, items) {
		if err := write(i+2, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	for i, width := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, float64(min(width+2, maxColumnWidth))); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}
