package csvimport

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrSheetNotFound = errors.New("sheet not found")

// ReadWorkbook reads one sheet of an XLSX workbook into a Table. An empty
// sheet name selects the first sheet.
func ReadWorkbook(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrSheetNotFound
	}
	if sheet == "" {
		sheet = sheets[0]
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return Table{}, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	rows := make([][]string, 0, len(raw))
	for _, row := range raw {
		cells := make([]string, len(row))
		blank := true
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
			if cells[i] != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, cells)
		}
	}
	if len(rows) < 2 {
		return Table{}, ErrNotEnoughLines
	}

	return Table{Headers: rows[0], Rows: rows[1:]}, nil
}
