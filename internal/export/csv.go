package export

import (
	"bufio"
	"io"
	"strings"
)

const bom = "\ufeff"

// WriteCSV writes a BOM-prefixed, semicolon separated file. The header row
// is written as is; every value is quoted with inner quotes doubled.
func WriteCSV[T any](w io.Writer, columns []Column[T], items []T) error {
	if len(items) == 0 {
		return ErrNothingToExport
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(bom)
	bw.WriteString(strings.Join(headers(columns), ";"))

	for _, row := range rows(columns, items) {
		bw.WriteByte('\n')
		for i, value := range row {
			if i > 0 {
				bw.WriteByte(';')
			}
			bw.WriteByte('"')
			bw.WriteString(strings.ReplaceAll(value, `"`, `""`))
			bw.WriteByte('"')
		}
	}
	return bw.Flush()
}
