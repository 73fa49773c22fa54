package csvimport

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Supported reports whether name has an extension ReadTable understands.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".xlsx":
		return true
	}
	return false
}

// ReadTable reads a delimited text file or the first sheet of a workbook,
// choosing by the extension of name.
func ReadTable(name string, r io.Reader) (Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return ReadWorkbook(r, "")
	case ".csv", ".txt":
		raw, err := io.ReadAll(r)
		if err != nil {
			return Table{}, fmt.Errorf("read %s: %w", name, err)
		}
		return Parse(string(raw))
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}
