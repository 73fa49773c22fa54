// Package export renders entity lists as CSV, XLSX and printable HTML.
package export

import (
	"errors"
	"strings"
	"time"

	"github.com/geritapp/gerit/internal/fold"
)

const AppName = "GeritApp"

var ErrNothingToExport = errors.New("nothing to export")

type Column[T any] struct {
	Header string
	Value  func(T) string
}

func headers[T any](columns []Column[T]) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.Header
	}
	return out
}

func rows[T any](columns []Column[T], items []T) [][]string {
	out := make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = c.Value(item)
		}
		out = append(out, row)
	}
	return out
}

// FileName builds GeritApp_<Entity>_<YYYY-MM-DD_HH-MM>.<ext> with the
// entity name reduced to ASCII and spaces replaced by underscores.
func FileName(entity, ext string, at time.Time) string {
	name := strings.ReplaceAll(fold.ASCII(strings.TrimSpace(entity)), " ", "_")
	return AppName + "_" + name + "_" + at.UTC().Format("2006-01-02_15-04") + "." + ext
}
