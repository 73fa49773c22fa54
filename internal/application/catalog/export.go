package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/geritapp/gerit/internal/export"
)

type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatReport Format = "html"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatXLSX, FormatReport:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (c *Catalog[T]) ExportColumns() []export.Column[T] {
	return c.def.Export
}

// Export returns the items a list query shows, across all pages.
func (c *Catalog[T]) Export(ctx context.Context, q Query) ([]T, error) {
	items := c.Matching(ctx, q)
	if len(items) == 0 {
		return nil, export.ErrNothingToExport
	}
	return items, nil
}

// WriteExport renders the matching items in the given format and returns
// the file name to offer for download.
func (c *Catalog[T]) WriteExport(ctx context.Context, q Query, format Format, w io.Writer) (string, error) {
	items, err := c.Export(ctx, q)
	if err != nil {
		return "", err
	}

	now := c.clock.Now()
	name := export.FileName(c.def.Title, string(format), now)

	switch format {
	case FormatCSV:
		err = export.WriteCSV(w, c.def.Export, items)
	case FormatXLSX:
		err = export.WriteXLSX(w, c.def.Title, c.def.Export, items)
	case FormatReport:
		err = export.WriteReport(w, c.def.Title, now, c.def.Export, items)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return "", fmt.Errorf("export %s: %w", c.def.Name, err)
	}

	c.log.WithField("format", format).WithField("count", len(items)).Info("export written")
	return name, nil
}
