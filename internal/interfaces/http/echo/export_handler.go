package echo

import (
	"bytes"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/geritapp/gerit/internal/application/catalog"
)

var contentTypes = map[catalog.Format]string{
	catalog.FormatCSV:    "text/csv; charset=utf-8",
	catalog.FormatXLSX:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	catalog.FormatReport: echo.MIMETextHTMLCharsetUTF8,
}

type ExportHandler struct {
	entities entityResolver
}

func NewExportHandler(entities entityResolver) *ExportHandler {
	return &ExportHandler{entities: entities}
}

// Export renders the filtered list of entity in format. CSV and XLSX are
// sent as attachments; the report is shown inline for printing.
func (h *ExportHandler) Export(entity string, format catalog.Format) echo.HandlerFunc {
	return func(c echo.Context) error {
		e, err := h.entities.Entity(entity)
		if err != nil {
			return err
		}
		q, err := parseQuery(c)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		name, err := e.WriteExport(c.Request().Context(), q, format, &buf)
		if err != nil {
			return err
		}

		disposition := "attachment"
		if format == catalog.FormatReport {
			disposition = "inline"
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			mime.FormatMediaType(disposition, map[string]string{"filename": name}))
		return c.Blob(http.StatusOK, contentTypes[format], buf.Bytes())
	}
}
