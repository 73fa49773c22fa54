package export

import (
	"html/template"
	"io"
	"time"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="pt">
<head>
<meta charset="utf-8">
<title>Imprimir - {{.App}} - {{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; margin: 20mm; }
h1 { font-size: 18px; font-weight: 600; text-align: center; margin-bottom: 8px; }
p { font-size: 12px; text-align: center; color: #6B7280; margin-top: 0; margin-bottom: 24px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #E5E7EB; padding: 8px 12px; text-align: left; font-size: 12px; word-break: break-word; }
th { background-color: #F3F4F6; font-weight: 600; }
tr:nth-child(even) { background-color: #F9FAFB; }
@page { size: A4 portrait; margin: 20mm; }
@media print { body { -webkit-print-color-adjust: exact; print-color-adjust: exact; } }
</style>
</head>
<body>
<h1>{{.App}} – {{.Title}}</h1>
<p>Gerado em {{.Date}} às {{.Time}}</p>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// WriteReport renders a printable A4 page listing items.
func WriteReport[T any](w io.Writer, title string, at time.Time, columns []Column[T], items []T) error {
	if len(items) == 0 {
		return ErrNothingToExport
	}

	return reportTemplate.Execute(w, struct {
		App     string
		Title   string
		Date    string
		Time    string
		Headers []string
		Rows    [][]string
	}{
		App:     AppName,
		Title:   title,
		Date:    at.Format("02/01/2006"),
		Time:    at.Format("15:04:05"),
		Headers: headers(columns),
		Rows:    rows(columns, items),
	})
}
