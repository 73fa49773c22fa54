package export_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/geritapp/gerit/internal/csvimport"
	"github.com/geritapp/gerit/internal/export"
)

type vehicle struct {
	ID    int64
	Plate string
	Notes string
}

var columns = []export.Column[vehicle]{
	{Header: "ID", Value: func(v vehicle) string { return strconv.FormatInt(v.ID, 10) }},
	{Header: "Matrícula", Value: func(v vehicle) string { return v.Plate }},
	{Header: "Notas", Value: func(v vehicle) string { return v.Notes }},
}

var fleet = []vehicle{
	{ID: 1, Plate: "AB-12-CD", Notes: `pneu "furado"; revisão`},
	{ID: 2, Plate: "EF-34-GH"},
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, columns, fleet))

	want := "\ufeffID;Matrícula;Notas\n" +
		`"1";"AB-12-CD";"pneu ""furado""; revisão"` + "\n" +
		`"2";"EF-34-GH";""`
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVReadsBack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, columns, fleet))

	table, err := csvimport.Parse(buf.String())
	require.NoError(t, err)

	assert.Equal(t, ';', table.Delimiter)
	assert.Equal(t, []string{"ID", "Matrícula", "Notas"}, table.Headers)
	assert.Equal(t, []string{"1", "AB-12-CD", `pneu "furado"; revisão`}, table.Rows[0])
}

func TestExportRejectsEmptyList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.ErrorIs(t, export.WriteCSV(&buf, columns, nil), export.ErrNothingToExport)
	assert.ErrorIs(t, export.WriteXLSX(&buf, "Viaturas", columns, nil), export.ErrNothingToExport)
	assert.ErrorIs(t, export.WriteReport(&buf, "Viaturas", time.Now(), columns, nil), export.ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestFileName(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 7, 28, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "GeritApp_Intervencoes_2024-07-28_09-05.csv", export.FileName("Intervenções", "csv", at))
	assert.Equal(t, "GeritApp_Membros_da_Equipa_2024-07-28_09-05.xlsx", export.FileName("Membros da Equipa", "xlsx", at))
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, "Viaturas", columns, fleet))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Viaturas")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Matrícula", "Notas"}, rows[0])
	assert.Equal(t, "AB-12-CD", rows[1][1])
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	at := time.Date(2024, 7, 28, 9, 5, 7, 0, time.UTC)
	require.NoError(t, export.WriteReport(&buf, "Viaturas", at, columns, fleet))

	html := buf.String()
	assert.Contains(t, html, "<h1>GeritApp – Viaturas</h1>")
	assert.Contains(t, html, "Gerado em 28/07/2024 às 09:05:07")
	assert.Contains(t, html, "<th>Matrícula</th>")
	assert.Contains(t, html, "pneu &#34;furado&#34;; revisão")
	assert.Equal(t, 2, strings.Count(html, "<tr><td>"))
}
