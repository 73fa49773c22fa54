package csvimport_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geritapp/gerit/internal/csvimport"
)

func TestParseRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		line      string
		delimiter rune
		want      []string
	}{
		{name: "plain", line: "a;b;c", delimiter: ';', want: []string{"a", "b", "c"}},
		{name: "trims whitespace", line: " a , b ,c ", delimiter: ',', want: []string{"a", "b", "c"}},
		{name: "quoted delimiter", line: `"Empresa ABC, Lda",geral@abc.pt`, delimiter: ',', want: []string{"Empresa ABC, Lda", "geral@abc.pt"}},
		{name: "escaped quote", line: `"diz ""olá"" já";x`, delimiter: ';', want: []string{`diz "olá" já`, "x"}},
		{name: "empty cells", line: ";;", delimiter: ';', want: []string{"", "", ""}},
		{name: "tab", line: "a\tb", delimiter: '\t', want: []string{"a", "b"}},
		{name: "unterminated quote runs to end", line: `"a;b;c`, delimiter: ';', want: []string{"a;b;c"}},
		{name: "surrounding quotes stripped after unescape", line: `"""x"""`, delimiter: ';', want: []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, csvimport.ParseRow(tt.line, tt.delimiter))
		})
	}
}

func TestParseRowRoundTrip(t *testing.T) {
	t.Parallel()

	cells := []string{"Ana Silva", "ana@x.com", "Rua das Flores 12, Porto", `o "chefe" diz`}
	for _, d := range csvimport.Delimiters {
		quoted := make([]string, len(cells))
		for i, c := range cells {
			quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		}
		line := strings.Join(quoted, string(d))

		first := csvimport.ParseRow(line, d)
		require.Equal(t, cells, first)

		rejoined := make([]string, len(first))
		for i, c := range first {
			rejoined[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		}
		assert.Equal(t, first, csvimport.ParseRow(strings.Join(rejoined, string(d)), d))
	}
}

func TestDetectDelimiter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ';', csvimport.DetectDelimiter("nome;email;telefone"))
	assert.Equal(t, ',', csvimport.DetectDelimiter("nome,email,telefone"))
	assert.Equal(t, '\t', csvimport.DetectDelimiter("nome\temail"))
	assert.Equal(t, ';', csvimport.DetectDelimiter("nome"), "no candidate defaults to semicolon")
	assert.Equal(t, ';', csvimport.DetectDelimiter("a;b,c"), "tie keeps preference order")
	assert.Equal(t, ',', csvimport.DetectDelimiter("a;b,c,d"))
}

func TestParse(t *testing.T) {
	t.Parallel()

	table, err := csvimport.Parse("\ufeffnome;email\r\n\r\nAna Silva;ana@x.com\r\n  \nBruno;bruno@x.com\n")
	require.NoError(t, err)

	assert.Equal(t, ';', table.Delimiter)
	assert.Equal(t, []string{"nome", "email"}, table.Headers)
	assert.Equal(t, [][]string{{"Ana Silva", "ana@x.com"}, {"Bruno", "bruno@x.com"}}, table.Rows)
}

func TestParseRejectsHeaderOnly(t *testing.T) {
	t.Parallel()

	_, err := csvimport.Parse("nome;email\n\n   \n")
	require.ErrorIs(t, err, csvimport.ErrNotEnoughLines)

	_, err = csvimport.Parse("")
	require.ErrorIs(t, err, csvimport.ErrNotEnoughLines)
}
