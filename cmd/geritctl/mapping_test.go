package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geritapp/gerit/internal/csvimport"
)

func TestParseMapping(t *testing.T) {
	t.Parallel()

	headers := []string{"Nome completo", "E-mail", "Observações"}
	raw := []byte("0: nome\n\" e-mail \": email\nObservações: ~\n")

	mapping, err := parseMapping(raw, headers)
	require.NoError(t, err)
	assert.Equal(t, csvimport.Mapping{0: "nome", 1: "email", 2: csvimport.Ignore}, mapping)
}

func TestParseMappingErrors(t *testing.T) {
	t.Parallel()

	headers := []string{"Nome", "Email"}
	cases := map[string]string{
		"index out of range": "5: nome\n",
		"unknown header":     "Telefone: telefone\n",
		"not a map":          "- nome\n- email\n",
		"nested value":       "Nome: [nome]\n",
		"invalid yaml":       "Nome: [\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := parseMapping([]byte(raw), headers)
			assert.Error(t, err)
		})
	}
}

func TestParseMappingEmpty(t *testing.T) {
	t.Parallel()

	mapping, err := parseMapping(nil, []string{"Nome"})
	require.NoError(t, err)
	assert.Empty(t, mapping)
}
