package fold_test

import (
	"testing"

	"github.com/geritapp/gerit/internal/fold"
)

func TestASCII(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Manutenção":  "Manutencao",
		"Disponível":  "Disponivel",
		"Nº de Série": "Nº de Serie",
		"plain":       "plain",
	}
	for in, want := range cases {
		if got := fold.ASCII(in); got != want {
			t.Fatalf("ASCII(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	if !fold.Equal(" em MANUTENÇÃO", "Em manutenção") {
		t.Fatal("expected accent and case insensitive match")
	}
	if fold.Equal("Ativo", "Inativo") {
		t.Fatal("expected mismatch")
	}
}
