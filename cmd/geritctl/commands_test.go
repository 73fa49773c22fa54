package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geritapp/gerit/internal/application/fieldservice"
	"github.com/geritapp/gerit/internal/config"
	domain "github.com/geritapp/gerit/internal/domain/fieldservice"
	"github.com/geritapp/gerit/internal/infrastructure/repository"
	"github.com/geritapp/gerit/internal/seed"
)

func memoryLoader(t *testing.T) (consoleLoader, *fieldservice.Console) {
	t.Helper()

	logger, _ := test.NewNullLogger()
	console := fieldservice.NewConsole(fieldservice.Stores{
		Clients:       repository.NewMemoryStore[domain.Client](),
		Team:          repository.NewMemoryStore[domain.TeamMember](),
		Vehicles:      repository.NewMemoryStore[domain.Vehicle](),
		Equipment:     repository.NewMemoryStore[domain.Equipment](),
		Interventions: repository.NewMemoryStore[domain.Intervention](),
	}, fieldservice.Options{Logger: logger})
	require.NoError(t, console.Load(context.Background(), seed.FieldService()))

	cfg := &config.Configuration{PageSize: 10}
	return func(context.Context, []string) (*fieldservice.Console, *config.Configuration, func(), error) {
		return console, cfg, func() {}, nil
	}, console
}

func execute(t *testing.T, load consoleLoader, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(load)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportDryRunLeavesCatalog(t *testing.T) {
	load, console := memoryLoader(t)
	file := writeFile(t, "equipa.csv", "Nome,Email\nRita Gomes,rita.gomes@geritapp.com\nJoão Silva,joao.silva@geritapp.com\n")

	out, err := execute(t, load, "import", "team", file, "--dry-run")
	require.NoError(t, err)

	var got struct {
		Command string `json:"command"`
		Result  struct {
			Summary struct {
				ToCreate int `json:"to_create"`
				ToUpdate int `json:"to_update"`
				ToSkip   int `json:"to_skip"`
			} `json:"summary"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "import --dry-run", got.Command)
	assert.Equal(t, 1, got.Result.Summary.ToCreate)
	assert.Equal(t, 1, got.Result.Summary.ToUpdate, "existing email updates by default")
	assert.Zero(t, got.Result.Summary.ToSkip)
	assert.Len(t, console.Team.Snapshot(), 4)
}

func TestImportUpdateExistingCanBeDisabled(t *testing.T) {
	load, console := memoryLoader(t)
	file := writeFile(t, "equipa.csv", "Nome,Email\nJoão Silva Jr,joao.silva@geritapp.com\n")

	out, err := execute(t, load, "import", "team", file, "--update-existing=false")
	require.NoError(t, err)

	var got struct {
		Result struct {
			Created int `json:"created"`
			Updated int `json:"updated"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Result.Created)
	assert.Zero(t, got.Result.Updated)
	assert.Len(t, console.Team.Snapshot(), 5)
}

func TestImportWithMappingFile(t *testing.T) {
	load, console := memoryLoader(t)
	file := writeFile(t, "equipa.csv", "Nome completo;Correio;Notas\nRita Gomes;rita.gomes@geritapp.com;nova\n")
	mapping := writeFile(t, "mapping.yaml", "Nome completo: nome\n1: email\nNotas: ~\n")

	out, err := execute(t, load, "import", "team", file, "--mapping", mapping)
	require.NoError(t, err)

	var got struct {
		Result struct {
			Created int `json:"created"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Result.Created)
	assert.Len(t, console.Team.Snapshot(), 5)
}

func TestImportMissingRequiredField(t *testing.T) {
	load, _ := memoryLoader(t)
	file := writeFile(t, "equipa.csv", "Nome completo,Notas\nRita Gomes,nova\n")

	_, err := execute(t, load, "import", "team", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestImportUnknownEntity(t *testing.T) {
	load, _ := memoryLoader(t)
	file := writeFile(t, "x.csv", "Nome,Email\na,b\n")

	_, err := execute(t, load, "import", "robots", file)
	require.ErrorIs(t, err, fieldservice.ErrUnknownEntity)
}

func TestExportCSVToFile(t *testing.T) {
	load, _ := memoryLoader(t)
	target := filepath.Join(t.TempDir(), "viaturas.csv")

	_, err := execute(t, load, "export", "vehicles", "--search", "renault", "-o", target)
	require.NoError(t, err)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, "AB-12-CD")
	assert.NotContains(t, body, "EF-34-GH")
	assert.Equal(t, 2, strings.Count(body, "\n"))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	load, _ := memoryLoader(t)

	_, err := execute(t, load, "export", "vehicles", "--format", "pdf")
	require.Error(t, err)
}

func TestBrowserForEveryEntity(t *testing.T) {
	_, console := memoryLoader(t)

	for _, e := range console.Entities() {
		model, err := browser(console, e.Name(), 5)
		require.NoError(t, err, e.Name())
		assert.Contains(t, model.View(), e.Title())
	}

	_, err := browser(console, "robots", 5)
	require.ErrorIs(t, err, fieldservice.ErrUnknownEntity)
}
