package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geritapp/gerit/internal/application/catalog"
	"github.com/geritapp/gerit/internal/csvimport"
	"github.com/geritapp/gerit/internal/domain/importjob"
	"github.com/geritapp/gerit/internal/liststate"
)

type tool struct {
	ID      int64
	Name    string
	Serial  string
	Created time.Time
}

func (t tool) EntityID() int64 { return t.ID }

func (t tool) WithID(id int64) tool {
	t.ID = id
	return t
}

type memStore struct {
	mu      sync.Mutex
	items   map[int64]tool
	saveErr error
	saves   int
}

func newMemStore(items ...tool) *memStore {
	s := &memStore{items: make(map[int64]tool)}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *memStore) Load(context.Context) ([]tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tool, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	return out, nil
}

func (s *memStore) Save(_ context.Context, items ...tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	for _, it := range items {
		s.items[it.ID] = it
	}
	return nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

type recorder struct {
	jobs []importjob.Job
}

func (r *recorder) Record(_ context.Context, job importjob.Job) error {
	r.jobs = append(r.jobs, job)
	return nil
}

var errNameTooShort = errors.New("name too short")

func toolDefinition() catalog.Definition[tool] {
	columns := []csvimport.Column{
		{Field: "nome", Label: "Nome", Required: true},
		{Field: "serie", Label: "Série"},
	}
	return catalog.Definition[tool]{
		Name:  "tools",
		Title: "Ferramentas",
		Fields: []liststate.Field[tool]{
			{Key: "nome", Value: func(t tool) (any, bool) { return t.Name, t.Name != "" }},
			{Key: "serie", Value: func(t tool) (any, bool) { return t.Serial, t.Serial != "" }},
			{Key: "id", Value: func(t tool) (any, bool) { return t.ID, true }},
		},
		SearchKeys:  []string{"nome", "serie"},
		DefaultSort: liststate.Sort{Key: "nome", Direction: liststate.Asc},
		Import: csvimport.Schema[tool]{
			Entity:    "tools",
			Columns:   columns,
			UniqueKey: "serie",
			KeyOf:     func(t tool) string { return t.Serial },
			Build: func(r csvimport.Record) (tool, error) {
				return tool{Name: r["nome"], Serial: r["serie"]}, nil
			},
			Merge: func(t tool, r csvimport.Record) (tool, error) {
				t.Name = r["nome"]
				return t, nil
			},
		},
		Prepare: func(t tool) tool {
			t.Name = strings.TrimSpace(t.Name)
			return t
		},
		Stamp: func(t tool, now time.Time) tool {
			t.Created = now
			return t
		},
		Keep: func(stored, updated tool) tool {
			updated.Created = stored.Created
			return updated
		},
		Validate: func(t tool, _ []tool) error {
			if len(t.Name) < 2 {
				return errNameTooShort
			}
			return nil
		},
		Guard: func(t tool) error {
			if t.Serial == "LOCKED" {
				return errors.New("locked")
			}
			return nil
		},
	}
}

func newCatalog(t *testing.T, store *memStore, opts ...catalog.Option) *catalog.Catalog[tool] {
	t.Helper()

	logger, _ := test.NewNullLogger()
	opts = append([]catalog.Option{catalog.WithLogger(logger)}, opts...)

	c := catalog.New(toolDefinition(), store, opts...)
	require.NoError(t, c.Load(context.Background(), nil))
	return c
}

func TestLoadSeedsEmptyStore(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	c := catalog.New(toolDefinition(), store, catalog.WithLogger(logrus.New()))

	require.NoError(t, c.Load(context.Background(), []tool{{ID: 7, Name: "Berbequim"}}))
	assert.Len(t, store.items, 1)

	created, err := c.Create(context.Background(), tool{Name: "Serra"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), created.ID)
}

func TestCreatePrependsAndStamps(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	store := newMemStore(tool{ID: 3, Name: "Escada"})
	c := newCatalog(t, store, catalog.WithClock(clock))

	created, err := c.Create(context.Background(), tool{ID: 99, Name: "  Martelo "})
	require.NoError(t, err)

	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, "Martelo", created.Name)
	assert.Equal(t, clock.Now(), created.Created)
	assert.Equal(t, int64(4), c.Snapshot()[0].ID)
	assert.Contains(t, store.items, int64(4))
}

func TestCreateRejectsInvalid(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	c := newCatalog(t, store)

	_, err := c.Create(context.Background(), tool{Name: "x"})
	require.ErrorIs(t, err, errNameTooShort)
	assert.Empty(t, c.Snapshot())
	assert.Empty(t, store.items)
}

func TestCreateDoesNotKeepItemWhenStoreFails(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	c := newCatalog(t, store)
	store.saveErr = errors.New("disk full")

	_, err := c.Create(context.Background(), tool{Name: "Martelo"})
	require.ErrorIs(t, err, catalog.ErrPersist)
	assert.Empty(t, c.Snapshot())
}

func TestCreateUsesRemoteResult(t *testing.T) {
	t.Parallel()

	def := toolDefinition()
	def.Remote = func(_ context.Context, t tool) (tool, error) {
		if t.Name == "Alicate" {
			t.ID = 500
		}
		return t, nil
	}
	logger, _ := test.NewNullLogger()
	c := catalog.New(def, newMemStore(), catalog.WithLogger(logger))
	require.NoError(t, c.Load(context.Background(), nil))

	created, err := c.Create(context.Background(), tool{Name: "Alicate"})
	require.NoError(t, err)
	assert.Equal(t, int64(500), created.ID)

	next, err := c.Create(context.Background(), tool{Name: "Chave"})
	require.NoError(t, err)
	assert.Equal(t, int64(501), next.ID)
}

func TestCreateRemoteFailure(t *testing.T) {
	t.Parallel()

	def := toolDefinition()
	def.Remote = func(context.Context, tool) (tool, error) {
		return tool{}, errors.New("503")
	}
	logger, _ := test.NewNullLogger()
	c := catalog.New(def, newMemStore(), catalog.WithLogger(logger))

	_, err := c.Create(context.Background(), tool{Name: "Alicate"})
	require.ErrorIs(t, err, catalog.ErrRemote)
	assert.Empty(t, c.Snapshot())
}

func TestUpdateKeepsPositionAndImmutableFields(t *testing.T) {
	t.Parallel()

	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newMemStore(tool{ID: 1, Name: "Escada", Created: created})
	c := newCatalog(t, store)

	updated, err := c.Update(context.Background(), 1, tool{Name: "Escadote", Serial: "E-1"})
	require.NoError(t, err)

	assert.Equal(t, tool{ID: 1, Name: "Escadote", Serial: "E-1", Created: created}, updated)
	assert.Equal(t, updated, store.items[1])

	_, err = c.Update(context.Background(), 42, tool{Name: "Nada"})
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestDeleteRunsGuard(t *testing.T) {
	t.Parallel()

	store := newMemStore(tool{ID: 1, Name: "Cofre", Serial: "LOCKED"}, tool{ID: 2, Name: "Balde"})
	c := newCatalog(t, store)

	require.EqualError(t, c.Delete(context.Background(), 1), "locked")
	require.NoError(t, c.Delete(context.Background(), 2))
	require.ErrorIs(t, c.Delete(context.Background(), 2), catalog.ErrNotFound)

	assert.Len(t, c.Snapshot(), 1)
	assert.NotContains(t, store.items, int64(2))
}

func TestListSearchSortAndPage(t *testing.T) {
	t.Parallel()

	store := newMemStore(
		tool{ID: 1, Name: "Serra circular", Serial: "SC-1"},
		tool{ID: 2, Name: "Berbequim", Serial: "BB-2"},
		tool{ID: 3, Name: "Serrote", Serial: "ST-3"},
		tool{ID: 4, Name: "Alicate"},
	)
	c := newCatalog(t, store)

	page := c.List(context.Background(), catalog.Query{PageSize: 2})
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Alicate", page.Items[0].Name)
	assert.Equal(t, "Berbequim", page.Items[1].Name)

	page = c.List(context.Background(), catalog.Query{Search: "SERR"})
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Serra circular", page.Items[0].Name)

	page = c.List(context.Background(), catalog.Query{
		Sort: liststate.Sort{Key: "id", Direction: liststate.Desc},
	})
	assert.Equal(t, int64(4), page.Items[0].ID)

	page = c.List(context.Background(), catalog.Query{Page: 2, PageSize: 3})
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Items, 1)
}

func TestListPagePastTheEndIsEmpty(t *testing.T) {
	t.Parallel()

	items := make([]tool, 0, 12)
	for i := 1; i <= 12; i++ {
		items = append(items, tool{ID: int64(i), Name: fmt.Sprintf("Ferramenta %02d", i)})
	}
	c := newCatalog(t, newMemStore(items...))

	page := c.List(context.Background(), catalog.Query{Page: 5, PageSize: 10})
	assert.Equal(t, 5, page.Page)
	assert.Empty(t, page.Items)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	page = c.List(context.Background(), catalog.Query{Page: 2, PageSize: 10})
	assert.Len(t, page.Items, 2)
}

func TestPreviewImportDoesNotChangeAnything(t *testing.T) {
	t.Parallel()

	store := newMemStore(tool{ID: 1, Name: "Escada", Serial: "E-1"})
	c := newCatalog(t, store)

	table, err := csvimport.Parse("Nome;Série\nEscadote;e-1\nBalde;B-9\n;X-1")
	require.NoError(t, err)

	preview, err := c.PreviewImport(context.Background(), catalog.ImportRequest{Table: table, UpdateExisting: true})
	require.NoError(t, err)

	assert.Equal(t, ";", preview.Delimiter)
	assert.Equal(t, csvimport.Summary{ToCreate: 1, ToUpdate: 1, ToSkip: 1}, preview.Summary)
	assert.Equal(t, []csvimport.RowFailure{{RowIndex: 2, Reason: "missing required field(s): nome"}}, preview.Failures)
	assert.Empty(t, preview.Missing)
	assert.Len(t, preview.Sample, 3)

	assert.Equal(t, "Escada", c.Snapshot()[0].Name)
	assert.Zero(t, store.saves)
}

func TestPreviewImportReportsUnmappedRequiredFields(t *testing.T) {
	t.Parallel()

	c := newCatalog(t, newMemStore())

	table := csvimport.Table{Headers: []string{"Designação", "Série"}, Rows: [][]string{{"Balde", "B-1"}}}

	preview, err := c.PreviewImport(context.Background(), catalog.ImportRequest{Table: table})
	require.NoError(t, err)
	assert.Equal(t, []string{"nome"}, preview.Missing)

	preview, err = c.PreviewImport(context.Background(), catalog.ImportRequest{
		Table:   table,
		Mapping: csvimport.Mapping{0: "nome"},
	})
	require.NoError(t, err)
	assert.Empty(t, preview.Missing)
	assert.Equal(t, csvimport.Summary{ToCreate: 1}, preview.Summary)
}

func TestImportRejectsBadMapping(t *testing.T) {
	t.Parallel()

	c := newCatalog(t, newMemStore())
	table := csvimport.Table{Headers: []string{"Designação"}, Rows: [][]string{{"Balde"}}}

	_, err := c.Import(context.Background(), catalog.ImportRequest{Table: table})
	var mappingErr *catalog.MappingError
	require.ErrorAs(t, err, &mappingErr)
	assert.Equal(t, []string{"nome"}, mappingErr.Missing)
	require.ErrorIs(t, err, catalog.ErrInvalidMapping)

	_, err = c.Import(context.Background(), catalog.ImportRequest{Table: table, Mapping: csvimport.Mapping{0: "morada"}})
	require.ErrorIs(t, err, catalog.ErrInvalidMapping)

	_, err = c.Import(context.Background(), catalog.ImportRequest{Table: table, Mapping: csvimport.Mapping{3: "nome"}})
	require.ErrorIs(t, err, catalog.ErrInvalidMapping)
}

func TestImportAppliesAndRecords(t *testing.T) {
	t.Parallel()

	store := newMemStore(tool{ID: 5, Name: "Escada", Serial: "E-1"})
	rec := &recorder{}
	c := newCatalog(t, store, catalog.WithImportRecorder(rec))

	table, err := csvimport.Parse("Nome,Série\nEscadote,E-1\nBalde,B-9\n,Y-1")
	require.NoError(t, err)

	outcome, err := c.Import(context.Background(), catalog.ImportRequest{
		Source:         "tools.csv",
		Table:          table,
		UpdateExisting: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "tools", outcome.Entity)
	assert.NotEmpty(t, outcome.JobID)
	assert.Equal(t, 1, outcome.Created)
	assert.Equal(t, 1, outcome.Updated)
	assert.Equal(t, 1, outcome.Skipped)
	assert.Equal(t, []csvimport.RowFailure{{RowIndex: 2, Reason: "missing required field(s): nome"}}, outcome.Failures)

	items := c.Snapshot()
	require.Len(t, items, 2)
	assert.Equal(t, tool{ID: 6, Name: "Balde", Serial: "B-9", Created: items[0].Created}, items[0])
	assert.Equal(t, "Escadote", items[1].Name)
	assert.Equal(t, int64(5), items[1].ID)
	assert.Equal(t, "Escadote", store.items[5].Name)
	assert.Contains(t, store.items, int64(6))

	require.Len(t, rec.jobs, 1)
	job := rec.jobs[0]
	assert.Equal(t, outcome.JobID, job.ID)
	assert.Equal(t, importjob.StatusCompleted, job.Status)
	assert.Equal(t, "tools.csv", job.SourcePath)
	assert.Equal(t, int64(3), job.Summary.ProcessedCount)
	assert.Equal(t, []importjob.Failure{{RowIndex: 2, Reason: "missing required field(s): nome"}}, job.Summary.Failures)
	assert.NotNil(t, job.FinishedAt)
}

func TestImportDoesNotApplyEntityValidation(t *testing.T) {
	t.Parallel()

	c := newCatalog(t, newMemStore())

	table, err := csvimport.Parse("Nome,Série\nx,Y-1")
	require.NoError(t, err)

	outcome, err := c.Import(context.Background(), catalog.ImportRequest{Table: table})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Created)
	assert.Zero(t, outcome.Skipped)
	assert.Equal(t, "x", c.Snapshot()[0].Name)
}

func TestImportKeepsCollectionWhenStoreFails(t *testing.T) {
	t.Parallel()

	store := newMemStore(tool{ID: 1, Name: "Escada", Serial: "E-1"})
	c := newCatalog(t, store)
	store.saveErr = errors.New("connection reset")

	table, err := csvimport.Parse("nome;serie\nBalde;B-1")
	require.NoError(t, err)

	_, err = c.Import(context.Background(), catalog.ImportRequest{Table: table})
	require.ErrorIs(t, err, catalog.ErrPersist)
	assert.Len(t, c.Snapshot(), 1)

	store.saveErr = nil
	created, err := c.Create(context.Background(), tool{Name: "Pá"})
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(1))
}

func TestImportLogsSummary(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	c := catalog.New(toolDefinition(), newMemStore(), catalog.WithLogger(logger))

	table, err := csvimport.Parse("nome;serie\nBalde;B-1")
	require.NoError(t, err)

	_, err = c.Import(context.Background(), catalog.ImportRequest{Table: table})
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "import applied", entry.Message)
	assert.Equal(t, 1, entry.Data["created"])
	assert.Equal(t, "tools", entry.Data["catalog"])
}
