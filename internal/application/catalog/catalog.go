// Package catalog holds one entity collection in memory, writes changes
// through to a Store and serves listing, editing, import and export for it.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/geritapp/gerit/internal/csvimport"
	"github.com/geritapp/gerit/internal/domain/importjob"
	"github.com/geritapp/gerit/internal/liststate"
)

const previewSample = 5

type Catalog[T csvimport.Identifiable[T]] struct {
	def   Definition[T]
	store Store[T]
	ids   *csvimport.Sequence

	recorder ImportRecorder
	observer ImportObserver
	clock    clockwork.Clock
	log      *logrus.Entry

	mu    sync.RWMutex
	items []T
}

type Option func(*options)

type options struct {
	recorder ImportRecorder
	observer ImportObserver
	clock    clockwork.Clock
	logger   *logrus.Logger
}

func WithImportRecorder(r ImportRecorder) Option {
	return func(o *options) { o.recorder = r }
}

func WithImportObserver(obs ImportObserver) Option {
	return func(o *options) { o.observer = obs }
}

func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

func New[T csvimport.Identifiable[T]](def Definition[T], store Store[T], opts ...Option) *Catalog[T] {
	o := options{clock: clockwork.NewRealClock(), logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Catalog[T]{
		def:      def,
		store:    store,
		ids:      csvimport.NewSequence(0),
		recorder: o.recorder,
		observer: o.observer,
		clock:    o.clock,
		log:      o.logger.WithField("catalog", def.Name),
		items:    make([]T, 0),
	}
}

// Load replaces the working set with the store's contents. When the store is
// empty and seed is not, seed is saved and used instead.
func (c *Catalog[T]) Load(ctx context.Context, seed []T) error {
	items, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", c.def.Name, err)
	}
	if len(items) == 0 && len(seed) > 0 {
		if err := c.store.Save(ctx, seed...); err != nil {
			return fmt.Errorf("seed %s: %w", c.def.Name, err)
		}
		items = slices.Clone(seed)
	}

	c.mu.Lock()
	c.items = items
	c.ids = csvimport.SequenceAfter(items)
	c.mu.Unlock()

	c.log.WithField("count", len(items)).Info("catalog loaded")
	return nil
}

func (c *Catalog[T]) Name() string  { return c.def.Name }
func (c *Catalog[T]) Title() string { return c.def.Title }

func (c *Catalog[T]) Fields() []liststate.Field[T] { return c.def.Fields }

func (c *Catalog[T]) DefaultSort() liststate.Sort { return c.def.DefaultSort }

func (c *Catalog[T]) SearchFields() []liststate.Field[T] {
	if len(c.def.SearchKeys) == 0 {
		return c.def.Fields
	}
	out := make([]liststate.Field[T], 0, len(c.def.SearchKeys))
	for _, f := range c.def.Fields {
		if slices.Contains(c.def.SearchKeys, f.Key) {
			out = append(out, f)
		}
	}
	return out
}

// Snapshot returns a copy of every item in insertion order, newest first.
func (c *Catalog[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// List narrows, searches and sorts the collection and returns one page.
func (c *Catalog[T]) List(_ context.Context, q Query) liststate.Page[T] {
	visible := c.query(q)
	size := q.PageSize
	if size <= 0 {
		size = liststate.DefaultPageSize
	}
	return liststate.Paginate(visible, q.Page, size)
}

// Matching is List without pagination, as used by exports.
func (c *Catalog[T]) Matching(_ context.Context, q Query) []T {
	return c.query(q)
}

func (c *Catalog[T]) query(q Query) []T {
	items := c.Snapshot()
	if c.def.Narrow != nil {
		items = slices.DeleteFunc(items, func(item T) bool { return !c.def.Narrow(item, q) })
	}
	items = liststate.Filter(items, q.Search, c.SearchFields())

	sort := q.Sort
	if sort.Key == "" {
		sort = c.def.DefaultSort
	}
	if sort.Key == "" {
		return items
	}
	if sort.Direction == "" {
		sort.Direction = liststate.Asc
	}
	return liststate.SortBy(items, sort, c.def.Fields)
}

func (c *Catalog[T]) Get(_ context.Context, id int64) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := c.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, fmt.Errorf("%w: %s %d", ErrNotFound, c.def.Name, id)
	}
	return c.items[idx], nil
}

// Lookup is Get for callers that only need presence.
func (c *Catalog[T]) Lookup(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if idx := c.indexOf(id); idx >= 0 {
		return c.items[idx], true
	}
	var zero T
	return zero, false
}

// Create assigns the next ID, validates and prepends the item.
func (c *Catalog[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T

	item = c.prepare(item.WithID(0))
	if c.def.Stamp != nil {
		item = c.def.Stamp(item, c.clock.Now())
	}

	if c.def.Remote != nil {
		if err := c.validate(item, c.Snapshot()); err != nil {
			return zero, err
		}
		created, err := c.def.Remote(ctx, item)
		if err != nil {
			return zero, fmt.Errorf("%w: %v", ErrRemote, err)
		}
		item = c.prepare(created)
		if item.EntityID() > 0 {
			c.ids.Observe(item.EntityID())
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if item.EntityID() <= 0 {
		item = item.WithID(c.ids.Next())
	}
	if err := c.validate(item, c.items); err != nil {
		return zero, err
	}
	if err := c.store.Save(ctx, item); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	c.items = slices.Insert(c.items, 0, item)
	c.log.WithField("id", item.EntityID()).Debug("item created")
	return item, nil
}

// Update replaces the item with the given ID, keeping its position.
func (c *Catalog[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	return c.Modify(ctx, id, func(stored T) (T, error) {
		updated := item.WithID(id)
		if c.def.Keep != nil {
			updated = c.def.Keep(stored, updated)
		}
		return updated, nil
	})
}

// Modify applies fn to the stored item under the write lock. The result is
// prepared and validated like an update.
func (c *Catalog[T]) Modify(ctx context.Context, id int64, fn func(T) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return zero, fmt.Errorf("%w: %s %d", ErrNotFound, c.def.Name, id)
	}

	updated, err := fn(c.items[idx])
	if err != nil {
		return zero, err
	}
	updated = c.prepare(updated.WithID(id))
	if err := c.validate(updated, c.items); err != nil {
		return zero, err
	}
	if err := c.store.Save(ctx, updated); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	c.items[idx] = updated
	return updated, nil
}

// Delete removes the item after its guard allows it. The guard runs before
// the write lock is taken because it may read other catalogs.
func (c *Catalog[T]) Delete(ctx context.Context, id int64) error {
	item, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.def.Guard != nil {
		if err := c.def.Guard(item); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, c.def.Name, id)
	}
	if err := c.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	c.items = slices.Delete(c.items, idx, idx+1)
	c.log.WithField("id", id).Debug("item deleted")
	return nil
}

func (c *Catalog[T]) ImportColumns() []csvimport.Column {
	return slices.Clone(c.def.Import.Columns)
}

// ResolveMapping auto-maps headers to fields, then applies the overrides.
func (c *Catalog[T]) ResolveMapping(headers []string, overrides csvimport.Mapping) (csvimport.Mapping, error) {
	columns := c.def.Import.Columns
	mapping := csvimport.AutoMap(headers, columns)

	for idx, field := range overrides {
		if idx < 0 || idx >= len(headers) {
			return nil, fmt.Errorf("%w: column %d out of range", ErrInvalidMapping, idx)
		}
		if !mapping.Override(idx, field, columns) {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidMapping, field)
		}
	}
	return mapping, nil
}

// PreviewImport classifies the rows against the current collection without
// changing anything.
func (c *Catalog[T]) PreviewImport(_ context.Context, req ImportRequest) (ImportPreview, error) {
	mapping, err := c.ResolveMapping(req.Table.Headers, req.Mapping)
	if err != nil {
		return ImportPreview{}, err
	}

	preview := ImportPreview{
		Entity:   c.def.Name,
		Headers:  req.Table.Headers,
		Columns:  c.ImportColumns(),
		Mapping:  mapping,
		Missing:  mapping.Missing(c.def.Import.Columns),
		Failures: make([]csvimport.RowFailure, 0),
		Sample:   make([]csvimport.Record, 0),
	}
	if req.Table.Delimiter != 0 {
		preview.Delimiter = string(req.Table.Delimiter)
	}
	if preview.Missing == nil {
		preview.Missing = make([]string, 0)
	}

	records := csvimport.Project(req.Table, mapping)
	preview.Sample = append(preview.Sample, records[:min(previewSample, len(records))]...)
	if len(preview.Missing) > 0 {
		return preview, nil
	}

	snapshot := c.Snapshot()
	plan := csvimport.Summarize(records, snapshot, c.schema(), csvimport.Options{UpdateExisting: req.UpdateExisting})
	preview.Summary = plan.Summary()
	preview.Failures = plan.Failures()
	return preview, nil
}

// Import classifies and applies the rows in one step under the write lock,
// persists the created and updated entities and records the run as a
// completed job.
func (c *Catalog[T]) Import(ctx context.Context, req ImportRequest) (ImportOutcome, error) {
	mapping, err := c.ResolveMapping(req.Table.Headers, req.Mapping)
	if err != nil {
		return ImportOutcome{}, err
	}
	if missing := mapping.Missing(c.def.Import.Columns); len(missing) > 0 {
		return ImportOutcome{}, &MappingError{Missing: missing}
	}
	records := csvimport.Project(req.Table, mapping)

	started := c.clock.Now()

	c.mu.Lock()
	plan := csvimport.Summarize(records, c.items, c.schema(), csvimport.Options{UpdateExisting: req.UpdateExisting})
	result := csvimport.Apply(plan, c.ids)

	changed := make([]T, 0, result.Created+result.Updated)
	changed = append(changed, result.Entities[:result.Created]...)
	for _, d := range plan.Decisions() {
		if d.Outcome == csvimport.OutcomeUpdate {
			changed = append(changed, result.Entities[result.Created+d.Match])
		}
	}
	if len(changed) > 0 {
		if err := c.store.Save(ctx, changed...); err != nil {
			c.mu.Unlock()
			return ImportOutcome{}, fmt.Errorf("%w: %v", ErrPersist, err)
		}
	}
	c.items = result.Entities
	c.mu.Unlock()

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}
	outcome := ImportOutcome{
		JobID:    jobID,
		Entity:   c.def.Name,
		Created:  result.Created,
		Updated:  result.Updated,
		Skipped:  result.Skipped,
		Failures: result.Failures,
	}

	c.log.WithFields(logrus.Fields{
		"job_id":  outcome.JobID,
		"source":  req.Source,
		"created": outcome.Created,
		"updated": outcome.Updated,
		"skipped": outcome.Skipped,
	}).Info("import applied")

	if c.observer != nil {
		c.observer.ObserveImport(c.def.Name, outcome.Created, outcome.Updated, outcome.Skipped)
	}
	c.record(ctx, req, mapping, outcome, started)

	return outcome, nil
}

func (c *Catalog[T]) record(ctx context.Context, req ImportRequest, mapping csvimport.Mapping, outcome ImportOutcome, started time.Time) {
	if c.recorder == nil || req.JobID != "" {
		return
	}

	finished := c.clock.Now()
	failures := make([]importjob.Failure, 0, len(outcome.Failures))
	for _, f := range outcome.Failures {
		failures = append(failures, importjob.Failure{RowIndex: int64(f.RowIndex), Reason: f.Reason})
	}

	job := importjob.Job{
		ID:             outcome.JobID,
		Entity:         c.def.Name,
		SourcePath:     req.Source,
		Mapping:        mapping,
		UpdateExisting: req.UpdateExisting,
		Status:         importjob.StatusCompleted,
		Attempts:       1,
		MaxAttempts:    1,
		Summary: importjob.Summary{
			ProcessedCount: int64(len(req.Table.Rows)),
			CreatedCount:   int64(outcome.Created),
			UpdatedCount:   int64(outcome.Updated),
			SkippedCount:   int64(outcome.Skipped),
			Failures:       failures,
		},
		CreatedAt:  started,
		FinishedAt: &finished,
	}
	if err := c.recorder.Record(ctx, job); err != nil {
		c.log.WithError(err).WithField("job_id", job.ID).Warn("failed to record import job")
	}
}

// schema extends the import schema so that built and merged entities get the
// same normalization as manual edits. Imported rows are not validated:
// only missing required values and the schema's Check skip a row.
func (c *Catalog[T]) schema() csvimport.Schema[T] {
	s := c.def.Import
	build, merge := s.Build, s.Merge

	s.Build = func(r csvimport.Record) (T, error) {
		item, err := build(r)
		if err != nil {
			return item, err
		}
		item = c.prepare(item)
		if c.def.Stamp != nil {
			item = c.def.Stamp(item, c.clock.Now())
		}
		return item, nil
	}
	if merge != nil {
		s.Merge = func(stored T, r csvimport.Record) (T, error) {
			item, err := merge(stored, r)
			if err != nil {
				return item, err
			}
			return c.prepare(item.WithID(stored.EntityID())), nil
		}
	}
	return s
}

func (c *Catalog[T]) prepare(item T) T {
	if c.def.Prepare != nil {
		return c.def.Prepare(item)
	}
	return item
}

func (c *Catalog[T]) validate(item T, all []T) error {
	if c.def.Validate != nil {
		return c.def.Validate(item, all)
	}
	return nil
}

func (c *Catalog[T]) indexOf(id int64) int {
	return slices.IndexFunc(c.items, func(item T) bool { return item.EntityID() == id })
}
