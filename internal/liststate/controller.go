package liststate

import (
	"slices"
	"time"
)

// Controller keeps the view state of one list: the collection, the debounced
// search term, the sort and the current page. It is not safe for concurrent
// use; the terminal browser drives it from its update loop.
type Controller[T any] struct {
	items  []T
	fields []Field[T]
	idOf   func(T) int64

	search   *Debouncer[string]
	term     string
	sort     Sort
	page     int
	pageSize int
}

type Option func(*options)

type options struct {
	pageSize int
	delay    time.Duration
	sort     Sort
}

func WithPageSize(size int) Option {
	return func(o *options) { o.pageSize = size }
}

func WithSearchDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

func WithSort(s Sort) Option {
	return func(o *options) { o.sort = s }
}

func NewController[T any](items []T, fields []Field[T], idOf func(T) int64, opts ...Option) *Controller[T] {
	o := options{pageSize: DefaultPageSize, delay: SearchDelay}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pageSize <= 0 {
		o.pageSize = DefaultPageSize
	}
	if o.sort.Key == "" && len(fields) > 0 {
		o.sort = Sort{Key: fields[0].Key, Direction: Asc}
	}

	return &Controller[T]{
		items:    slices.Clone(items),
		fields:   fields,
		idOf:     idOf,
		search:   NewDebouncer("", o.delay),
		sort:     o.sort,
		page:     1,
		pageSize: o.pageSize,
	}
}

// Search feeds a keystroke into the debounced search term.
func (c *Controller[T]) Search(term string, now time.Time) {
	c.search.Push(term, now)
}

// SearchDeadline reports when a pending search term takes effect.
func (c *Controller[T]) SearchDeadline() (time.Time, bool) {
	return c.search.Deadline()
}

func (c *Controller[T]) ToggleSort(key string) {
	c.sort = c.sort.Toggle(key)
}

func (c *Controller[T]) Sort() Sort {
	return c.sort
}

func (c *Controller[T]) SetPage(page int) {
	c.page = max(page, 1)
}

func (c *Controller[T]) NextPage(now time.Time) {
	if c.page < TotalPages(len(c.visible(now)), c.pageSize) {
		c.page++
	}
}

func (c *Controller[T]) PrevPage() {
	if c.page > 1 {
		c.page--
	}
}

// View returns the current page of the filtered, sorted collection. A new
// search term sends the view back to the first page.
func (c *Controller[T]) View(now time.Time) Page[T] {
	rows := c.visible(now)
	c.page = ClampPage(c.page, len(rows), c.pageSize)
	return Paginate(rows, c.page, c.pageSize)
}

func (c *Controller[T]) visible(now time.Time) []T {
	if term := c.search.Value(now); term != c.term {
		c.term = term
		c.page = 1
	}
	return SortBy(Filter(c.items, c.term, c.fields), c.sort, c.fields)
}

// Remove drops the item with id and keeps the page within range.
func (c *Controller[T]) Remove(id int64, now time.Time) bool {
	idx := slices.IndexFunc(c.items, func(item T) bool { return c.idOf(item) == id })
	if idx < 0 {
		return false
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	c.page = ClampPage(c.page, len(c.visible(now)), c.pageSize)
	return true
}

// Replace swaps the collection, e.g. after an import.
func (c *Controller[T]) Replace(items []T) {
	c.items = slices.Clone(items)
}

func (c *Controller[T]) Items() []T {
	return slices.Clone(c.items)
}
