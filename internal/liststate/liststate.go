// Package liststate derives the visible slice of a collection: filtered by a
// search term, sorted on one key and cut into pages.
package liststate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	DefaultPageSize = 10
	SearchDelay     = 300 * time.Millisecond
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Field exposes one searchable or sortable attribute of T. Value reports
// false when the attribute is unset for an item.
type Field[T any] struct {
	Key   string
	Value func(T) (any, bool)
}

type Sort struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle flips the direction when key is already the sort key and starts a
// new key ascending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key && s.Direction == Asc {
		return Sort{Key: key, Direction: Desc}
	}
	return Sort{Key: key, Direction: Asc}
}

// Filter keeps the items where any field's text contains term, ignoring case.
// The term is matched as typed, surrounding spaces included. Only the empty
// term keeps everything.
func Filter[T any](items []T, term string, fields []Field[T]) []T {
	term = strings.ToLower(term)
	if term == "" {
		return slices.Clone(items)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, f := range fields {
			v, ok := f.Value(item)
			if ok && strings.Contains(strings.ToLower(Text(v)), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// SortBy returns a stably sorted copy of items. Unset values go last in both
// directions. An unknown key leaves the order untouched.
func SortBy[T any](items []T, s Sort, fields []Field[T]) []T {
	out := slices.Clone(items)

	idx := slices.IndexFunc(fields, func(f Field[T]) bool { return f.Key == s.Key })
	if idx < 0 {
		return out
	}
	value := fields[idx].Value
	col := collate.New(language.Portuguese)

	slices.SortStableFunc(out, func(a, b T) int {
		va, okA := value(a)
		vb, okB := value(b)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		c := compareValues(col, va, vb)
		if s.Direction == Desc {
			return -c
		}
		return c
	})
	return out
}

func compareValues(col *collate.Collator, a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return col.CompareString(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return cmp.Compare(x, y)
		}
	}
	return col.CompareString(Text(a), Text(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Text is the representation a value is searched and exported by.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format("2006-01-02 15:04")
	case bool:
		if x {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns page p (1-based) of items. Pages past the end are empty.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	out := Page[T]{
		Items:      make([]T, 0),
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: TotalPages(total, size),
	}

	start := (page - 1) * size
	if start >= total {
		return out
	}
	end := min(start+size, total)
	out.Items = append(out.Items, items[start:end]...)
	return out
}

func TotalPages(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return (total + size - 1) / size
}

// ClampPage moves page back to the last page that still has items, e.g.
// after removing the only row of the final page.
func ClampPage(page, total, size int) int {
	last := max(TotalPages(total, size), 1)
	return min(max(page, 1), last)
}
