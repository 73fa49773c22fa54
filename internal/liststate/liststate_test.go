package liststate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geritapp/gerit/internal/liststate"
)

type vehicle struct {
	ID    int64
	Plate string
	Make  string
	Year  int
}

var vehicleFields = []liststate.Field[vehicle]{
	{Key: "plate", Value: func(v vehicle) (any, bool) { return v.Plate, true }},
	{Key: "make", Value: func(v vehicle) (any, bool) { return v.Make, v.Make != "" }},
	{Key: "year", Value: func(v vehicle) (any, bool) { return v.Year, v.Year != 0 }},
}

func plates(vs []vehicle) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Plate
	}
	return out
}

func TestFilter(t *testing.T) {
	t.Parallel()

	items := []vehicle{
		{ID: 1, Plate: "AA-11-BB", Make: "Renault", Year: 2019},
		{ID: 2, Plate: "22-CC-33", Make: "Peugeot", Year: 2021},
		{ID: 3, Plate: "DD-44-55"},
	}

	assert.Equal(t, []string{"AA-11-BB"}, plates(liststate.Filter(items, "renault", vehicleFields)))
	assert.Equal(t, []string{"22-CC-33"}, plates(liststate.Filter(items, "2021", vehicleFields)))
	assert.Equal(t, []string{"AA-11-BB", "22-CC-33", "DD-44-55"}, plates(liststate.Filter(items, "", vehicleFields)))
	assert.Empty(t, liststate.Filter(items, "citroën", vehicleFields))
}

func TestFilterKeepsSpacesInTerm(t *testing.T) {
	t.Parallel()

	items := []vehicle{
		{ID: 1, Plate: "AA-11-BB", Make: "Rua Direita"},
		{ID: 2, Plate: "22-CC-33", Make: "Ruas Novas"},
	}

	assert.Equal(t, []string{"AA-11-BB"}, plates(liststate.Filter(items, "Rua ", vehicleFields)))
	assert.Equal(t, []string{"AA-11-BB", "22-CC-33"}, plates(liststate.Filter(items, "rua", vehicleFields)))
	assert.Empty(t, liststate.Filter(items, " 2021 ", vehicleFields))
	assert.Empty(t, liststate.Filter(items, "  ", vehicleFields))
}

func TestSortToggle(t *testing.T) {
	t.Parallel()

	s := liststate.Sort{}.Toggle("plate")
	assert.Equal(t, liststate.Sort{Key: "plate", Direction: liststate.Asc}, s)

	s = s.Toggle("plate")
	assert.Equal(t, liststate.Desc, s.Direction)

	s = s.Toggle("plate")
	assert.Equal(t, liststate.Asc, s.Direction)

	s = s.Toggle("year")
	assert.Equal(t, liststate.Sort{Key: "year", Direction: liststate.Asc}, s)
}

func TestSortByUnsetValuesLastInBothDirections(t *testing.T) {
	t.Parallel()

	items := []vehicle{
		{ID: 1, Plate: "A", Year: 2020},
		{ID: 2, Plate: "B"},
		{ID: 3, Plate: "C", Year: 2005},
		{ID: 4, Plate: "D"},
	}

	asc := liststate.SortBy(items, liststate.Sort{Key: "year", Direction: liststate.Asc}, vehicleFields)
	assert.Equal(t, []string{"C", "A", "B", "D"}, plates(asc))

	desc := liststate.SortBy(items, liststate.Sort{Key: "year", Direction: liststate.Desc}, vehicleFields)
	assert.Equal(t, []string{"A", "C", "B", "D"}, plates(desc))
}

func TestSortByIsStable(t *testing.T) {
	t.Parallel()

	items := []vehicle{
		{ID: 1, Plate: "P1", Make: "Renault"},
		{ID: 2, Plate: "P2", Make: "Fiat"},
		{ID: 3, Plate: "P3", Make: "Renault"},
		{ID: 4, Plate: "P4", Make: "Fiat"},
	}

	asc := liststate.SortBy(items, liststate.Sort{Key: "make", Direction: liststate.Asc}, vehicleFields)
	assert.Equal(t, []string{"P2", "P4", "P1", "P3"}, plates(asc))

	desc := liststate.SortBy(items, liststate.Sort{Key: "make", Direction: liststate.Desc}, vehicleFields)
	assert.Equal(t, []string{"P1", "P3", "P2", "P4"}, plates(desc))

	assert.Equal(t, []string{"P1", "P2", "P3", "P4"}, plates(items), "input must not be reordered")
}

func TestSortByCollatesAccents(t *testing.T) {
	t.Parallel()

	items := []vehicle{
		{Plate: "3", Make: "Zeta"},
		{Plate: "2", Make: "Évora"},
		{Plate: "1", Make: "Fiat"},
	}

	sorted := liststate.SortBy(items, liststate.Sort{Key: "make", Direction: liststate.Asc}, vehicleFields)
	assert.Equal(t, []string{"2", "1", "3"}, plates(sorted))
}

func TestSortByUnknownKeyKeepsOrder(t *testing.T) {
	t.Parallel()

	items := []vehicle{{Plate: "B"}, {Plate: "A"}}
	assert.Equal(t, []string{"B", "A"}, plates(liststate.SortBy(items, liststate.Sort{Key: "cor"}, vehicleFields)))
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	for _, tt := range []struct {
		page, size, want int
	}{
		{page: 1, size: 10, want: 10},
		{page: 2, size: 10, want: 10},
		{page: 3, size: 10, want: 3},
		{page: 4, size: 10, want: 0},
		{page: 1, size: 50, want: 23},
		{page: 5, size: 5, want: 3},
	} {
		p := liststate.Paginate(items, tt.page, tt.size)
		assert.Len(t, p.Items, tt.want, "page %d size %d", tt.page, tt.size)
		assert.Equal(t, 23, p.Total)
	}

	p := liststate.Paginate(items, 3, 0)
	assert.Equal(t, liststate.DefaultPageSize, p.PageSize)
	assert.Equal(t, []int{20, 21, 22}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
}

func TestClampPage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, liststate.ClampPage(3, 20, 10), "last page emptied steps back")
	assert.Equal(t, 3, liststate.ClampPage(3, 21, 10))
	assert.Equal(t, 1, liststate.ClampPage(2, 0, 10))
	assert.Equal(t, 1, liststate.ClampPage(0, 5, 10))
}

func TestDebouncer(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	d := liststate.NewDebouncer("", liststate.SearchDelay)

	d.Push("r", start)
	d.Push("re", start.Add(100*time.Millisecond))
	assert.Equal(t, "", d.Value(start.Add(350*time.Millisecond)))

	deadline, ok := d.Deadline()
	require.True(t, ok)
	assert.Equal(t, start.Add(400*time.Millisecond), deadline)

	assert.Equal(t, "re", d.Value(deadline))
	_, ok = d.Deadline()
	assert.False(t, ok)
}

func TestDebounce(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "old", liststate.Debounce("old", "new", at, 300*time.Millisecond, at.Add(299*time.Millisecond)))
	assert.Equal(t, "new", liststate.Debounce("old", "new", at, 300*time.Millisecond, at.Add(300*time.Millisecond)))
}
