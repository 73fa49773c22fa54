package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/geritapp/gerit/internal/export"
	"github.com/geritapp/gerit/internal/liststate"
)

type member struct {
	ID   int64
	Name string
}

var memberFields = []liststate.Field[member]{
	{Key: "nome", Value: func(m member) (any, bool) { return m.Name, m.Name != "" }},
	{Key: "id", Value: func(m member) (any, bool) { return m.ID, true }},
}

var memberColumns = []export.Column[member]{
	{Header: "ID", Value: func(m member) string { return fmt.Sprint(m.ID) }},
	{Header: "Nome", Value: func(m member) string { return m.Name }},
}

func newTestBrowser(n int) (Browser[member], *clockwork.FakeClock) {
	items := make([]member, n)
	for i := range items {
		items[i] = member{ID: int64(i + 1), Name: fmt.Sprintf("Técnico %02d", i+1)}
	}
	clock := clockwork.NewFakeClock()
	b := NewBrowser("Equipa", items, memberFields, memberColumns, func(m member) int64 { return m.ID }, clock,
		liststate.WithPageSize(5))
	return b, clock
}

func send(t *testing.T, b Browser[member], msg tea.Msg) (Browser[member], tea.Cmd) {
	t.Helper()
	next, cmd := b.Update(msg)
	out, ok := next.(Browser[member])
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowserPaging(t *testing.T) {
	b, _ := newTestBrowser(12)

	if got := b.Page(); got.Page != 1 || got.TotalPages != 3 || len(got.Items) != 5 {
		t.Fatalf("initial page = %+v", got)
	}

	b, _ = send(t, b, tea.KeyMsg{Type: tea.KeyRight})
	b, _ = send(t, b, runes("n"))
	if got := b.Page(); got.Page != 3 || len(got.Items) != 2 {
		t.Fatalf("after two next = page %d with %d items", got.Page, len(got.Items))
	}

	b, _ = send(t, b, runes("n"))
	if got := b.Page().Page; got != 3 {
		t.Errorf("next past the end moved to page %d", got)
	}

	b, _ = send(t, b, tea.KeyMsg{Type: tea.KeyLeft})
	if got := b.Page().Page; got != 2 {
		t.Errorf("prev = page %d, want 2", got)
	}
}

func TestBrowserSortKeys(t *testing.T) {
	b, _ := newTestBrowser(3)

	b, _ = send(t, b, runes("1"))
	if got := b.Page().Items[0].Name; got != "Técnico 03" {
		t.Errorf("second press on nome should sort descending, first = %q", got)
	}

	b, _ = send(t, b, runes("2"))
	if got := b.ctrl.Sort(); got.Key != "id" || got.Direction != liststate.Asc {
		t.Errorf("sort = %+v, want id asc", got)
	}

	b, _ = send(t, b, runes("9"))
	if got := b.ctrl.Sort().Key; got != "id" {
		t.Errorf("key without a field changed sort to %q", got)
	}
}

func TestBrowserSearchWaitsForDelay(t *testing.T) {
	b, clock := newTestBrowser(12)

	b, _ = send(t, b, runes("/"))
	if !b.searching {
		t.Fatal("slash should focus the search input")
	}

	b, cmd := send(t, b, runes("07"))
	if cmd == nil {
		t.Fatal("typing should schedule a search refresh")
	}
	if got := b.Page().Total; got != 12 {
		t.Errorf("term applied before the delay, total = %d", got)
	}

	b, _ = send(t, b, runes("q"))
	if !b.searching {
		t.Fatal("q inside the search input should not quit")
	}
	b, _ = send(t, b, tea.KeyMsg{Type: tea.KeyBackspace})

	clock.Advance(liststate.SearchDelay)
	b, _ = send(t, b, searchTickMsg{})
	if got := b.Page(); got.Total != 1 || got.Items[0].ID != 7 {
		t.Fatalf("after delay page = %+v", got)
	}

	b, _ = send(t, b, tea.KeyMsg{Type: tea.KeyEsc})
	if b.searching {
		t.Error("esc should blur the search input")
	}
	if !strings.Contains(b.View(), "Técnico 07") {
		t.Error("view should list the match")
	}
}

func TestBrowserEmptyResult(t *testing.T) {
	b, clock := newTestBrowser(2)

	b, _ = send(t, b, runes("/"))
	b, _ = send(t, b, runes("zzz"))
	clock.Advance(liststate.SearchDelay)
	b, _ = send(t, b, searchTickMsg{})

	if !strings.Contains(b.View(), "Nenhum resultado.") {
		t.Errorf("view = %q", b.View())
	}
}

func TestBrowserQuit(t *testing.T) {
	b, _ := newTestBrowser(1)

	_, cmd := send(t, b, runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
