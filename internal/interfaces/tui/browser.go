// Package tui is the terminal list browser behind `geritctl browse`.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/geritapp/gerit/internal/application/catalog"
	"github.com/geritapp/gerit/internal/csvimport"
	"github.com/geritapp/gerit/internal/export"
	"github.com/geritapp/gerit/internal/liststate"
)

const columnWidth = 18

// searchTickMsg fires when a debounced search term is due.
type searchTickMsg struct{}

type styles struct {
	Title  lipgloss.Style
	Search lipgloss.Style
	Active lipgloss.Style
	Footer lipgloss.Style
	Empty  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#2563EB")).Padding(0, 1),
		Search: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		Active: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#2563EB")).Padding(0, 1),
		Footer: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Empty:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
	}
}

// Browser lists one collection with debounced search, sorting on the
// number keys and paging.
type Browser[T any] struct {
	title   string
	ctrl    *liststate.Controller[T]
	fields  []liststate.Field[T]
	columns []export.Column[T]
	clock   clockwork.Clock

	table     table.Model
	search    textinput.Model
	searching bool
	page      liststate.Page[T]
	styles    styles
}

func NewBrowser[T any](title string, items []T, fields []liststate.Field[T], columns []export.Column[T], idOf func(T) int64, clock clockwork.Clock, opts ...liststate.Option) Browser[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	cols := make([]table.Column, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, table.Column{Title: c.Header, Width: columnWidth})
	}

	search := textinput.New()
	search.Placeholder = "Pesquisar..."
	search.CharLimit = 80
	search.Width = 40

	b := Browser[T]{
		title:   title,
		ctrl:    liststate.NewController(items, fields, idOf, opts...),
		fields:  fields,
		columns: columns,
		clock:   clock,
		table:   table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(12)),
		search:  search,
		styles:  defaultStyles(),
	}
	b.refresh()
	return b
}

// FromCatalog browses a snapshot of c with its list fields and export
// columns.
func FromCatalog[T csvimport.Identifiable[T]](c *catalog.Catalog[T], clock clockwork.Clock, pageSize int) Browser[T] {
	return NewBrowser(c.Title(), c.Snapshot(), c.Fields(), c.ExportColumns(), func(v T) int64 { return v.EntityID() }, clock,
		liststate.WithPageSize(pageSize),
		liststate.WithSort(c.DefaultSort()),
	)
}

func (b Browser[T]) Init() tea.Cmd {
	return nil
}

func (b Browser[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchTickMsg:
		b.refresh()
		return b, b.waitForSearch()

	case tea.WindowSizeMsg:
		b.table.SetHeight(max(msg.Height-8, 3))
		return b, nil

	case tea.KeyMsg:
		if b.searching {
			return b.updateSearch(msg)
		}

		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return b, tea.Quit
		case "/":
			b.searching = true
			return b, b.search.Focus()
		case "right", "n", "pgdown":
			b.ctrl.NextPage(b.clock.Now())
			b.refresh()
			return b, nil
		case "left", "p", "pgup":
			b.ctrl.PrevPage()
			b.refresh()
			return b, nil
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				if i := int(key[0] - '1'); i < len(b.fields) {
					b.ctrl.ToggleSort(b.fields[i].Key)
					b.refresh()
				}
				return b, nil
			}
		}
	}

	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

func (b Browser[T]) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		b.searching = false
		b.search.Blur()
		return b, nil
	case "ctrl+c":
		return b, tea.Quit
	}

	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	b.ctrl.Search(b.search.Value(), b.clock.Now())
	return b, tea.Batch(cmd, b.waitForSearch())
}

// waitForSearch schedules a refresh for when the pending term settles.
func (b Browser[T]) waitForSearch() tea.Cmd {
	deadline, pending := b.ctrl.SearchDeadline()
	if !pending {
		return nil
	}
	return tea.Tick(max(deadline.Sub(b.clock.Now()), 0), func(time.Time) tea.Msg { return searchTickMsg{} })
}

func (b *Browser[T]) refresh() {
	b.page = b.ctrl.View(b.clock.Now())

	rows := make([]table.Row, 0, len(b.page.Items))
	for _, item := range b.page.Items {
		row := make(table.Row, 0, len(b.columns))
		for _, c := range b.columns {
			row = append(row, c.Value(item))
		}
		rows = append(rows, row)
	}
	b.table.SetRows(rows)
}

func (b Browser[T]) View() string {
	var sb strings.Builder

	sb.WriteString(b.styles.Title.Render(b.title))
	sb.WriteString("\n\n")

	bar := b.styles.Search
	if b.searching {
		bar = b.styles.Active
	}
	sb.WriteString(bar.Render(b.search.View()))
	sb.WriteString("\n\n")

	if b.page.Total == 0 {
		sb.WriteString(b.styles.Empty.Render("Nenhum resultado."))
	} else {
		sb.WriteString(b.table.View())
	}
	sb.WriteString("\n")
	sb.WriteString(b.styles.Footer.Render(b.footer()))
	return sb.String()
}

func (b Browser[T]) footer() string {
	sort := b.ctrl.Sort()
	keys := make([]string, 0, len(b.fields))
	for i, f := range b.fields {
		if i >= 9 {
			break
		}
		keys = append(keys, fmt.Sprintf("%d:%s", i+1, f.Key))
	}
	return fmt.Sprintf("Página %d de %d · %d itens · ordem %s %s\n/ pesquisar · ←/→ página · %s · q sair",
		b.page.Page, max(b.page.TotalPages, 1), b.page.Total, sort.Key, sort.Direction, strings.Join(keys, " "))
}

// Page is the page currently shown.
func (b Browser[T]) Page() liststate.Page[T] {
	return b.page
}
