// Package tui is the interactive day browser: one calendar date at a time,
// with search and per-occurrence delete.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"kron/internal/dateutil"
	"kron/internal/models"
	"kron/internal/occurrence"
	"kron/internal/series"
)

type SessionState int

const (
	StateDay SessionState = iota
	StateSearch
	StateConfirmDelete
)

type Item struct {
	Occ models.Occurrence
}

func (i Item) Title() string {
	return fmt.Sprintf("%s  %s", dateutil.MinutesToClock(i.Occ.Time), i.Occ.Name)
}

func (i Item) Description() string {
	return fmt.Sprintf("%s | %s", i.Occ.SoundName, i.Occ.Repeat)
}

func (i Item) FilterValue() string { return i.Occ.Name }

type Model struct {
	query     *occurrence.Query
	engine    *series.Engine
	profileID int64

	state  SessionState
	date   string
	search string

	keys        KeyMap
	help        help.Model
	list        list.Model
	searchInput textinput.Model

	form         *huh.Form
	deleteTarget *models.Occurrence
	deleteScope  string

	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(query *occurrence.Query, engine *series.Engine, profileID int64) Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "filter by name"

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Alarms"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	m := Model{
		query:       query,
		engine:      engine,
		profileID:   profileID,
		state:       StateDay,
		date:        dateutil.Today(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		list:        l,
		searchInput: searchInput,
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reload refreshes the occurrence list for the current date and search.
func (m *Model) reload() {
	occurrences, err := m.query.List(m.profileID, m.date, m.search)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil

	items := make([]list.Item, len(occurrences))
	for i, occ := range occurrences {
		items[i] = Item{Occ: occ}
	}
	m.list.SetItems(items)
}

func (m *Model) selected() *models.Occurrence {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return nil
	}
	occ := item.Occ
	return &occ
}

func newDeleteForm(scope *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Delete this alarm?").
				Options(
					huh.NewOption("Only for this date", string(models.ScopeOnly)),
					huh.NewOption("This date and after", string(models.ScopeAfterward)),
					huh.NewOption("Entire series", string(models.ScopeAll)),
				).
				Value(scope),
		),
	)
}
