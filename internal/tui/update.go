package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"kron/internal/dateutil"
	"kron/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && m.state == StateDay {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case StateSearch:
		return m.updateSearch(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	default:
		return m.updateDay(msg)
	}
}

func (m Model) updateDay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.PrevDay):
			if d, err := dateutil.AddDays(m.date, -1); err == nil {
				m.date = d
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.NextDay):
			if d, err := dateutil.AddDays(m.date, 1); err == nil {
				m.date = d
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.date = dateutil.Today()
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.Search):
			m.state = StateSearch
			m.searchInput.SetValue(m.search)
			return m, m.searchInput.Focus()
		case key.Matches(msg, m.keys.Delete):
			if occ := m.selected(); occ != nil {
				m.deleteTarget = occ
				m.deleteScope = string(models.ScopeOnly)
				m.form = newDeleteForm(&m.deleteScope)
				m.state = StateConfirmDelete
				return m, m.form.Init()
			}
			return m, nil
		case key.Matches(msg, m.keys.Skip):
			// Skip cancels just this date, no confirmation needed.
			if occ := m.selected(); occ != nil {
				if _, err := m.engine.Delete(m.profileID, occ.ScheduleID, m.date, models.ScopeOnly); err != nil {
					m.err = err
				} else {
					m.reload()
				}
			}
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			m.search = m.searchInput.Value()
			m.searchInput.Blur()
			m.state = StateDay
			m.reload()
			return m, nil
		case "esc":
			m.search = ""
			m.searchInput.SetValue("")
			m.searchInput.Blur()
			m.state = StateDay
			m.reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.form = nil
		m.deleteTarget = nil
		m.state = StateDay
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.deleteTarget != nil {
			scope := models.Scope(m.deleteScope)
			if _, err := m.engine.Delete(m.profileID, m.deleteTarget.ScheduleID, m.date, scope); err != nil {
				m.err = err
			}
		}
		m.form = nil
		m.deleteTarget = nil
		m.state = StateDay
		m.reload()
		return m, nil
	}

	return m, cmd
}
