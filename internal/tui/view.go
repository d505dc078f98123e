package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"kron/internal/dateutil"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render("kron")
	dateLabel := m.date
	if weekday, err := dateutil.ISOWeekday(m.date); err == nil {
		dateLabel = fmt.Sprintf("%s (%s)", m.date, dateutil.WeekdayName(weekday))
	}
	top := lipgloss.JoinHorizontal(lipgloss.Center, header, dateStyle.Render(dateLabel))

	var body string
	switch m.state {
	case StateSearch:
		body = "Search: " + m.searchInput.View()
	case StateConfirmDelete:
		body = m.form.View()
	default:
		body = m.list.View()
	}

	var footer string
	if m.err != nil {
		footer = errStyle.Render(m.err.Error())
	} else {
		footer = m.help.View(m.keys)
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, top, body, footer))
}
