package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

func (m Model) View() string {
	var b strings.Builder

	// Header: loading progress or totals
	progress := m.store.Progress()

	switch {
	case progress.Loading:
		b.WriteString(titleStyle.Render(fmt.Sprintf("Loading %d of %d…", progress.Loaded, progress.Total)))
	default:
		b.WriteString(titleStyle.Render(fmt.Sprintf("%d apps, %d selected", progress.Loaded, m.store.SelectionSize())))
	}

	b.WriteString("\n")

	// Search input
	if query, active := m.store.Query(); m.searchMode {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	} else if active {
		b.WriteString(dimStyle.Render("filter: " + query))
		b.WriteString("\n")
	}

	// Visible window of the displayable list
	apps := m.store.Displayable()

	rows := m.height - 6
	if rows < 1 {
		rows = 1
	}

	top := 0
	if m.cursor >= rows {
		top = m.cursor - rows + 1
	}

	for i := top; i < len(apps) && i < top+rows; i++ {
		app := apps[i]

		marker := "[ ]"
		if m.store.IsSelected(app.Identifier) {
			marker = selectedStyle.Render("[x]")
		}

		line := fmt.Sprintf("%s %s %s", marker, app.Name, dimStyle.Render(app.Identifier))
		if i == m.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(apps) == 0 && !progress.Loading {
		b.WriteString(dimStyle.Render("  no matching apps"))
		b.WriteString("\n")
	}

	// Status and help
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move · space select · a all · / search · e export · r reset · q quit"))

	return b.String()
}
