package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fieldworks/apkex/internal/inventory"
)

// Model is the interactive picker over the inventory coordinator: it renders
// the displayable list while loading is still in flight, drives the search
// filter from a text input, and exports the selection on demand.
type Model struct {
	store      *inventory.Store
	keys       KeyMap
	search     textinput.Model
	cursor     int
	width      int
	height     int
	status     string
	searchMode bool
	extracting bool
	loadErr    error
}

// New creates a picker over the given store.
func New(store *inventory.Store) Model {
	search := textinput.New()
	search.Placeholder = "name or identifier"
	search.Prompt = "/"
	search.CharLimit = 64

	return Model{
		store:  store,
		keys:   DefaultKeyMap(),
		search: search,
		width:  100,
		height: 30,
		status: "Loading packages…",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPackages(), m.waitForChange(), textinput.Blink)
}

// loadPackages runs the loading lifecycle in the background.
func (m Model) loadPackages() tea.Cmd {
	store := m.store

	return func() tea.Msg {
		return loadDoneMsg{err: store.LoadPackages(context.Background())}
	}
}

// waitForChange blocks on the store's change channel and re-arms itself
// after every received signal.
func (m Model) waitForChange() tea.Cmd {
	changes := m.store.Changes()

	return func() tea.Msg {
		<-changes
		return storeChangedMsg{}
	}
}

// extractSelection runs the batch export in the background.
func (m Model) extractSelection() tea.Cmd {
	store := m.store

	return func() tea.Msg {
		return extractDoneMsg{batch: store.ExtractSelected(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case storeChangedMsg:
		m.clampCursor()
		return m, m.waitForChange()

	case loadDoneMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			m.status = "Loading failed: " + msg.err.Error()
		} else {
			progress := m.store.Progress()
			m.status = fmt.Sprintf("Loaded %d packages", progress.Loaded)
		}
		return m, nil

	case extractDoneMsg:
		m.extracting = false
		m.status = batchStatus(msg.batch)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

// updateKey dispatches one key press. While the search input is focused,
// every edit re-runs the filter through the store.
func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchMode {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.searchMode = false
			m.search.Blur()
			m.search.SetValue("")
			m.store.DisableSearch()
			return m, nil

		case msg.Type == tea.KeyEnter:
			m.searchMode = false
			m.search.Blur()
			return m, nil
		}

		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.store.Search(m.search.Value())
		m.clampCursor()

		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.store.Displayable())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if apps := m.store.Displayable(); m.cursor < len(apps) {
			m.store.ToggleSelect(apps[m.cursor])
		}

	case key.Matches(msg, m.keys.SelectAll):
		m.store.ToggleSelectAll()

	case key.Matches(msg, m.keys.Clear):
		m.store.ClearSelection()

	case key.Matches(msg, m.keys.Reset):
		m.search.SetValue("")
		m.store.RestoreToDefault()
		m.cursor = 0

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Extract):
		if m.extracting || m.store.SelectionSize() == 0 {
			m.status = "Nothing selected"
			return m, nil
		}

		m.extracting = true
		m.status = "Exporting…"

		return m, m.extractSelection()
	}

	return m, nil
}

// clampCursor keeps the cursor inside the displayable view, which shrinks
// when a filter narrows.
func (m *Model) clampCursor() {
	count := len(m.store.Displayable())
	if m.cursor >= count {
		m.cursor = count - 1
	}

	if m.cursor < 0 {
		m.cursor = 0
	}
}

// batchStatus renders a batch outcome into one status line.
func batchStatus(batch inventory.BatchOutcome) string {
	switch batch.Kind {
	case inventory.BatchAllExtracted:
		return fmt.Sprintf("Exported %d packages", len(batch.Outcomes))
	case inventory.BatchPermissionDenied:
		return "Export denied: no destination or a denied write"
	case inventory.BatchAllFailed:
		return "Export failed for every package"
	default:
		return fmt.Sprintf("Exported %d of %d packages", batch.Extracted(), len(batch.Outcomes))
	}
}
