package models

import (
	"fmt"
	"strings"

	"github.com/PizzaHomicide/playstate/internal/provider"
	"github.com/PizzaHomicide/playstate/internal/ui/tui/components"
	kb "github.com/PizzaHomicide/playstate/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/playstate/internal/ui/tui/styles"
	"github.com/PizzaHomicide/playstate/internal/ui/tui/util"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PlaylistModel lists the sources and lets the user pick one, optionally through a fuzzy search
type PlaylistModel struct {
	width, height int

	sources []provider.Source
	current int
	cursor  int
	offset  int

	searching   bool
	searchInput textinput.Model
	find        func(query string) int
}

// NewPlaylistModel creates a playlist model.  find returns the best matching source index for a query, or -1.
func NewPlaylistModel(sources []provider.Source, find func(query string) int) *PlaylistModel {
	ti := textinput.New()
	ti.Placeholder = "Search sources..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	return &PlaylistModel{
		sources:     sources,
		current:     -1,
		searchInput: ti,
		find:        find,
	}
}

func (m *PlaylistModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = max(width-10, 10)
	m.ensureCursorVisible()
}

// SetCurrent marks the playing source and moves the cursor to it
func (m *PlaylistModel) SetCurrent(index int) {
	if index == m.current {
		return
	}
	m.current = index
	if index >= 0 {
		m.cursor = index
		m.ensureCursorVisible()
	}
}

// Searching reports whether keystrokes are going to the search input
func (m *PlaylistModel) Searching() bool {
	return m.searching
}

func (m *PlaylistModel) Cursor() int {
	return m.cursor
}

func (m *PlaylistModel) Update(msg tea.Msg) (*PlaylistModel, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	if m.searching {
		if isKey {
			switch kb.GetActionByKey(keyMsg, kb.ContextSearchMode) {
			case kb.ActionBack:
				m.stopSearch()
				return m, nil
			case kb.ActionSearchComplete:
				m.jumpToMatch()
				m.stopSearch()
				return m, nil
			}
		}

		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.jumpToMatch()
		return m, cmd
	}

	if !isKey {
		return m, nil
	}

	switch kb.GetActionByKey(keyMsg, kb.ContextPlaylist) {
	case kb.ActionMoveUp:
		m.moveCursor(-1)
	case kb.ActionMoveDown:
		m.moveCursor(1)
	case kb.ActionPageUp:
		m.moveCursor(-m.visibleRows())
	case kb.ActionPageDown:
		m.moveCursor(m.visibleRows())
	case kb.ActionMoveTop:
		m.moveCursor(-len(m.sources))
	case kb.ActionMoveBottom:
		m.moveCursor(len(m.sources))
	case kb.ActionSelectSource:
		if len(m.sources) == 0 {
			return m, nil
		}
		index := m.cursor
		return m, func() tea.Msg { return SourceSelectedMsg{Index: index} }
	case kb.ActionEnableSearch:
		m.searching = true
		m.searchInput.SetValue("")
		return m, m.searchInput.Focus()
	}
	return m, nil
}

func (m *PlaylistModel) stopSearch() {
	m.searching = false
	m.searchInput.Blur()
	m.searchInput.SetValue("")
}

func (m *PlaylistModel) jumpToMatch() {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" || m.find == nil {
		return
	}
	if index := m.find(query); index >= 0 {
		m.cursor = index
		m.ensureCursorVisible()
	}
}

func (m *PlaylistModel) moveCursor(delta int) {
	if len(m.sources) == 0 {
		return
	}
	m.cursor = max(0, min(m.cursor+delta, len(m.sources)-1))
	m.ensureCursorVisible()
}

// visibleRows is the number of sources that fit between the header and footer
func (m *PlaylistModel) visibleRows() int {
	return max(m.height-10, 1)
}

func (m *PlaylistModel) ensureCursorVisible() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m *PlaylistModel) View() string {
	var b strings.Builder

	if len(m.sources) == 0 {
		b.WriteString(styles.Muted.Render("Playlist is empty"))
	}

	end := min(m.offset+m.visibleRows(), len(m.sources))
	nameWidth := max(m.width-20, 10)
	for i := m.offset; i < end; i++ {
		src := m.sources[i]
		marker := "  "
		if i == m.current {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s%2d. %s", marker, i+1, util.TruncateString(src.Name(), nameWidth))
		if src.Type != "" {
			line += "  " + styles.Muted.Render(src.Type)
		}

		switch {
		case i == m.cursor:
			line = styles.Selected.Render(line)
		case i == m.current:
			line = styles.Current.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	var footer string
	if m.searching {
		footer = components.KeyBindingsBar(m.width, components.BarFor(kb.ContextSearchMode,
			kb.ActionSearchComplete, kb.ActionBack))
	} else {
		footer = components.KeyBindingsBar(m.width, components.BarFor(kb.ContextPlaylist,
			kb.ActionSelectSource, kb.ActionEnableSearch, kb.ActionOpenPlaylist))
	}

	parts := []string{
		styles.Header(m.width, fmt.Sprintf("Playlist (%d)", len(m.sources))),
		"",
		styles.ContentBox(max(m.width-2, 20), b.String(), 1),
	}
	if m.searching {
		parts = append(parts, m.searchInput.View())
	} else {
		parts = append(parts, "")
	}
	parts = append(parts, footer)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
