package models

import (
	"fmt"
	"strings"

	"github.com/PizzaHomicide/playstate/internal/ui/tui/components"
	kb "github.com/PizzaHomicide/playstate/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/playstate/internal/ui/tui/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// HelpModel displays contextual help with scrolling
type HelpModel struct {
	width, height int
	context       View
	viewport      viewport.Model
}

// NewHelpModel creates a new help model
func NewHelpModel() *HelpModel {
	return &HelpModel{
		context:  ViewPlayer,
		viewport: viewport.New(0, 0),
	}
}

// SetContext switches the help content to the given view
func (m *HelpModel) SetContext(context View) {
	m.context = context
	m.updateContent()
}

// Update handles scrolling
func (m *HelpModel) Update(msg tea.Msg) (*HelpModel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
	case tea.KeyMsg:
		switch kb.GetActionByKey(msg, kb.ContextHelp) {
		case kb.ActionMoveUp, kb.ActionMoveDown, kb.ActionPageUp, kb.ActionPageDown:
			m.viewport, cmd = m.viewport.Update(msg)
		case kb.ActionMoveTop:
			m.viewport.GotoTop()
		case kb.ActionMoveBottom:
			m.viewport.GotoBottom()
		}
	}
	return m, cmd
}

// Resize updates the dimensions
func (m *HelpModel) Resize(width, height int) {
	m.width = width
	m.height = height

	m.viewport.Width = max(width-4, 1)    // Account for borders
	m.viewport.Height = max(height-10, 1) // Account for header, footer, spacing

	m.updateContent()
}

func (m *HelpModel) updateContent() {
	m.viewport.SetContent(m.generateHelpContent())
	m.viewport.GotoTop()
}

// View renders the help screen
func (m *HelpModel) View() string {
	footer := components.KeyBindingsBar(m.width, []components.KeyBinding{
		{Key: "↑/↓", Desc: "Scroll"},
		{Key: "PgUp/PgDn", Desc: "Page scroll"},
		{Key: "Home/End", Desc: "Goto top/bottom"},
		{Key: "esc", Desc: "Return"},
	})

	return lipgloss.JoinVertical(
		lipgloss.Left,
		styles.Header(m.width, "Help: "+m.contextTitle()),
		"",
		styles.ContentBox(max(m.width-2, 20), m.viewport.View(), 1),
		"",
		footer,
	)
}

func (m *HelpModel) contextTitle() string {
	switch m.context {
	case ViewPlaylist:
		return "Playlist"
	default:
		return "Player"
	}
}

func (m *HelpModel) contextDescription() string {
	switch m.context {
	case ViewPlaylist:
		return "The playlist shows every source given on the command line. The playing source is marked with ▶.\n\n" +
			"Select a source to start it. Search jumps to the closest fuzzy match while you type."
	default:
		return "The player screen follows the current source through mpv: its state, position, buffered share and volume.\n\n" +
			"A stalled state means playback is waiting for data and clears once the position moves again."
	}
}

// formatKeybindingSection formats a section of keybindings with aligned colons
func formatKeybindingSection(title string, bindings []kb.Binding, skipActions map[kb.Action]bool) string {
	if len(bindings) == 0 {
		return ""
	}

	keyText := func(binding kb.Binding) string {
		text := binding.KeyMap.Primary
		if binding.KeyMap.Secondary != "" {
			text += " or " + binding.KeyMap.Secondary
		}
		return text
	}

	maxKeyWidth := 0
	for _, binding := range bindings {
		if skipActions[binding.Action] {
			continue
		}
		maxKeyWidth = max(maxKeyWidth, runewidth.StringWidth(keyText(binding)))
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n\n")
	for _, binding := range bindings {
		if skipActions[binding.Action] {
			continue
		}
		text := keyText(binding)
		padding := strings.Repeat(" ", maxKeyWidth-runewidth.StringWidth(text))
		b.WriteString(fmt.Sprintf("• %s%s : %s\n",
			lipgloss.NewStyle().Bold(true).Render(text),
			padding,
			binding.KeyMap.Help))
	}

	return b.String()
}

func (m *HelpModel) generateHelpContent() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

	b.WriteString(titleStyle.Render(m.contextTitle()))
	b.WriteString("\n\n")
	b.WriteString(m.contextDescription())
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Keybindings"))
	b.WriteString("\n\n")
	b.WriteString(formatKeybindingSection("Global commands:", kb.ContextBindings[kb.ContextGlobal], nil))

	globalActions := make(map[kb.Action]bool)
	for _, binding := range kb.ContextBindings[kb.ContextGlobal] {
		globalActions[binding.Action] = true
	}

	contextName := kb.ContextPlayer
	if m.context == ViewPlaylist {
		contextName = kb.ContextPlaylist
	}
	b.WriteString("\n")
	b.WriteString(formatKeybindingSection(m.contextTitle()+" commands:", kb.ContextBindings[contextName], globalActions))

	if m.context == ViewPlaylist {
		b.WriteString("\n")
		b.WriteString(formatKeybindingSection("When in search mode:", kb.ContextBindings[kb.ContextSearchMode], nil))
	}

	return b.String()
}
