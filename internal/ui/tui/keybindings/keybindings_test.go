package keybindings

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNoDuplicateKeyBindings(t *testing.T) {
	// Check each context individually
	for contextName, bindings := range ContextBindings {
		t.Run(fmt.Sprintf("Context_%s", contextName), func(t *testing.T) {
			keyToAction := make(map[string]Action)

			for _, binding := range bindings {
				if existingAction, exists := keyToAction[binding.KeyMap.Primary]; exists {
					t.Errorf("Duplicate key binding '%s' in context '%s': "+
						"first assigned to action '%s', then to '%s'",
						binding.KeyMap.Primary, contextName, existingAction, binding.Action)
				} else {
					keyToAction[binding.KeyMap.Primary] = binding.Action
				}

				if binding.KeyMap.Secondary != "" {
					if existingAction, exists := keyToAction[binding.KeyMap.Secondary]; exists {
						t.Errorf("Duplicate key binding '%s' in context '%s': "+
							"first assigned to action '%s', then to '%s'",
							binding.KeyMap.Secondary, contextName, existingAction, binding.Action)
					} else {
						keyToAction[binding.KeyMap.Secondary] = binding.Action
					}
				}
			}
		})
	}
}

func TestGetActionByKey(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.KeyMsg
		context  ContextName
		expected Action
	}{
		{"Space", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}, ContextPlayer, ActionTogglePause},
		{"SecondaryKey", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}, ContextPlayer, ActionSeekForward},
		{"NamedKey", tea.KeyMsg{Type: tea.KeyLeft}, ContextPlayer, ActionSeekBackward},
		{"Navigation", tea.KeyMsg{Type: tea.KeyDown}, ContextPlaylist, ActionMoveDown},
		{"Unbound", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, ContextPlayer, ""},
		{"UnknownContext", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}}, ContextName("nope"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetActionByKey(tt.msg, tt.context))
		})
	}
}

func TestGetHelpText(t *testing.T) {
	text := GetHelpText("Player", playerBindings)

	assert.Contains(t, text, "## Player")
	assert.Contains(t, text, "* right/l: Seek forward")
	assert.Equal(t, "space", GetActionKey(ActionTogglePause, playerBindings))
}
