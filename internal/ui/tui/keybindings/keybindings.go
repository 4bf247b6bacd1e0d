package keybindings

import tea "github.com/charmbracelet/bubbletea"

// Action represents a specific action that can be triggered by a key
type Action string

// Define all possible actions
const (
	// Global actions
	ActionQuit       Action = "quit"
	ActionToggleHelp Action = "toggle_help"
	ActionBack       Action = "back" // General purpose "go back" or "cancel"

	// Navigation actions
	ActionMoveUp     Action = "move_up"
	ActionMoveDown   Action = "move_down"
	ActionPageUp     Action = "page_up"
	ActionPageDown   Action = "page_down"
	ActionMoveTop    Action = "move_top"
	ActionMoveBottom Action = "move_bottom"

	// Player view actions
	ActionTogglePause  Action = "toggle_pause"
	ActionSeekForward  Action = "seek_forward"
	ActionSeekBackward Action = "seek_backward"
	ActionVolumeUp     Action = "volume_up"
	ActionVolumeDown   Action = "volume_down"
	ActionToggleMute   Action = "toggle_mute"
	ActionNextSource   Action = "next_source"
	ActionPrevSource   Action = "previous_source"
	ActionOpenPlaylist Action = "open_playlist"

	// Playlist actions
	ActionSelectSource Action = "select_source"

	// Search mode actions
	ActionEnableSearch   Action = "enable_search"
	ActionSearchComplete Action = "search_complete"
)

// ContextName represents a specific UI context in the application that has its own keybinds
type ContextName string

const (
	ContextGlobal     ContextName = "global"
	ContextPlayer     ContextName = "player"
	ContextPlaylist   ContextName = "playlist"
	ContextSearchMode ContextName = "search_mode"
	ContextHelp       ContextName = "help"
)

var ContextBindings = map[ContextName][]Binding{
	ContextGlobal:     globalBindings,
	ContextPlayer:     playerBindings,
	ContextPlaylist:   playlistBindings,
	ContextSearchMode: searchModeBindings,
	ContextHelp:       helpBindings,
}

// KeyMap stores the mappings from actions to key sequences for each context
type KeyMap struct {
	Primary   string
	Secondary string // Optional alternative key
	Help      string // Description for help screen
}

// Binding maps an action to its keys and help text
type Binding struct {
	Action Action
	KeyMap KeyMap
}

// navigationBindings contains general navigation bindings for consistent navigation across the app
var navigationBindings = []Binding{
	{
		Action: ActionMoveUp,
		KeyMap: KeyMap{
			Primary:   "up",
			Secondary: "k",
			Help:      "Move cursor up",
		},
	},
	{
		Action: ActionMoveDown,
		KeyMap: KeyMap{
			Primary:   "down",
			Secondary: "j",
			Help:      "Move cursor down",
		},
	},
	{
		Action: ActionPageUp,
		KeyMap: KeyMap{
			Primary: "pgup",
			Help:    "Move up one page",
		},
	},
	{
		Action: ActionPageDown,
		KeyMap: KeyMap{
			Primary: "pgdown",
			Help:    "Move down one page",
		},
	},
	{
		Action: ActionMoveTop,
		KeyMap: KeyMap{
			Primary: "home",
			Help:    "Move top of view",
		},
	},
	{
		Action: ActionMoveBottom,
		KeyMap: KeyMap{
			Primary: "end",
			Help:    "Move bottom of view",
		},
	},
}

// globalBindings contains key bindings that work across all views
var globalBindings = []Binding{
	{
		Action: ActionQuit,
		KeyMap: KeyMap{
			Primary: "ctrl+c",
			Help:    "Quit application",
		},
	},
	{
		Action: ActionToggleHelp,
		KeyMap: KeyMap{
			Primary:   "ctrl+h",
			Secondary: "?",
			Help:      "Toggle help screen",
		},
	},
	{
		Action: ActionBack,
		KeyMap: KeyMap{
			Primary: "esc",
			Help:    "Go back/cancel current action",
		},
	},
}

// playerBindings contains key bindings specific to the player view
var playerBindings = []Binding{
	{
		Action: ActionTogglePause,
		KeyMap: KeyMap{
			Primary: "space",
			Help:    "Play/pause",
		},
	},
	{
		Action: ActionSeekForward,
		KeyMap: KeyMap{
			Primary:   "right",
			Secondary: "l",
			Help:      "Seek forward",
		},
	},
	{
		Action: ActionSeekBackward,
		KeyMap: KeyMap{
			Primary:   "left",
			Secondary: "h",
			Help:      "Seek backward",
		},
	},
	{
		Action: ActionVolumeUp,
		KeyMap: KeyMap{
			Primary:   "+",
			Secondary: "=",
			Help:      "Volume up",
		},
	},
	{
		Action: ActionVolumeDown,
		KeyMap: KeyMap{
			Primary: "-",
			Help:    "Volume down",
		},
	},
	{
		Action: ActionToggleMute,
		KeyMap: KeyMap{
			Primary: "m",
			Help:    "Toggle mute",
		},
	},
	{
		Action: ActionNextSource,
		KeyMap: KeyMap{
			Primary: "n",
			Help:    "Next source",
		},
	},
	{
		Action: ActionPrevSource,
		KeyMap: KeyMap{
			Primary: "p",
			Help:    "Previous source",
		},
	},
	{
		Action: ActionOpenPlaylist,
		KeyMap: KeyMap{
			Primary: "tab",
			Help:    "Show playlist",
		},
	},
	{
		Action: ActionQuit,
		KeyMap: KeyMap{
			Primary: "q",
			Help:    "Quit application",
		},
	},
}

// helpBindings contains key bindings specific to the help view
var helpBindings = withNavigation([]Binding{})

// playlistBindings contains key bindings specific to the playlist view
var playlistBindings = withNavigation([]Binding{
	{
		Action: ActionSelectSource,
		KeyMap: KeyMap{
			Primary: "enter",
			Help:    "Play selected source",
		},
	},
	{
		Action: ActionEnableSearch,
		KeyMap: KeyMap{
			Primary:   "/",
			Secondary: "ctrl+f",
			Help:      "Search sources",
		},
	},
	{
		Action: ActionOpenPlaylist,
		KeyMap: KeyMap{
			Primary: "tab",
			Help:    "Return to player",
		},
	},
})

// searchModeBindings contains key bindings specific for when search mode is active
var searchModeBindings = []Binding{
	{
		Action: ActionBack,
		KeyMap: KeyMap{
			Primary:   "esc",
			Secondary: "ctrl+f",
			Help:      "Exit search mode",
		},
	},
	{
		Action: ActionSearchComplete,
		KeyMap: KeyMap{
			Primary: "enter",
			Help:    "Jump to the best matching source",
		},
	},
}

// GetActionKey returns the primary key for an action
func GetActionKey(action Action, bindings []Binding) string {
	for _, binding := range bindings {
		if binding.Action == action {
			return binding.KeyMap.Primary
		}
	}
	return ""
}

// GetActionByKey returns just the action for a given key, or an empty Action if not found
func GetActionByKey(keyMsg tea.KeyMsg, name ContextName) Action {
	bindings, exists := ContextBindings[name]
	if !exists {
		return ""
	}

	key := keyMsg.String()
	if key == " " {
		key = "space"
	}
	for _, binding := range bindings {
		if binding.KeyMap.Primary == key || binding.KeyMap.Secondary == key {
			return binding.Action
		}
	}
	return ""
}

// FormatKeyHelp formats a key binding for display in help text
func FormatKeyHelp(binding Binding) string {
	if binding.KeyMap.Secondary != "" {
		return binding.KeyMap.Primary + "/" + binding.KeyMap.Secondary + ": " + binding.KeyMap.Help
	}
	return binding.KeyMap.Primary + ": " + binding.KeyMap.Help
}

// GetHelpText generates formatted help text for a set of bindings
func GetHelpText(title string, bindings []Binding) string {
	helpText := "## " + title + "\n\n"
	for _, binding := range bindings {
		helpText += "* " + FormatKeyHelp(binding) + "\n"
	}
	return helpText
}

// withNavigation is a helper function to include navigation bindings in other binding sets
func withNavigation(bindings []Binding) []Binding {
	return append(append([]Binding{}, navigationBindings...), bindings...)
}
