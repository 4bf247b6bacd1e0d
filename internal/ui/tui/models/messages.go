package models

import (
	"github.com/PizzaHomicide/playstate/internal/provider"
	tea "github.com/charmbracelet/bubbletea"
)

// SignalMsg carries a provider signal into the update loop
type SignalMsg struct {
	Event provider.Event
}

// SignalsClosedMsg is sent once the provider subscription has been closed
type SignalsClosedMsg struct{}

// BackendExitedMsg is sent when the playback backend stops delivering events, usually because mpv was closed
type BackendExitedMsg struct{}

// SourceSelectedMsg is sent when a source is picked from the playlist
type SourceSelectedMsg struct {
	Index int
}

// CommandErrorMsg reports a playback control that failed
type CommandErrorMsg struct {
	Action string
	Error  error
}

// waitForSignal blocks until the next provider signal arrives
func waitForSignal(ch <-chan provider.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return SignalsClosedMsg{}
		}
		return SignalMsg{Event: ev}
	}
}

// waitForBackend blocks until the backend is done
func waitForBackend(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return BackendExitedMsg{}
	}
}

// control runs a playback control off the update loop and reports failures
func control(action string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return CommandErrorMsg{Action: action, Error: err}
		}
		return nil
	}
}
