package models

import (
	"fmt"
	"math"

	"github.com/PizzaHomicide/playstate/internal/log"
	"github.com/PizzaHomicide/playstate/internal/player"
	"github.com/PizzaHomicide/playstate/internal/provider"
	kb "github.com/PizzaHomicide/playstate/internal/ui/tui/keybindings"
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel is the main application model that coordinates all child models.  It is the high level wrapper.
type AppModel struct {
	session     *player.Session
	startIndex  int
	signals     chan provider.Event
	activeView  View  // Track the current active 'main view'
	activeModal Modal // Track the current active 'modal overlay' if any
	width       int
	height      int

	playerModel   *PlayerModel
	playlistModel *PlaylistModel
	helpModel     *HelpModel
}

// NewAppModel creates the application model and subscribes to the session's provider.  startIndex is loaded on
// Init; a negative index starts with nothing playing.
func NewAppModel(session *player.Session, startIndex int) AppModel {
	p := session.Provider()
	backend := session.Backend()

	m := AppModel{
		session:       session,
		startIndex:    startIndex,
		signals:       p.Subscribe(),
		activeView:    ViewPlayer,
		activeModal:   ModalNone,
		playerModel:   NewPlayerModel(int(math.Round(backend.Volume()*100)), backend.Muted()),
		playlistModel: NewPlaylistModel(p.Sources(), p.FindSource),
		helpModel:     NewHelpModel(),
	}
	m.refreshSource()
	return m
}

func (m AppModel) Init() tea.Cmd {
	log.Info("Initialising Playstate TUI", "sources", len(m.session.Provider().Sources()), "start", m.startIndex)

	cmds := []tea.Cmd{
		waitForSignal(m.signals),
		waitForBackend(m.session.Backend().Done()),
		m.playerModel.Init(),
	}
	if m.startIndex >= 0 {
		index := m.startIndex
		cmds = append(cmds, control("load", func() error { return m.session.Load(index) }))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the models as appropriate
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			log.Info("Quit command received.  Shutting down...")
			return m, tea.Quit
		}
		// Let the search input have every other key while it is active
		if m.activeModal == ModalNone && m.activeView == ViewPlaylist && m.playlistModel.Searching() {
			return m.updatePlaylistView(msg)
		}

		switch kb.GetActionByKey(msg, kb.ContextGlobal) {
		case kb.ActionToggleHelp:
			log.Debug("Help requested", "active_view", m.activeView)
			if m.activeModal != ModalNone {
				m.activeModal = ModalNone
			} else {
				m.helpModel.SetContext(m.activeView)
				m.activeModal = ModalHelp
			}
			return m, nil
		case kb.ActionBack:
			if m.activeModal != ModalNone {
				m.activeModal = ModalNone
				return m, nil
			}
			if m.activeView == ViewPlaylist {
				m.activeView = ViewPlayer
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		log.Debug("Window size changed", "old_width", m.width, "new_width", msg.Width, "old_height", m.height, "new_height", msg.Height)
		m.width = msg.Width
		m.height = msg.Height

		m.playerModel.Resize(msg.Width, msg.Height)
		m.playlistModel.Resize(msg.Width, msg.Height)
		m.helpModel.Resize(msg.Width, msg.Height)
		return m, nil

	case SignalMsg:
		// Sync the source first so a switch resets the view before the signal is applied
		m.refreshSource()
		m.playerModel.Apply(msg.Event)
		return m, waitForSignal(m.signals)

	case SignalsClosedMsg:
		log.Debug("Provider subscription closed")
		return m, nil

	case BackendExitedMsg:
		log.Info("Playback backend exited.  Shutting down...")
		return m, tea.Quit

	case SourceSelectedMsg:
		log.Info("Source selected from playlist", "index", msg.Index)
		m.activeView = ViewPlayer
		index := msg.Index
		return m, control("load", func() error { return m.session.Load(index) })

	case CommandErrorMsg:
		log.Warn("Playback command failed", "action", msg.Action, "error", msg.Error)
		m.playerModel.SetStatus(fmt.Sprintf("%s failed: %v", msg.Action, msg.Error))
		return m, nil
	}

	// The spinner keeps ticking regardless of which view is showing
	if cmd := m.playerModel.Update(msg); cmd != nil {
		return m, cmd
	}

	if m.activeModal == ModalHelp {
		return m.updateHelpModal(msg)
	}

	switch m.activeView {
	case ViewPlayer:
		return m.updatePlayerView(msg)
	case ViewPlaylist:
		return m.updatePlaylistView(msg)
	}

	return m, nil
}

func (m AppModel) View() string {
	if m.activeModal == ModalHelp {
		return m.helpModel.View()
	}

	switch m.activeView {
	case ViewPlayer:
		return m.playerModel.View()
	case ViewPlaylist:
		return m.playlistModel.View()
	default:
		return "Unknown view\nPress ctrl+c to quit."
	}
}

// refreshSource syncs the child models with the provider's current source
func (m AppModel) refreshSource() {
	snap := m.session.Provider().Snapshot()
	if snap.Current >= 0 && snap.Current < len(snap.Sources) {
		m.playerModel.SetSource(snap.Sources[snap.Current], snap.Current, len(snap.Sources))
	}
	m.playlistModel.SetCurrent(snap.Current)
}

// updatePlayerView maps player keys onto session controls
func (m AppModel) updatePlayerView(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	s := m.session
	opts := s.Options()
	action := kb.GetActionByKey(keyMsg, kb.ContextPlayer)
	switch action {
	case kb.ActionQuit:
		log.Info("Quit command received.  Shutting down...")
		return m, tea.Quit
	case kb.ActionOpenPlaylist:
		m.activeView = ViewPlaylist
		return m, nil
	case kb.ActionTogglePause:
		return m, control("pause", s.TogglePause)
	case kb.ActionSeekForward:
		return m, control("seek", func() error { return s.SeekBy(opts.SeekStep) })
	case kb.ActionSeekBackward:
		return m, control("seek", func() error { return s.SeekBy(-opts.SeekStep) })
	case kb.ActionVolumeUp:
		return m, control("volume", func() error { return s.AdjustVolume(opts.VolumeStep) })
	case kb.ActionVolumeDown:
		return m, control("volume", func() error { return s.AdjustVolume(-opts.VolumeStep) })
	case kb.ActionToggleMute:
		return m, control("mute", s.ToggleMute)
	case kb.ActionNextSource:
		return m, control("next", s.Next)
	case kb.ActionPrevSource:
		return m, control("previous", s.Previous)
	}
	return m, nil
}

// updatePlaylistView delegates message processing to the playlist model
func (m AppModel) updatePlaylistView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.playlistModel.Searching() &&
		kb.GetActionByKey(keyMsg, kb.ContextPlaylist) == kb.ActionOpenPlaylist {
		m.activeView = ViewPlayer
		return m, nil
	}

	playlistModel, cmd := m.playlistModel.Update(msg)
	m.playlistModel = playlistModel
	return m, cmd
}

func (m AppModel) updateHelpModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	helpModel, cmd := m.helpModel.Update(msg)
	m.helpModel = helpModel
	return m, cmd
}
