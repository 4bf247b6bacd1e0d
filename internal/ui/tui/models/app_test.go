package models

import (
	"errors"
	"math"
	"testing"

	"github.com/PizzaHomicide/playstate/internal/config"
	"github.com/PizzaHomicide/playstate/internal/log"
	"github.com/PizzaHomicide/playstate/internal/mediaerr"
	"github.com/PizzaHomicide/playstate/internal/player"
	"github.com/PizzaHomicide/playstate/internal/provider"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (AppModel, *provider.Local) {
	t.Helper()
	backend := player.NewMPVElement(config.PlayerConfig{SocketPath: "test.sock"}, log.Discard())
	p := provider.NewLocal(log.Discard(),
		provider.SourceFromLocation("/media/big_buck_bunny.mp4"),
		provider.SourceFromLocation("https://example.com/live/sintel.m3u8"),
		provider.SourceFromLocation("/media/tears_of_steel.mkv"),
	)
	session := player.NewSession(backend, p, log.Discard(), player.SessionOptions{SeekStep: 5, VolumeStep: 5})
	t.Cleanup(func() { _ = session.Close() })

	m := NewAppModel(session, -1)
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}), p
}

func send(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	updated, _ := m.Update(msg)
	app, ok := updated.(AppModel)
	require.True(t, ok)
	return app
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppModelPlayerView(t *testing.T) {
	t.Run("NothingLoaded", func(t *testing.T) {
		m, _ := newTestApp(t)

		view := m.View()
		assert.Contains(t, view, "No source loaded")
		assert.Contains(t, view, "idle")
		assert.Contains(t, view, "Volume 100%")
	})

	t.Run("FollowsSignals", func(t *testing.T) {
		m, p := newTestApp(t)
		require.NoError(t, p.SetCurrentSource(0))

		m = send(t, m, SignalMsg{Event: provider.Event{Signal: provider.SignalMeta, Payload: provider.MetaPayload{Duration: 596.5, Type: "mp4"}}})
		m = send(t, m, SignalMsg{Event: provider.Event{Signal: provider.SignalStateChanged, Payload: provider.StatePayload{Previous: provider.StateLoading, Current: provider.StatePlaying}}})
		m = send(t, m, SignalMsg{Event: provider.Event{Signal: provider.SignalTime, Payload: provider.TimePayload{Position: 62, Duration: 596.5}}})
		m = send(t, m, SignalMsg{Event: provider.Event{Signal: provider.SignalBuffer, Payload: provider.BufferPayload{BufferPercent: 50, Position: 62, Duration: 596.5}}})
		m = send(t, m, SignalMsg{Event: provider.Event{Signal: provider.SignalVolume, Payload: provider.VolumePayload{Volume: 46, Mute: true}}})

		view := m.View()
		assert.Contains(t, view, "big_buck_bunny.mp4  (1/3)")
		assert.Contains(t, view, "playing")
		assert.Contains(t, view, "1:02 / 9:56")
		assert.Contains(t, view, "Buffer 50%")
		assert.Contains(t, view, "Volume 46% (muted)")
	})

	t.Run("LiveSource", func(t *testing.T) {
		m, p := newTestApp(t)
		require.NoError(t, p.SetCurrentSource(1))

		m = send(t, m, SignalMsg{Event: provider.Event{Signal: provider.SignalMeta, Payload: provider.MetaPayload{Duration: math.Inf(1), Type: "hls"}}})

		assert.Contains(t, m.View(), "LIVE")
	})

	t.Run("ShowsError", func(t *testing.T) {
		m, p := newTestApp(t)
		require.NoError(t, p.SetCurrentSource(0))

		err := mediaerr.New(mediaerr.KindNetwork, errors.New("connection reset"))
		m = send(t, m, SignalMsg{Event: provider.Event{Signal: provider.SignalError, Payload: err}})

		view := m.View()
		assert.Contains(t, view, "Error 302")
		assert.Contains(t, view, "connection reset")
	})

	t.Run("NewSourceClearsError", func(t *testing.T) {
		m, p := newTestApp(t)
		require.NoError(t, p.SetCurrentSource(0))
		m = send(t, m, SignalMsg{Event: provider.Event{Signal: provider.SignalError, Payload: mediaerr.New(mediaerr.KindFile, nil)}})

		require.NoError(t, p.SetCurrentSource(2))
		m = send(t, m, SignalMsg{Event: provider.Event{Signal: provider.SignalStateChanged, Payload: provider.StatePayload{Previous: provider.StateError, Current: provider.StateIdle}}})

		view := m.View()
		assert.NotContains(t, view, "Error 304")
		assert.Contains(t, view, "tears_of_steel.mkv")
	})

	t.Run("CommandErrorShownAsStatus", func(t *testing.T) {
		m, _ := newTestApp(t)

		m = send(t, m, CommandErrorMsg{Action: "pause", Error: errors.New("not connected")})

		assert.Contains(t, m.View(), "pause failed: not connected")
	})

	t.Run("BackendExitQuits", func(t *testing.T) {
		m, _ := newTestApp(t)

		_, cmd := m.Update(BackendExitedMsg{})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestAppModelNavigation(t *testing.T) {
	t.Run("HelpToggle", func(t *testing.T) {
		m, _ := newTestApp(t)

		m = send(t, m, runes("?"))
		assert.Contains(t, m.View(), "Help: Player")
		assert.Contains(t, m.View(), "Play/pause")

		m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		assert.NotContains(t, m.View(), "Help: Player")
	})

	t.Run("PlaylistSelection", func(t *testing.T) {
		m, _ := newTestApp(t)

		m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
		view := m.View()
		assert.Contains(t, view, "Playlist (3)")
		assert.Contains(t, view, "sintel.m3u8")

		m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
		assert.Equal(t, 1, m.playlistModel.Cursor())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.Equal(t, SourceSelectedMsg{Index: 1}, cmd())
	})

	t.Run("PlaylistSearch", func(t *testing.T) {
		m, _ := newTestApp(t)
		m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})

		m = send(t, m, runes("/"))
		require.True(t, m.playlistModel.Searching())

		m = send(t, m, runes("tears"))
		assert.Equal(t, 2, m.playlistModel.Cursor())

		// Keys bound elsewhere go to the search input while it is active
		m = send(t, m, runes("?"))
		assert.NotContains(t, m.View(), "Help:")

		m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, m.playlistModel.Searching())
		assert.Equal(t, 2, m.playlistModel.Cursor())
	})

	t.Run("EscLeavesPlaylist", func(t *testing.T) {
		m, _ := newTestApp(t)
		m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})

		m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

		assert.Equal(t, ViewPlayer, m.activeView)
	})
}
