// Package mediatest provides a scriptable media.Element for tests.
package mediatest

import (
	"math"

	"github.com/PizzaHomicide/playstate/internal/media"
)

// Mock is a test double for media.Element.  Its values are set by tests and events are delivered with Fire.
type Mock struct {
	media.Listeners

	duration    float64
	currentTime float64
	paused      bool
	ended       bool
	muted       bool
	volume      float64
	err         *media.MediaError
	buffered    media.TimeRanges
	hasBuffered bool
	live        bool
}

// NewMock creates a paused mock element with an unknown duration and full volume.
func NewMock() *Mock {
	return &Mock{
		duration: math.NaN(),
		paused:   true,
		volume:   1,
	}
}

func (m *Mock) Duration() float64 { return m.duration }

func (m *Mock) CurrentTime() float64 { return m.currentTime }

func (m *Mock) Paused() bool { return m.paused }

func (m *Mock) Ended() bool { return m.ended }

func (m *Mock) Muted() bool { return m.muted }

func (m *Mock) Volume() float64 { return m.volume }

func (m *Mock) Error() *media.MediaError { return m.err }

func (m *Mock) Buffered() (media.TimeRanges, bool) { return m.buffered, m.hasBuffered }

func (m *Mock) IsLive() bool { return m.live }

// Test helpers

func (m *Mock) SetDuration(d float64) { m.duration = d }

func (m *Mock) SetCurrentTime(t float64) { m.currentTime = t }

func (m *Mock) SetPaused(p bool) { m.paused = p }

func (m *Mock) SetEnded(e bool) { m.ended = e }

func (m *Mock) SetMuted(muted bool) { m.muted = muted }

func (m *Mock) SetVolume(v float64) { m.volume = v }

func (m *Mock) SetError(err *media.MediaError) { m.err = err }

func (m *Mock) SetLive(live bool) { m.live = live }

// SetBuffered sets the buffered ranges and marks them as available.
func (m *Mock) SetBuffered(ranges ...media.TimeRange) {
	m.buffered = ranges
	m.hasBuffered = true
}

// ClearBuffered makes Buffered report that no ranges are available.
func (m *Mock) ClearBuffered() {
	m.buffered = nil
	m.hasBuffered = false
}

// Fire delivers kind to the registered handlers.
func (m *Mock) Fire(kind media.EventKind) {
	m.Dispatch(kind)
}

// Verify Mock implements media.Element at compile time.
var (
	_ media.Element      = (*Mock)(nil)
	_ media.LiveDetector = (*Mock)(nil)
)
