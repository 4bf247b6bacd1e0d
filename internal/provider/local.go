package provider

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/PizzaHomicide/playstate/internal/log"
	"github.com/PizzaHomicide/playstate/internal/mediaerr"
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/cskr/pubsub/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const subscriberBufferSize = 64

// Snapshot is a consistent copy of the provider state.
type Snapshot struct {
	State     State
	Seeking   bool
	CanSeek   bool
	Buffer    float64
	Sources   []Source
	Current   int
	LastError *mediaerr.Error
}

// Local is the in-process Provider.  It is safe for concurrent use: the playback listener mutates it from the
// backend's dispatch goroutine while the UI reads it from its own.
type Local struct {
	mu      sync.RWMutex
	state   State
	seeking bool
	canSeek bool
	buffer  float64
	sources []Source
	current int
	lastErr *mediaerr.Error
	closed  bool

	ps     *pubsub.PubSub[Signal, Event]
	logger *log.Logger
}

// NewLocal creates an idle provider with the given playlist and no current source.
func NewLocal(logger *log.Logger, sources ...Source) *Local {
	if logger == nil {
		logger = log.Discard()
	}
	return &Local{
		state:   StateIdle,
		sources: append([]Source(nil), sources...),
		current: -1,
		ps:      pubsub.New[Signal, Event](subscriberBufferSize),
		logger:  logger,
	}
}

func (p *Local) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// SetState updates the canonical state and triggers StateChanged when it actually changes.
func (p *Local) SetState(s State) {
	p.mu.Lock()
	prev := p.state
	p.state = s
	p.mu.Unlock()

	if prev == s {
		return
	}
	p.logger.Debug("Player state changed", "from", prev.String(), "to", s.String())
	p.Trigger(SignalStateChanged, StatePayload{Previous: prev, Current: s})
}

func (p *Local) Sources() []Source {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Source(nil), p.sources...)
}

func (p *Local) CurrentSource() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// SetCurrentSource selects the active source.  The index must refer to an entry of the playlist.
func (p *Local) SetCurrentSource(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.sources) {
		return fault.Wrap(mediaerr.ErrInvalidArgument,
			fctx.With(context.Background(),
				"error_at", "provider-setcurrentsource",
				"index", strconv.Itoa(index),
			),
			ftag.With(ftag.InvalidArgument),
			fmsg.With(fmt.Sprintf("No source at index %d", index)),
		)
	}
	p.current = index
	p.lastErr = nil
	return nil
}

// NextSource returns the index following the current source, if there is one.
func (p *Local) NextSource() (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	next := p.current + 1
	if next >= len(p.sources) {
		return -1, false
	}
	return next, true
}

// PreviousSource returns the index preceding the current source, if there is one.
func (p *Local) PreviousSource() (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.current <= 0 {
		return -1, false
	}
	return p.current - 1, true
}

// FindSource returns the index of the source whose name best fuzzy-matches query, or -1.
func (p *Local) FindSource(query string) int {
	p.mu.RLock()
	names := make([]string, len(p.sources))
	for i, src := range p.sources {
		names[i] = src.Name()
	}
	p.mu.RUnlock()

	ranks := fuzzy.RankFindFold(query, names)
	if len(ranks) == 0 {
		return -1
	}
	sort.Sort(ranks)
	return ranks[0].OriginalIndex
}

func (p *Local) SetCanSeek(canSeek bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.canSeek = canSeek
}

func (p *Local) CanSeek() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.canSeek
}

func (p *Local) SetBuffer(percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffer = percent
}

func (p *Local) Buffer() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buffer
}

func (p *Local) IsSeeking() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.seeking
}

func (p *Local) SetSeeking(seeking bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seeking = seeking
}

// ReportError puts the player into the error state and triggers Error with err as payload.
func (p *Local) ReportError(err *mediaerr.Error) {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()

	p.logger.Error("Playback error", "kind", err.Kind.String(), "code", err.Code, "error", err)
	p.SetState(StateError)
	p.Trigger(SignalError, err)
}

// LastError returns the most recently reported error for the current source.
func (p *Local) LastError() *mediaerr.Error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Snapshot returns a copy of the whole provider state.
func (p *Local) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		State:     p.state,
		Seeking:   p.seeking,
		CanSeek:   p.canSeek,
		Buffer:    p.buffer,
		Sources:   append([]Source(nil), p.sources...),
		Current:   p.current,
		LastError: p.lastErr,
	}
}

// Trigger broadcasts a signal to subscribers.  Subscribers that are not keeping up miss events rather than
// blocking the caller.
func (p *Local) Trigger(signal Signal, payload any) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	p.logger.Trace("Provider signal", "signal", signal.String(), "payload", payload)
	p.ps.TryPub(Event{Signal: signal, Payload: payload}, signal)
}

// Subscribe returns a channel receiving the given signals, or every signal when none are given.
func (p *Local) Subscribe(signals ...Signal) chan Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	if len(signals) == 0 {
		signals = AllSignals()
	}
	return p.ps.Sub(signals...)
}

// Unsubscribe stops delivery to ch and closes it.
func (p *Local) Unsubscribe(ch chan Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	p.ps.Unsub(ch)
}

// Close shuts down the broadcaster, closing every subscription.  Further triggers are dropped.
func (p *Local) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.ps.Shutdown()
}

// Verify Local implements Provider at compile time.
var _ Provider = (*Local)(nil)
