// Package listener bridges a playable element's lifecycle events to the canonical player state held by a provider.
//
// A Listener installs one handler per media.EventKind on the element when it is created.  Each event is translated
// into provider.SetState calls and provider signals following a fixed table; the only memory the Listener keeps is a
// stall marker used to confirm that playback really resumed after buffering.  Destroy removes every handler.
package listener

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/PizzaHomicide/playstate/internal/log"
	"github.com/PizzaHomicide/playstate/internal/media"
	"github.com/PizzaHomicide/playstate/internal/mediaerr"
	"github.com/PizzaHomicide/playstate/internal/provider"
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/rs/xid"
)

// DefaultStallPrecision is the number of decimal places used when comparing the playback position against the stall
// marker.  Some engines report tiny position changes while still buffering, so positions equal at this precision are
// treated as "not moved".  It is a heuristic and can be tuned with WithStallPrecision.
const DefaultStallPrecision = 2

// MaxStallPrecision is the largest precision WithStallPrecision accepts.
const MaxStallPrecision = 6

const notStalled = -1

// ErrorReporter receives categorised playback errors.
type ErrorReporter interface {
	ReportError(err *mediaerr.Error)
}

// PendingEnd is handed to the content-ended callback.  The player moves to the complete state only when Finalize is
// called; calling it more than once has no further effect.
type PendingEnd struct {
	once     sync.Once
	finalize func()
}

// Finalize marks the content as complete.
func (p *PendingEnd) Finalize() {
	p.once.Do(p.finalize)
}

// EndFunc decides what happens when content ends, e.g. advancing a playlist instead of completing.
type EndFunc func(end *PendingEnd)

// Option configures a Listener.
type Option func(*Listener)

// WithLogger sets the logger.  A discarding logger is used otherwise.
func WithLogger(logger *log.Logger) Option {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithErrorReporter sets where categorised errors go.  By default they go to the provider when it implements
// ErrorReporter, and are only logged otherwise.
func WithErrorReporter(r ErrorReporter) Option {
	return func(l *Listener) {
		l.reporter = r
	}
}

// WithContentEnded defers the complete state to fn.
func WithContentEnded(fn EndFunc) Option {
	return func(l *Listener) {
		l.contentEnded = fn
	}
}

// WithStallPrecision overrides DefaultStallPrecision.  Negative values are ignored and values above
// MaxStallPrecision are capped.
func WithStallPrecision(decimals int) Option {
	return func(l *Listener) {
		if decimals >= 0 {
			l.precision = min(decimals, MaxStallPrecision)
		}
	}
}

// Listener translates element events into provider state.
type Listener struct {
	id           string
	element      media.Element
	provider     provider.Provider
	reporter     ErrorReporter
	contentEnded EndFunc
	logger       *log.Logger
	precision    int

	// stalled is the position at which buffering began, or notStalled.
	stalled float64

	mu         sync.Mutex
	registered map[media.EventKind]media.ListenerID
}

// New creates a Listener and installs its handlers on el.
func New(el media.Element, p provider.Provider, opts ...Option) (*Listener, error) {
	if el == nil {
		return nil, invalidArgument("listener-new-element", "A playable element is required")
	}
	if p == nil {
		return nil, invalidArgument("listener-new-provider", "A provider is required")
	}

	l := &Listener{
		id:         xid.New().String(),
		element:    el,
		provider:   p,
		logger:     log.Discard(),
		precision:  DefaultStallPrecision,
		stalled:    notStalled,
		registered: make(map[media.EventKind]media.ListenerID),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.reporter == nil {
		if r, ok := p.(ErrorReporter); ok {
			l.reporter = r
		}
	}
	l.logger = l.logger.With("listener", l.id)

	l.install()
	l.logger.Debug("Event listener loaded", "precision", l.precision, "end_callback", l.contentEnded != nil)
	return l, nil
}

func invalidArgument(at, msg string) error {
	return fault.Wrap(mediaerr.ErrInvalidArgument,
		fctx.With(context.Background(), "error_at", at),
		ftag.With(ftag.InvalidArgument),
		fmsg.With(msg),
	)
}

// ID identifies this listener in logs.
func (l *Listener) ID() string {
	return l.id
}

// Stalled returns the stall marker: the position at which buffering began, or -1.
func (l *Listener) Stalled() float64 {
	return l.stalled
}

// install registers one handler per event kind, replacing any handler this listener registered before.
func (l *Listener) install() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, kind := range media.AllEvents() {
		if id, ok := l.registered[kind]; ok {
			l.element.RemoveEventListener(kind, id)
		}
		l.registered[kind] = l.element.AddEventListener(kind, func() { l.handle(kind) })
	}
}

// Destroy removes every handler.  Safe to call more than once.
func (l *Listener) Destroy() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.registered) == 0 {
		return
	}
	l.logger.Debug("Event listener destroyed")
	for kind, id := range l.registered {
		l.element.RemoveEventListener(kind, id)
		delete(l.registered, kind)
	}
}

func (l *Listener) handle(kind media.EventKind) {
	switch kind {
	case media.EventTimeUpdate, media.EventProgress:
		l.logger.Trace("Media event", "event", kind.String())
	default:
		l.logger.Debug("Media event", "event", kind.String(), "state", l.provider.State().String())
	}

	switch kind {
	case media.EventCanPlay:
		l.onCanPlay()
	case media.EventDurationChange:
		l.onProgress()
	case media.EventEnded:
		l.onEnded()
	case media.EventLoadedData:
		// Metadata is reported from loadedmetadata only; reporting it here as well produces conflicting signals.
	case media.EventLoadedMetadata:
		l.onLoadedMetadata()
	case media.EventPause:
		l.onPause()
	case media.EventPlay:
		l.onPlay()
	case media.EventPlaying:
		l.onPlaying()
	case media.EventProgress:
		l.onProgress()
	case media.EventTimeUpdate:
		l.onTimeUpdate()
	case media.EventSeeking:
		l.onSeeking()
	case media.EventSeeked:
		l.onSeeked()
	case media.EventWaiting:
		l.onWaiting()
	case media.EventVolumeChange:
		l.onVolumeChange()
	case media.EventError:
		l.onError()
	}
}

func (l *Listener) onCanPlay() {
	l.provider.SetCanSeek(true)
	l.provider.Trigger(provider.SignalBufferFull, nil)
}

func (l *Listener) onEnded() {
	state := l.provider.State()
	if state == provider.StateIdle || state == provider.StateComplete {
		return
	}

	complete := func() {
		l.provider.SetState(provider.StateComplete)
	}
	if l.contentEnded != nil {
		l.contentEnded(&PendingEnd{finalize: complete})
		return
	}
	complete()
}

func (l *Listener) onLoadedMetadata() {
	duration := l.element.Duration()
	live := math.IsInf(duration, 1) || l.detectLive()

	sources := l.provider.Sources()
	index := l.provider.CurrentSource()
	sourceType := ""
	if index > -1 && index < len(sources) {
		sourceType = sources[index].Type
	}

	meta := provider.MetaPayload{
		Duration: duration,
		Type:     sourceType,
	}
	if live {
		meta.Duration = math.Inf(1)
	}

	l.logger.Debug("Metadata loaded", "duration", meta.Duration, "type", meta.Type, "live", live)
	l.provider.Trigger(provider.SignalMeta, meta)
}

// detectLive checks the element, then the current source descriptor.
func (l *Listener) detectLive() bool {
	if detector, ok := l.element.(media.LiveDetector); ok && detector.IsLive() {
		return true
	}
	sources := l.provider.Sources()
	index := l.provider.CurrentSource()
	return index > -1 && index < len(sources) && sources[index].Live
}

func (l *Listener) onPause() {
	state := l.provider.State()
	if state == provider.StateComplete || state == provider.StateError {
		return
	}
	if l.element.Ended() || l.element.Error() != nil {
		return
	}
	if l.element.CurrentTime() == l.element.Duration() {
		return
	}
	l.provider.SetState(provider.StatePaused)
}

func (l *Listener) onPlay() {
	l.stalled = notStalled
	if !l.element.Paused() && l.provider.State() != provider.StatePlaying {
		l.provider.SetState(provider.StateLoading)
	}
}

func (l *Listener) onPlaying() {
	// A pending stall is only cleared by a time update with a moved position.
	if l.stalled < 0 {
		l.provider.SetState(provider.StatePlaying)
	}
}

func (l *Listener) onProgress() {
	ranges, ok := l.element.Buffered()
	if !ok {
		return
	}

	duration := l.element.Duration()
	position := l.element.CurrentTime()
	end := 0.0
	if ranges.Len() > 0 {
		end = ranges.End(ranges.Len() - 1)
	}
	percent := between(end/duration, 0, 1) * 100

	l.provider.SetBuffer(percent)
	l.provider.Trigger(provider.SignalBuffer, provider.BufferPayload{
		BufferPercent: percent,
		Position:      position,
		Duration:      duration,
	})
}

func (l *Listener) onTimeUpdate() {
	position := l.element.CurrentTime()
	duration := l.element.Duration()
	if math.IsNaN(duration) {
		return
	}

	state := l.provider.State()
	if !l.provider.IsSeeking() && !l.element.Paused() &&
		(state == provider.StateStalled || state == provider.StateLoading) &&
		!l.samePosition(l.stalled, position) {
		l.stalled = notStalled
		l.provider.SetState(provider.StatePlaying)
	}

	if l.provider.State() == provider.StatePlaying || l.provider.IsSeeking() {
		l.provider.Trigger(provider.SignalTime, provider.TimePayload{
			Position: position,
			Duration: duration,
		})
	}
}

func (l *Listener) onSeeking() {
	l.provider.SetSeeking(true)
	l.provider.Trigger(provider.SignalSeek, provider.SeekPayload{
		Position: l.element.CurrentTime(),
	})
}

func (l *Listener) onSeeked() {
	if !l.provider.IsSeeking() {
		return
	}
	l.provider.SetSeeking(false)
	l.provider.Trigger(provider.SignalSeeked, nil)
}

func (l *Listener) onWaiting() {
	if l.provider.IsSeeking() {
		l.provider.SetState(provider.StateLoading)
		return
	}
	if l.provider.State() == provider.StatePlaying {
		l.stalled = l.element.CurrentTime()
		l.provider.SetState(provider.StateStalled)
	}
}

func (l *Listener) onVolumeChange() {
	l.provider.Trigger(provider.SignalVolume, provider.VolumePayload{
		Volume: int(math.Round(l.element.Volume() * 100)),
		Mute:   l.element.Muted(),
	})
}

func (l *Listener) onError() {
	code := 0
	var cause error
	if mediaErr := l.element.Error(); mediaErr != nil {
		code = mediaErr.Code
		if mediaErr.Message != "" {
			cause = errors.New(mediaErr.Message)
		}
	}

	err := mediaerr.New(mediaerr.FromMediaCode(code), cause)
	if l.reporter == nil {
		l.logger.Error("Playback error with no reporter", "kind", err.Kind.String(), "error", err)
		return
	}
	l.reporter.ReportError(err)
}

// samePosition compares two positions rounded to the configured number of decimals.
func (l *Listener) samePosition(a, b float64) bool {
	scale := math.Pow(10, float64(l.precision))
	return math.Round(a*scale) == math.Round(b*scale)
}

// between clamps num into [lower, upper].  NaN clamps to lower.
func between(num, lower, upper float64) float64 {
	if math.IsNaN(num) {
		return lower
	}
	return math.Max(math.Min(num, upper), lower)
}
