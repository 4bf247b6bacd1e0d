package player

import (
	"fmt"
	"math"
	"sync"

	"github.com/PizzaHomicide/playstate/internal/listener"
	"github.com/PizzaHomicide/playstate/internal/log"
	"github.com/PizzaHomicide/playstate/internal/provider"
	"github.com/hashicorp/go-multierror"
)

// SessionOptions tunes a playback session
type SessionOptions struct {
	// AutoAdvance loads the next source when the current one finishes
	AutoAdvance bool
	// StallPrecision is forwarded to the playback listener
	StallPrecision int
	// SeekStep is the default relative seek in seconds
	SeekStep float64
	// VolumeStep is the default volume change in percent
	VolumeStep int
}

// Session ties a backend to a provider.  Every loaded source gets a fresh playback listener; the previous one is
// destroyed first so that exactly one listener observes the backend.
type Session struct {
	backend  Backend
	provider *provider.Local
	logger   *log.Logger
	opts     SessionOptions

	mu       sync.Mutex
	listener *listener.Listener
	closed   bool
}

// NewSession creates a session.  The backend must already be started.
func NewSession(backend Backend, p *provider.Local, logger *log.Logger, opts SessionOptions) *Session {
	if logger == nil {
		logger = log.Discard()
	}
	return &Session{
		backend:  backend,
		provider: p,
		logger:   logger.With("component", "session"),
		opts:     opts,
	}
}

func (s *Session) Provider() *provider.Local {
	return s.provider
}

func (s *Session) Backend() Backend {
	return s.backend
}

func (s *Session) Options() SessionOptions {
	return s.opts
}

// Load makes the source at index current and starts playing it
func (s *Session) Load(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("session is closed")
	}

	if err := s.provider.SetCurrentSource(index); err != nil {
		return err
	}

	if s.listener != nil {
		s.listener.Destroy()
		s.listener = nil
	}

	s.provider.SetSeeking(false)
	s.provider.SetCanSeek(false)
	s.provider.SetBuffer(0)
	s.provider.SetState(provider.StateIdle)

	l, err := listener.New(s.backend, s.provider,
		listener.WithLogger(s.logger),
		listener.WithStallPrecision(s.opts.StallPrecision),
		listener.WithContentEnded(s.contentEnded),
	)
	if err != nil {
		return fmt.Errorf("failed to create playback listener: %w", err)
	}
	s.listener = l

	src := s.provider.Sources()[index]
	s.logger.Info("Loading source", "index", index, "source", src.Name(), "listener", l.ID())
	if err := s.backend.Load(src); err != nil {
		return fmt.Errorf("failed to load source %q: %w", src.Name(), err)
	}
	return nil
}

// contentEnded runs on the backend dispatch goroutine when the current source finishes
func (s *Session) contentEnded(end *listener.PendingEnd) {
	if s.opts.AutoAdvance {
		if next, ok := s.provider.NextSource(); ok {
			s.logger.Info("Content ended, advancing", "next", next)
			err := s.Load(next)
			if err == nil {
				return
			}
			s.logger.Error("Failed to advance to next source", "next", next, "error", err)
		}
	}
	end.Finalize()
}

// TogglePause pauses active playback, otherwise resumes it.  A completed source restarts from the beginning.
func (s *Session) TogglePause() error {
	switch s.provider.State() {
	case provider.StatePlaying, provider.StateStalled, provider.StateLoading:
		return s.backend.Pause()
	case provider.StateComplete:
		if err := s.backend.Seek(0); err != nil {
			return err
		}
		return s.backend.Play()
	default:
		return s.backend.Play()
	}
}

// SeekBy seeks relative to the current position.  Ignored for sources that cannot seek.
func (s *Session) SeekBy(delta float64) error {
	if !s.provider.CanSeek() {
		s.logger.Debug("Ignoring seek on unseekable source", "delta", delta)
		return nil
	}
	return s.backend.SeekBy(delta)
}

// AdjustVolume changes the volume by delta percent, clamped to [0, 100]
func (s *Session) AdjustVolume(delta int) error {
	current := math.Round(s.backend.Volume() * 100)
	target := math.Max(0, math.Min(current+float64(delta), 100))
	return s.backend.SetVolume(target / 100)
}

func (s *Session) ToggleMute() error {
	return s.backend.SetMuted(!s.backend.Muted())
}

// Next loads the following source.  It is a no-op at the end of the playlist.
func (s *Session) Next() error {
	next, ok := s.provider.NextSource()
	if !ok {
		return nil
	}
	return s.Load(next)
}

// Previous loads the preceding source.  It is a no-op at the start of the playlist.
func (s *Session) Previous() error {
	prev, ok := s.provider.PreviousSource()
	if !ok {
		return nil
	}
	return s.Load(prev)
}

// Close destroys the listener, stops the backend and shuts down the provider
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.listener != nil {
		s.listener.Destroy()
		s.listener = nil
	}

	var result *multierror.Error
	if err := s.backend.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("failed to close backend: %w", err))
	}
	s.provider.Close()

	return result.ErrorOrNil()
}
