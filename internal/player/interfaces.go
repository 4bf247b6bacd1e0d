package player

import (
	"context"

	"github.com/PizzaHomicide/playstate/internal/media"
	"github.com/PizzaHomicide/playstate/internal/provider"
)

// Backend is a controllable playable element
type Backend interface {
	media.Element

	// Start launches the backend and begins dispatching events
	Start(ctx context.Context) error

	// Load replaces the current media with src and starts playback
	Load(src provider.Source) error

	Play() error
	Pause() error
	Seek(position float64) error
	SeekBy(delta float64) error
	SetVolume(volume float64) error
	SetMuted(muted bool) error

	// Done is closed when the backend stops delivering events
	Done() <-chan struct{}

	// Close stops the backend and releases its resources
	Close() error
}
