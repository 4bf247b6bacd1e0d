package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PizzaHomicide/playstate/internal/log"
	"github.com/PizzaHomicide/playstate/internal/media"
	"github.com/PizzaHomicide/playstate/internal/media/mediatest"
	"github.com/PizzaHomicide/playstate/internal/player"
	"github.com/PizzaHomicide/playstate/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headlessTimeout = 2 * time.Second

// stubBackend reports every load on a channel so tests can fire events once the listener is installed
type stubBackend struct {
	*mediatest.Mock

	loads   chan provider.Source
	done    chan struct{}
	loadErr error
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		Mock:  mediatest.NewMock(),
		loads: make(chan provider.Source, 8),
		done:  make(chan struct{}),
	}
}

func (b *stubBackend) Start(context.Context) error { return nil }

func (b *stubBackend) Load(src provider.Source) error {
	b.loads <- src
	return b.loadErr
}

func (b *stubBackend) Play() error             { return nil }
func (b *stubBackend) Pause() error            { return nil }
func (b *stubBackend) Seek(float64) error      { return nil }
func (b *stubBackend) SeekBy(float64) error    { return nil }
func (b *stubBackend) SetVolume(float64) error { return nil }
func (b *stubBackend) SetMuted(bool) error     { return nil }
func (b *stubBackend) Done() <-chan struct{}   { return b.done }
func (b *stubBackend) Close() error            { return nil }

var _ player.Backend = (*stubBackend)(nil)

type headlessRun struct {
	session *player.Session
	backend *stubBackend
	out     *bytes.Buffer
	cancel  context.CancelFunc
	result  chan error
}

func startHeadless(t *testing.T, autoAdvance bool, prep func(b *stubBackend)) *headlessRun {
	t.Helper()

	p := provider.NewLocal(log.Discard(),
		provider.SourceFromLocation("/media/big_buck_bunny.mp4"),
		provider.SourceFromLocation("/media/tears_of_steel.mkv"),
	)
	b := newStubBackend()
	if prep != nil {
		prep(b)
	}
	session := player.NewSession(b, p, log.Discard(), player.SessionOptions{AutoAdvance: autoAdvance})
	t.Cleanup(func() { _ = session.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	run := &headlessRun{
		session: session,
		backend: b,
		out:     &bytes.Buffer{},
		cancel:  cancel,
		result:  make(chan error, 1),
	}
	go func() {
		run.result <- runHeadless(ctx, session, 0, run.out)
	}()
	return run
}

// waitLoad blocks until the backend is asked to load a source
func (r *headlessRun) waitLoad(t *testing.T) provider.Source {
	t.Helper()
	select {
	case src := <-r.backend.loads:
		return src
	case <-time.After(headlessTimeout):
		require.FailNow(t, "timed out waiting for a source to load")
		return provider.Source{}
	}
}

// wait blocks until runHeadless returns
func (r *headlessRun) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-r.result:
		return err
	case <-time.After(headlessTimeout):
		require.FailNow(t, "headless run did not return")
		return nil
	}
}

// endPlayback plays the current source to its end
func (r *headlessRun) endPlayback() {
	r.session.Provider().SetState(provider.StatePlaying)
	r.backend.Fire(media.EventEnded)
}

func TestRunHeadless(t *testing.T) {
	t.Run("CompleteFinishesWithoutAutoAdvance", func(t *testing.T) {
		run := startHeadless(t, false, nil)
		assert.Equal(t, "/media/big_buck_bunny.mp4", run.waitLoad(t).File)

		run.endPlayback()

		require.NoError(t, run.wait(t))
		assert.Equal(t, provider.StateComplete, run.session.Provider().State())
		assert.Equal(t, 0, run.session.Provider().CurrentSource())
		assert.Empty(t, run.backend.loads)
		assert.Contains(t, run.out.String(), "playing -> complete")
	})

	t.Run("AutoAdvanceFinishesAfterLastSource", func(t *testing.T) {
		run := startHeadless(t, true, nil)
		run.waitLoad(t)

		run.endPlayback()
		assert.Equal(t, "/media/tears_of_steel.mkv", run.waitLoad(t).File)

		run.endPlayback()

		require.NoError(t, run.wait(t))
		assert.Equal(t, 1, run.session.Provider().CurrentSource())
		assert.Equal(t, provider.StateComplete, run.session.Provider().State())
	})

	t.Run("FailedAdvanceFinishes", func(t *testing.T) {
		run := startHeadless(t, true, nil)
		run.waitLoad(t)
		run.backend.loadErr = errors.New("socket closed")

		run.endPlayback()
		run.waitLoad(t)

		require.NoError(t, run.wait(t))
		assert.Equal(t, provider.StateComplete, run.session.Provider().State())
	})

	t.Run("ErrorSkipsToNextSource", func(t *testing.T) {
		run := startHeadless(t, false, nil)
		run.waitLoad(t)

		run.backend.SetError(&media.MediaError{Code: 2, Message: "connection refused"})
		run.backend.Fire(media.EventError)
		assert.Equal(t, "/media/tears_of_steel.mkv", run.waitLoad(t).File)

		run.endPlayback()

		require.NoError(t, run.wait(t))
		assert.Equal(t, 1, run.session.Provider().CurrentSource())
		assert.Contains(t, run.out.String(), "code=302")
	})

	t.Run("ErrorOnLastSourceFinishes", func(t *testing.T) {
		run := startHeadless(t, false, nil)
		run.waitLoad(t)
		require.NoError(t, run.session.Next())
		run.waitLoad(t)

		run.backend.SetError(&media.MediaError{Code: 4})
		run.backend.Fire(media.EventError)

		require.NoError(t, run.wait(t))
		assert.Equal(t, provider.StateError, run.session.Provider().State())
		assert.Empty(t, run.backend.loads)
	})

	t.Run("BackendExit", func(t *testing.T) {
		run := startHeadless(t, false, nil)
		run.waitLoad(t)

		close(run.backend.done)

		require.NoError(t, run.wait(t))
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		run := startHeadless(t, false, nil)
		run.waitLoad(t)

		run.cancel()

		require.NoError(t, run.wait(t))
	})

	t.Run("InitialLoadFails", func(t *testing.T) {
		run := startHeadless(t, false, func(b *stubBackend) {
			b.loadErr = errors.New("socket closed")
		})
		run.waitLoad(t)

		err := run.wait(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "socket closed")
	})
}
