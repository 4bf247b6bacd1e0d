package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListeners(t *testing.T) {
	t.Run("DispatchInRegistrationOrder", func(t *testing.T) {
		var l Listeners
		var calls []string
		l.AddEventListener(EventPlay, func() { calls = append(calls, "first") })
		l.AddEventListener(EventPlay, func() { calls = append(calls, "second") })
		l.AddEventListener(EventPause, func() { calls = append(calls, "pause") })

		l.Dispatch(EventPlay)

		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("RemoveStopsDelivery", func(t *testing.T) {
		var l Listeners
		calls := 0
		id := l.AddEventListener(EventWaiting, func() { calls++ })

		l.Dispatch(EventWaiting)
		l.RemoveEventListener(EventWaiting, id)
		l.Dispatch(EventWaiting)

		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, l.Count(EventWaiting))
	})

	t.Run("RemoveUnknownIsNoop", func(t *testing.T) {
		var l Listeners
		l.AddEventListener(EventSeeked, func() {})

		l.RemoveEventListener(EventSeeked, 999)
		l.RemoveEventListener(EventSeeking, 1)

		assert.Equal(t, 1, l.Total())
	})

	t.Run("HandlerMayRemoveLaterHandler", func(t *testing.T) {
		var l Listeners
		var secondID ListenerID
		secondCalled := false
		l.AddEventListener(EventEnded, func() { l.RemoveEventListener(EventEnded, secondID) })
		secondID = l.AddEventListener(EventEnded, func() { secondCalled = true })

		l.Dispatch(EventEnded)

		assert.False(t, secondCalled)
		assert.Equal(t, 1, l.Count(EventEnded))
	})

	t.Run("DispatchWithoutListeners", func(t *testing.T) {
		var l Listeners
		l.Dispatch(EventError)
		assert.Equal(t, 0, l.Total())
	})
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "timeupdate", EventTimeUpdate.String())
	assert.Equal(t, "loadedmetadata", EventLoadedMetadata.String())
	assert.Equal(t, "unknown", EventKind(0).String())
	assert.Len(t, AllEvents(), len(eventNames))
}
