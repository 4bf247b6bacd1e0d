// Package media describes the playable element that the playback listener observes: the readable state it exposes
// and the lifecycle events it emits.
package media

// EventKind identifies a lifecycle event emitted by a playable element.
type EventKind int

const (
	EventCanPlay EventKind = iota + 1
	EventDurationChange
	EventEnded
	EventLoadedData
	EventLoadedMetadata
	EventPause
	EventPlay
	EventPlaying
	EventProgress
	EventTimeUpdate
	EventSeeking
	EventSeeked
	EventWaiting
	EventVolumeChange
	EventError
)

var eventNames = map[EventKind]string{
	EventCanPlay:        "canplay",
	EventDurationChange: "durationchange",
	EventEnded:          "ended",
	EventLoadedData:     "loadeddata",
	EventLoadedMetadata: "loadedmetadata",
	EventPause:          "pause",
	EventPlay:           "play",
	EventPlaying:        "playing",
	EventProgress:       "progress",
	EventTimeUpdate:     "timeupdate",
	EventSeeking:        "seeking",
	EventSeeked:         "seeked",
	EventWaiting:        "waiting",
	EventVolumeChange:   "volumechange",
	EventError:          "error",
}

// String returns the conventional lower-case event name.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// AllEvents returns every event kind in a stable order.
func AllEvents() []EventKind {
	return []EventKind{
		EventCanPlay,
		EventDurationChange,
		EventEnded,
		EventLoadedData,
		EventLoadedMetadata,
		EventPause,
		EventPlay,
		EventPlaying,
		EventProgress,
		EventTimeUpdate,
		EventSeeking,
		EventSeeked,
		EventWaiting,
		EventVolumeChange,
		EventError,
	}
}

// Media error codes reported by an element.  Zero means no specific code.
const (
	MediaErrAborted         = 1
	MediaErrNetwork         = 2
	MediaErrDecode          = 3
	MediaErrSrcNotSupported = 4
)

// MediaError is the error an element reports after an Error event.
type MediaError struct {
	Code    int
	Message string
}

// TimeRange is a span of media time in seconds.
type TimeRange struct {
	Start float64
	End   float64
}

// TimeRanges is an ordered, non-overlapping list of ranges.
type TimeRanges []TimeRange

// Len returns the number of ranges.
func (r TimeRanges) Len() int {
	return len(r)
}

// End returns the end of the i-th range.
func (r TimeRanges) End(i int) float64 {
	return r[i].End
}

// Handler is invoked when an element emits the event it was registered for.
type Handler func()

// ListenerID identifies a registered handler so it can be removed later.
type ListenerID uint64

// Element is the capability surface of a live, host-owned playable element.  Values are read at the time they are
// requested; events are delivered one at a time on the element's own dispatch goroutine.
type Element interface {
	// Duration in seconds.  NaN while unknown, +Inf for unbounded (live) media.
	Duration() float64
	CurrentTime() float64
	Paused() bool
	Ended() bool
	Muted() bool
	// Volume between 0 and 1.
	Volume() float64
	// Error returns the last media error, or nil.
	Error() *MediaError
	// Buffered returns the buffered ranges.  ok is false while the element cannot report ranges at all.
	Buffered() (ranges TimeRanges, ok bool)

	AddEventListener(kind EventKind, h Handler) ListenerID
	RemoveEventListener(kind EventKind, id ListenerID)
}

// LiveDetector is implemented by elements that can tell a live stream apart without relying on the duration.
type LiveDetector interface {
	IsLive() bool
}
