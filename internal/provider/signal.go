package provider

// Signal identifies a notification triggered on the provider.
type Signal int

const (
	SignalBufferFull Signal = iota + 1
	SignalMeta
	SignalBuffer
	SignalTime
	SignalSeek
	SignalSeeked
	SignalVolume
	SignalStateChanged
	SignalError
)

var signalNames = map[Signal]string{
	SignalBufferFull:   "bufferFull",
	SignalMeta:         "metaChanged",
	SignalBuffer:       "bufferChanged",
	SignalTime:         "time",
	SignalSeek:         "seek",
	SignalSeeked:       "seeked",
	SignalVolume:       "volumeChanged",
	SignalStateChanged: "stateChanged",
	SignalError:        "error",
}

func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return "unknown"
}

// AllSignals returns every signal.
func AllSignals() []Signal {
	return []Signal{
		SignalBufferFull,
		SignalMeta,
		SignalBuffer,
		SignalTime,
		SignalSeek,
		SignalSeeked,
		SignalVolume,
		SignalStateChanged,
		SignalError,
	}
}

// Event is a triggered signal together with its payload.  Payload is nil for BufferFull and Seeked, a
// *mediaerr.Error for Error and one of the payload structs below otherwise.
type Event struct {
	Signal  Signal
	Payload any
}

// MetaPayload accompanies SignalMeta.  Duration is +Inf for live content.
type MetaPayload struct {
	Duration float64
	Type     string
}

// BufferPayload accompanies SignalBuffer.
type BufferPayload struct {
	BufferPercent float64
	Position      float64
	Duration      float64
}

// TimePayload accompanies SignalTime.
type TimePayload struct {
	Position float64
	Duration float64
}

// SeekPayload accompanies SignalSeek.
type SeekPayload struct {
	Position float64
}

// VolumePayload accompanies SignalVolume.  Volume is a percentage.
type VolumePayload struct {
	Volume int
	Mute   bool
}

// StatePayload accompanies SignalStateChanged.
type StatePayload struct {
	Previous State
	Current  State
}
