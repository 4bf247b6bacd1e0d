package provider

// State is the canonical, externally visible lifecycle stage of the player.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateStalled
	StateComplete
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStalled:
		return "stalled"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// IsActive returns true while media is loaded and expected to progress (playing, loading or stalled).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StateLoading || s == StateStalled
}
