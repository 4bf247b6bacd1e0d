// Package provider holds the canonical player state that the playback listener drives, and broadcasts every
// triggered signal to subscribers.
package provider

// Provider is the contract the playback listener uses to read and mutate the canonical player state.
type Provider interface {
	State() State
	SetState(State)
	Sources() []Source
	// CurrentSource returns the index of the active source, or -1.
	CurrentSource() int
	SetCanSeek(bool)
	// SetBuffer records the buffered percentage (0-100).
	SetBuffer(percent float64)
	IsSeeking() bool
	SetSeeking(bool)
	Trigger(signal Signal, payload any)
}
