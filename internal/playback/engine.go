// Package playback defines the playback engine the detail screens observe,
// and an in-memory engine implementation.
package playback

import "github.com/llehouerou/reel/internal/playqueue"

// State represents the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Engine is the playback engine contract used by detail screens.
type Engine interface {
	// Queue returns the queue being played, or nil.
	Queue() *playqueue.Queue
	State() State
	IsPlaying() bool
	IsStopped() bool

	// Play replaces the engine queue with q and starts playback.
	Play(q *playqueue.Queue) error
	Pause()
	Resume()
	// Stop ends playback and disposes the queue.
	Stop()

	// StepBack moves to the previously played queue item.
	// Returns false when the queue has no history to go back to.
	StepBack() bool
	// Advance moves to the next queue item.
	Advance() bool

	Subscribe() *Subscription
	Close() error
}
