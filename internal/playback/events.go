package playback

import (
	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/playqueue"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// QueueUpdated is emitted when the engine starts using a queue object.
//
// Emitted by:
//   - Play: with the queue handed to the engine
//   - Reconnect: with the rebuilt queue object (same streams, new object)
//
// Moving inside a queue does not emit QueueUpdated; it emits MetadataChanged
// once the new item's metadata is resolved.
type QueueUpdated struct {
	Queue *playqueue.Queue
}

// MetadataChanged is emitted when the metadata of the playing item is known.
type MetadataChanged struct {
	Info  *extractor.StreamInfo
	Queue *playqueue.Queue
}

// ConnectionChange is emitted when the engine service connects or disconnects.
type ConnectionChange struct {
	Connected bool
}

// ErrorEvent is emitted when an error occurs during playback.
type ErrorEvent struct {
	Operation   string // e.g., "play", "resolve"
	URL         string
	Err         error
	Recoverable bool
}
