package playqueue

import "time"

// Item is a single playable stream in a queue.
type Item struct {
	ServiceID int           `json:"service_id"`
	URL       string        `json:"url"`
	Title     string        `json:"title,omitempty"`
	Uploader  string        `json:"uploader,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`

	// RecoveryPosition is where playback resumes when the item is re-selected.
	RecoveryPosition time.Duration `json:"recovery_position,omitempty"`
}

// SameStream reports whether two items point at the same stream.
func (i Item) SameStream(o Item) bool {
	return i.ServiceID == o.ServiceID && i.URL == o.URL
}
