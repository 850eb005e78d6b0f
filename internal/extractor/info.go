// Package extractor defines the metadata extraction collaborator: the info
// types it returns, the Fetcher contract, error classification, a caching
// decorator and an offline catalog implementation.
package extractor

import "time"

// NoAgeLimit is the age limit of unrestricted content.
const NoAgeLimit = 0

// StreamType distinguishes on-demand and live content.
type StreamType int

const (
	StreamVideo StreamType = iota
	StreamAudio
	StreamLive
	StreamAudioLive
)

// String returns the stream type name.
func (t StreamType) String() string {
	switch t {
	case StreamVideo:
		return "video"
	case StreamAudio:
		return "audio"
	case StreamLive:
		return "live"
	case StreamAudioLive:
		return "audio_live"
	default:
		return "unknown"
	}
}

// IsLive returns true for live streams.
func (t StreamType) IsLive() bool {
	return t == StreamLive || t == StreamAudioLive
}

// RelatedItem is a stream suggested next to another one.
type RelatedItem struct {
	ServiceID int
	URL       string
	Title     string
	Uploader  string
	Duration  time.Duration
}

// StreamInfo is the metadata of a single stream.
type StreamInfo struct {
	ServiceID   int
	URL         string // canonical url
	OriginalURL string // url the request was made with
	Name        string
	Uploader    string
	UploaderURL string // channel url of the uploader
	SubChannel  string
	Description string
	Type        StreamType
	Duration    time.Duration
	UploadDate  time.Time

	// Counts are -1 when the service does not expose them.
	ViewCount    int64
	LikeCount    int64
	DislikeCount int64

	AgeLimit         int
	SupportsComments bool
	Tags             []string
	Related          []RelatedItem
}

// Restricted reports whether the stream carries an age limit.
func (i *StreamInfo) Restricted() bool {
	return i.AgeLimit != NoAgeLimit
}

// ChannelInfo is the metadata of a channel.
type ChannelInfo struct {
	ServiceID       int
	URL             string
	OriginalURL     string
	Name            string
	Description     string
	SubscriberCount int64 // -1 when unknown
	Tabs            []string

	// Errors holds non-fatal failures for parts of the page (e.g. one tab).
	Errors []error
}
