package detail

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/playqueue"
)

// Msg is implemented by every event the controller reacts to.
// Messages from other packages cannot implement it.
type Msg interface {
	tea.Msg
	detailMessage()
}

// SelectMsg asks the screen to show a stream.
type SelectMsg struct {
	ServiceID int
	URL       string
	Title     string
	Queue     *playqueue.Queue
	Autoplay  bool
}

func (SelectMsg) detailMessage() {}

// FetchResultMsg carries the result of a metadata fetch.
// Generation and URL identify the load that started it.
type FetchResultMsg struct {
	Generation uint64
	ServiceID  int
	URL        string
	Info       *extractor.StreamInfo
	Err        error
}

func (FetchResultMsg) detailMessage() {}

// QueueUpdatedMsg is sent when the engine announces its queue.
type QueueUpdatedMsg struct {
	Queue *playqueue.Queue
}

func (QueueUpdatedMsg) detailMessage() {}

// MetadataChangedMsg is sent when the engine resolved the playing stream.
type MetadataChangedMsg struct {
	Info  *extractor.StreamInfo
	Queue *playqueue.Queue
}

func (MetadataChangedMsg) detailMessage() {}

// ServiceConnectedMsg is sent when the playback service becomes available.
// PlayAfterConnect requests playback of the loaded stream.
type ServiceConnectedMsg struct {
	PlayAfterConnect bool
}

func (ServiceConnectedMsg) detailMessage() {}

// ServiceDisconnectedMsg is sent when the playback service goes away.
type ServiceDisconnectedMsg struct{}

func (ServiceDisconnectedMsg) detailMessage() {}

// PlayerErrorMsg reports a playback failure.
type PlayerErrorMsg struct {
	Err         error
	Recoverable bool
}

func (PlayerErrorMsg) detailMessage() {}

// FullscreenMsg reports that the video surface entered or left fullscreen.
type FullscreenMsg struct {
	Fullscreen bool
}

func (FullscreenMsg) detailMessage() {}

// RetryMsg re-runs the failed load.
type RetryMsg struct{}

func (RetryMsg) detailMessage() {}

// PlayMsg starts playback of the loaded stream.
type PlayMsg struct{}

func (PlayMsg) detailMessage() {}

// PositionMsg reports the playback position of the current queue item.
type PositionMsg struct {
	Position time.Duration
}

func (PositionMsg) detailMessage() {}

// renderMsg fires after the re-render debounce delay.
// Version is used to ignore stale timers when metadata changes in bursts.
type renderMsg struct {
	Version int
}

func (renderMsg) detailMessage() {}
