package detail

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/extractor"
)

const (
	// RenderDelay is the debounce applied to re-renders caused by the
	// engine advancing through its queue.
	RenderDelay  = 200 * time.Millisecond
	fetchTimeout = 30 * time.Second
)

// fetchCmd fetches stream metadata off the event loop.
func fetchCmd(ctx context.Context, f extractor.Fetcher, gen uint64, serviceID int, url string, force bool) tea.Cmd {
	return func() tea.Msg {
		info, err := f.FetchStream(ctx, serviceID, url, force)
		return FetchResultMsg{
			Generation: gen,
			ServiceID:  serviceID,
			URL:        url,
			Info:       info,
			Err:        err,
		}
	}
}

// renderAfterCmd returns a command that sends renderMsg after RenderDelay.
func renderAfterCmd(version int) tea.Cmd {
	return tea.Tick(RenderDelay, func(_ time.Time) tea.Msg {
		return renderMsg{Version: version}
	})
}
