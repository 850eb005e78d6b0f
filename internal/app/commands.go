package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/detail"
	"github.com/llehouerou/reel/internal/playback"
)

const tickInterval = time.Second

// TickMsg is sent every second while the program runs.
type TickMsg time.Time

// EngineEventMsg wraps a detail event produced by the playback engine.
// The watch is re-armed after it is handled.
type EngineEventMsg struct {
	Msg detail.Msg
}

// EngineStateMsg reports a playback state transition.
type EngineStateMsg struct {
	Previous playback.State
	Current  playback.State
}

// EngineClosedMsg is sent once the engine closed the subscription.
type EngineClosedMsg struct{}

// TickCmd returns a command that sends TickMsg after 1 second.
func TickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchEngineEvents returns a command that waits for the next engine event
// and converts it to a message.
func (m Model) WatchEngineEvents() tea.Cmd {
	if m.playbackSub == nil {
		return nil
	}
	sub := m.playbackSub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return EngineStateMsg{Previous: e.Previous, Current: e.Current}
		case e := <-sub.QueueUpdated:
			return EngineEventMsg{Msg: detail.QueueUpdatedMsg{Queue: e.Queue}}
		case e := <-sub.MetadataChanged:
			return EngineEventMsg{Msg: detail.MetadataChangedMsg{Info: e.Info, Queue: e.Queue}}
		case e := <-sub.Connection:
			if e.Connected {
				return EngineEventMsg{Msg: detail.ServiceConnectedMsg{}}
			}
			return EngineEventMsg{Msg: detail.ServiceDisconnectedMsg{}}
		case e := <-sub.Error:
			return EngineEventMsg{Msg: detail.PlayerErrorMsg{Err: e.Err, Recoverable: e.Recoverable}}
		case <-sub.Done:
			return EngineClosedMsg{}
		}
	}
}
