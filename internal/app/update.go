package app

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/channel"
	"github.com/llehouerou/reel/internal/detail"
	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/playqueue"
	"github.com/llehouerou/reel/internal/tabs"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case TickMsg:
		return m.handleTick()
	case EngineEventMsg:
		return m.handleEngineEvent(msg.Msg)
	case EngineStateMsg:
		return m, m.WatchEngineEvents()
	case EngineClosedMsg:
		return m, nil
	case detail.Msg:
		return m, m.Detail.Update(msg)
	case channel.Msg:
		return m, m.Channel.Update(msg)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.Engine != nil && m.Engine.IsPlaying() {
		m.Elapsed += tickInterval
		m.Detail.Update(detail.PositionMsg{Position: m.Elapsed})
	}
	return m, TickCmd()
}

func (m Model) handleEngineEvent(msg detail.Msg) (tea.Model, tea.Cmd) {
	switch e := msg.(type) {
	case detail.QueueUpdatedMsg:
		if e.Queue != nil {
			m.Elapsed = recoveryPosition(e.Queue.Item())
		}
	case detail.MetadataChangedMsg:
		if e.Queue != nil {
			m.Elapsed = recoveryPosition(e.Queue.Item())
		}
	}
	return m, tea.Batch(m.Detail.Update(msg), m.WatchEngineEvents())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.ResolveKey(msg, m.contexts()...)

	switch action {
	case keymap.ActionQuit:
		return m, m.quit()
	case keymap.ActionBack:
		return m.handleBack()
	case keymap.ActionHelp:
		m.ShowHelp = !m.ShowHelp
		m.help.ShowAll = m.ShowHelp
		return m, nil
	case keymap.ActionRetry:
		if m.Screen == ScreenChannel {
			return m, m.Channel.Update(channel.RetryMsg{})
		}
		return m, m.Detail.Update(detail.RetryMsg{})
	}

	if cmd, ok := m.handlePlaybackKey(action); ok {
		return m, cmd
	}
	if m.Screen == ScreenDetail {
		return m.handleDetailKey(action)
	}
	return m, nil
}

func (m Model) handlePlaybackKey(action keymap.Action) (tea.Cmd, bool) {
	if m.Engine == nil {
		return nil, false
	}
	switch action {
	case keymap.ActionPlayPause:
		switch {
		case m.Engine.IsStopped():
			return m.Detail.Update(detail.PlayMsg{}), true
		case m.Engine.IsPlaying():
			m.Engine.Pause()
		default:
			m.Engine.Resume()
		}
		return nil, true
	case keymap.ActionStop:
		m.Engine.Stop()
		return nil, true
	case keymap.ActionNextStream:
		m.Engine.Advance()
		return nil, true
	case keymap.ActionPrevStream:
		m.Engine.StepBack()
		return nil, true
	case keymap.ActionFullscreen:
		if m.Engine.IsStopped() {
			return nil, true
		}
		return m.Detail.Update(detail.FullscreenMsg{Fullscreen: !m.Detail.Fullscreen()}), true
	}
	return nil, false
}

func (m Model) handleDetailKey(action keymap.Action) (tea.Model, tea.Cmd) {
	switch action {
	case keymap.ActionNextTab:
		m.Detail.CycleTab(1)
	case keymap.ActionPrevTab:
		m.Detail.CycleTab(-1)
	case keymap.ActionMoveDown:
		if n := len(m.related()); m.RelatedCursor < n-1 {
			m.RelatedCursor++
		}
	case keymap.ActionMoveUp:
		if m.RelatedCursor > 0 {
			m.RelatedCursor--
		}
	case keymap.ActionSelect:
		related := m.related()
		if m.RelatedCursor >= len(related) {
			return m, nil
		}
		r := related[m.RelatedCursor]
		m.RelatedCursor = 0
		return m, m.Detail.Update(detail.SelectMsg{
			ServiceID: r.ServiceID,
			URL:       r.URL,
			Title:     r.Title,
			Autoplay:  m.autoplay,
		})
	case keymap.ActionOpenChannel:
		return m.openChannel()
	}
	return m, nil
}

func (m Model) openChannel() (tea.Model, tea.Cmd) {
	st := m.Detail.State()
	if st.Status != detail.StatusLoaded || st.Info.UploaderURL == "" {
		return m, nil
	}
	m.Detail.Deactivate()
	m.Screen = ScreenChannel
	return m, m.Channel.Update(channel.SelectMsg{
		ServiceID: st.Info.ServiceID,
		URL:       st.Info.UploaderURL,
		Name:      st.Info.Uploader,
	})
}

// handleBack gives the screen in front the first chance to consume back.
// Leaving the channel screen returns to the detail screen; back on an
// unhandled detail screen quits.
func (m Model) handleBack() (tea.Model, tea.Cmd) {
	if m.ShowHelp {
		m.ShowHelp = false
		m.help.ShowAll = false
		return m, nil
	}

	if m.Screen == ScreenChannel {
		if handled, cmd := m.Channel.Back(); handled {
			return m, cmd
		}
		m.Channel.Dispose()
		m.Screen = ScreenDetail
		return m, m.Detail.Activate()
	}

	handled, cmd := m.Detail.Back()
	if !handled {
		return m, m.quit()
	}
	m.RelatedCursor = 0
	return m, cmd
}

func (m Model) quit() tea.Cmd {
	m.Detail.Deactivate()
	return tea.Quit
}

// related returns the related streams when the related tab is in front.
func (m Model) related() []extractor.RelatedItem {
	st := m.Detail.State()
	if st.Status != detail.StatusLoaded || m.Detail.SelectedTab() != tabs.Related {
		return nil
	}
	return st.Info.Related
}

func recoveryPosition(item *playqueue.Item) time.Duration {
	if item == nil {
		return 0
	}
	return item.RecoveryPosition
}
