// Package detail drives the stream detail screen: metadata loading,
// navigation history and the reaction to playback engine events.
//
// The controller is not safe for concurrent use. All events, including
// fetch completions, go through Update on the bubbletea event loop.
package detail

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/logging"
	"github.com/llehouerou/reel/internal/navstack"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/playqueue"
	"github.com/llehouerou/reel/internal/report"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/tabs"
)

// Options holds the controller collaborators.
type Options struct {
	Fetcher     extractor.Fetcher
	Engine      playback.Engine  // optional
	History     state.Interface  // optional
	Reporter    report.Reporter  // optional, defaults to report.Nop
	Preferences config.Preferences
	// Stack is owned by the controller. A new one is created when nil.
	Stack *navstack.Stack
}

// Controller is the detail screen state machine.
type Controller struct {
	fetcher  extractor.Fetcher
	engine   playback.Engine
	history  state.Interface
	reporter report.Reporter
	prefs    config.Preferences
	stack    *navstack.Stack
	tabs     *tabs.Presenter
	log      zerolog.Logger
	session  string

	st State

	// Current target.
	queue *playqueue.Queue

	autoplay   bool
	addToStack bool
	generation uint64
	cancel     context.CancelFunc

	// Engine move waiting for the render delay. It becomes the target in
	// handleRender so State never mixes two streams.
	renderVersion int
	pending       *pendingRender

	resume     time.Duration
	fullscreen bool
	connected  bool
	active     bool
	wasLoading bool
	// addToStack of the load interrupted by Deactivate.
	resumeAddToStack bool
	playerErr        string
}

type pendingRender struct {
	info  *extractor.StreamInfo
	queue *playqueue.Queue
}

// New creates a controller in the Idle state.
func New(opts Options) *Controller {
	stack := opts.Stack
	if stack == nil {
		stack = navstack.New()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = report.Nop{}
	}
	session := uuid.NewString()

	return &Controller{
		fetcher:  opts.Fetcher,
		engine:   opts.Engine,
		history:  opts.History,
		reporter: reporter,
		prefs:    opts.Preferences,
		stack:    stack,
		tabs:     tabs.NewPresenter(tabPrefs(opts.Preferences)),
		log:      logging.WithComponent("detail").With().Str(logging.FieldSession, session).Logger(),
		session:  session,
		autoplay: true,
	}
}

func tabPrefs(p config.Preferences) tabs.Prefs {
	return tabs.Prefs{
		ShowComments:    p.ShowComments,
		ShowRelated:     p.ShowRelated,
		ShowDescription: p.ShowDescription,
	}
}

// Update is the single entry point for events.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SelectMsg:
		c.autoplay = msg.Autoplay
		return c.SelectAndLoad(msg.ServiceID, msg.URL, msg.Title, msg.Queue)
	case FetchResultMsg:
		return c.handleFetchResult(msg)
	case QueueUpdatedMsg:
		c.handleQueueUpdated(msg.Queue)
	case MetadataChangedMsg:
		return c.handleMetadataChanged(msg.Info, msg.Queue)
	case renderMsg:
		c.handleRender(msg.Version)
	case ServiceConnectedMsg:
		c.handleServiceConnected(msg.PlayAfterConnect)
	case ServiceDisconnectedMsg:
		c.connected = false
		c.fullscreen = false
		c.reviveQueue()
	case PlayerErrorMsg:
		c.handlePlayerError(msg)
	case FullscreenMsg:
		c.fullscreen = msg.Fullscreen
	case RetryMsg:
		return c.retry()
	case PlayMsg:
		if c.st.Status == StatusLoaded {
			c.startPlayback()
		}
	case PositionMsg:
		c.handlePosition(msg.Position)
	}
	return nil
}

// SelectAndLoad shows the stream at url and starts fetching its metadata.
// Any fetch in flight for the previous target is cancelled. An empty url
// clears the screen to Idle without fetching.
func (c *Controller) SelectAndLoad(serviceID int, url, title string, queue *playqueue.Queue) tea.Cmd {
	c.playerErr = ""
	c.setTarget(serviceID, url, title, queue)
	return c.load(false, true)
}

// SetAutoplay enables or disables autoplay for the next loads.
func (c *Controller) SetAutoplay(enabled bool) {
	c.autoplay = enabled
}

// SetPreferences replaces the preferences and rebuilds the tabs.
func (c *Controller) SetPreferences(p config.Preferences) {
	c.prefs = p
	c.tabs.SetPrefs(tabPrefs(p))
	if c.st.Status == StatusLoaded {
		c.rebuildTabs(c.st.Info)
	}
}

func (c *Controller) setTarget(serviceID int, url, title string, queue *playqueue.Queue) {
	c.st.ServiceID = serviceID
	c.st.URL = url
	c.st.Title = title
	c.queue = queue
}

// load starts a fetch for the current target.
func (c *Controller) load(force, addToStack bool) tea.Cmd {
	c.cancelFetch()
	c.pending = nil

	if c.st.URL == "" {
		c.transition(State{Status: StatusIdle})
		return nil
	}

	c.addToStack = addToStack
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	c.cancel = cancel

	c.transition(State{
		Status:    StatusLoading,
		ServiceID: c.st.ServiceID,
		URL:       c.st.URL,
		Title:     c.st.Title,
	})
	return fetchCmd(ctx, c.fetcher, c.generation, c.st.ServiceID, c.st.URL, force)
}

// cancelFetch cancels the fetch in flight and invalidates its result.
func (c *Controller) cancelFetch() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) transition(next State) {
	if next.Status != c.st.Status {
		c.log.Debug().
			Str(logging.FieldOldState, c.st.Status.String()).
			Str(logging.FieldNewState, next.Status.String()).
			Str(logging.FieldURL, next.URL).
			Msg("state change")
	}
	c.st = next
	if next.Status != StatusLoaded {
		c.tabs.Reset()
	}
}

func (c *Controller) handleFetchResult(msg FetchResultMsg) tea.Cmd {
	if msg.Generation != c.generation || msg.URL != c.st.URL || c.st.Status != StatusLoading {
		c.log.Debug().Str(logging.FieldURL, msg.URL).Msg("discarding stale fetch result")
		return nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if msg.Err == nil && msg.Info == nil {
		msg.Err = extractor.ErrNotFound
	}
	if msg.Err != nil {
		c.handleFetchError(msg)
		return nil
	}

	info := msg.Info
	if info.Restricted() && !c.prefs.AllowRestricted {
		c.transition(State{
			Status:    StatusRestricted,
			ServiceID: info.ServiceID,
			URL:       c.st.URL,
			Title:     info.Name,
			Info:      info,
			Message:   errmsg.MsgRestricted,
		})
		return nil
	}

	c.showInfo(info)

	if c.addToStack {
		if c.queue == nil {
			c.queue = playqueue.NewSingle(itemFromInfo(info))
		}
		if top := c.stack.Peek(); top == nil || !playqueue.StreamEqual(top.Queue(), c.queue) {
			c.stack.Push(navstack.NewItem(info.ServiceID, info.URL, info.Name, c.queue))
		}
	}

	if c.autoplayEnabled() {
		c.startPlayback()
	}
	return nil
}

func (c *Controller) handleFetchError(msg FetchResultMsg) {
	kind := extractor.Classify(msg.Err)
	if kind == extractor.KindCancelled {
		return
	}

	c.log.Warn().Err(msg.Err).
		Str(logging.FieldURL, msg.URL).
		Int(logging.FieldServiceID, msg.ServiceID).
		Str(logging.FieldKind, kind.String()).
		Msg(errmsg.Format(errmsg.OpStreamLoad, msg.Err))

	if kind.Reportable() {
		c.reporter.Capture(context.Background(), msg.Err, map[string]string{
			"op":                   string(errmsg.OpStreamLoad),
			logging.FieldKind:      kind.String(),
			logging.FieldURL:       msg.URL,
			logging.FieldSession:   c.session,
			logging.FieldComponent: "detail",
		})
	}

	c.transition(State{
		Status:    StatusError,
		ServiceID: c.st.ServiceID,
		URL:       c.st.URL,
		Title:     c.st.Title,
		Kind:      kind,
		Err:       msg.Err,
		Message:   errmsg.ForError(msg.Err),
	})
}

// showInfo renders info as Loaded.
func (c *Controller) showInfo(info *extractor.StreamInfo) {
	c.transition(State{
		Status:    StatusLoaded,
		ServiceID: info.ServiceID,
		URL:       c.st.URL,
		Title:     info.Name,
		Info:      info,
	})
	c.rebuildTabs(info)
	c.loadResume(info)
}

func (c *Controller) rebuildTabs(info *extractor.StreamInfo) {
	c.tabs.Rebuild(tabs.Caps{Comments: info.SupportsComments})
}

func (c *Controller) loadResume(info *extractor.StreamInfo) {
	c.resume = 0
	if c.history == nil {
		return
	}
	pos, err := c.history.ResumePosition(info.ServiceID, info.URL)
	if err != nil {
		c.log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpResumeLoad, err))
		return
	}
	c.resume = pos
}

func itemFromInfo(info *extractor.StreamInfo) playqueue.Item {
	return playqueue.Item{
		ServiceID: info.ServiceID,
		URL:       info.URL,
		Title:     info.Name,
		Uploader:  info.Uploader,
		Duration:  info.Duration,
	}
}

func (c *Controller) autoplayEnabled() bool {
	return c.autoplay && c.prefs.Autoplay && c.engine != nil
}

// startPlayback hands the current queue to the engine unless the engine is
// already playing the same streams.
func (c *Controller) startPlayback() {
	if c.engine == nil || c.st.Info == nil {
		return
	}
	if c.queue == nil {
		c.queue = playqueue.NewSingle(itemFromInfo(c.st.Info))
	}
	c.reviveQueue()
	if !c.engine.IsStopped() && playqueue.StreamEqual(c.engine.Queue(), c.queue) {
		return
	}

	if item := c.queue.Item(); item != nil && item.RecoveryPosition == 0 && c.resume > 0 {
		c.queue.SetRecovery(c.queue.Index(), c.resume)
	}
	if err := c.engine.Play(c.queue); err != nil {
		c.playerErr = errmsg.Format(errmsg.OpPlaybackStart, err)
		c.log.Warn().Err(err).Str(logging.FieldURL, c.st.URL).Msg(c.playerErr)
		return
	}
	c.playerErr = ""

	if c.history != nil {
		if err := c.history.RecordView(c.st.Info); err != nil {
			c.log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpHistoryRecord, err))
		}
	}
}

// reviveQueue replaces a queue disposed by the engine (on stop or service
// restart) with a fresh copy, and rebinds the stack items that held it.
func (c *Controller) reviveQueue() {
	old := c.queue
	if old == nil || !old.Disposed() {
		return
	}
	c.queue = old.Clone()
	n := c.stack.ReplaceQueue(old, c.queue)
	c.log.Debug().Str(logging.FieldURL, c.st.URL).Int("items", n).Msg("queue revived")
}

func (c *Controller) retry() tea.Cmd {
	if !c.st.Retryable() {
		return nil
	}
	return c.load(true, true)
}

// Back handles a back request. It reports whether the request was consumed
// and returns the command reloading the previous screen, if any.
//
// Priority: leave fullscreen, step back in the engine queue history, then
// pop the navigation stack. With one item or less on the stack the request
// is left to the host.
func (c *Controller) Back() (bool, tea.Cmd) {
	if c.fullscreen {
		c.fullscreen = false
		return true, nil
	}

	if c.engine != nil && !c.engine.IsStopped() && c.engine.StepBack() {
		return true, nil
	}

	if c.stack.Len() <= 1 {
		return false, nil
	}

	c.stack.Pop()
	top := c.stack.Peek()
	c.log.Debug().Int(logging.FieldDepth, c.stack.Len()).Str(logging.FieldURL, top.URL()).Msg("back")

	c.autoplay = false
	c.playerErr = ""
	c.setTarget(top.ServiceID(), top.URL(), top.Title(), top.Queue())
	c.reviveQueue()
	return true, c.load(false, c.stack.IsEmpty())
}

// handlePosition keeps the recovery position of the playing item and notes
// it in history so a crash loses at most the save delay.
func (c *Controller) handlePosition(pos time.Duration) {
	item := c.queue.Item()
	if item == nil {
		return
	}
	c.queue.SetRecovery(c.queue.Index(), pos)
	if c.history != nil {
		c.history.NoteResumePosition(item.ServiceID, item.URL, pos)
	}
}

func (c *Controller) handleQueueUpdated(queue *playqueue.Queue) {
	if queue == nil {
		return
	}
	c.queue = queue
	if c.pending != nil {
		c.pending.queue = queue
	}
	result := navstack.Reconcile(c.stack, queue)
	c.log.Debug().Str("result", result.String()).Int(logging.FieldDepth, c.stack.Len()).Msg("queue updated")
}

func (c *Controller) handleMetadataChanged(info *extractor.StreamInfo, queue *playqueue.Queue) tea.Cmd {
	if info == nil || queue == nil || !playqueue.StreamEqual(queue, c.queue) {
		return nil
	}
	// Late resolutions for an item the engine already left are dropped.
	if !isCurrent(queue, info) {
		c.log.Debug().Str(logging.FieldURL, info.URL).Msg("discarding metadata of a previous item")
		return nil
	}

	if item := c.stack.FindByQueue(queue); item != nil {
		item.SetTitle(info.Name)
		item.SetURL(info.URL)
	}

	if c.st.Info != nil && c.st.Info.URL == info.URL {
		if c.pending != nil {
			c.pending = nil
			c.renderVersion++
		}
		return nil
	}

	// The engine moved to another stream of the queue.
	c.cancelFetch()
	c.autoplay = false
	c.pending = &pendingRender{info: info, queue: queue}
	c.renderVersion++
	return renderAfterCmd(c.renderVersion)
}

func isCurrent(queue *playqueue.Queue, info *extractor.StreamInfo) bool {
	item := queue.Item()
	if item == nil || item.ServiceID != info.ServiceID {
		return false
	}
	return item.URL == info.URL || (info.OriginalURL != "" && item.URL == info.OriginalURL)
}

func (c *Controller) handleRender(version int) {
	if version != c.renderVersion || c.pending == nil {
		return
	}
	p := c.pending
	c.pending = nil
	c.setTarget(p.info.ServiceID, p.info.URL, p.info.Name, p.queue)
	c.showInfo(p.info)
}

func (c *Controller) handleServiceConnected(playAfterConnect bool) {
	c.connected = true
	if c.st.Status != StatusLoaded {
		return
	}
	if playAfterConnect {
		c.autoplay = true
	}
	if playAfterConnect || c.autoplayEnabled() {
		c.startPlayback()
	}
}

func (c *Controller) handlePlayerError(msg PlayerErrorMsg) {
	c.playerErr = errmsg.Format(errmsg.OpPlayback, msg.Err)
	c.log.Warn().Err(msg.Err).Bool("recoverable", msg.Recoverable).Msg(c.playerErr)
	if !msg.Recoverable {
		c.fullscreen = false
	}
}

// Activate is called when the screen becomes visible. It restarts a load
// interrupted by Deactivate, starts the initial load of a restored target,
// or re-renders loaded content with the current preferences.
func (c *Controller) Activate() tea.Cmd {
	c.active = true

	if c.wasLoading {
		c.wasLoading = false
		return c.load(false, c.resumeAddToStack)
	}
	if c.st.Status == StatusIdle && c.st.URL != "" {
		return c.load(false, c.stack.IsEmpty())
	}
	if c.st.Status == StatusLoaded {
		c.rebuildTabs(c.st.Info)
	}
	return nil
}

// Deactivate is called when the screen is hidden. A load in flight is
// cancelled and resumed by the next Activate. The selected tab, the resume
// position and the navigation stack are persisted.
func (c *Controller) Deactivate() {
	c.active = false

	if c.st.Status == StatusLoading {
		c.wasLoading = true
		c.resumeAddToStack = c.addToStack
		c.cancelFetch()
	}

	if c.history == nil {
		return
	}
	if tab := c.tabs.Selected(); tab != "" {
		c.history.SaveSelectedTab(string(tab))
	}
	if item := c.queue.Item(); item != nil {
		if err := c.history.SaveResumePosition(item.ServiceID, item.URL, item.RecoveryPosition); err != nil {
			c.log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpResumeSave, err))
		}
	}
	if err := c.history.SaveStack(c.stack.Snapshot()); err != nil {
		c.log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpStackSave, err))
	}
}

// Dispose tears the screen down: the stack is cleared, the fetch in flight
// is cancelled and the engine is stopped.
func (c *Controller) Dispose() {
	c.cancelFetch()
	c.stack.Clear()
	if c.engine != nil {
		c.engine.Stop()
	}
	if c.history != nil {
		if err := c.history.SaveStack(nil); err != nil {
			c.log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpStackSave, err))
		}
	}
	c.queue = nil
	c.pending = nil
	c.wasLoading = false
	c.fullscreen = false
	c.playerErr = ""
	c.transition(State{Status: StatusIdle})
}

// Restore rebuilds the navigation stack saved by a previous Deactivate and
// targets its top item. The load starts on Activate, without autoplay.
func (c *Controller) Restore() error {
	if c.history == nil {
		return nil
	}
	entries, err := c.history.LoadStack()
	if err != nil {
		return err
	}
	c.stack.Restore(entries)
	if top := c.stack.Peek(); top != nil {
		c.autoplay = false
		c.setTarget(top.ServiceID(), top.URL(), top.Title(), top.Queue())
	}
	if tab, err := c.history.SelectedTab(); err == nil && tab != "" {
		c.tabs.Restore(tabs.Tab(tab))
	}
	return nil
}

// SelectTab selects a tab.
func (c *Controller) SelectTab(t tabs.Tab) bool {
	if !c.tabs.Select(t) {
		return false
	}
	c.saveTab()
	return true
}

// CycleTab moves the tab selection by delta.
func (c *Controller) CycleTab(delta int) tabs.Tab {
	t := c.tabs.Cycle(delta)
	c.saveTab()
	return t
}

func (c *Controller) saveTab() {
	if c.history != nil && c.tabs.Selected() != "" {
		c.history.SaveSelectedTab(string(c.tabs.Selected()))
	}
}

// State returns the current state.
func (c *Controller) State() State { return c.st }

// Tabs returns the tabs to show. Only loaded content has tabs.
func (c *Controller) Tabs() []tabs.Tab {
	if c.st.Status != StatusLoaded {
		return nil
	}
	return c.tabs.Tabs()
}

// TabsVisible reports whether the tab strip is shown.
func (c *Controller) TabsVisible() bool {
	return c.st.Status == StatusLoaded && c.tabs.Visible()
}

// SelectedTab returns the selected tab, "" when no tabs are shown.
func (c *Controller) SelectedTab() tabs.Tab {
	if c.st.Status != StatusLoaded {
		return ""
	}
	return c.tabs.Selected()
}

// Depth returns the navigation stack size.
func (c *Controller) Depth() int { return c.stack.Len() }

// StackItems returns the navigation stack, top first.
func (c *Controller) StackItems() []*navstack.Item { return c.stack.Items() }

// Queue returns the queue of the current target, or nil.
func (c *Controller) Queue() *playqueue.Queue { return c.queue }

// Actions returns the metadata-dependent actions available.
func (c *Controller) Actions() []Action {
	if c.st.Status != StatusLoaded {
		return nil
	}
	return []Action{ActionDownload, ActionShare, ActionOpenInBrowser}
}

// Fullscreen reports whether the video surface is fullscreen.
func (c *Controller) Fullscreen() bool { return c.fullscreen }

// Connected reports whether the playback service is connected.
func (c *Controller) Connected() bool { return c.connected }

// Active reports whether the screen is between Activate and Deactivate.
func (c *Controller) Active() bool { return c.active }

// Autoplay reports whether the next load may start playback.
func (c *Controller) Autoplay() bool { return c.autoplay }

// Resume returns the saved resume position of the loaded stream.
func (c *Controller) Resume() time.Duration { return c.resume }

// PlayerError returns the last playback error message, "" when none.
func (c *Controller) PlayerError() string { return c.playerErr }

// Session returns the id attached to this controller's logs and reports.
func (c *Controller) Session() string { return c.session }
