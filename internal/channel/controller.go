// Package channel drives the channel detail screen.
package channel

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/detail"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/logging"
	"github.com/llehouerou/reel/internal/navstack"
	"github.com/llehouerou/reel/internal/report"
	"github.com/llehouerou/reel/internal/tabs"
)

const fetchTimeout = 30 * time.Second

// State is what the channel view renders.
type State struct {
	Status    detail.Status
	ServiceID int
	URL       string
	Name      string

	// Info and Tabs are set in Loaded.
	Info *extractor.ChannelInfo
	Tabs []string

	// Kind and Err are set in Error.
	Kind    extractor.Kind
	Err     error
	Message string
}

// Retryable reports whether the view offers a retry action.
func (s State) Retryable() bool {
	return s.Status == detail.StatusError && s.Kind.Retryable()
}

// Msg is implemented by every event the channel controller handles.
type Msg interface {
	channelMessage()
}

// SelectMsg asks the screen to show a channel.
type SelectMsg struct {
	ServiceID int
	URL       string
	Name      string
}

func (SelectMsg) channelMessage() {}

// FetchResultMsg carries the result of a channel fetch.
type FetchResultMsg struct {
	Generation uint64
	ServiceID  int
	URL        string
	Info       *extractor.ChannelInfo
	Err        error
}

func (FetchResultMsg) channelMessage() {}

// RetryMsg re-runs the failed load.
type RetryMsg struct{}

func (RetryMsg) channelMessage() {}

// Controller is the channel screen state machine. Like the stream detail
// controller it must only be used from the event loop.
type Controller struct {
	fetcher  extractor.Fetcher
	reporter report.Reporter
	stack    *navstack.Stack
	log      zerolog.Logger

	st         State
	generation uint64
	cancel     context.CancelFunc
}

// New creates a channel controller with its own navigation stack.
func New(fetcher extractor.Fetcher, reporter report.Reporter) *Controller {
	if reporter == nil {
		reporter = report.Nop{}
	}
	return &Controller{
		fetcher:  fetcher,
		reporter: reporter,
		stack:    navstack.New(),
		log:      logging.WithComponent("channel"),
	}
}

// Update is the single entry point for events.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SelectMsg:
		return c.SelectAndLoad(msg.ServiceID, msg.URL, msg.Name)
	case FetchResultMsg:
		c.handleFetchResult(msg)
	case RetryMsg:
		if c.st.Retryable() {
			return c.load(true)
		}
	}
	return nil
}

// SelectAndLoad shows the channel at url and starts fetching it.
// An empty url clears the screen.
func (c *Controller) SelectAndLoad(serviceID int, url, name string) tea.Cmd {
	c.st = State{ServiceID: serviceID, URL: url, Name: name}
	return c.load(false)
}

func (c *Controller) load(force bool) tea.Cmd {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if c.st.URL == "" {
		c.st = State{Status: detail.StatusIdle}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	c.cancel = cancel
	c.st = State{
		Status:    detail.StatusLoading,
		ServiceID: c.st.ServiceID,
		URL:       c.st.URL,
		Name:      c.st.Name,
	}

	gen, fetcher := c.generation, c.fetcher
	serviceID, url := c.st.ServiceID, c.st.URL
	return func() tea.Msg {
		info, err := fetcher.FetchChannel(ctx, serviceID, url, force)
		return FetchResultMsg{Generation: gen, ServiceID: serviceID, URL: url, Info: info, Err: err}
	}
}

func (c *Controller) handleFetchResult(msg FetchResultMsg) {
	if msg.Generation != c.generation || msg.URL != c.st.URL || c.st.Status != detail.StatusLoading {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if msg.Err == nil && msg.Info == nil {
		msg.Err = extractor.ErrNotFound
	}

	if msg.Err != nil {
		kind := extractor.Classify(msg.Err)
		if kind == extractor.KindCancelled {
			return
		}
		c.log.Warn().Err(msg.Err).
			Str(logging.FieldURL, msg.URL).
			Str(logging.FieldKind, kind.String()).
			Msg(errmsg.Format(errmsg.OpChannelLoad, msg.Err))
		if kind.Reportable() {
			c.reporter.Capture(context.Background(), msg.Err, map[string]string{
				"op":                   string(errmsg.OpChannelLoad),
				logging.FieldKind:      kind.String(),
				logging.FieldURL:       msg.URL,
				logging.FieldComponent: "channel",
			})
		}
		c.st = State{
			Status:    detail.StatusError,
			ServiceID: c.st.ServiceID,
			URL:       c.st.URL,
			Name:      c.st.Name,
			Kind:      kind,
			Err:       msg.Err,
			Message:   errmsg.ForError(msg.Err),
		}
		return
	}

	info := msg.Info
	for _, err := range info.Errors {
		c.log.Warn().Err(err).Str(logging.FieldURL, msg.URL).Msg("partial channel data")
	}

	c.stack.Push(navstack.NewItem(info.ServiceID, info.URL, info.Name, nil))
	c.st = State{
		Status:    detail.StatusLoaded,
		ServiceID: info.ServiceID,
		URL:       c.st.URL,
		Name:      info.Name,
		Info:      info,
		Tabs:      tabs.ChannelTabs(info.Tabs),
	}
}

// Back pops the stack and reloads the previous channel.
// With one item or less on the stack the request is left to the host.
func (c *Controller) Back() (bool, tea.Cmd) {
	if c.stack.Len() <= 1 {
		return false, nil
	}
	c.stack.Pop()
	top := c.stack.Peek()
	return true, c.SelectAndLoad(top.ServiceID(), top.URL(), top.Title())
}

// Dispose cancels the fetch in flight and clears the stack.
func (c *Controller) Dispose() {
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.stack.Clear()
	c.st = State{Status: detail.StatusIdle}
}

// State returns the current state.
func (c *Controller) State() State { return c.st }

// Depth returns the navigation stack size.
func (c *Controller) Depth() int { return c.stack.Len() }
