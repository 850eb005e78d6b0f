// Package app hosts the detail and channel screens in a bubbletea program.
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/reel/internal/channel"
	"github.com/llehouerou/reel/internal/detail"
	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/logging"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/ui/styles"
)

// Screen identifies the screen shown in front.
type Screen int

const (
	ScreenDetail Screen = iota
	ScreenChannel
)

// Start is the stream opened at launch.
type Start struct {
	ServiceID int
	URL       string
	Title     string
}

// Options holds the application collaborators.
type Options struct {
	Detail  *detail.Controller
	Channel *channel.Controller
	Engine  playback.Engine
	// Start is loaded by Init. When its URL is empty the detail screen is
	// restored from saved state instead.
	Start    Start
	Autoplay bool
}

// Model is the root application model.
type Model struct {
	Detail  *detail.Controller
	Channel *channel.Controller
	Engine  playback.Engine

	playbackSub *playback.Subscription
	keys        *keymap.Resolver
	help        help.Model
	spinner     spinner.Model
	log         zerolog.Logger

	start    Start
	autoplay bool

	Screen        Screen
	RelatedCursor int
	ShowHelp      bool
	Elapsed       time.Duration
	Now           func() time.Time
	Width         int
	Height        int
}

// New creates the application model. It subscribes to the engine events.
func New(opts Options) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.T().S().Spinner))

	var sub *playback.Subscription
	if opts.Engine != nil {
		sub = opts.Engine.Subscribe()
	}

	return Model{
		Detail:      opts.Detail,
		Channel:     opts.Channel,
		Engine:      opts.Engine,
		playbackSub: sub,
		keys:        keymap.NewResolver(keymap.All),
		help:        help.New(),
		spinner:     sp,
		log:         logging.WithComponent("app"),
		start:       opts.Start,
		autoplay:    opts.Autoplay,
		Now:         time.Now,
		Width:       80,
		Height:      24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.WatchEngineEvents(), m.spinner.Tick, TickCmd()}
	if m.start.URL != "" {
		cmds = append(cmds, m.Detail.Update(detail.SelectMsg{
			ServiceID: m.start.ServiceID,
			URL:       m.start.URL,
			Title:     m.start.Title,
			Autoplay:  m.autoplay,
		}))
	} else {
		if err := m.Detail.Restore(); err != nil {
			m.log.Warn().Err(err).Msg("restore detail screen")
		}
		cmds = append(cmds, m.Detail.Activate())
	}
	return tea.Batch(cmds...)
}

// contexts returns the key contexts of the screen in front.
func (m Model) contexts() []string {
	if m.Screen == ScreenChannel {
		return []string{"channel", "playback"}
	}
	return []string{"detail", "playback"}
}
