package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/app"
	"github.com/llehouerou/reel/internal/channel"
	"github.com/llehouerou/reel/internal/config"
	"github.com/llehouerou/reel/internal/detail"
	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/extractor"
	"github.com/llehouerou/reel/internal/logging"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/report"
	"github.com/llehouerou/reel/internal/state"
)

var version = "dev"

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpInitialize, err)
	}

	logFile, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logging.Configure(logging.Config{Level: cfg.LogLevel(), Output: logFile})
	log := logging.WithComponent("main")

	reporter, err := report.New(report.Options{
		DSN:         cfg.Report.SentryDSN,
		Environment: cfg.Report.Environment,
		Release:     "reel@" + version,
	})
	if err != nil {
		log.Warn().Err(err).Msg("error reporting disabled")
		reporter = report.Nop{}
	}
	defer reporter.Flush()

	stateMgr, err := state.Open()
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer stateMgr.Close()

	catalog := extractor.NewCatalog()
	if cfg.HasCatalog() {
		catalog, err = extractor.LoadCatalog(cfg.Catalog)
		if err != nil {
			return fmt.Errorf("%s: %w", errmsg.OpCatalogLoad, err)
		}
	}
	fetcher := extractor.NewCache(catalog, cfg.CacheTTL())

	engine := playback.New(fetcher)
	defer engine.Close()

	prefs := cfg.Preferences()
	controller := detail.New(detail.Options{
		Fetcher:     fetcher,
		Engine:      engine,
		History:     stateMgr,
		Reporter:    reporter,
		Preferences: prefs,
	})

	var start app.Start
	if len(os.Args) > 1 {
		start.URL = os.Args[1]
	}

	m := app.New(app.Options{
		Detail:   controller,
		Channel:  channel.New(fetcher, reporter),
		Engine:   engine,
		Start:    start,
		Autoplay: prefs.Autoplay,
	})

	log.Info().Str(logging.FieldSession, controller.Session()).Str(logging.FieldURL, start.URL).Msg("starting")
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
