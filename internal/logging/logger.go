// Package logging configures the process-wide zerolog logger.
// The terminal belongs to the UI, so logs go to a file or nowhere.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

// Field names shared by all components.
const (
	FieldComponent = "component"
	FieldSession   = "session"
	FieldURL       = "url"
	FieldServiceID = "service_id"
	FieldOldState  = "old_state"
	FieldNewState  = "new_state"
	FieldKind      = "kind"
	FieldDepth     = "depth"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level  string    // optional log level ("debug", "info", etc.)
	Output io.Writer // optional writer (defaults to io.Discard)
}

var (
	once sync.Once
	base = zerolog.Nop()
)

// Configure initialises the global logger exactly once.
func Configure(cfg Config) {
	once.Do(func() {
		level := zerolog.InfoLevel
		if cfg.Level != "" {
			if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
				level = parsed
			}
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339

		writer := cfg.Output
		if writer == nil {
			writer = io.Discard
		}

		base = zerolog.New(writer).With().
			Timestamp().
			Str("service", "reel").
			Logger()
	})
}

// Base returns the configured base logger.
func Base() zerolog.Logger {
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return base.With().Str(FieldComponent, component).Logger()
}

// OpenFile opens the log file for appending, creating parent directories.
// An empty path resolves to $XDG_STATE_HOME/reel/reel.log.
func OpenFile(path string) (*os.File, error) {
	if path == "" {
		p, err := xdg.StateFile(filepath.Join("reel", "reel.log"))
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
