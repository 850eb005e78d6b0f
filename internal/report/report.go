// Package report sends diagnostics for unexpected failures to an external
// error-reporting service.
package report

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

// Reporter records failures for diagnostics.
type Reporter interface {
	// Capture records err with the given tags.
	Capture(ctx context.Context, err error, tags map[string]string)
	// Flush waits for queued reports to be delivered.
	Flush()
}

// Nop discards every report.
type Nop struct{}

// Capture implements Reporter.
func (Nop) Capture(context.Context, error, map[string]string) {}

// Flush implements Reporter.
func (Nop) Flush() {}

// Sentry reports to a Sentry project.
type Sentry struct {
	hub *sentry.Hub
}

// Options configures the Sentry reporter.
type Options struct {
	DSN         string
	Environment string
	Release     string
}

// NewSentry initialises a Sentry client on its own hub.
func NewSentry(opts Options) (*Sentry, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         opts.DSN,
		Environment: opts.Environment,
		Release:     opts.Release,
	})
	if err != nil {
		return nil, err
	}
	return &Sentry{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// New returns a Sentry reporter when dsn is set, Nop otherwise.
func New(opts Options) (Reporter, error) {
	if opts.DSN == "" {
		return Nop{}, nil
	}
	return NewSentry(opts)
}

// Capture implements Reporter. Each report gets an isolated scope.
func (s *Sentry) Capture(_ context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		s.hub.CaptureException(err)
	})
}

// Flush implements Reporter.
func (s *Sentry) Flush() {
	s.hub.Flush(flushTimeout)
}

// Recorder keeps reports in memory. Useful in tests.
type Recorder struct {
	Reports []Captured
}

// Captured is one report kept by Recorder.
type Captured struct {
	Err  error
	Tags map[string]string
}

// Capture implements Reporter.
func (r *Recorder) Capture(_ context.Context, err error, tags map[string]string) {
	r.Reports = append(r.Reports, Captured{Err: err, Tags: tags})
}

// Flush implements Reporter.
func (r *Recorder) Flush() {}
