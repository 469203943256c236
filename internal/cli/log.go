// Package cli implements the sunburst command-line interface.
//
// # Commands
//
//   - render: write a failure report as SVG, HTML, JSON, PNG, PDF or DOT
//   - serve: serve a live, periodically refetched chart over HTTP
//   - explore: browse a chart's segments in the terminal
//   - report: validate a report and print it in canonical form
//   - cache: clear the cache or print its directory
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The CLI's
// logger is attached to the command context and retrieved with
// loggerFromContext.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger: timestamps as "HH:MM:SS.ms", messages
// below level dropped.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a stage took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts the clock.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 42 segments (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. RootCommand does this before every command.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
