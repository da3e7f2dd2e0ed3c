// Package cli implements the cargo-vendor command-line interface.
//
// The commands build a local Cargo registry from the registry cache and
// inspect, verify and serve the result. The CLI is built using cobra and
// logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - vendor: Copy cached crates into a registry and commit its index
//   - index: Show where a crate is indexed, or the records of one crate
//   - verify: Re-hash every download against the index
//   - serve: Serve a registry over HTTP as a sparse index
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which includes
// one line per vendored package.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/krig/cargo-vendor/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Vendored 42 packages (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// progressHooks reports vendoring events through the logger.
type progressHooks struct {
	observability.NoopVendorHooks
	logger *log.Logger
	total  int
	done   int
}

func newProgressHooks(l *log.Logger) *progressHooks {
	return &progressHooks{logger: l}
}

func (h *progressHooks) OnRunStart(_ context.Context, _ string, packages int) {
	h.total = packages
	h.done = 0
	h.logger.Info("Vendoring packages", "count", packages)
}

func (h *progressHooks) OnPackageComplete(_ context.Context, name, version, _ string, _ time.Duration, err error) {
	if err != nil {
		h.logger.Error("Failed to vendor", "name", name, "version", version)
		return
	}
	h.done++
	h.logger.Debugf("[%d/%d] %s %s", h.done, h.total, name, version)
}

func (h *progressHooks) OnCommit(_ context.Context, backend, commit string, files int, err error) {
	if err != nil {
		return
	}
	h.logger.Info("Committed index", "backend", backend, "commit", shortID(commit), "files", files)
}

// shortID abbreviates a commit hash or snapshot ID for display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
