// Package lifecycle wraps CLI command execution with run history: an entry
// is written as running before the command starts and completed or failed
// afterwards, with the elapsed time.
//
// History is best effort. Failures to write it are logged and never change
// the command's result.
package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/mun-lang/munbench/internal/history"
)

// HistoryLogger records the start and end of a run. It is satisfied by
// *history.Writer.
type HistoryLogger interface {
	WriteStart(command, fixture, backend, entryPoint string) (string, error)
	UpdateComplete(id string, c history.Completion) error
}

// Invocation identifies a run in the history.
type Invocation struct {
	Command string
	Fixture string
	Backend string
	Entry   string
}

// Options control how outcomes are recorded.
type Options struct {
	// Logger receives history write failures. Nil uses slog.Default().
	Logger *slog.Logger
	// ExitCode maps a command error to its exit code. Nil records 1.
	ExitCode func(error) int
}

// RunWithHistory runs fn between a start and a completion history entry.
// If ctx is already cancelled fn is not called and the entry is marked
// failed. The error from fn is always returned unchanged.
func RunWithHistory(ctx context.Context, h HistoryLogger, inv Invocation, opts Options, fn func(context.Context) (history.Completion, error)) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := writeStart(h, inv, logger)
	start := time.Now()

	var (
		c   history.Completion
		err error
	)
	if err = ctx.Err(); err == nil {
		c, err = fn(ctx)
	}

	if id == "" {
		return err
	}

	c.Status = history.StatusCompleted
	c.ExitCode = 0
	if err != nil {
		c.Status = history.StatusFailed
		c.ExitCode = 1
		if opts.ExitCode != nil {
			c.ExitCode = opts.ExitCode(err)
		}
	}
	c.Duration = time.Since(start)

	updateComplete(h, id, c, logger)
	return err
}

// writeStart calls WriteStart with panic recovery and returns "" on failure.
func writeStart(h HistoryLogger, inv Invocation, logger *slog.Logger) (id string) {
	if h == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("writing history", "panic", r)
			id = ""
		}
	}()
	id, err := h.WriteStart(inv.Command, inv.Fixture, inv.Backend, inv.Entry)
	if err != nil {
		logger.Warn("writing history", "error", err)
		return ""
	}
	return id
}

// updateComplete calls UpdateComplete with panic recovery.
func updateComplete(h HistoryLogger, id string, c history.Completion, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("updating history", "panic", r)
		}
	}()
	if err := h.UpdateComplete(id, c); err != nil {
		logger.Warn("updating history", "error", err, "id", id)
	}
}
