package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps filtering at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs e.g. "Solved chip with idle (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks implements the observability hooks by logging at debug level.
type logHooks struct{ l *log.Logger }

func (h *logHooks) OnEstimate(_ context.Context, solver string, d time.Duration, err error) {
	h.l.Debug("estimate", "solver", solver, "elapsed", d.Round(time.Microsecond), "error", err)
}

func (h *logHooks) OnSolveStart(_ context.Context, solver, runID string) {
	h.l.Debug("solve started", "solver", solver, "run", runID)
}

func (h *logHooks) OnSolveComplete(_ context.Context, solver, runID string, rows int, d time.Duration, err error) {
	h.l.Debug("solve complete", "solver", solver, "run", runID, "rows", rows, "elapsed", d.Round(time.Microsecond), "error", err)
}

func (h *logHooks) OnRenderStart(_ context.Context, format string, entities int) {
	h.l.Debug("render started", "format", format, "entities", entities)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.l.Debug("render complete", "format", format, "bytes", size, "elapsed", d.Round(time.Microsecond), "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.l.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.l.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.l.Debug("cache set", "type", keyType, "bytes", size)
}
