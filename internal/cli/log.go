package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ratiogrid/pkg/geom"
	"github.com/matzehuels/ratiogrid/pkg/observability"
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

// done logs msg along with the elapsed time, e.g. "Layout computed (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Hook Logging
// =============================================================================

// logHooks writes layout, reconciliation and cache events as debug lines.
type logHooks struct {
	observability.NoopRealizationHooks
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetLayoutHooks(h)
	observability.SetRealizationHooks(h)
	observability.SetCacheHooks(h)
}

func (h *logHooks) OnBoundsComputed(items, rows int, d time.Duration) {
	h.logger.Debug("bounds computed", "items", items, "rows", rows, "duration", d)
}

func (h *logHooks) OnMeasure(realized geom.Range, d time.Duration) {
	h.logger.Debug("measured", "realized", realized, "duration", d)
}

func (h *logHooks) OnArrange(arranged int, d time.Duration) {
	h.logger.Debug("arranged", "elements", arranged, "duration", d)
}

func (h *logHooks) OnReconcile(kind string, before, after geom.Range) {
	h.logger.Debug("reconciled", "mutation", kind, "before", before, "after", after)
}

func (h *logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}
