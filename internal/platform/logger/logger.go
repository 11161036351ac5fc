// Package logger configures the process-wide slog logger.
// Records logged with a context carry the active trace_id and span_id.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"stock_insights/internal/platform/trace"
)

// Config holds logging configuration.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // json or text
}

// New builds a logger writing to w. A nil w writes to stdout.
func New(cfg Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(&traceHandler{Handler: h})
}

// Init は New で作ったロガーを slog のデフォルトに設定します。
func Init(cfg Config) *slog.Logger {
	l := New(cfg, nil)
	slog.SetDefault(l)
	return l
}

// ParseLevel converts a level name to slog.Level. Unknown names mean INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// traceHandler adds trace ids from the record context.
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID, spanID, ok := trace.IDs(ctx); ok {
		r.AddAttrs(slog.String("trace_id", traceID), slog.String("span_id", spanID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}
