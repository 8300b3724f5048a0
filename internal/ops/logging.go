package ops

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sandwichfarm/zaptop/internal/config"
)

// Logger is a structured logger wrapper
type Logger struct {
	*slog.Logger
	level  slog.Level
	format string
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured logger writing to stderr, so stdout only carries results
func NewLogger(cfg *config.Logging) *Logger {
	return NewLoggerWithWriter(cfg, os.Stderr)
}

// NewLoggerWithWriter creates a logger with a custom writer
func NewLoggerWithWriter(cfg *config.Logging, w io.Writer) *Logger {
	level := parseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
		level:  level,
		format: cfg.Format,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewLoggerWithWriter(&config.Logging{Level: "error"}, io.Discard)
}

// WithComponent adds a component field to all log messages
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", component),
		level:  l.level,
		format: l.format,
	}
}

// IsDebugEnabled returns true if debug logging is enabled
func (l *Logger) IsDebugEnabled() bool {
	return l.level <= slog.LevelDebug
}

// LogRelayConnection logs a relay connection event
func (l *Logger) LogRelayConnection(relay string, connected bool, err error) {
	if err != nil {
		l.Error("relay connection failed",
			"relay", relay,
			"error", err)
	} else if connected {
		l.Info("relay connected",
			"relay", relay)
	} else {
		l.Info("relay disconnected",
			"relay", relay)
	}
}

// LogDecodeFailure logs a receipt that could not be fully decoded.
// The raw event is only attached at debug level.
func (l *Logger) LogDecodeFailure(stage, eventID string, err error, raw string) {
	l.Warn("receipt decode failed",
		"stage", stage,
		"event_id", eventID,
		"error", err)
	if raw != "" && l.IsDebugEnabled() {
		l.Debug("offending receipt",
			"stage", stage,
			"event", raw)
	}
}

// LogRejection logs a receipt dropped at ingestion
func (l *Logger) LogRejection(eventID, reason string) {
	l.Debug("receipt rejected",
		"event_id", eventID,
		"reason", reason)
}

// LogRunSummary logs the outcome of a run
func (l *Logger) LogRunSummary(relay string, received, accepted, presented int, duration time.Duration) {
	l.Info("run complete",
		"relay", relay,
		"received", received,
		"accepted", accepted,
		"presented", presented,
		"duration_ms", duration.Milliseconds())
}

// LogStartup logs application startup information
func (l *Logger) LogStartup(version, commit, relay string, limit int, lookback time.Duration) {
	l.Info("zaptop starting",
		"version", version,
		"commit", commit,
		"relay", relay,
		"limit", limit,
		"lookback", lookback.String())
}

var defaultLogger = NewLogger(&config.Logging{
	Level:  "info",
	Format: "text",
})

// Default returns the default logger
func Default() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger
func SetDefault(l *Logger) {
	defaultLogger = l
}
