package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"
	"github.com/trebuchet-org/treb-soroban/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration.
// Every record carries the run id and active network so interleaved runs
// against the same registry can be told apart.
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(os.Stderr, cfg)
}

func newLogger(w io.Writer, cfg *config.RuntimeConfig) *slog.Logger {
	level := parseLevel(os.Getenv("TREB_LOG_LEVEL"), slog.LevelWarn)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time in non-debug mode for cleaner output
			if a.Key == slog.TimeKey && !cfg.Debug {
				return slog.Attr{}
			}
			// Shorten source paths
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	if cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler).With("run_id", cfg.RunID)
	if cfg.Network != nil {
		logger = logger.With("network", string(cfg.Network.Name))
	}
	return logger
}

func parseLevel(val string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// unknown value, keep default
		return fallback
	}
}

// shortPath returns a shortened version of the file path
func shortPath(file string) string {
	if idx := strings.Index(file, "treb-soroban/"); idx != -1 {
		return file[idx+len("treb-soroban/"):]
	}
	parts := strings.Split(file, "/")
	return parts[len(parts)-1]
}
