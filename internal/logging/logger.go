package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// New creates the application logger.
// It writes to Stderr so that command output on Stdout stays clean: text on a
// terminal, JSON otherwise.
func New(level slog.Level) *slog.Logger {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return NewWithWriter(os.Stderr, level)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, options(level)))
}

// NewWithWriter creates a text logger writing to w.
// The "error" key is renamed to "err" so both spellings end up in one column.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, options(level)))
}

func options(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a config value (debug, info, warn, error) to a slog level.
// An empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
