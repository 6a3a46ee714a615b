// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component names attached to every record as the "component" attribute.
const (
	CompAssistant = "assistant"
	CompBacklog   = "backlog"
	CompBots      = "bots"
	CompDashboard = "dashboard"
	CompMCP       = "mcp"
	CompServer    = "server"
)

// Options selects level, output format and destination. An empty File logs
// to stderr; otherwise the file is rotated by size.
type Options struct {
	Level      string
	Format     string // "text" or "json"
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the default slog logger. The returned closer releases the
// log file, if any.
func Setup(opts Options) (io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		if lj.MaxSize <= 0 {
			lj.MaxSize = 10
		}
		if lj.MaxBackups <= 0 {
			lj.MaxBackups = 3
		}
		w, closer = lj, lj
	}

	handler, err := NewHandler(w, opts.Format, level)
	if err != nil {
		closer.Close()
		return nil, err
	}
	slog.SetDefault(slog.New(handler))
	return closer, nil
}

// NewHandler builds a text or JSON handler writing to w.
func NewHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	ho := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.NewTextHandler(w, ho), nil
	case "json":
		return slog.NewJSONHandler(w, ho), nil
	default:
		return nil, fmt.Errorf("unknown log format %q: must be text or json", format)
	}
}

// ParseLevel accepts debug, info, warn and error. Empty means info.
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
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// ForComponent returns the default logger tagged with a component name.
func ForComponent(name string) *slog.Logger {
	return slog.Default().With(slog.String("component", name))
}
