// Package logging builds the slog logger used by the CLI and the TUI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/abhisek/skilltree/internal/config"
)

// Result holds a configured logger and the file it writes to, if any.
type Result struct {
	Logger   *slog.Logger
	LogFile  io.WriteCloser
	FilePath string
}

// Close closes the log file if one was opened.
func (r *Result) Close() error {
	if r.LogFile != nil {
		return r.LogFile.Close()
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewWithWriter creates a logger that writes to w.
func NewWithWriter(w io.Writer, level slog.Leveler, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// New creates a logger from cfg. When cfg.File is empty and fallbackDir is
// set, logs go to a rotating file in fallbackDir so they cannot corrupt a
// full-screen UI; with neither, logs go to stderr.
func New(cfg config.LogConfig, fallbackDir string) (*Result, error) {
	level := ParseLevel(cfg.Level)

	path := cfg.File
	if path == "" && fallbackDir != "" {
		path = filepath.Join(fallbackDir, "skilltree.log")
	}
	if path == "" {
		return &Result{Logger: NewWithWriter(os.Stderr, level, cfg.Format)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.Rotation.MaxSizeMB,
		MaxBackups: cfg.Rotation.MaxBackups,
		MaxAge:     cfg.Rotation.MaxAgeDays,
		Compress:   cfg.Rotation.Compress,
	}
	return &Result{
		Logger:   NewWithWriter(w, level, cfg.Format),
		LogFile:  w,
		FilePath: path,
	}, nil
}
