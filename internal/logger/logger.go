// Package logger wires the diagnostic log. Diagnostics go to a rotating
// file; standard output is reserved for reports.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Debug bool
	// Dir is the directory of keeper.log. Empty means the user cache dir.
	Dir string
	// Stderr receives a copy of every entry in debug mode.
	Stderr io.Writer
}

// DefaultDir returns <user cache dir>/keeper.
func DefaultDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cache, "keeper"), nil
}

// New builds a logger for cfg. When the log directory cannot be created
// the file sink is dropped and only the debug mirror remains.
func New(cfg Config) *log.Logger {
	var writers []io.Writer

	dir := cfg.Dir
	if dir == "" {
		if d, err := DefaultDir(); err == nil {
			dir = d
		}
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   filepath.Join(dir, "keeper.log"),
				MaxSize:    5, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		}
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writers = append(writers, stderr)
	}

	var w io.Writer = io.Discard
	if len(writers) > 0 {
		w = io.MultiWriter(writers...)
	}

	return log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "keeper",
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
