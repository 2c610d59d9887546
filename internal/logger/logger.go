// Package logger builds the zerolog loggers used across janela.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a logger under construction.
type Option func(*builder) error

type builder struct {
	level   zerolog.Level
	writers []io.Writer
	file    *os.File
}

// WithLevel sets the minimum level. Unknown names keep the default
// (info) and return an error.
func WithLevel(name string) Option {
	return func(b *builder) error {
		level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return fmt.Errorf("unknown log level %q: %w", name, err)
		}
		b.level = level
		return nil
	}
}

// WithConsole adds a human-readable writer on stderr.
func WithConsole() Option {
	return func(b *builder) error {
		b.writers = append(b.writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
		return nil
	}
}

// WithFile adds an append-only log file, creating parent directories as
// needed.
func WithFile(path string) Option {
	return func(b *builder) error {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		b.file = f
		b.writers = append(b.writers, zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
		return nil
	}
}

// New builds a logger. With no writer options the logger writes to
// stderr in zerolog's default JSON form. The returned close func
// releases the log file when one was opened and is never nil.
func New(opts ...Option) (zerolog.Logger, func() error, error) {
	b := &builder{level: zerolog.InfoLevel}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			closeFn := func() error { return nil }
			if b.file != nil {
				closeFn = b.file.Close
			}
			return zerolog.Nop(), closeFn, err
		}
	}

	var out io.Writer = os.Stderr
	switch len(b.writers) {
	case 0:
	case 1:
		out = b.writers[0]
	default:
		out = zerolog.MultiLevelWriter(b.writers...)
	}

	log := zerolog.New(out).Level(b.level).With().Timestamp().Logger()
	closeFn := func() error {
		if b.file != nil {
			return b.file.Close()
		}
		return nil
	}
	return log, closeFn, nil
}
