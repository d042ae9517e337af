// Package logger builds the structured logger shared by every component.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options mirror the logs.* settings.
type Options struct {
	Write bool
	Path  string
	Level string
	JSON  bool
}

// Logger is a logrus logger that owns its output file.
type Logger struct {
	*logrus.Logger
	file    afero.File
	enabled bool
}

// New opens opts.Path on fs for appending. A logger that does not write
// discards everything.
func New(fs afero.Fs, opts Options) (*Logger, error) {
	if !opts.Write || opts.Path == "" {
		return Noop(), nil
	}

	file, err := fs.OpenFile(opts.Path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := logrus.New()
	l.SetOutput(file)
	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return &Logger{Logger: l, file: file, enabled: true}, nil
}

// Noop returns a logger that drops every entry.
func Noop() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return &Logger{Logger: l}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) IsEnabled() bool {
	return l.enabled
}
