// Package logging configures the logrus logger shared by pakeforge sessions.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

// Options controls where log entries go.
type Options struct {
	// Path is the log file. Empty disables file logging.
	Path  string
	Debug bool
	// Console receives entries in addition to the file. Nil means none.
	Console io.Writer
}

// Setup builds a logger that writes plain-text entries to opts.Path through
// an lfshook hook. The returned close func releases the file.
//
// A log file that cannot be opened is not fatal: the logger is still
// returned (writing nowhere) along with the open error so the caller can
// warn once.
func Setup(opts Options) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	if opts.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	if opts.Console != nil {
		log.SetOutput(opts.Console)
	} else {
		log.SetOutput(io.Discard)
	}

	noop := func() error { return nil }
	if opts.Path == "" {
		return log, noop, nil
	}

	f, err := openLogFile(opts.Path)
	if err != nil {
		return log, noop, err
	}
	log.AddHook(lfshook.NewHook(f, &logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	}))
	return log, f.Close, nil
}

// Discard returns a logger that drops everything. Used by tests and by
// callers that have no log file.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644) //nolint:gosec // G304: path from config
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
