// Package logging builds the process logger.
//
// Logs always go to stderr: in stdio mode stdout carries the protocol.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures New
type Options struct {
	Level  string
	Format string
	Output io.Writer // defaults to os.Stderr
}

// New creates a logrus logger from opts
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	logger.SetOutput(output)

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unsupported log format: %s", opts.Format)
	}

	return logger, nil
}

// Component returns a child logger tagged with a component name
func Component(logger logrus.FieldLogger, name string) logrus.FieldLogger {
	return logger.WithField("component", name)
}
