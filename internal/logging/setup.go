package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Options controls diagnostic output. Results never go through the logger.
type Options struct {
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  io.Writer
}

// New returns a logger configured with opts.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()
	Configure(logger, opts)
	return logger
}

// Configure applies opts to logger: debug when verbose, warnings and errors
// only when quiet, info otherwise.
func Configure(logger *logrus.Logger, opts Options) {
	if logger == nil {
		return
	}
	target := opts.Output
	if target == nil {
		target = os.Stderr
	}
	logger.SetOutput(target)
	logger.SetFormatter(&prefixed.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    opts.NoColor,
		ForceFormatting:  true,
	})

	switch {
	case opts.Verbose:
		logger.SetLevel(logrus.DebugLevel)
	case opts.Quiet:
		logger.SetLevel(logrus.WarnLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}
