package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestConfigureLevels(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want logrus.Level
	}{
		{"default", Options{}, logrus.InfoLevel},
		{"verbose", Options{Verbose: true}, logrus.DebugLevel},
		{"quiet", Options{Quiet: true}, logrus.WarnLevel},
		{"verbose wins over quiet", Options{Verbose: true, Quiet: true}, logrus.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logrus.New()
			Configure(logger, tt.opts)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestQuietStillShowsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Quiet: true, NoColor: true, Output: &buf})

	logger.Info("hidden")
	logger.Error("wordlist missing")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "wordlist missing")
}

func TestConfigureNilLogger(t *testing.T) {
	assert.NotPanics(t, func() { Configure(nil, Options{}) })
}
