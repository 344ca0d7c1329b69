package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"DEBUG":   logrus.DebugLevel,
		"error":   logrus.ErrorLevel,
		"warn":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"trace":   logrus.TraceLevel,
		"info":    logrus.InfoLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}

	for in, want := range tests {
		assert.Equal(t, want, GetLevel(in), "level %q", in)
	}
}

func TestSetup(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetFormatter(&logrus.TextFormatter{})
		logrus.SetLevel(logrus.InfoLevel)
	})

	t.Run("Success: File Output Gets Log Suffix", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "health")

		logger := Setup(LoggerSetupParams{
			LogFileName:   base,
			LogLevel:      "debug",
			LogFormatJSON: true,
		})
		logger.Info("hello")

		data, err := os.ReadFile(base + ".log")
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"hello"`)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	})

	t.Run("Success: Stdout Only", func(t *testing.T) {
		logger := Setup(LoggerSetupParams{LogLevel: "error"})
		assert.Equal(t, os.Stdout, logger.Out)
		assert.Equal(t, logrus.ErrorLevel, logger.GetLevel())
	})
}
