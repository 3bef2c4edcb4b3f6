package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"graphedit/infrastructure/config"
	pkgerrors "graphedit/pkg/errors"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		env     config.Environment
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"development debug", config.Development, "debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"production info", config.Production, "info", zapcore.InfoLevel, zapcore.DebugLevel},
		{"test warn", config.Test, "warn", zapcore.WarnLevel, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig(tt.env)
			cfg.Logging.Level = tt.level

			logger, err := NewLogger(cfg)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.muted))
		})
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	cfg := config.DefaultConfig(config.Test)
	cfg.Logging.Level = "loud"

	_, err := NewLogger(cfg)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewLoggerWritesRotatedFile(t *testing.T) {
	cfg := config.DefaultConfig(config.Test)
	cfg.Logging.File = filepath.Join(t.TempDir(), "graphedit.log")
	cfg.Logging.MaxSize = 1

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	logger.Info("graph saved")
	_ = logger.Sync()

	data, err := os.ReadFile(cfg.Logging.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"graph saved"`)
	assert.Contains(t, string(data), `"env":"test"`)
}
