// Package observability builds the zap logger and the Prometheus collector
// shared by every command.
package observability

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"graphedit/infrastructure/config"
	pkgerrors "graphedit/pkg/errors"
)

// NewLogger creates a logger from the logging section of the configuration.
// Production uses the JSON encoder with sampling; development the coloured
// console encoder. A non-empty Logging.File adds a rotated file sink.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
		zcfg.Sampling = &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		}
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid log level: " + cfg.Logging.Level).WithCause(err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.Logging.Format == "json" {
		zcfg.Encoding = "json"
		zcfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	} else {
		zcfg.Encoding = "console"
	}

	// Diagnostics go to stderr so stdout stays usable for graph output
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	opts := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
	if cfg.Logging.File != "" {
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.Logging.File,
				MaxSize:    cfg.Logging.MaxSize,
				MaxAge:     cfg.Logging.MaxAge,
				MaxBackups: cfg.Logging.MaxBackups,
			}),
			zcfg.Level,
		)
		opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore)
		}))
	}

	logger, err := zcfg.Build(opts...)
	if err != nil {
		return nil, pkgerrors.NewInternalError("build logger").WithCause(err)
	}
	return logger.With(zap.String("env", string(cfg.Environment))), nil
}

// MustLogger is NewLogger for main packages
func MustLogger(cfg *config.Config) *zap.Logger {
	logger, err := NewLogger(cfg)
	if err != nil {
		_, _ = os.Stderr.WriteString("graphedit: " + err.Error() + "\n")
		os.Exit(1)
	}
	return logger
}
