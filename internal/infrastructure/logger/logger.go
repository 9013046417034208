// Package logger builds the structured zap logger used across the service.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	FilePath   string // empty = stdout only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New creates a JSON zap logger at the configured level. When FilePath is set
// output goes to a rotating file instead of stdout. The returned cleanup
// function flushes the logger and closes the file.
func New(cfg Config) (*zap.Logger, func() error, error) {
	lvl, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	if cfg.FilePath == "" {
		config := zap.NewProductionConfig()
		config.Level = lvl
		config.OutputPaths = []string{"stdout"}
		logger, err := config.Build(zap.AddCaller())
		if err != nil {
			return nil, nil, err
		}
		return logger, syncer(logger), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, nil, err
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(lj),
		lvl,
	)
	logger := zap.New(core, zap.AddCaller())

	cleanup := func() error {
		_ = logger.Sync()
		return lj.Close()
	}
	return logger, cleanup, nil
}

func syncer(logger *zap.Logger) func() error {
	return func() error {
		// Sync on stdout returns EINVAL on some platforms.
		_ = logger.Sync()
		return nil
	}
}
