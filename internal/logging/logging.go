// Package logging builds the zap loggers used by the command and HTTP
// component.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-contactform/internal/config"
)

// New returns a logger for cfg: production JSON output by default, the
// development console encoder when cfg.Development is set.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	return NewWith(cfg, func(*zap.Config) {})
}

// NewWith is New with a hook to adjust the zap.Config before it is built.
func NewWith(cfg config.LogConfig, fn func(*zap.Config)) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if fn != nil {
		fn(&zc)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}
	return logger.Named("contactform"), nil
}

// ParseLevel maps a config level onto zap. Empty means info.
func ParseLevel(raw string) (zapcore.Level, error) {
	if strings.TrimSpace(raw) == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}
