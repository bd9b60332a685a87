package utils

import (
	"testing"

	"coachhub/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitializeLoggerLevels(t *testing.T) {
	saved, savedLogger := config.AppConfig, Logger
	t.Cleanup(func() {
		config.AppConfig, Logger = saved, savedLogger
		if savedLogger != nil {
			zap.ReplaceGlobals(savedLogger)
		}
	})

	tests := []struct {
		name  string
		env   string
		level string
		want  zapcore.Level
	}{
		{"development defaults to debug", "development", "", zap.DebugLevel},
		{"production defaults to info", "production", "", zap.InfoLevel},
		{"explicit level wins", "development", "warn", zap.WarnLevel},
		{"unknown level falls back", "production", "loud", zap.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.AppConfig = config.Config{Env: tt.env, LogLevel: tt.level}
			InitializeLogger()
			assert.True(t, Logger.Core().Enabled(tt.want))
			if tt.want > zap.DebugLevel {
				assert.False(t, Logger.Core().Enabled(tt.want-1))
			}
		})
	}
}
