// Package logger builds the process-wide zap logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted through LOGGING_LEVEL.
const (
	LevelProduction  = "PRODUCTION"
	LevelDevelopment = "DEVELOPMENT"
)

// New returns a sugared logger for the given level and installs it as the
// zap global. Unknown levels fall back to production. Output always goes to
// stderr; stdout is reserved for the MCP transport.
func New(level string) *zap.SugaredLogger {
	var cfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	var lvl zapcore.Level

	switch level {
	case LevelDevelopment:
		cfg = zap.NewDevelopmentEncoderConfig()
		enc = zapcore.NewConsoleEncoder(cfg)
		lvl = zap.DebugLevel
	default:
		cfg = zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
		lvl = zap.InfoLevel
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)
	log := zap.New(core, zap.AddCaller())
	zap.ReplaceGlobals(log)

	return log.Sugar()
}
