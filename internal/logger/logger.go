package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op until Init runs so that
// packages can log from tests without setup.
var Log = zap.NewNop()

var (
	once  sync.Once
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// LevelEnv selects the minimum log level (debug, info, warn, error).
const LevelEnv = "POOLSIDE_LOG_LEVEL"

func Init() {
	once.Do(func() {
		level.SetLevel(ParseLevel(os.Getenv(LevelEnv)))
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Level = level
		l, err := cfg.Build()
		if err != nil {
			return
		}
		Log = l
	})
}

// SetDebug switches the running logger to debug level.
func SetDebug(debug bool) {
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}
}

func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Sync() {
	_ = Log.Sync()
}
