package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the structured logger used across the application.
var Log *zap.Logger

// SLog is the sugared variant of Log for printf-style call sites.
var SLog *zap.SugaredLogger

func init() {
	// Tests and tools may use the package before InitLogger runs.
	Log = zap.NewNop()
	SLog = Log.Sugar()
}

// InitLogger configures the global loggers. Production mode emits JSON,
// anything else uses the human readable development encoder.
func InitLogger(env string) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		os.Stderr.WriteString("logger init failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	Log = logger
	SLog = logger.Sugar()
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
