package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger contains a logger.
type Logger struct {
	DebugMode bool
	Log       *zap.SugaredLogger
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return Logger{Log: zap.NewNop().Sugar()}
}

// New builds a Logger writing to stderr. With json set the output is
// zap's production encoding, otherwise a console encoding meant for humans.
func New(debug, json bool) (Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if isTerminal() {
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return Nop(), err
	}
	return Logger{DebugMode: debug, Log: l.Sugar()}, nil
}

// Sugar returns the underlying logger, or a no-op one if none was set.
func (l Logger) Sugar() *zap.SugaredLogger {
	if l.Log == nil {
		return zap.NewNop().Sugar()
	}
	return l.Log
}

// Debugw logs only in debug mode.
func (l Logger) Debugw(msg string, keysAndValues ...interface{}) {
	if !l.DebugMode {
		return
	}
	l.Sugar().Debugw(msg, keysAndValues...)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l Logger) Sync() {
	if l.Log != nil {
		_ = l.Log.Sync()
	}
}

var isTerminal = func() bool {
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
