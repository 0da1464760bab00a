package engine

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the engine's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger replaces the engine's logger. Call before any other engine
// operation; later calls race with concurrent logging.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	logger = l
}

// debugf is a no-op debug helper. Enable by setting debugEnabled = true.
var debugEnabled = false

func debugf(format string, args ...any) {
	if debugEnabled {
		Logger().Sugar().Debugf(format, args...)
	}
}
