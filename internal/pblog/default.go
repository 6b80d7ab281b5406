package pblog

import (
	"log/slog"
	"sync"
)

var defaultOnce = sync.Once{}

func SetDefaultLog(logger *slog.Logger) {
	if logger == nil {
		return
	}

	defaultOnce.Do(func() {
		slog.SetDefault(logger)
	})
}

// OrNoop returns the logger, or a logger that discards everything if it is nil.
func OrNoop(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return NewNoopLogger()
	}
	return logger
}
