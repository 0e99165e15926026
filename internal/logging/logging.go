package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Init builds the process logger from LOG_LEVEL and redirects the standard
// library logger to it. Safe to call more than once.
func Init() *zap.Logger {
	once.Do(func() {
		var err error

		switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
		case "debug":
			logger, err = zap.NewDevelopment()
		case "off", "none":
			logger = zap.NewNop()
		default:
			cfg := zap.NewProductionConfig()
			cfg.Encoding = "console"
			cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
			logger, err = cfg.Build()
		}

		if err != nil {
			logger = zap.NewNop()
		}

		_ = zap.RedirectStdLog(logger)
	})

	return logger
}

// Logger returns the process logger, initializing it if needed.
func Logger() *zap.Logger { return Init() }

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
