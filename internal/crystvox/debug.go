package crystvox

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logMu  sync.RWMutex
	logger = zap.NewNop().Sugar()
	once   sync.Once
)

// SetLogger installs l as the package logger. A nil logger restores the no-op one.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		logger = zap.NewNop().Sugar()
		return
	}
	logger = l.Named("crystvox").Sugar()
}

func log() *zap.SugaredLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

func DebugLog(format string, args ...interface{}) {
	if !Debug {
		return
	}
	log().Debugf(format, args...)
}

func DebugLogOnce(format string, args ...interface{}) {
	if !Debug {
		return
	}
	once.Do(func() {
		log().Debugf(format, args...)
	})
}
