package badgerfx

import (
	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// zapLogger adapts zap to badger.Logger. Badger reports compactions and
// value log replays at info level, they are logged at debug.
type zapLogger struct {
	*zap.SugaredLogger
}

func newLogger(l *zap.Logger) *zapLogger {
	return &zapLogger{
		SugaredLogger: l.Sugar(),
	}
}

// Infof implements badger.Logger.
func (l *zapLogger) Infof(format string, a ...any) {
	l.Debugf(format, a...)
}

// Warningf implements badger.Logger.
func (l *zapLogger) Warningf(format string, a ...any) {
	l.Warnf(format, a...)
}

var _ badger.Logger = (*zapLogger)(nil)
