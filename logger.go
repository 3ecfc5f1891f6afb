package sqlbuilder

import (
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type LogLevel int

const (
	LogLevelDev LogLevel = iota
	LogLevelProd
)

// Logger receives executed statements at debug level, whole table UPDATE and
// DELETE warnings, and statement failures at error level.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// zapLogger gets its methods from the embedded sugared logger, which already
// tags every entry with its level.
type zapLogger struct {
	*zap.SugaredLogger
}

// NewLogger builds a zap logger named "sqlbuilder": console output down to
// debug for LogLevelDev, JSON from info up for LogLevelProd.
func NewLogger(level LogLevel) (Logger, error) {
	var conf zap.Config
	switch level {
	case LogLevelDev:
		conf = zap.NewDevelopmentConfig()
	case LogLevelProd:
		conf = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("sqlbuilder: unknown log level %d", level)
	}
	l, err := conf.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l.Named("sqlbuilder")), nil
}

// NewZapLogger wraps an already configured zap logger.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{l.Sugar()}
}

// NopLogger discards everything, it is used when Config.Logger is nil.
func NopLogger() Logger {
	return zapLogger{zap.NewNop().Sugar()}
}

var logQueries = atomic.NewBool(false)

// SetQueryLogging turns logging of every executed statement on or off for the
// whole process. Set it during initialization.
func SetQueryLogging(enabled bool) {
	logQueries.Store(enabled)
}

func QueryLoggingEnabled() bool {
	return logQueries.Load()
}
