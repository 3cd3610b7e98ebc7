package logger

import (
	"log"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Init builds the process-wide logger. Production gets JSON output at info level,
// everything else gets the colored development console encoder.
func Init(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	}
	if err != nil {
		return nil, err
	}
	Set(l)
	return l, nil
}

// Set replaces the global logger. Tests use it to install an observer.
func Set(l *zap.Logger) {
	mu.Lock()
	global = l
	mu.Unlock()
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// StdLog adapts the global logger for APIs that want a *log.Logger (gorm, net/http).
func StdLog() *log.Logger {
	return zap.NewStdLog(L())
}

func Sync() {
	_ = L().Sync()
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }
