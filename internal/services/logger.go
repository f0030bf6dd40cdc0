package services

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines common logging interface for all services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ProductionLogger adapts a zap SugaredLogger to Logger.
type ProductionLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// NewProductionLogger creates a JSON logger tagged with the service name.
func NewProductionLogger(service string) *ProductionLogger {
	return newZapLogger(service, zapcore.InfoLevel, true)
}

// NewDevelopmentLogger creates a human-readable console logger.
func NewDevelopmentLogger(service string) *ProductionLogger {
	return newZapLogger(service, zapcore.DebugLevel, false)
}

func newZapLogger(service string, level zapcore.Level, structured bool) *ProductionLogger {
	atom := zap.NewAtomicLevelAt(level)

	cfg := zap.NewProductionConfig()
	if !structured {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = atom
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}

	return &ProductionLogger{
		sugar: base.Sugar().With("service", service),
		level: atom,
	}
}

// SetLevel updates the logging level
func (p *ProductionLogger) SetLevel(level zapcore.Level) {
	p.level.SetLevel(level)
}

func (p *ProductionLogger) Info(msg string, keysAndValues ...interface{}) {
	p.sugar.Infow(msg, keysAndValues...)
}

func (p *ProductionLogger) Error(msg string, keysAndValues ...interface{}) {
	p.sugar.Errorw(msg, keysAndValues...)
}

func (p *ProductionLogger) Debug(msg string, keysAndValues ...interface{}) {
	p.sugar.Debugw(msg, keysAndValues...)
}

func (p *ProductionLogger) Warn(msg string, keysAndValues ...interface{}) {
	p.sugar.Warnw(msg, keysAndValues...)
}

// Sync flushes buffered entries.
func (p *ProductionLogger) Sync() error {
	return p.sugar.Sync()
}

// NoOpLogger is a logger that does nothing (for testing)
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}

// NewLogger builds a logger from GO_ENV and LOG_LEVEL.
func NewLogger(service string) Logger {
	env := os.Getenv("GO_ENV")
	if env == "test" {
		return &NoOpLogger{}
	}
	return NewLoggerWithLevel(service, env, os.Getenv("LOG_LEVEL"))
}

// NewLoggerWithLevel is NewLogger with explicit environment and level.
func NewLoggerWithLevel(service, env, logLevel string) Logger {
	var logger *ProductionLogger
	if env == "production" {
		logger = NewProductionLogger(service)
	} else {
		logger = NewDevelopmentLogger(service)
	}

	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		logger.SetLevel(zapcore.DebugLevel)
	case "INFO":
		logger.SetLevel(zapcore.InfoLevel)
	case "WARN":
		logger.SetLevel(zapcore.WarnLevel)
	case "ERROR":
		logger.SetLevel(zapcore.ErrorLevel)
	}

	return logger
}
