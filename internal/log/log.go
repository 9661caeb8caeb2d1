// Package log provides the zap logger shared by the CLI and the HTTP server.
package log

import (
	"os"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level constants
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Default writes colored console lines to stderr so command output on stdout
// stays machine readable.
var Default = New(zapcore.AddSync(os.Stderr), true)

// New returns a sugared console logger writing to w at the shared level.
func New(w zapcore.WriteSyncer, color bool) *zap.SugaredLogger {
	cfg := encoderConfig
	if !color {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return zap.New(
		zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), w, zapLevel),
		zap.AddCaller(),
	).Sugar()
}

// Configure applies the settings: level from log_level, colors unless
// no_color is set.
func Configure(level string, noColor bool) {
	SetLevel(level)
	if noColor {
		Default = New(zapcore.AddSync(os.Stderr), false)
	}
}

// SetLevel sets the log level to the specified level.
// Valid levels are: "debug", "info", "warn", "error"
func SetLevel(level string) {
	switch level {
	case LevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case LevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	default:
		zapLevel.SetLevel(zapcore.InfoLevel)
	}
}

// Level returns the current level name.
func Level() string {
	return zapLevel.Level().String()
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Retry adapts a sugared logger to retryablehttp's key/value interface.
type Retry struct {
	L *zap.SugaredLogger
}

var _ retryablehttp.LeveledLogger = Retry{}

func (r Retry) Error(msg string, keysAndValues ...interface{}) { r.L.Errorw(msg, keysAndValues...) }
func (r Retry) Info(msg string, keysAndValues ...interface{})  { r.L.Debugw(msg, keysAndValues...) }
func (r Retry) Debug(msg string, keysAndValues ...interface{}) { r.L.Debugw(msg, keysAndValues...) }
func (r Retry) Warn(msg string, keysAndValues ...interface{})  { r.L.Warnw(msg, keysAndValues...) }
