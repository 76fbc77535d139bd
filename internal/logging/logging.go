package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var redactedKeys = map[string]struct{}{
	"password":      {},
	"token":         {},
	"access_token":  {},
	"api_key":       {},
	"authorization": {},
	"secret":        {},
}

// Logger is a leveled key/value logger backed by zap.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New creates a console logger. mode "prod" switches to JSON output.
func New(level, mode string) *Logger {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(levelFromString(level))

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewExample()
	}
	return &Logger{sugar: base.Sugar()}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func levelFromString(value string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return zapcore.ErrorLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "info":
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func (l *Logger) Debug(msg string, kv ...any) { l.get().Debugw(msg, sanitize(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.get().Infow(msg, sanitize(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.get().Warnw(msg, sanitize(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.get().Errorw(msg, sanitize(kv)...) }

// With returns a child logger carrying the given fields.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{sugar: l.get().With(sanitize(kv)...)}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.get().Sync()
}

func (l *Logger) get() *zap.SugaredLogger {
	if l == nil || l.sugar == nil {
		return zap.NewNop().Sugar()
	}
	return l.sugar
}

func sanitize(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			out = append(out, key)
			break
		}
		if _, ok := redactedKeys[strings.ToLower(key)]; ok {
			out = append(out, key, "[redacted]")
			continue
		}
		out = append(out, key, kv[i+1])
	}
	return out
}
