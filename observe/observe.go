// Package observe wires tagskema parse events into zap. Nothing in the core
// packages logs; callers opt in by installing these hooks.
package observe

import (
	"context"
	"errors"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/union"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level selects the minimum level of a logger built by NewLogger.
type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

// Config configures NewLogger.
type Config struct {
	Level Level
	// Component is attached to every entry as the "component" field.
	Component string
}

// NewLogger builds a JSON zap logger writing to stderr.
func NewLogger(cfg Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(cfg.Level.zap()),
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if cfg.Component != "" {
		zc.InitialFields = map[string]any{"component": cfg.Component}
	}
	return zc.Build()
}

func (l Level) zap() zapcore.Level {
	switch l {
	case Debug:
		return zap.DebugLevel
	case Warn:
		return zap.WarnLevel
	case Error:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// LogUnknown returns a union hook that records every unknown-variant fallback
// at debug level. A nil logger yields a no-op hook.
func LogUnknown(l *zap.Logger) union.UnknownHook {
	if l == nil {
		l = zap.NewNop()
	}
	return func(_ context.Context, discriminant string, raw map[string]any) {
		l.Debug("unknown union variant",
			zap.String("discriminant", discriminant),
			zap.Int("keys", len(raw)),
			zap.Strings("fields", tagskema.SortedKeys(raw)),
		)
	}
}

// LogIssues logs err under msg. Each Issue becomes its own warn entry;
// errors that are not Issues are logged once at error level.
func LogIssues(l *zap.Logger, msg string, err error) {
	if l == nil || err == nil {
		return
	}
	iss, ok := tagskema.AsIssues(err)
	if !ok {
		lvl := zap.ErrorLevel
		if errors.Is(err, tagskema.ErrInvariant) {
			lvl = zap.DPanicLevel
		}
		l.Log(lvl, msg, zap.Error(err))
		return
	}
	for _, it := range iss {
		l.Warn(msg, IssueFields(it)...)
	}
}

// IssueFields renders an Issue as structured fields.
func IssueFields(it tagskema.Issue) []zap.Field {
	fs := []zap.Field{
		zap.String("path", it.Path),
		zap.String("code", it.Code),
		zap.String("message", it.Message),
	}
	if it.Expected != "" {
		fs = append(fs, zap.String("expected", it.Expected))
	}
	if it.Actual != "" {
		fs = append(fs, zap.String("actual", it.Actual))
	}
	if it.Hint != "" {
		fs = append(fs, zap.String("hint", it.Hint))
	}
	if it.Cause != nil {
		fs = append(fs, zap.NamedError("cause", it.Cause))
	}
	return fs
}
