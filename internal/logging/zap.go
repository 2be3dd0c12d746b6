package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// core forwards zap entries into a Logger so zap-instrumented dependencies
// share the service's output format and level gate.
type core struct {
	logger *Logger
	fields []zapcore.Field
}

// NewZapLogger wraps the logger in a *zap.Logger.
func NewZapLogger(l *Logger) *zap.Logger {
	return zap.New(&core{logger: l})
}

func (c *core) Enabled(level zapcore.Level) bool {
	return c.logger.enabled(zapToLevel(level))
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &core{logger: c.logger, fields: merged}
}

func (c *core) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *core) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	c.logger.log(zapToLevel(entry.Level), entry.Message, enc.Fields)
	return nil
}

func (c *core) Sync() error { return nil }

func zapToLevel(level zapcore.Level) Level {
	switch {
	case level <= zapcore.DebugLevel:
		return DebugLevel
	case level == zapcore.InfoLevel:
		return InfoLevel
	case level == zapcore.WarnLevel:
		return WarnLevel
	default:
		// DPanic and above also map to error: exiting the process is the
		// host application's call, not a log adapter's.
		return ErrorLevel
	}
}
