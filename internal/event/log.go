package event

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"
)

// NewLoggerAdapter routes watermill's logging to zap
func NewLoggerAdapter(l *zap.Logger) watermill.LoggerAdapter {
	return &zapAdapter{l: l}
}

type zapAdapter struct {
	l *zap.Logger
}

func fields(f watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func (z *zapAdapter) Error(msg string, err error, f watermill.LogFields) {
	z.l.Error(msg, append(fields(f), zap.Error(err))...)
}

func (z *zapAdapter) Info(msg string, f watermill.LogFields) {
	z.l.Info(msg, fields(f)...)
}

func (z *zapAdapter) Debug(msg string, f watermill.LogFields) {
	z.l.Debug(msg, fields(f)...)
}

func (z *zapAdapter) Trace(msg string, f watermill.LogFields) {
	z.l.Debug(msg, fields(f)...)
}

func (z *zapAdapter) With(f watermill.LogFields) watermill.LoggerAdapter {
	return &zapAdapter{l: z.l.With(fields(f)...)}
}
