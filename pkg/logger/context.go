package logger

import (
	"context"

	"go.uber.org/zap"
)

type logKey struct{}

// From returns the logger carried by ctx, or a no-op logger
func From(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(logKey{}).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return l
}

func With(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, l)
}

// WithFields derives a child logger with fields and stores it in ctx
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return With(ctx, From(ctx).With(fields...))
}
