package gormx

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	pkglogger "github.com/crochee/actionstore/pkg/logger"
)

// NewLog adapts zap to gorm. Statements are traced through the logger found in
// the statement context, l is used when the context carries none.
func NewLog(l *zap.Logger, debug bool, cfg logger.Config) logger.Interface {
	return &gormLog{
		Logger: l.WithOptions(zap.WithCaller(false)),
		Config: cfg,
		debug:  debug,
	}
}

type gormLog struct {
	*zap.Logger
	logger.Config
	debug bool
}

func (g *gormLog) LogMode(level logger.LogLevel) logger.Interface {
	l := *g
	l.LogLevel = level
	return &l
}

func (g *gormLog) from(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return g.Logger
	}
	if l := pkglogger.From(ctx); l.Core().Enabled(zap.ErrorLevel) {
		return l.WithOptions(zap.WithCaller(false))
	}
	return g.Logger
}

func (g *gormLog) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.LogLevel >= logger.Info {
		g.from(ctx).Sugar().Infof(msg, data...)
	}
}

func (g *gormLog) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.LogLevel >= logger.Warn {
		g.from(ctx).Sugar().Warnf(msg, data...)
	}
}

func (g *gormLog) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.LogLevel >= logger.Error {
		g.from(ctx).Sugar().Errorf(msg, data...)
	}
}

const NanosecondPerMillisecond = 1e6

func (g *gormLog) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.LogLevel <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	fields := func(sql string, rows int64) []zap.Field {
		return []zap.Field{
			zap.String("line", utils.FileWithLineNum()),
			zap.Float64("elapsed_ms", float64(elapsed.Nanoseconds())/NanosecondPerMillisecond),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		}
	}
	l := g.from(ctx)
	switch {
	case err != nil && g.LogLevel >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.Error("sql failed", append(fields(sql, rows), zap.Error(err))...)
	case elapsed > g.SlowThreshold && g.SlowThreshold != 0 && g.LogLevel >= logger.Warn:
		sql, rows := fc()
		l.Warn("slow sql", append(fields(sql, rows), zap.Duration("threshold", g.SlowThreshold))...)
	case g.LogLevel == logger.Info && g.debug:
		sql, rows := fc()
		l.Debug("sql", fields(sql, rows)...)
	}
}
