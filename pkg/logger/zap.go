package logger

import (
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger, console encoded to stdout unless told otherwise
func New(opts ...Option) *zap.Logger {
	o := &option{
		level:   zapcore.InfoLevel.String(),
		encoder: zapcore.NewConsoleEncoder,
		writer:  os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	core := zapcore.NewCore(
		o.encoder(newEncoderConfig()),
		zap.CombineWriteSyncers(zapcore.AddSync(o.writer)),
		NewChangeLevel(o.level),
	).With([]zap.Field{zap.String("service_name", o.serviceName)})
	// stack traces from dpanic upwards
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.DPanicLevel), zap.WithClock(utcClock{}))
}

func newEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "Message",
		LevelKey:       "Level",
		TimeKey:        "Time",
		NameKey:        "Logger",
		CallerKey:      "Caller",
		StacktraceKey:  "Stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}

func newLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		l = zap.InfoLevel
	}
	return l
}

// utcClock stamps every entry in UTC, the same zone actions are stored in.
type utcClock struct{}

func (utcClock) Now() time.Time {
	return time.Now().UTC()
}

func (utcClock) NewTicker(duration time.Duration) *time.Ticker {
	return time.NewTicker(duration)
}

func NewChangeLevel(level string) *changeLevel {
	return &changeLevel{
		level: newLevel(level),
	}
}

type changeLevel struct {
	level zapcore.Level
}

func (ch *changeLevel) Enabled(lvl zapcore.Level) bool {
	if atomic.LoadUint32(&debug) == 1 {
		return true
	}
	return lvl >= ch.level
}
