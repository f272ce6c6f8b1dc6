package logger

import (
	"io"

	"go.uber.org/zap/zapcore"
)

type option struct {
	level       string
	encoder     func(zapcore.EncoderConfig) zapcore.Encoder
	writer      io.Writer
	serviceName string
}

type Option func(*option)

// WithLevel is parsed by zapcore, an unknown level means info
func WithLevel(level string) Option {
	return func(o *option) {
		o.level = level
	}
}

func WithWriter(w io.Writer) Option {
	return func(o *option) {
		o.writer = w
	}
}

func WithServerName(name string) Option {
	return func(o *option) {
		o.serviceName = name
	}
}

// WithJSON switches the console encoder for JSON lines
func WithJSON(json bool) Option {
	return func(o *option) {
		if json {
			o.encoder = zapcore.NewJSONEncoder
		}
	}
}
