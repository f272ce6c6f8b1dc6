package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/pkg/logger"
)

// Tracing opens a server span per request and tags the request logger with its trace id
func Tracing(tp trace.TracerProvider, service string) gin.HandlerFunc {
	tracer := tp.Tracer(service)
	return func(c *gin.Context) {
		route := c.FullPath()
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
			))
		defer span.End()
		if sc := span.SpanContext(); sc.IsValid() {
			ctx = logger.WithFields(ctx, zap.String("otel_trace_id", sc.TraceID().String()))
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
