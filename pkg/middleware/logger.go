package middleware

import (
	"github.com/gin-gonic/gin"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/pkg/logger"
)

// HeaderTraceID carries the request id in and out
const HeaderTraceID = "X-Trace-ID"

// RequestLogger puts log, tagged with the request's trace id, into the request context
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = uuid.NewV4().String()
			c.Request.Header.Set(HeaderTraceID, traceID)
		}
		c.Writer.Header().Set(HeaderTraceID, traceID)
		l := log.With(zap.String("trace_id", traceID), zap.String("client_ip", c.ClientIP()))
		c.Request = c.Request.WithContext(logger.With(c.Request.Context(), l))
		c.Next()
	}
}
