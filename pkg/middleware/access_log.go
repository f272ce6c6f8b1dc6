package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crochee/actionstore/pkg/logger"
)

// Log writes one access line per request
func Log(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path
	raw := c.Request.URL.RawQuery

	c.Next()

	param := gin.LogFormatterParams{
		Request: c.Request,
		Keys:    c.Keys,
	}
	param.TimeStamp = time.Now()
	param.Latency = param.TimeStamp.Sub(start)

	param.ClientIP = c.ClientIP()
	param.Method = c.Request.Method
	param.StatusCode = c.Writer.Status()
	param.ErrorMessage = c.Errors.ByType(gin.ErrorTypePrivate).String()
	param.BodySize = c.Writer.Size()
	if raw != "" {
		path = path + "?" + raw
	}
	param.Path = path
	logger.From(c.Request.Context()).Info(formatAccess(&param))
}

func formatAccess(param *gin.LogFormatterParams) string {
	if param.Latency > time.Minute {
		param.Latency -= param.Latency % time.Second
	}
	var buf strings.Builder
	buf.WriteString(strconv.Itoa(param.StatusCode))
	buf.WriteString(" | ")
	buf.WriteString(param.Latency.String())
	buf.WriteString(" | ")
	buf.WriteString(param.ClientIP)
	buf.WriteString(" | ")
	buf.WriteString(param.Method)
	buf.WriteString(" |")
	buf.WriteString(strconv.Itoa(param.BodySize))
	buf.WriteString("| ")
	buf.WriteString(param.Path)
	if param.ErrorMessage != "" {
		buf.WriteString(" | ")
		buf.WriteString(param.ErrorMessage)
	}
	return buf.String()
}
