package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/pkg/code"
	"github.com/crochee/actionstore/pkg/logger"
	"github.com/crochee/actionstore/pkg/resp"
)

var maskedHeaders = []string{"Authorization", "Cookie"}

// Recovery turns a panic into a 500 and logs the request that caused it
func Recovery(c *gin.Context) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		log := logger.From(c.Request.Context())
		log.Error("[Recovery] panic",
			zap.Any("panic", r),
			zap.String("request", dumpRequest(c.Request)),
			zap.ByteString("stack", debug.Stack()))
		extra := fmt.Sprint(r)
		if brokenPipe(r) {
			// the client is gone, nothing can be written back
			c.Abort()
			return
		}
		resp.Error(c, code.ErrInternalServerError.WithResult(extra))
	}()
	c.Next()
}

func brokenPipe(r interface{}) bool {
	ne, ok := r.(*net.OpError)
	if !ok {
		return false
	}
	var se *os.SyscallError
	if !errors.As(ne.Err, &se) {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}

func dumpRequest(req *http.Request) string {
	clone := req.Clone(req.Context())
	for _, h := range maskedHeaders {
		if clone.Header.Get(h) != "" {
			clone.Header.Set(h, "*")
		}
	}
	data, err := httputil.DumpRequest(clone, false)
	if err != nil {
		return err.Error()
	}
	return string(data)
}
