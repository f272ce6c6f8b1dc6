package resp

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crochee/actionstore/pkg/code"
	"github.com/crochee/actionstore/pkg/logger"
)

type response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Result  interface{} `json:"result"`
}

// Error gin Response with error
func Error(c *gin.Context, err error) {
	e, ok := code.From(err)
	if !ok || e.StatusCode() >= 500 {
		logger.From(c.Request.Context()).Error("response failed", zap.Error(err))
	} else {
		logger.From(c.Request.Context()).Debug("request rejected", zap.Error(err))
	}
	c.AbortWithStatusJSON(e.StatusCode(), &response{
		Code:    formatCode(e),
		Message: e.Message(),
		Result:  e.Result(),
	})
}

// ErrorParam gin response with invalid parameter tip
func ErrorParam(c *gin.Context, err error) {
	Error(c, code.ErrInvalidParam.WithResult(err.Error()))
}

func formatCode(e code.ErrorCode) string {
	if e.ServiceName() == "" {
		return fmt.Sprintf("%3d%s", e.StatusCode(), e.Code())
	}
	return fmt.Sprintf("%s.%3d%s", e.ServiceName(), e.StatusCode(), e.Code())
}
