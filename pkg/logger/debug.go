package logger

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/crochee/actionstore/pkg/code"
)

// RegisterLog exposes a switch that forces every logger to debug level
func RegisterLog(router gin.IRouter) {
	router.GET("/log", getLog)
	router.PUT("/log", updateLog)
}

var debug uint32

type DebugContent struct {
	Debug *bool `json:"debug" binding:"required"`
}

func getLog(c *gin.Context) {
	enabled := atomic.LoadUint32(&debug) == 1
	c.JSON(http.StatusOK, DebugContent{Debug: &enabled})
}

func updateLog(c *gin.Context) {
	var req DebugContent
	if err := c.ShouldBindWith(&req, binding.JSON); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, code.ErrInvalidParam.WithResult(err.Error()))
		return
	}
	if *req.Debug {
		atomic.StoreUint32(&debug, 1)
	} else {
		atomic.StoreUint32(&debug, 0)
	}
	c.Status(http.StatusNoContent)
}
