package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crochee/actionstore/pkg/code"
	"github.com/crochee/actionstore/pkg/resp"
)

// Health answers liveness probes with an empty body, the process serving
// http is all it checks
func Health(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// NoRoute answers unknown paths in the error envelope
func NoRoute(c *gin.Context) {
	resp.Error(c, code.ErrNotFound.WithResult(c.Request.URL.Path))
}

// NoMethod answers a known path asked with the wrong method
func NoMethod(c *gin.Context) {
	resp.Error(c, code.ErrNotAllowMethod.WithResult(c.Request.Method))
}
