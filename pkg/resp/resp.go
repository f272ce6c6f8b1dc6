package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes data as json, or 204 when there is nothing to send
func Success(c *gin.Context, data ...interface{}) {
	if len(data) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, WrapResult(data...))
}

// WrapResult wraps result in the envelope errors use, with code 200
func WrapResult(result ...interface{}) interface{} {
	response := map[string]interface{}{
		"code":    "200",
		"message": "ok",
	}
	if len(result) > 0 {
		response["result"] = result[0]
	}
	return response
}
