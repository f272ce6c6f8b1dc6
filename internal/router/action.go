package router

import (
	"github.com/gin-gonic/gin"

	"github.com/crochee/actionstore/internal/controllers/action"
	"github.com/crochee/actionstore/internal/service"
)

func registerAction(router *gin.RouterGroup, srv service.Service) {
	actionController := action.NewActionController(srv)

	actionGroup := router.Group("/actions")
	{
		actionGroup.GET("", actionController.List)
		actionGroup.GET("/:id", actionController.Get)
		actionGroup.POST("/:id/cancel", actionController.Cancel)
		actionGroup.DELETE("/:id", actionController.Delete)
	}
	router.GET("/find", actionController.Find)
	router.GET("/counts", actionController.Counts)
}
