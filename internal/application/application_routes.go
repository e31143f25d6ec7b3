package application

import (
	"github.com/gin-gonic/gin"
)

// RegisterApplicationRoutes wires the owner-facing application endpoints.
func RegisterApplicationRoutes(authed *gin.RouterGroup, controller *ApplicationController) {
	apps := authed.Group("/applications")
	{
		apps.POST("/draft", controller.SaveDraft)
		apps.POST("/submit", controller.Submit)
		apps.GET("/status", controller.Status)
	}
}
