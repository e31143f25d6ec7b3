package document

import (
	"github.com/gin-gonic/gin"
)

// RegisterDocumentRoutes wires the authenticated document endpoints.
func RegisterDocumentRoutes(authed *gin.RouterGroup, admin *gin.RouterGroup, controller *DocumentController) {
	docs := authed.Group("/documents")
	{
		docs.POST("", controller.Upload)
		docs.GET("/owner/:type/:id", controller.ListForOwner)
		docs.GET("/:id/url", controller.DownloadURL)
	}

	admin.PUT("/documents/:id/verify", controller.VerifyDocument)
}
