package approval

import (
	"github.com/gin-gonic/gin"
)

// RegisterApprovalRoutes wires the admin review endpoints.
func RegisterApprovalRoutes(admin *gin.RouterGroup, controller *ApprovalController) {
	apps := admin.Group("/applications")
	{
		apps.GET("", controller.ListForReview)
		apps.POST("/:id/approve", controller.Approve)
		apps.POST("/:id/reject", controller.Reject)
		apps.POST("/:id/hold", controller.Hold)
	}
}
