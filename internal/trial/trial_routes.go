package trial

import (
	"github.com/gin-gonic/gin"
)

// RegisterTrialRoutes wires the coach-facing trial endpoints and the admin
// assignment endpoint. Role gating happens on the passed-in groups.
func RegisterTrialRoutes(coach *gin.RouterGroup, admin *gin.RouterGroup, controller *TrialController) {
	trials := coach.Group("/trials")
	{
		trials.GET("", controller.ListMine)
		trials.PUT("/:id/evaluate", controller.Evaluate)
		trials.POST("/:id/medical-form", controller.SubmitMedicalForm)
		trials.POST("/:id/medical-report", controller.UploadMedicalReport)
	}

	admin.PUT("/trials/:id/assign", controller.Assign)
}
