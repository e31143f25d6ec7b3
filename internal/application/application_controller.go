package application

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khelsetu/academy/internal/common"
	"github.com/khelsetu/academy/pkg/responses"
	"github.com/khelsetu/academy/pkg/validator"
)

type ApplicationController struct {
	service *Service
}

func NewApplicationController(service *Service) *ApplicationController {
	return &ApplicationController{service: service}
}

// SaveDraft godoc
// @Summary Create or update the caller's application draft
// @Tags applications
// @Accept json
// @Produce json
// @Param draft body DraftInput true "Draft fields"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /applications/draft [post]
// @Security Bearer
func (ac *ApplicationController) SaveDraft(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	var input DraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		responses.ValidationErrors(c, validator.ParseError(err))
		return
	}
	app, err := ac.service.CreateOrUpdateDraft(userID, input)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Draft saved", app)
}

// Submit godoc
// @Summary Submit the caller's application for trial
// @Tags applications
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Failure 409 {object} responses.ErrorResponse
// @Failure 412 {object} responses.ErrorResponse
// @Router /applications/submit [post]
// @Security Bearer
func (ac *ApplicationController) Submit(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	app, trialID, err := ac.service.Submit(userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Application submitted", gin.H{
		"application": app,
		"trial_id":    trialID,
	})
}

// Status godoc
// @Summary Get the caller's application status snapshot
// @Tags applications
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /applications/status [get]
// @Security Bearer
func (ac *ApplicationController) Status(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	snapshot, err := ac.service.GetStatus(userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Application status retrieved", snapshot)
}
