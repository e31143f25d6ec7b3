package approval

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/khelsetu/academy/internal/common"
	"github.com/khelsetu/academy/pkg/responses"
	"github.com/khelsetu/academy/pkg/validator"
)

type ApprovalController struct {
	service *Service
}

func NewApprovalController(service *Service) *ApprovalController {
	return &ApprovalController{service: service}
}

func applicationIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		responses.BadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// Approve godoc
// @Summary Approve an application and activate the player (admin)
// @Tags admin
// @Produce json
// @Param id path int true "Application id"
// @Success 200 {object} responses.SuccessResponse
// @Failure 412 {object} responses.ErrorResponse
// @Router /admin/applications/{id}/approve [post]
// @Security Bearer
func (ac *ApprovalController) Approve(c *gin.Context) {
	adminID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	appID, ok := applicationIDParam(c)
	if !ok {
		return
	}
	newPlayer, err := ac.service.Approve(appID, adminID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Application approved", newPlayer)
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// Reject godoc
// @Summary Reject an application with a reason (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Application id"
// @Param body body reasonRequest true "Rejection reason"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /admin/applications/{id}/reject [post]
// @Security Bearer
func (ac *ApprovalController) Reject(c *gin.Context) {
	adminID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	appID, ok := applicationIDParam(c)
	if !ok {
		return
	}
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrors(c, validator.ParseError(err))
		return
	}
	if err := ac.service.Reject(appID, adminID, req.Reason); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Application rejected", nil)
}

// Hold godoc
// @Summary Put an application on hold (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Application id"
// @Param body body reasonRequest false "Optional reason"
// @Success 200 {object} responses.SuccessResponse
// @Router /admin/applications/{id}/hold [post]
// @Security Bearer
func (ac *ApprovalController) Hold(c *gin.Context) {
	adminID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	appID, ok := applicationIDParam(c)
	if !ok {
		return
	}
	var req reasonRequest
	_ = c.ShouldBindJSON(&req) // body optional
	if err := ac.service.Hold(appID, adminID, req.Reason); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Application placed on hold", nil)
}

// ListForReview godoc
// @Summary List applications for review with risk flags (admin)
// @Tags admin
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} responses.PaginatedResponse
// @Router /admin/applications [get]
// @Security Bearer
func (ac *ApprovalController) ListForReview(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	items, total, err := ac.service.ListForReview(c.Query("status"), page, limit)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Applications retrieved", items, total, page, limit)
}
