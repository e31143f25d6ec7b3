package trial

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/khelsetu/academy/internal/common"
	"github.com/khelsetu/academy/internal/document"
	"github.com/khelsetu/academy/pkg/responses"
	"github.com/khelsetu/academy/pkg/validator"
)

type TrialController struct {
	service *Service
}

func NewTrialController(service *Service) *TrialController {
	return &TrialController{service: service}
}

func trialIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		responses.BadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// ListMine godoc
// @Summary List trials visible to the calling coach
// @Description Own trials plus unassigned pending trials claimable by any active coach
// @Tags trials
// @Produce json
// @Param status query string false "Filter own trials by status"
// @Success 200 {object} responses.SuccessResponse
// @Router /trials [get]
// @Security Bearer
func (tc *TrialController) ListMine(c *gin.Context) {
	coachID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	trials, err := tc.service.ListVisibleTo(coachID, c.Query("status"))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Trials retrieved", trials)
}

type evaluateRequest struct {
	Outcome         string `json:"outcome" binding:"required"`
	Notes           string `json:"notes"`
	AadhaarVerified *bool  `json:"aadhaar_verified"`
}

// Evaluate godoc
// @Summary Record a trial outcome (coach)
// @Tags trials
// @Accept json
// @Produce json
// @Param id path int true "Trial id"
// @Param body body evaluateRequest true "Evaluation"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /trials/{id}/evaluate [put]
// @Security Bearer
func (tc *TrialController) Evaluate(c *gin.Context) {
	coachID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	trialID, ok := trialIDParam(c)
	if !ok {
		return
	}
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrors(c, validator.ParseError(err))
		return
	}
	t, err := tc.service.Evaluate(trialID, coachID, req.Outcome, req.Notes, req.AadhaarVerified)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Trial evaluated", t)
}

// SubmitMedicalForm godoc
// @Summary Submit the medical checklist, optionally with the report file (coach)
// @Tags trials
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Trial id"
// @Param checklist formData string true "Checklist JSON"
// @Param verified formData bool true "Checklist verified flag"
// @Param file formData file false "Medical report"
// @Success 200 {object} responses.SuccessResponse
// @Router /trials/{id}/medical-form [post]
// @Security Bearer
func (tc *TrialController) SubmitMedicalForm(c *gin.Context) {
	coachID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	trialID, ok := trialIDParam(c)
	if !ok {
		return
	}

	var checklist Checklist
	if raw := c.PostForm("checklist"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &checklist); err != nil {
			responses.BadRequest(c, "checklist must be valid JSON")
			return
		}
	}
	verified, _ := strconv.ParseBool(c.PostForm("verified"))

	var report *document.FileInput
	if fileHeader, err := c.FormFile("file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			responses.InternalServerError(c, "could not read uploaded file")
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			responses.InternalServerError(c, "could not read uploaded file")
			return
		}
		report = &document.FileInput{
			Data:     data,
			FileName: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
		}
	}

	t, err := tc.service.SubmitMedicalForm(trialID, coachID, checklist, verified, report)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Medical form submitted", t)
}

// UploadMedicalReport godoc
// @Summary Upload only the medical report file (coach)
// @Tags trials
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Trial id"
// @Param file formData file true "Medical report"
// @Success 200 {object} responses.SuccessResponse
// @Router /trials/{id}/medical-report [post]
// @Security Bearer
func (tc *TrialController) UploadMedicalReport(c *gin.Context) {
	coachID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	trialID, ok := trialIDParam(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.BadRequest(c, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		responses.InternalServerError(c, "could not read uploaded file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		responses.InternalServerError(c, "could not read uploaded file")
		return
	}

	t, err := tc.service.UploadMedicalReport(trialID, coachID, document.FileInput{
		Data:     data,
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Medical report uploaded", t)
}

type assignRequest struct {
	CoachID       uint   `json:"coach_id" binding:"required"`
	ScheduledDate string `json:"scheduled_date"`
	ScheduledTime string `json:"scheduled_time"`
	Venue         string `json:"venue"`
}

// Assign godoc
// @Summary Assign a coach and optional schedule to a trial (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Trial id"
// @Param body body assignRequest true "Assignment"
// @Success 200 {object} responses.SuccessResponse
// @Failure 412 {object} responses.ErrorResponse
// @Router /admin/trials/{id}/assign [put]
// @Security Bearer
func (tc *TrialController) Assign(c *gin.Context) {
	trialID, ok := trialIDParam(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrors(c, validator.ParseError(err))
		return
	}
	var schedule *ScheduleInput
	if req.ScheduledDate != "" || req.ScheduledTime != "" || req.Venue != "" {
		schedule = &ScheduleInput{Date: req.ScheduledDate, Time: req.ScheduledTime, Venue: req.Venue}
	}
	t, err := tc.service.Assign(trialID, req.CoachID, schedule)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Trial assigned", t)
}
