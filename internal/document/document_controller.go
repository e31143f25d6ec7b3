package document

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/khelsetu/academy/internal/common"
	"github.com/khelsetu/academy/pkg/responses"
	"github.com/khelsetu/academy/pkg/validator"
)

type DocumentController struct {
	service *Service
}

func NewDocumentController(service *Service) *DocumentController {
	return &DocumentController{service: service}
}

// Upload godoc
// @Summary Upload a document
// @Description Attach an evidentiary file to an application, player or coach
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param owner_type formData string true "PLAYER_APPLICATION, PLAYER or COACH"
// @Param owner_id formData int true "Owner id"
// @Param document_type formData string true "Document type tag"
// @Param file formData file true "File"
// @Success 201 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /documents [post]
// @Security Bearer
func (dc *DocumentController) Upload(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	role, _ := common.GetRoleFromContext(c)

	ownerType, err := ParseOwnerType(c.PostForm("owner_type"))
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	ownerID, err := strconv.ParseUint(c.PostForm("owner_id"), 10, 64)
	if err != nil {
		responses.BadRequest(c, "owner_id must be a positive integer")
		return
	}
	docType := c.PostForm("document_type")

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

	doc, err := dc.service.Upload(
		OwnerRef{Type: ownerType, ID: uint(ownerID)},
		docType,
		FileInput{Data: data, FileName: fileHeader.Filename, MimeType: fileHeader.Header.Get("Content-Type")},
		userID,
		role,
	)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Document uploaded", doc)
}

// ListForOwner godoc
// @Summary List documents for an owner
// @Tags documents
// @Produce json
// @Param type path string true "Owner type"
// @Param id path int true "Owner id"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /documents/owner/{type}/{id} [get]
// @Security Bearer
func (dc *DocumentController) ListForOwner(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	role, _ := common.GetRoleFromContext(c)

	ownerType, err := ParseOwnerType(c.Param("type"))
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	ownerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		responses.BadRequest(c, "id must be a positive integer")
		return
	}
	docs, err := dc.service.ListForOwner(OwnerRef{Type: ownerType, ID: uint(ownerID)}, userID, role)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Documents retrieved", docs)
}

// DownloadURL godoc
// @Summary Get a short-lived signed download URL for a document
// @Tags documents
// @Produce json
// @Param id path int true "Document id"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /documents/{id}/url [get]
// @Security Bearer
func (dc *DocumentController) DownloadURL(c *gin.Context) {
	userID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	role, _ := common.GetRoleFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		responses.BadRequest(c, "id must be a positive integer")
		return
	}
	url, err := dc.service.SignedURLFor(uint(id), userID, role)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Signed URL generated", gin.H{"url": url})
}

type verifyRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// VerifyDocument godoc
// @Summary Verify or reject a document (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Document id"
// @Param body body verifyRequest true "Verification decision"
// @Success 200 {object} responses.SuccessResponse
// @Router /admin/documents/{id}/verify [put]
// @Security Bearer
func (dc *DocumentController) VerifyDocument(c *gin.Context) {
	adminID, err := common.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		responses.BadRequest(c, "id must be a positive integer")
		return
	}
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrors(c, validator.ParseError(err))
		return
	}
	doc, err := dc.service.Verify(uint(id), req.Status, req.Reason, adminID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Document verification updated", doc)
}
