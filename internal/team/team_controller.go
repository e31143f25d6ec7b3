package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/khelsetu/academy/pkg/responses"
)

type TeamController struct {
	repo TeamRepository
}

func NewTeamController(repo TeamRepository) *TeamController {
	return &TeamController{repo: repo}
}

// ListTeams godoc
// @Summary List teams applicants can express preferences for
// @Tags teams
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} responses.PaginatedResponse
// @Router /teams [get]
// @Security Bearer
func (tc *TeamController) ListTeams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	teams, total, err := tc.repo.ListAll(page, limit)
	if err != nil {
		responses.InternalServerError(c, "failed to list teams")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Teams retrieved", teams, total, page, limit)
}

// RegisterTeamRoutes wires the read-side team endpoints.
func RegisterTeamRoutes(authed *gin.RouterGroup, controller *TeamController) {
	authed.GET("/teams", controller.ListTeams)
}
