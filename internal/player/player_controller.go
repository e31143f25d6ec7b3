package player

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khelsetu/academy/pkg/responses"
)

type PlayerController struct {
	repo PlayerRepository
}

func NewPlayerController(repo PlayerRepository) *PlayerController {
	return &PlayerController{repo: repo}
}

// GetByPublicID godoc
// @Summary Look up an active player by public id
// @Tags players
// @Produce json
// @Param public_id path string true "Public player id (PLR-XXXX)"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/{public_id} [get]
// @Security Bearer
func (pc *PlayerController) GetByPublicID(c *gin.Context) {
	p, err := pc.repo.GetByPublicID(c.Param("public_id"))
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if p == nil {
		responses.NotFound(c, "Player")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Player retrieved", p)
}

// RegisterPlayerRoutes wires the read-side player endpoints.
func RegisterPlayerRoutes(authed *gin.RouterGroup, controller *PlayerController) {
	authed.GET("/players/:public_id", controller.GetByPublicID)
}
