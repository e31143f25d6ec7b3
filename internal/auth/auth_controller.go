// Package auth is thin sign-in plumbing: it turns a phone + MPIN pair into a
// JWT the middleware understands. OTP delivery, lockout and the rest of the
// identity stack live outside this service.
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khelsetu/academy/config"
	"github.com/khelsetu/academy/internal/user"
	"github.com/khelsetu/academy/pkg/responses"
	"github.com/khelsetu/academy/pkg/token"
	"github.com/khelsetu/academy/pkg/utils"
	"github.com/khelsetu/academy/pkg/validator"
)

type AuthController struct {
	users  user.UserRepository
	config *config.Config
}

func NewAuthController(users user.UserRepository, cfg *config.Config) *AuthController {
	return &AuthController{users: users, config: cfg}
}

type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	MPIN  string `json:"mpin" binding:"required,len=4,numeric"`
}

type LoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	MPIN  string `json:"mpin" binding:"required"`
}

type AuthResponse struct {
	AccessToken string     `json:"access_token"`
	User        *user.User `json:"user"`
}

// Register godoc
// @Summary Register a new applicant account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration details"
// @Success 201 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrors(c, validator.ParseError(err))
		return
	}

	phone, err := validator.NormalizeMobile(req.Phone)
	if err != nil {
		responses.BadRequest(c, "phone: "+err.Error())
		return
	}

	existing, err := ac.users.GetUserByPhone(phone)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if existing != nil {
		responses.SendError(c, http.StatusConflict, "An account with this phone number already exists")
		return
	}

	hash, err := utils.HashMPIN(req.MPIN)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}

	newUser := &user.User{
		Name:     req.Name,
		Phone:    phone,
		MPINHash: hash,
		Role:     user.RoleApplicant,
		Status:   user.StatusActive,
	}
	if err := ac.users.CreateUser(newUser); err != nil {
		responses.InternalServerError(c, "account creation failed")
		return
	}

	accessToken, err := token.GenerateJWT(newUser.ID, newUser.Role,
		ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Account created", AuthResponse{
		AccessToken: accessToken,
		User:        newUser,
	})
}

// Login godoc
// @Summary Sign in with phone and MPIN
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} responses.SuccessResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrors(c, validator.ParseError(err))
		return
	}

	phone, err := validator.NormalizeMobile(req.Phone)
	if err != nil {
		responses.BadRequest(c, "phone: "+err.Error())
		return
	}

	u, err := ac.users.GetUserByPhone(phone)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	if u == nil || !utils.CheckMPIN(u.MPINHash, req.MPIN) {
		responses.Unauthorized(c, "Invalid phone number or MPIN")
		return
	}
	if u.Status != user.StatusActive {
		responses.Unauthorized(c, "Account is inactive")
		return
	}

	accessToken, err := token.GenerateJWT(u.ID, u.Role,
		ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		responses.InternalServerError(c, "")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Signed in", AuthResponse{
		AccessToken: accessToken,
		User:        u,
	})
}

// RegisterAuthRoutes wires the public auth endpoints.
func RegisterAuthRoutes(public *gin.RouterGroup, controller *AuthController) {
	authGroup := public.Group("/auth")
	{
		authGroup.POST("/register", controller.Register)
		authGroup.POST("/login", controller.Login)
	}
}
