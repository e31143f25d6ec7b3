package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/khelsetu/academy/config"
	"github.com/khelsetu/academy/internal/application"
	"github.com/khelsetu/academy/internal/approval"
	"github.com/khelsetu/academy/internal/auth"
	"github.com/khelsetu/academy/internal/document"
	"github.com/khelsetu/academy/internal/middleware"
	"github.com/khelsetu/academy/internal/notification"
	"github.com/khelsetu/academy/internal/player"
	"github.com/khelsetu/academy/internal/storage"
	"github.com/khelsetu/academy/internal/team"
	"github.com/khelsetu/academy/internal/trial"
	"github.com/khelsetu/academy/internal/user"
)

// SetupRoutes builds the gin engine and wires every repository, service and
// controller together.
func SetupRoutes(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	r := gin.Default()
	r.Use(cors.Default())

	store, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.App.BaseURL, cfg.Storage.FileSigningSecret)
	if err != nil {
		return nil, err
	}

	// Repositories
	userRepo := user.NewUserRepository(db)
	teamRepo := team.NewTeamRepository(db)
	appRepo := application.NewApplicationRepository(db)
	trialRepo := trial.NewTrialRepository(db)
	docRepo := document.NewDocumentRepository(db)
	playerRepo := player.NewPlayerRepository(db)
	notifier := notification.NewNotifier(db)

	owners := ownerDirectory{apps: appRepo, players: playerRepo, users: userRepo}

	// Services
	docService := document.NewService(docRepo, store, notifier, owners,
		time.Duration(cfg.Storage.SignedURLTTLSeconds)*time.Second)
	appService := application.NewService(appRepo, docRepo, trialRepo, teamRepo, notifier,
		cfg.Approval.AllowResubmission)
	trialService := trial.NewService(trialRepo, appRepo, userRepo, docService, notifier)
	approvalService := approval.NewService(appRepo, trialRepo, docRepo, playerRepo, userRepo, notifier,
		cfg.Approval.RequireDocuments)

	// Controllers
	authController := auth.NewAuthController(userRepo, cfg)
	appController := application.NewApplicationController(appService)
	trialController := trial.NewTrialController(trialService)
	docController := document.NewDocumentController(docService)
	approvalController := approval.NewApprovalController(approvalService)
	teamController := team.NewTeamController(teamRepo)
	playerController := player.NewPlayerController(playerRepo)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "academy-api", "status": "ok"})
	})

	// Signed file downloads; the signature and expiry come from SignURL.
	r.GET("/files/:key", func(c *gin.Context) {
		path, err := store.Open(c.Param("key"), c.Query("exp"), c.Query("sig"))
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.File(path)
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, authController)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, db))

	coach := authed.Group("")
	coach.Use(middleware.RequireRoles(user.RoleCoach))

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(user.RoleAdmin))

	application.RegisterApplicationRoutes(authed, appController)
	document.RegisterDocumentRoutes(authed, admin, docController)
	trial.RegisterTrialRoutes(coach, admin, trialController)
	approval.RegisterApprovalRoutes(admin, approvalController)
	team.RegisterTeamRoutes(authed, teamController)
	player.RegisterPlayerRoutes(authed, playerController)

	return r, nil
}
