package main

import (
	"log"

	"github.com/khelsetu/academy/config"
	_ "github.com/khelsetu/academy/docs"
	"github.com/khelsetu/academy/internal/application"
	"github.com/khelsetu/academy/internal/document"
	"github.com/khelsetu/academy/internal/notification"
	"github.com/khelsetu/academy/internal/player"
	"github.com/khelsetu/academy/internal/team"
	"github.com/khelsetu/academy/internal/trial"
	"github.com/khelsetu/academy/internal/user"
	"github.com/khelsetu/academy/routes"
)

// @title Academy Registration API
// @version 1.0
// @description Athlete application, trial and approval lifecycle service.
// @host localhost:8088
// @BasePath /api
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{},
		&team.Team{},
		&application.PlayerApplication{},
		&trial.Trial{},
		&document.Document{},
		&player.Player{},
		&notification.Notification{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r, err := routes.SetupRoutes(config.DB, cfg)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
