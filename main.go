package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juliebook/juliebook-be/internal/api"
	"github.com/juliebook/juliebook-be/internal/auth"
	"github.com/juliebook/juliebook-be/internal/config"
	"github.com/juliebook/juliebook-be/internal/database"
	"github.com/juliebook/juliebook-be/internal/logger"
	"github.com/juliebook/juliebook-be/internal/monitoring"
	"github.com/juliebook/juliebook-be/internal/services"
	"github.com/juliebook/juliebook-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the token issuer shared by the login endpoint and the middleware
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	cardService := services.NewCardService(db)
	eventService := services.NewEventService(db)
	backupService := services.NewBackupService(cfg.DatabasePath, cfg.BackupPath, eventService)

	// Set up and run the background stats updater
	statUpdater := monitoring.NewStatUpdater(hub, eventService)
	go statUpdater.Run()

	// Set up and run the scheduled database backup
	backupScheduler, err := monitoring.NewBackupScheduler(backupService, cfg.BackupSchedule)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.BackupSchedule).Msg("Invalid backup schedule")
	}
	go backupScheduler.Run()

	// Set up router
	router := api.NewRouter(tokens, hub, userService, cardService, eventService, cfg.CORSOrigin)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statUpdater.Stop()
	backupScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
