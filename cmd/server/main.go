package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/notifier"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/router"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/fatih/color"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	fmt.Printf("%s\n", color.New(color.FgHiCyan).Add(color.Bold).Sprintf("nano-social"))
	fmt.Printf("Posts, tags, follows and likes over a small REST API\n")
	color.HiBlack("=====================================================\n")

	cfg := config.Load()
	config.SetupLogger(cfg)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	defer db.CloseDB()

	deps := router.Dependencies{
		DB:        db.SQL,
		Publisher: notifier.NewRedisPublisher(db.Redis),
		JWTSecret: cfg.JWTSecret,
	}
	if db.Mongo != nil {
		deps.Activities = repositories.NewMongoActivityRepository(db.Mongo.Database(cfg.MongoDatabase))
	}

	if cfg.FirebaseCredentialsPath != "" {
		app, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Error().Err(err).Msg("Firebase login will be disabled")
		} else {
			deps.FirebaseVerifier = app.AuthClient
		}
	}

	e := echo.New()
	router.ConfigureEcho(e)
	config.SetupMiddleware(e)
	if err := router.SetupRoutes(e, deps); err != nil {
		log.Fatal().Err(err).Msg("Failed to configure routes")
	}

	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	pruner := services.NewNotificationService(db.SQL)
	if _, err := pruner.SchedulePrune(quartz, cfg.NotificationPruneSchedule, cfg.NotificationRetention); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.NotificationPruneSchedule).Msg("Invalid notification prune schedule")
	}
	quartz.Start()

	metricsServer := metrics.NewServer(cfg.MetricsPort)
	go metrics.Serve(metricsServer)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	<-quartz.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Metrics server shutdown failed")
	}
}
