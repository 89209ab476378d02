package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/upliftco/uplift-api/internal/config"
	"github.com/upliftco/uplift-api/internal/database"
	"github.com/upliftco/uplift-api/internal/handler"
	"github.com/upliftco/uplift-api/internal/middleware"
	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/repository"
	"github.com/upliftco/uplift-api/internal/router"
	"github.com/upliftco/uplift-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.ActivityEvent{},
		&models.Charity{},
		&models.Story{},
		&models.Comment{},
		&models.User{},
		&models.Donor{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	activityRepo := repository.NewActivityLogRepository(db)
	charityRepo := repository.NewCharityRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	donorRepo := repository.NewDonorRepository(db)

	activityService := service.NewActivityService(activityRepo, natsConn, cfg.StreamSubject, logger)
	enrichmentService := service.NewEnrichmentService(userRepo, charityRepo, donorRepo, storyRepo, logger)
	statsService := service.NewAdminStatsService(activityService, redisClient, cfg.StatsCacheTTL, logger)
	feedSnapshots := service.NewFeedSnapshotService(activityService, enrichmentService, redisClient, cfg.FeedCacheTTL, cfg.FeedPageSize, logger)
	charityService := service.NewAdminCharityService(charityRepo, activityService, validate, logger)
	storyService := service.NewAdminStoryService(storyRepo, activityService, validate, logger)
	commentService := service.NewAdminCommentService(commentRepo, activityService, validate, logger)
	userService := service.NewAdminUserService(userRepo, activityService, validate, logger)
	donorService := service.NewAdminDonorService(donorRepo, activityService, validate, logger)
	settingsService := service.NewAdminSettingsService(redisClient, activityService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	corsOrigins := "*"
	if cfg.AppEnv == "production" {
		corsOrigins = "https://admin.uplift.org"
	}
	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: corsOrigins})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler:      handler.NewActivityHandler(activityService, enrichmentService, statsService, feedSnapshots, natsConn, cfg.StreamSubject, logger),
		AdminCharityHandler:  handler.NewAdminCharityHandler(charityService, logger),
		AdminStoryHandler:    handler.NewAdminStoryHandler(storyService, logger),
		AdminCommentHandler:  handler.NewAdminCommentHandler(commentService, logger),
		AdminUserHandler:     handler.NewAdminUserHandler(userService, logger),
		AdminDonorHandler:    handler.NewAdminDonorHandler(donorService, logger),
		AdminSettingsHandler: handler.NewAdminSettingsHandler(settingsService, logger),
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
