package router

import (
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/notifier"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/anonto42/nano-social/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Dependencies are the long-lived clients the routes are built on. Activities
// and Publisher fall back to no-ops; FirebaseVerifier may be nil.
type Dependencies struct {
	DB               *gorm.DB
	Activities       repositories.ActivityRepository
	Publisher        notifier.Publisher
	FirebaseVerifier middleware.TokenVerifier
	JWTSecret        string
}

// ConfigureEcho installs the validator, the JSON serializer and the error
// handler shared by every route.
func ConfigureEcho(e *echo.Echo) {
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.JSONSerializer = handlers.JSONSerializer{}
	e.HTTPErrorHandler = handlers.ErrorHandler
}

// SetupRoutes migrates the schema and registers all application routes
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	if err := models.AutoMigrate(deps.DB); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info().Msg("relational auto-migrations completed")

	if deps.Activities == nil {
		deps.Activities = repositories.NewNopActivityRepository()
	}
	if deps.Publisher == nil {
		deps.Publisher = notifier.NewRedisPublisher(nil)
	}

	// --- Services ---
	accountService := services.NewAccountService(deps.DB)
	activityService := services.NewActivityService(deps.DB, deps.Activities)
	postService := services.NewPostService(deps.DB, deps.Activities)
	commentService := services.NewCommentService(deps.DB)
	followService := services.NewFollowService(deps.DB, deps.Activities)
	feedService := services.NewFeedService(deps.DB)
	likeService := services.NewLikeService(deps.DB, deps.Publisher, deps.Activities)
	notificationService := services.NewNotificationService(deps.DB)

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(deps.DB).HealthCheck)

	// --- Unprotected routes for authentication ---
	var firebaseAuth echo.MiddlewareFunc
	if deps.FirebaseVerifier != nil {
		firebaseAuth = middleware.FirebaseAuthMiddleware(deps.FirebaseVerifier)
	}
	handlers.NewAuthHandler(accountService, deps.JWTSecret).RegisterAuthRoutes(e.Group("/api/v1/auth"), firebaseAuth)

	public := e.Group("/api/v1")
	protected := e.Group("/api/v1", middleware.JWTAuthMiddleware(deps.JWTSecret))

	handlers.NewUserHandler(accountService, activityService).RegisterUserRoutes(public, protected)
	handlers.NewPostHandler(postService).RegisterPostRoutes(public, protected)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(public, protected)
	handlers.NewFollowHandler(followService).RegisterFollowRoutes(public, protected)
	handlers.NewLikeHandler(likeService).RegisterLikeRoutes(public, protected)
	handlers.NewFeedHandler(feedService).RegisterFeedRoutes(protected)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(protected)

	log.Info().Int("routes", len(e.Routes())).Msg("all routes configured")
	return nil
}
