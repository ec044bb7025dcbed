package router

import (
	"context"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/auth"
	"github.com/anonto42/futsal-matcher/backend/internal/handlers"
	"github.com/anonto42/futsal-matcher/backend/internal/middleware"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/anonto42/futsal-matcher/backend/internal/validators"
	"github.com/anonto42/futsal-matcher/backend/pkg/firebase"
	"github.com/anonto42/futsal-matcher/backend/pkg/metrics"
	"github.com/anonto42/futsal-matcher/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Options carries the collaborators SetupRoutes wires into the handlers.
type Options struct {
	Tokens       *auth.TokenManager
	Store        storage.Store
	Firebase     firebase.TokenVerifier // nil disables Firebase login
	Log          logrus.FieldLogger
	CookieSecure bool
	RateLimiter  *middleware.RateLimiter // nil disables rate limiting
	Ping         func(ctx context.Context) error
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, repos *Repositories, opts Options) {
	log := opts.Log
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = apperrors.NewHTTPErrorHandler(log)
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger(log))

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(opts.Ping))

	// --- Services ---
	notifier := services.NewNotificationService(repos.Notifications, repos.Users, log)
	authService := services.NewAuthService(repos.Users, opts.Tokens, opts.Firebase, log)
	chatService := services.NewChatService(repos.Chats, repos.Users, notifier)
	messageService := services.NewMessageService(repos.Chats, repos.Messages, repos.Users, opts.Store, notifier, log)
	matchService := services.NewMatchService(repos.Matches, repos.Users, notifier)
	feedbackService := services.NewFeedbackService(repos.Feedback, repos.Matches, repos.Users, notifier)
	profileService := services.NewProfileService(repos.Users, repos.Profiles)
	venueService := services.NewVenueService(repos.Venues)
	uploadService := services.NewUploadService(opts.Store)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(authService, opts.CookieSecure).RegisterAuthRoutes(authGroup)
	log.WithField("firebase", authService.FirebaseEnabled()).Debug("Auth routes configured.")

	// --- Protected routes (require a session token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(authService))
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.Middleware())
	}

	handlers.NewUserHandler(profileService).RegisterProfileRoutes(api)
	handlers.NewChatHandler(chatService).RegisterChatRoutes(api)
	handlers.NewMessageHandler(messageService).RegisterMessageRoutes(api)
	handlers.NewNotificationHandler(notifier).RegisterNotificationRoutes(api)
	handlers.NewMatchHandler(matchService).RegisterMatchRoutes(api)
	handlers.NewFeedbackHandler(feedbackService).RegisterFeedbackRoutes(api)
	handlers.NewVenueHandler(venueService).RegisterVenueRoutes(api)
	handlers.NewUploadHandler(uploadService).RegisterUploadRoutes(api)

	log.Info("All routes configured.")
}
