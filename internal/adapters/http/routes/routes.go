package routes

import (
	"caseflow/internal/adapters/http/handlers"
	"caseflow/internal/adapters/http/middleware"
	"caseflow/internal/adapters/persistence/repositories"
	"caseflow/internal/config"
	"caseflow/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, notifyService *services.NotifyService) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	caseFileRepo := repositories.NewCaseFileRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	caseFileService := services.NewCaseFileService(caseFileRepo, notifyService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	caseFileHandler := handlers.NewCaseFileHandler(caseFileService)
	eventsHandler := handlers.NewEventsHandler(notifyService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	caseRoutes := apiV1.Group("/cases")
	caseRoutes.Use(middleware.AuthMiddleware(cfg))
	setupCaseFileRoutes(caseRoutes, caseFileHandler)

	eventRoutes := apiV1.Group("/events")
	eventRoutes.Use(middleware.AuthMiddleware(cfg))
	setupEventRoutes(eventRoutes, eventsHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.StrictRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupCaseFileRoutes configures case-file routes. Transition endpoints are
// role-gated twice: once here at the route level and again inside the state
// machine, so a misrouted request can never slip an action through.
func setupCaseFileRoutes(router fiber.Router, handler *handlers.CaseFileHandler) {
	// Readable by every authenticated role
	router.Get("/", handler.List)
	router.Get("/stats", handler.Stats)
	router.Get("/pending-receipt", middleware.CreditAdminOnly(), handler.PendingReceipt)
	router.Get("/:id", handler.GetByID)

	// Relationship manager: lifecycle of the record itself
	router.Post("/", middleware.ManagerOnly(), handler.Create)
	router.Put("/:id", middleware.ManagerOnly(), handler.Update)
	router.Delete("/:id", middleware.ManagerOnly(), handler.Delete)

	// Director actions
	router.Put("/:id/hand-over", middleware.DirectorOnly(), handler.HandOver)
	router.Put("/:id/board-reject", middleware.DirectorOnly(), handler.BoardReject)

	// Credit administration actions
	router.Put("/:id/accept", middleware.CreditAdminOnly(), handler.Accept)
	router.Put("/:id/credit-reject", middleware.CreditAdminOnly(), handler.CreditReject)
	router.Put("/:id/return", middleware.CreditAdminOnly(), handler.Return)

	// Relationship manager: closing actions
	router.Put("/:id/confirm-documents", middleware.ManagerOnly(), handler.ConfirmDocuments)
	router.Put("/:id/decline-documents", middleware.ManagerOnly(), handler.DeclineDocuments)
}

// setupEventRoutes configures the live notification routes
func setupEventRoutes(router fiber.Router, handler *handlers.EventsHandler) {
	router.Get("/", handler.Stream)
	router.Get("/online", handler.Online)
}
