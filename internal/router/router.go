package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/upliftco/uplift-api/internal/config"
	"github.com/upliftco/uplift-api/internal/handler"
	"github.com/upliftco/uplift-api/internal/middleware"
	"github.com/upliftco/uplift-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler      *handler.ActivityHandler
	AdminCharityHandler  *handler.AdminCharityHandler
	AdminStoryHandler    *handler.AdminStoryHandler
	AdminCommentHandler  *handler.AdminCommentHandler
	AdminUserHandler     *handler.AdminUserHandler
	AdminDonorHandler    *handler.AdminDonorHandler
	AdminSettingsHandler *handler.AdminSettingsHandler
	JWTMiddleware        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	admin := api.Group("/admin",
		jwtMiddleware,
		middleware.RequirePlatformAdmin(),
		middleware.RateLimit("admin", 120, time.Minute),
	)

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin)
	}
	if deps.AdminCharityHandler != nil {
		deps.AdminCharityHandler.Register(admin.Group("/charities"))
	}
	if deps.AdminStoryHandler != nil {
		deps.AdminStoryHandler.Register(admin.Group("/stories"))
	}
	if deps.AdminCommentHandler != nil {
		deps.AdminCommentHandler.Register(admin.Group("/comments"))
	}
	if deps.AdminUserHandler != nil {
		deps.AdminUserHandler.Register(admin.Group("/users"))
	}
	if deps.AdminDonorHandler != nil {
		deps.AdminDonorHandler.Register(admin.Group("/donors"))
	}
	if deps.AdminSettingsHandler != nil {
		deps.AdminSettingsHandler.Register(admin.Group("/settings"))
	}
}
