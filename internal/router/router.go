package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sanmiguel-edu/colegio-api/internal/config"
	"github.com/sanmiguel-edu/colegio-api/internal/handler"
	"github.com/sanmiguel-edu/colegio-api/internal/middleware"
	"github.com/sanmiguel-edu/colegio-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	PromotionHandler  *handler.PromotionHandler
	AuditHandler      *handler.AuditHandler
	ReportCardHandler *handler.ReportCardHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.PromotionHandler != nil {
		promotions := api.Group("/promotions", jwtMiddleware)
		deps.PromotionHandler.Register(promotions,
			middleware.RequireRole(middleware.ElevatedRoles...),
			middleware.RateLimit("promotion_execute", 5, time.Minute),
		)

		if deps.AuditHandler != nil {
			deps.AuditHandler.Register(promotions)
		}
	}

	if deps.ReportCardHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.ReportCardHandler.Register(students)
	}
}
