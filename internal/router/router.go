package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/HavanaWeb3/HVNA-sub002/internal/handler"
	"github.com/HavanaWeb3/HVNA-sub002/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Engagement *handler.EngagementHandler
	Diversity  *handler.DiversityHandler
	Earnings   *handler.EarningsHandler
	Warnings   *handler.WarningHandler
	Moderation *handler.ModerationHandler
	Health     *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics (before API group, no rate limiting)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	engagementLimit := middleware.NewEngagementRateLimiter()
	earningsLimit := middleware.NewEarningsRateLimiter()
	readLimit := middleware.NewReadRateLimiter()
	adminLimit := middleware.NewAdminRateLimiter()

	api := app.Group("/api")

	// Engagement intake
	api.Post("/engagements", h.Engagement.Record, engagementLimit.Handler())

	// Per-post policy checks
	api.Get("/posts/:postId/velocity", h.Engagement.Velocity, readLimit.Handler())
	api.Get("/posts/:postId/diversity", h.Diversity.Score, readLimit.Handler())
	api.Get("/posts/:postId/breakdown", h.Diversity.Breakdown, readLimit.Handler())

	// Earnings
	api.Post("/posts/:postId/earnings", h.Earnings.Process, earningsLimit.Handler())
	api.Get("/posts/:postId/earnings/preview", h.Earnings.Preview, readLimit.Handler())

	// Creator standing
	api.Get("/creators/:creatorId/status", h.Warnings.Status, readLimit.Handler())
	api.Get("/creators/:creatorId/warnings", h.Warnings.List, readLimit.Handler())

	// Moderation
	api.Post("/moderation/evaluate", h.Moderation.Evaluate, adminLimit.Handler())

	// Admin
	api.Get("/admin/pods", h.Diversity.Pods, adminLimit.Handler())
	api.Get("/admin/trends", h.Diversity.Trends, adminLimit.Handler())
	api.Post("/admin/warnings/clear-expired", h.Warnings.ClearExpired, adminLimit.Handler())
}
