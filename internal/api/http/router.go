package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/lead-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/lead-dashboard/internal/auth"
	"github.com/spec-kit/lead-dashboard/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Leads          *handlers.LeadsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
	LoginLimiter   *auth.LoginLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Post("/auth/login", cfg.LoginLimiter.Handle, cfg.Auth.Login)

	leads := api.Group("/leads", cfg.AuthMiddleware.Handle)
	leads.Get("/", cfg.Leads.ListLeads)
	leads.Post("/", cfg.Leads.CreateLead)
	leads.Get("/:id", cfg.Leads.GetLead)

	analytics := api.Group("/analytics", cfg.AuthMiddleware.Handle)
	analytics.Get("/summary", cfg.Analytics.Summary)
}
