package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/outage-service/internal/api/http/handlers"
	"github.com/spec-kit/outage-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Webhook        *handlers.WebhookHandler
	Crises         *handlers.CrisisHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
	WebhookAuth    fiber.Handler
	Metrics        http.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))

	app.Post("/auth/token", cfg.Auth.IssueToken)
	app.Post("/webhooks/device-down", cfg.WebhookAuth, cfg.Webhook.DeviceDown)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/crisis-events", cfg.Crises.List)
	api.Get("/crisis-events/:id", cfg.Crises.Get)
	api.Post("/crisis-events/:id/resolve", cfg.Crises.Resolve)
	api.Get("/tickets", cfg.Tickets.List)
	api.Get("/tickets/:id", cfg.Tickets.Get)
}
