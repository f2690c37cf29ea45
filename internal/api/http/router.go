package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-service/internal/api/http/handlers"
	"github.com/spec-kit/query-service/internal/auth"
	"github.com/spec-kit/query-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Queries        *handlers.QueriesHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The role middleware is a routing
// convenience; authorization proper happens in the service-layer gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	queries := app.Group("/queries", cfg.AuthMiddleware.Handle)
	queries.Post("", auth.RequireRole(domain.RoleClient), cfg.Queries.Create)
	queries.Get("/mine", auth.RequireRole(domain.RoleClient), cfg.Queries.ListMine)
	queries.Get("", auth.RequireRole(domain.RoleSupport), cfg.Queries.ListAll)
	queries.Patch("/:id/status", auth.RequireRole(domain.RoleSupport), cfg.Queries.Transition)

	reports := app.Group("/reports", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSupport))
	reports.Get("/status-counts", cfg.Reports.StatusCounts)
	reports.Get("/submissions", cfg.Reports.Submissions)
}
