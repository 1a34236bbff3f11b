package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/crm-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Guard     *auth.AuthMiddleware
	Routes    auth.RouteAuthorization
}

// RegisterRoutes wires HTTP routes. Each protected area of the route table
// is mounted behind the guard; anything unmatched renders not-found.
// The app should be created with CaseSensitive routing so that view routes
// and the route table agree on which paths are protected.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) error {
	if err := cfg.Routes.Validate(); err != nil {
		return err
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(auth.LoginPath, http.StatusFound)
	})

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Get(auth.LoginPath, cfg.Auth.LoginView)
	app.Post(auth.LoginPath, cfg.Auth.Login)
	app.Post("/logout", cfg.Auth.Logout)
	app.Get("/api/session", cfg.Auth.Session)

	app.Use(protectedAreas(cfg.Routes, cfg.Guard))
	for _, rule := range cfg.Routes {
		app.Get(rule.Prefix, cfg.Dashboard.Home)
		app.Get(rule.Prefix+"/messages", cfg.Dashboard.Messages)
		app.Get(rule.Prefix+"/settings", cfg.Dashboard.Settings)
	}

	app.Use(handlers.NotFound)
	return nil
}

// protectedAreas runs the guard for paths the route table covers and
// passes everything else through untouched.
func protectedAreas(routes auth.RouteAuthorization, guard *auth.AuthMiddleware) fiber.Handler {
	guards := make(map[string]fiber.Handler, len(routes))
	for _, rule := range routes {
		guards[rule.Prefix] = guard.Require(rule.Roles)
	}
	return func(c *fiber.Ctx) error {
		rule, ok := routes.Match(c.Path())
		if !ok {
			return c.Next()
		}
		return guards[rule.Prefix](c)
	}
}
