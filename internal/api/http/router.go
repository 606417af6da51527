package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Authenticator *auth.Authenticator
}

// RegisterRoutes wires HTTP routes. Sign-out runs behind the authenticator
// so the handler sees the resolved identity; the middleware itself never
// rejects, so an unauthenticated sign-out still reaches the handler and
// gets the structured failure payload.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/sign_up", cfg.Auth.SignUp)
	authGroup.Post("/sign_in", cfg.Auth.SignIn)
	authGroup.Delete("/sign_out", cfg.Authenticator.Middleware, cfg.Auth.SignOut)
}
