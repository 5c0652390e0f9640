// Package router mounts the domain routers under the versioned API prefix.
package router

import (
	"github.com/gofiber/fiber/v3"

	basehdl "github.com/AbdUllahO7/idigitek-server/internal/api/base/handler"
)

// RoutePrefix holds the API prefixes.
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix returns the default prefixes.
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// Router is handed to every domain Register function.
type Router struct {
	app *fiber.App
}

// NewRouter wraps app.
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// App returns the fiber app the routes are mounted on.
func (r *Router) App() *fiber.App {
	return r.app
}

// RegisterFunc mounts the routes of one domain.
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes mounts the health check and every domain under /api/v1.
// Domains are passed in by the caller to keep this package free of domain
// imports.
func SetupRoutes(app *fiber.App, system *basehdl.SystemHandler, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	if system != nil {
		app.Get("/health", system.HandleHealth)
		v1.Get("/system/health", system.HandleHealth)
	}
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
