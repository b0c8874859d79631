package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/storefront-service/internal/api/http/handlers"
	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Products       *handlers.ProductsHandler
	Categories     *handlers.CategoriesHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.AuthMiddleware
	Authorizer     *auth.Authorizer
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)

	gate := cfg.AuthMiddleware.Handle
	admin := cfg.Authorizer.RequireAdmin()

	api.Get("/user", gate, cfg.Users.Me)
	api.Get("/products", gate, cfg.Products.List)
	api.Get("/products/:id", gate, cfg.Products.Get)
	api.Get("/categories", gate, cfg.Categories.List)
	api.Get("/orders", gate, cfg.Orders.List)
	api.Post("/create-order", gate, cfg.Orders.Create)

	api.Post("/register-admin", gate, admin, cfg.Users.RegisterAdmin)
	api.Post("/create-product", gate, admin, cfg.Products.Create)
	api.Put("/update-product/:id", gate, admin, cfg.Products.Update)
}
