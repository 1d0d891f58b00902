package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/macrolens/macrolens/internal/config"
	"github.com/macrolens/macrolens/internal/handlers"
	"github.com/macrolens/macrolens/internal/logging"
	"github.com/macrolens/macrolens/internal/middleware"
	"github.com/macrolens/macrolens/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, dashboard *services.DashboardService, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, dashboard)

	app.Use(recover.New())
	if cfg.Server.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.AllowOrigins,
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
		}))
	}
	app.Use(logging.FiberMiddleware(logger, "/health"))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	v1 := app.Group("/v1", middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled))

	v1.Get("/indicators", h.ListIndicators)
	v1.Get("/indicators/:indicator/stats", h.Stats)
	v1.Get("/indicators/:indicator/profile", h.Profile)
	v1.Get("/indicators/:indicator/yearly", h.Yearly)
	v1.Get("/indicators/:indicator/trend", h.Trend)
	v1.Get("/indicators/:indicator/related", h.Related)

	v1.Get("/correlation", h.Correlation)
	v1.Get("/regression", h.Regression)

	v1.Get("/charts", h.ListCharts)
	v1.Get("/charts/recommend", h.RecommendCharts)
	v1.Post("/charts/select", h.SelectChart)
	v1.Get("/series/:chart", h.Series)

	v1.Get("/explanations/relationship", h.RelationshipText)
	v1.Get("/explanations/seasonal", h.SeasonalText)
	v1.Get("/explanations/panel", h.Panel)
	v1.Get("/events", h.Events)

	app.Use(h.NotFound)

	return h
}

// New creates the dashboard Fiber app
func New(logger *logging.Logger, dashboard *services.DashboardService, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "macrolens dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, dashboard, cfg)

	return app
}
