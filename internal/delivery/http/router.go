package http

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, handler *Handler) {
	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Route planning
		api.Post("/routes/alternatives", handler.RouteAlternatives)
		api.Post("/routes/optimal", handler.OptimalRoute)

		// Hazard alerts
		api.Get("/alerts/active", handler.ActiveAlerts)

		// Live signals
		api.Get("/weather/current", handler.CurrentWeather)

		// Traffic prediction (proxies to Python ML service)
		api.Post("/predict/traffic", handler.PredictTraffic)
	}
}
