package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/viabaq/backend/internal/domain"
	"github.com/viabaq/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	routeSvc *service.RouteService
	alertSvc *service.AlertService
	weather  *service.WeatherService
	mlBridge *service.MLBridge
	repo     service.SnapshotRepository
	validate *validator.Validate
}

// NewHandler creates a new handler
func NewHandler(
	routeSvc *service.RouteService,
	alertSvc *service.AlertService,
	weather *service.WeatherService,
	mlBridge *service.MLBridge,
	repo service.SnapshotRepository,
) *Handler {
	return &Handler{
		routeSvc: routeSvc,
		alertSvc: alertSvc,
		weather:  weather,
		mlBridge: mlBridge,
		repo:     repo,
		validate: validator.New(),
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.repo.Health(c.Context()); err != nil {
		dbStatus = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "viabaq-backend",
		"version":  "1.0.0",
		"database": dbStatus,
	})
}

// RouteAlternatives returns scored route alternatives between two points
func (h *Handler) RouteAlternatives(c *fiber.Ctx) error {
	req, err := h.parseRouteRequest(c)
	if err != nil {
		return err
	}

	routes, err := h.routeSvc.GetAlternatives(c.Context(), req)
	if err != nil {
		return translateRouteError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    routes,
		"count":   len(routes),
	})
}

// OptimalRoute returns the single best alternative, or null when no
// candidates exist
func (h *Handler) OptimalRoute(c *fiber.Ctx) error {
	req, err := h.parseRouteRequest(c)
	if err != nil {
		return err
	}

	route, err := h.routeSvc.GetOptimalRoute(c.Context(), req)
	if err != nil {
		return translateRouteError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    route,
	})
}

// ActiveAlerts runs a detection pass and returns currently active
// alerts, optionally narrowed by severity and type query params
func (h *Handler) ActiveAlerts(c *fiber.Ctx) error {
	alerts, err := h.alertSvc.DetectActiveAlerts(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to detect alerts")
	}

	if severity := c.Query("severity"); severity != "" {
		alerts = h.alertSvc.FilterBySeverity(alerts, domain.AlertSeverity(severity))
	}
	if alertType := c.Query("type"); alertType != "" {
		alerts = h.alertSvc.FilterByType(alerts, domain.AlertType(alertType))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    alerts,
		"count":   len(alerts),
	})
}

// CurrentWeather returns the current weather snapshot
func (h *Handler) CurrentWeather(c *fiber.Ctx) error {
	snapshot, err := h.weather.GetCurrentWeather(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch weather data")
	}

	return c.JSON(domain.WeatherResponse{
		Data:    snapshot,
		Success: true,
	})
}

// PredictTraffic proxies a feature vector to the prediction sidecar
func (h *Handler) PredictTraffic(c *fiber.Ctx) error {
	var req domain.TrafficPredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	prediction, err := h.mlBridge.PredictTraffic(c.Context(), req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get prediction")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    prediction,
	})
}

// parseRouteRequest decodes and structurally validates a route request.
// Service-area bounds are checked further down by the route service.
func (h *Handler) parseRouteRequest(c *fiber.Ctx) (domain.RouteRequest, error) {
	var req domain.RouteRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return req, nil
}

// translateRouteError maps domain errors onto HTTP status codes
func translateRouteError(err error) error {
	if vErr, ok := err.(*domain.ValidationError); ok {
		return fiber.NewError(fiber.StatusBadRequest, vErr.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to compute routes")
}
