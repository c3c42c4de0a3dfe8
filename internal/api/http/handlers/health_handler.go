package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bugreport-service/internal/service"
)

// HealthHandler responds to liveness probes and reports the tracker
// connectivity mode.
type HealthHandler struct {
	serviceName  string
	version      string
	connectivity *service.ConnectivityState
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, connectivity *service.ConnectivityState) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, connectivity: connectivity}
}

// Health GET /health.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "OK",
		"message": "Relay server is running",
		"service": h.serviceName,
		"version": h.version,
		"offline": !h.connectivity.Online(),
	})
}
