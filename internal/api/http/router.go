package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bugreport-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Tickets     *handlers.TicketsHandler
	Issues      *handlers.IssuesHandler
	Attachments *handlers.AttachmentsHandler
	History     *handlers.HistoryHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Health)
	app.Get("/test-connectivity", cfg.Tickets.TestConnectivity)

	app.Post("/create-ticket", cfg.Tickets.CreateTicket)
	app.Get("/issue/:key", cfg.Issues.GetIssue)
	app.Put("/issue/:key", cfg.Issues.UpdateIssue)
	app.Get("/search", cfg.Issues.Search)
	app.Post("/upload-attachment/:key", cfg.Attachments.UploadAttachment)

	app.Get("/history", cfg.History.ListHistory)
	app.Post("/history/refresh", cfg.History.RefreshHistory)
}
