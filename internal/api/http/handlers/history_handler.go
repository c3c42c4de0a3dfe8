package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bugreport-service/internal/api/dto"
	"github.com/spec-kit/bugreport-service/internal/domain"
	"github.com/spec-kit/bugreport-service/internal/service"
)

// HistoryHandler exposes the local record of created tickets.
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler constructs handler.
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// ListHistory GET /history.
func (h *HistoryHandler) ListHistory(c *fiber.Ctx) error {
	entries, err := h.history.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    toResponses(entries),
	})
}

// RefreshHistory POST /history/refresh. Re-checks every entry against the
// tracker before returning the updated list.
func (h *HistoryHandler) RefreshHistory(c *fiber.Ctx) error {
	entries, err := h.history.RefreshStatuses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    toResponses(entries),
	})
}

func toResponses(entries []domain.HistoryEntry) []dto.HistoryEntryResponse {
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.HistoryEntryFromDomain(entry))
	}
	return items
}
