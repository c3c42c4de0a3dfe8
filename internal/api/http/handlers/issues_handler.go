package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bugreport-service/internal/jira"
	apperrors "github.com/spec-kit/bugreport-service/pkg/util"
)

// IssuesHandler exposes thin pass-throughs to the tracker's issue and
// search endpoints, wrapped in the relay envelope.
type IssuesHandler struct {
	tracker *jira.Client
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(tracker *jira.Client) *IssuesHandler {
	return &IssuesHandler{tracker: tracker}
}

// GetIssue GET /issue/:key.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	raw, err := h.tracker.GetIssueRaw(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    json.RawMessage(raw),
	})
}

// UpdateIssue PUT /issue/:key.
func (h *IssuesHandler) UpdateIssue(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 || !json.Valid(body) {
		return apperrors.NewDomainError("INVALID_PAYLOAD", "invalid payload", http.StatusBadRequest, nil)
	}
	if err := h.tracker.UpdateIssueRaw(c.UserContext(), c.Params("key"), body); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Search GET /search?jql=...&fields=...
func (h *IssuesHandler) Search(c *fiber.Ctx) error {
	jql := c.Query("jql")
	if jql == "" {
		return apperrors.NewDomainError("INVALID_PAYLOAD", "jql query required", http.StatusBadRequest, nil)
	}
	raw, err := h.tracker.SearchIssues(c.UserContext(), jql, c.Query("fields"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    json.RawMessage(raw),
	})
}
