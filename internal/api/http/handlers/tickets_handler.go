package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bugreport-service/internal/api/dto"
	"github.com/spec-kit/bugreport-service/internal/domain"
	"github.com/spec-kit/bugreport-service/internal/service"
	apperrors "github.com/spec-kit/bugreport-service/pkg/util"
)

// TicketsHandler exposes ticket submission and the connectivity probe.
type TicketsHandler struct {
	submissions  *service.SubmissionService
	connectivity *service.ConnectivityService
	state        *service.ConnectivityState
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(submissions *service.SubmissionService, connectivity *service.ConnectivityService, state *service.ConnectivityState) *TicketsHandler {
	return &TicketsHandler{submissions: submissions, connectivity: connectivity, state: state}
}

// CreateTicket POST /create-ticket. Accepts the flat form as JSON, or as
// multipart form data with attachment files under "file" parts.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	if !h.state.Online() {
		return apperrors.NewDomainError("SERVICE_OFFLINE",
			"Offline mode - tickets cannot be created", http.StatusServiceUnavailable, nil)
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewDomainError("INVALID_PAYLOAD", "invalid payload", http.StatusBadRequest, nil)
	}
	draft := req.Draft()

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		attachments, err := readAttachments(c)
		if err != nil {
			return err
		}
		draft.Attachments = attachments
	}

	result, err := h.submissions.Submit(c.UserContext(), &draft)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"ticketKey": result.IssueKey,
		"ticketUrl": result.IssueURL,
		"data": dto.CreateTicketResponse{
			TicketKey: result.IssueKey,
			TicketURL: result.IssueURL,
			Message:   result.Message,
			Partial:   result.Partial,
		},
	})
}

// TestConnectivity GET /test-connectivity. Re-probes the tracker and
// updates the shared offline flag.
func (h *TicketsHandler) TestConnectivity(c *fiber.Ctx) error {
	online, message := h.connectivity.Check(c.UserContext())
	h.state.Set(online, message)
	return c.JSON(fiber.Map{
		"success": online,
		"message": message,
	})
}

func readAttachments(c *fiber.Ctx) ([]domain.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewDomainError("INVALID_PAYLOAD", "invalid multipart form", http.StatusBadRequest, nil)
	}

	var attachments []domain.Attachment
	for _, header := range form.File["file"] {
		file, err := header.Open()
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		attachments = append(attachments, domain.Attachment{
			FileName:  header.Filename,
			MimeType:  header.Header.Get("Content-Type"),
			SizeBytes: header.Size,
			Data:      data,
		})
	}
	return attachments, nil
}
