package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bugreport-service/internal/domain"
	"github.com/spec-kit/bugreport-service/internal/jira"
	apperrors "github.com/spec-kit/bugreport-service/pkg/util"
)

// AttachmentsHandler uploads a single file to an existing issue.
type AttachmentsHandler struct {
	tracker *jira.Client
}

// NewAttachmentsHandler constructs handler.
func NewAttachmentsHandler(tracker *jira.Client) *AttachmentsHandler {
	return &AttachmentsHandler{tracker: tracker}
}

// UploadAttachment POST /upload-attachment/:key (multipart, field "file").
func (h *AttachmentsHandler) UploadAttachment(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewDomainError("INVALID_PAYLOAD", "No file provided", http.StatusBadRequest, nil)
	}

	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	staged := domain.Attachment{
		FileName:  header.Filename,
		MimeType:  header.Header.Get("Content-Type"),
		SizeBytes: header.Size,
		Data:      data,
	}
	if msg := domain.ValidateAttachment(staged); msg != "" {
		return apperrors.NewDomainError("INVALID_FILE", msg, http.StatusBadRequest, nil)
	}

	att, err := h.tracker.UploadAttachment(c.UserContext(), c.Params("key"), staged.FileName, staged.MimeType, staged.Data)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    att,
	})
}
