package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/bugreport-service/internal/adf"
	"github.com/spec-kit/bugreport-service/internal/domain"
)

// DescriptionService patches a just-created issue's description to embed the
// uploaded attachments.
type DescriptionService struct {
	tracker TrackerClient
	logger  *zap.Logger
}

// NewDescriptionService constructs the service.
func NewDescriptionService(tracker TrackerClient, logger *zap.Logger) *DescriptionService {
	return &DescriptionService{tracker: tracker, logger: logger}
}

// EmbedAttachments fetches the issue's current description, appends an
// attachments section with embedded images and writes the full document
// back. If the embedded-image update is rejected it retries once with plain
// clickable links. The issue already exists and is never rolled back, so a
// returned error is informational; the orchestrator logs it and still
// reports success.
func (s *DescriptionService) EmbedAttachments(ctx context.Context, issueKey string, uploaded []domain.UploadedAttachment) error {
	if len(uploaded) == 0 {
		return nil
	}

	content, err := s.currentContent(ctx, issueKey)
	if err != nil {
		return err
	}

	embedded := adf.AppendEmbeddedAttachments(content, uploaded)
	if err := s.tracker.UpdateDescription(ctx, issueKey, adf.NewDocument(embedded)); err == nil {
		return nil
	} else {
		s.logger.Warn("embedded-image update rejected; retrying with links",
			zap.String("issue_key", issueKey),
			zap.Error(err),
		)
	}

	// Re-fetch before the fallback so a partially applied update is not
	// duplicated.
	content, err = s.currentContent(ctx, issueKey)
	if err != nil {
		return err
	}
	linked := adf.AppendAttachmentLinks(content, uploaded)
	if err := s.tracker.UpdateDescription(ctx, issueKey, adf.NewDocument(linked)); err != nil {
		return err
	}
	return nil
}

func (s *DescriptionService) currentContent(ctx context.Context, issueKey string) ([]adf.Node, error) {
	issue, err := s.tracker.GetIssue(ctx, issueKey)
	if err != nil {
		return nil, err
	}
	if issue.Fields.Description == nil {
		return nil, errors.New("no description field found in issue response")
	}
	return issue.Fields.Description.Content, nil
}
