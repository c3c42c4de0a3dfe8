package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/bugreport-service/internal/config"
	"github.com/spec-kit/bugreport-service/internal/domain"
	"github.com/spec-kit/bugreport-service/internal/events"
	"github.com/spec-kit/bugreport-service/internal/ratelimit"
)

// AttachmentService uploads draft attachments to an issue, one at a time.
type AttachmentService struct {
	tracker    TrackerClient
	jiraCfg    config.JiraConfig
	pacer      *ratelimit.Pacer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAttachmentService constructs the service.
func NewAttachmentService(tracker TrackerClient, jiraCfg config.JiraConfig, pacer *ratelimit.Pacer, dispatcher events.Dispatcher, logger *zap.Logger) *AttachmentService {
	return &AttachmentService{
		tracker:    tracker,
		jiraCfg:    jiraCfg,
		pacer:      pacer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// UploadAll uploads the files sequentially, pacing calls so the tracker is
// never hammered. Duplicate filenames within the call are skipped (by name
// only, not content). A single file's failure is logged and skipped; the
// remaining files still upload. Returns the successfully stored attachments,
// possibly empty, plus the number of failed uploads.
func (s *AttachmentService) UploadAll(ctx context.Context, issueKey string, files []domain.Attachment) ([]domain.UploadedAttachment, int) {
	uploaded := make([]domain.UploadedAttachment, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	failed := 0

	for _, file := range files {
		if _, dup := seen[file.FileName]; dup {
			s.logger.Debug("skipping duplicate attachment", zap.String("file", file.FileName))
			continue
		}
		seen[file.FileName] = struct{}{}

		if err := s.pacer.Wait(ctx); err != nil {
			s.logger.Warn("attachment upload cancelled", zap.Error(err))
			break
		}

		att, err := s.tracker.UploadAttachment(ctx, issueKey, file.FileName, file.MimeType, file.Data)
		if err != nil {
			failed++
			s.logger.Error("failed to upload attachment",
				zap.String("issue_key", issueKey),
				zap.String("file", file.FileName),
				zap.Error(err),
			)
			s.publishFailure(ctx, issueKey, file.FileName, err)
			continue
		}

		uploaded = append(uploaded, domain.UploadedAttachment{
			ID:       att.ID,
			FileName: att.FileName,
			MimeType: att.MimeType,
			URL:      s.jiraCfg.AttachmentURL(att.ID, att.FileName),
		})
	}

	return uploaded, failed
}

func (s *AttachmentService) publishFailure(ctx context.Context, issueKey, fileName string, err error) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAttachmentFailed,
		IssueKey:  issueKey,
		Timestamp: time.Now(),
		Payload: events.AttachmentFailedPayload{
			FileName: fileName,
			Reason:   err.Error(),
		},
	})
}
