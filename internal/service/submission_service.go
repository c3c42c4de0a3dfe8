package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/bugreport-service/internal/adf"
	"github.com/spec-kit/bugreport-service/internal/config"
	"github.com/spec-kit/bugreport-service/internal/domain"
	"github.com/spec-kit/bugreport-service/internal/events"
	"github.com/spec-kit/bugreport-service/internal/jira"
	"github.com/spec-kit/bugreport-service/internal/observability"
	apperrors "github.com/spec-kit/bugreport-service/pkg/util"
)

// SubmissionResult is returned to the caller on success. Message qualifies
// the outcome when attachment handling partially failed.
type SubmissionResult struct {
	IssueKey string
	IssueURL string
	Message  string
	Partial  bool
}

// SubmissionDependencies bundles collaborators for the orchestrator.
type SubmissionDependencies struct {
	Tracker      TrackerClient
	Attachments  *AttachmentService
	Descriptions *DescriptionService
	History      *HistoryService
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
}

// SubmissionService drives the end-to-end submission sequence: validate,
// build document, create issue, upload attachments, patch description,
// record history. One submission in flight per form instance; the service
// is not re-entrant by design.
type SubmissionService struct {
	tracker      TrackerClient
	attachments  *AttachmentService
	descriptions *DescriptionService
	history      *HistoryService
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	jiraCfg      config.JiraConfig
	logger       *zap.Logger
	now          func() time.Time
}

// NewSubmissionService constructs the orchestrator.
func NewSubmissionService(jiraCfg config.JiraConfig, deps SubmissionDependencies, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{
		tracker:      deps.Tracker,
		attachments:  deps.Attachments,
		descriptions: deps.Descriptions,
		history:      deps.History,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		jiraCfg:      jiraCfg,
		logger:       logger,
		now:          time.Now,
	}
}

// Submit runs the full submission pipeline. Validation failures and
// create-issue failures abort with an error and make no history entry.
// Attachment and embedding failures after a successful create are non-fatal:
// the result still reports success with a qualifying message, and the draft
// is reset either way.
func (s *SubmissionService) Submit(ctx context.Context, draft *domain.TicketDraft) (*SubmissionResult, error) {
	if errs := draft.Validate(s.jiraCfg.EpicKeys); len(errs) > 0 {
		return nil, apperrors.NewValidationError(errs)
	}

	submissionID := uuid.NewString()
	logger := s.logger.With(zap.String("submission_id", submissionID))

	content := adf.BuildDescription(*draft, s.now())
	request := s.buildCreateRequest(*draft, content)

	created, err := s.tracker.CreateIssue(ctx, request)
	if err != nil {
		logger.Error("issue creation failed", zap.Error(err))
		return nil, s.submissionError(err, draft.EpicLink)
	}
	logger.Info("issue created", zap.String("issue_key", created.Key))

	partial := false
	uploadedCount := 0
	if draft.HasAttachments() {
		uploaded, failed := s.attachments.UploadAll(ctx, created.Key, draft.Attachments)
		uploadedCount = len(uploaded)
		if failed > 0 {
			partial = true
		}
		if err := s.descriptions.EmbedAttachments(ctx, created.Key, uploaded); err != nil {
			// The issue exists; embedding trouble must not fail the
			// submission.
			partial = true
			logger.Warn("attachment embedding failed",
				zap.String("issue_key", created.Key),
				zap.Error(err),
			)
		}
	}

	now := s.now()
	entry := domain.HistoryEntry{
		IssueKey:          created.Key,
		Summary:           draft.SummaryLine(),
		CreatedAt:         now,
		Status:            domain.InitialIssueStatus,
		LastStatusCheckAt: now,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		logger.Warn("failed to record history entry",
			zap.String("issue_key", created.Key),
			zap.Error(err),
		)
	}

	result := &SubmissionResult{
		IssueKey: created.Key,
		IssueURL: s.jiraCfg.BrowseURL(created.Key),
		Message:  successMessage(len(draft.Attachments), partial),
		Partial:  partial,
	}

	s.publishSubmitted(ctx, submissionID, *draft, result, uploadedCount)
	s.metrics.RecordSubmission(partial)

	// The issue exists, so even a partial-attachment outcome resets the
	// draft.
	draft.Reset()

	return result, nil
}

func (s *SubmissionService) buildCreateRequest(draft domain.TicketDraft, content []adf.Node) jira.CreateIssueRequest {
	fields := jira.IssueFields{
		Project:     jira.KeyRef{Key: s.jiraCfg.ProjectKey},
		Summary:     draft.SummaryLine(),
		Description: adf.NewDocument(content),
		IssueType:   jira.IDRef{ID: s.jiraCfg.IssueTypeID},
		Priority:    jira.IDRef{ID: string(draft.Priority)},
		Assignee:    jira.AccountRef{AccountID: s.jiraCfg.AssigneeAccountID},
		Components:  []jira.IDRef{},
	}
	if draft.Component != "" {
		fields.Components = []jira.IDRef{{ID: draft.Component}}
	}
	if epic := strings.TrimSpace(draft.EpicLink); epic != "" {
		fields.EpicLink = epic
	}
	return jira.CreateIssueRequest{Fields: fields}
}

func (s *SubmissionService) submissionError(err error, epicKey string) error {
	message := jira.ExtractMessage(err)
	message = jira.RewriteEpicLinkError(message, epicKey)
	status := apperrors.ToDomainError(err).HTTPStatus
	return apperrors.NewDomainError("SUBMISSION_FAILED",
		"Failed to create Jira ticket: "+message, status, nil)
}

func (s *SubmissionService) publishSubmitted(ctx context.Context, submissionID string, draft domain.TicketDraft, result *SubmissionResult, uploadedCount int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        submissionID,
		Type:      events.EventTicketSubmitted,
		IssueKey:  result.IssueKey,
		Timestamp: s.now(),
		Payload: events.TicketSubmittedPayload{
			Summary:         draft.SummaryLine(),
			IssueURL:        result.IssueURL,
			AttachmentCount: len(draft.Attachments),
			UploadedCount:   uploadedCount,
			Partial:         result.Partial,
		},
	})
}

func successMessage(attachmentCount int, partial bool) string {
	switch {
	case attachmentCount == 0:
		return "Ticket created successfully!"
	case partial:
		return "Ticket created successfully, but some attachments could not be uploaded or embedded."
	default:
		return "Ticket created successfully! Attachments uploaded and embedded in description."
	}
}
