package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/bugreport-service/internal/config"
	"github.com/spec-kit/bugreport-service/internal/domain"
	"github.com/spec-kit/bugreport-service/internal/observability"
	"github.com/spec-kit/bugreport-service/internal/ratelimit"
	"github.com/spec-kit/bugreport-service/internal/repository"
	apperrors "github.com/spec-kit/bugreport-service/pkg/util"
)

func testJiraConfig() config.JiraConfig {
	return config.JiraConfig{
		BaseURL:           "https://probuild.atlassian.net",
		ProjectKey:        "PB",
		IssueTypeID:       "10013",
		AssigneeAccountID: "account-1",
		EpicKeys:          []string{"PB-10", "PB-20"},
		TimeoutSeconds:    30,
	}
}

func newSubmissionFixture(t *testing.T, tracker *fakeTracker) (*SubmissionService, *HistoryService) {
	t.Helper()
	logger := zap.NewNop()
	cfg := testJiraConfig()
	history := NewHistoryService("PB", 0, HistoryDependencies{
		Repo:    repository.NewMemoryHistoryRepository(),
		Tracker: tracker,
		Pacer:   ratelimit.NewPacer(0),
	}, logger)
	attachments := NewAttachmentService(tracker, cfg, ratelimit.NewPacer(0), nil, logger)
	descriptions := NewDescriptionService(tracker, logger)
	submissions := NewSubmissionService(cfg, SubmissionDependencies{
		Tracker:      tracker,
		Attachments:  attachments,
		Descriptions: descriptions,
		History:      history,
		Metrics:      observability.NewMetrics(),
	}, logger)
	return submissions, history
}

func validDraft() domain.TicketDraft {
	return domain.TicketDraft{
		Platform:  "Web",
		Module:    "Checkout",
		Summary:   "Button broken",
		Priority:  "2",
		Component: "10001",
	}
}

func TestSubmitValidationFailureMakesNoNetworkCall(t *testing.T) {
	tracker := newFakeTracker()
	submissions, _ := newSubmissionFixture(t, tracker)

	draft := validDraft()
	draft.Platform = ""

	result, err := submissions.Submit(context.Background(), &draft)
	require.Error(t, err)
	require.Nil(t, result)

	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "Platform is required", validationErr.Fields["platform"])
	assert.Equal(t, 0, tracker.totalCalls())
}

func TestSubmitUnknownEpicFailsValidation(t *testing.T) {
	tracker := newFakeTracker()
	submissions, _ := newSubmissionFixture(t, tracker)

	draft := validDraft()
	draft.EpicLink = "PB-999"

	_, err := submissions.Submit(context.Background(), &draft)
	require.Error(t, err)

	var validationErr *apperrors.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, "epicLink")
	assert.Equal(t, 0, tracker.totalCalls())
}

func TestSubmitSuccessRecordsHistoryAndResetsDraft(t *testing.T) {
	tracker := newFakeTracker()
	submissions, history := newSubmissionFixture(t, tracker)

	draft := validDraft()
	result, err := submissions.Submit(context.Background(), &draft)
	require.NoError(t, err)

	assert.Equal(t, "PB-123", result.IssueKey)
	assert.Equal(t, "https://probuild.atlassian.net/browse/PB-123", result.IssueURL)
	assert.False(t, result.Partial)
	assert.Equal(t, domain.TicketDraft{}, draft)

	entries, err := history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "PB-123", entries[0].IssueKey)
	assert.Equal(t, "To Do", entries[0].Status)
	assert.Equal(t, "Web - Checkout - Button broken", entries[0].Summary)
}

func TestSubmitCreateFailureWritesNoHistory(t *testing.T) {
	tracker := newFakeTracker()
	tracker.createErr = &apperrors.RemoteError{
		StatusCode:    400,
		ErrorMessages: []string{"Field 'priority' is required"},
	}
	submissions, history := newSubmissionFixture(t, tracker)

	draft := validDraft()
	_, err := submissions.Submit(context.Background(), &draft)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to create Jira ticket")
	assert.Contains(t, err.Error(), "Field 'priority' is required")

	entries, listErr := history.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, entries)
	// Draft survives a hard create failure.
	assert.Equal(t, "Web", draft.Platform)
}

func TestSubmitRewritesEpicLinkError(t *testing.T) {
	tracker := newFakeTracker()
	tracker.createErr = &apperrors.RemoteError{
		StatusCode:  400,
		FieldErrors: map[string]string{"customfield_10014": "INVALID_INPUT"},
	}
	submissions, _ := newSubmissionFixture(t, tracker)

	draft := validDraft()
	draft.EpicLink = "PB-10"

	_, err := submissions.Submit(context.Background(), &draft)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Invalid Epic Link "PB-10"`)
}

func TestSubmitAttachmentFailureStillSucceeds(t *testing.T) {
	tracker := newFakeTracker()
	tracker.uploadErrs["crash.png"] = errors.New("upload refused")
	submissions, history := newSubmissionFixture(t, tracker)

	draft := validDraft()
	draft.Attachments = []domain.Attachment{
		{FileName: "crash.png", MimeType: "image/png", SizeBytes: 4, Data: []byte("data")},
	}

	result, err := submissions.Submit(context.Background(), &draft)
	require.NoError(t, err)
	assert.True(t, result.Partial)
	assert.Equal(t, "PB-123", result.IssueKey)
	assert.Equal(t, domain.TicketDraft{}, draft)

	entries, listErr := history.List(context.Background())
	require.NoError(t, listErr)
	require.Len(t, entries, 1)
	assert.Equal(t, "PB-123", entries[0].IssueKey)
}

func TestSubmitWithAttachmentsEmbedsThem(t *testing.T) {
	tracker := newFakeTracker()
	submissions, _ := newSubmissionFixture(t, tracker)

	draft := validDraft()
	draft.Attachments = []domain.Attachment{
		{FileName: "shot.png", MimeType: "image/png", SizeBytes: 4, Data: []byte("data")},
	}

	result, err := submissions.Submit(context.Background(), &draft)
	require.NoError(t, err)
	assert.False(t, result.Partial)
	assert.Equal(t, 1, tracker.uploadCalls)
	assert.Equal(t, 1, tracker.updateCalls)

	headers := 0
	for _, node := range tracker.lastDoc.Content {
		if len(node.Content) > 0 && node.Content[0].Text == "Attachments:" {
			headers++
		}
	}
	assert.Equal(t, 1, headers)
}

func TestSubmitSetsCreationTimestamps(t *testing.T) {
	tracker := newFakeTracker()
	submissions, history := newSubmissionFixture(t, tracker)
	fixed := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	submissions.now = func() time.Time { return fixed }

	draft := validDraft()
	_, err := submissions.Submit(context.Background(), &draft)
	require.NoError(t, err)

	entries, err := history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fixed, entries[0].CreatedAt)
	assert.Equal(t, fixed, entries[0].LastStatusCheckAt)
}
