package service

import (
	"context"

	"github.com/spec-kit/bugreport-service/internal/adf"
	"github.com/spec-kit/bugreport-service/internal/jira"
)

// TrackerClient is the slice of the tracker API the submission services
// consume. *jira.Client satisfies it; tests substitute fakes.
type TrackerClient interface {
	CreateIssue(ctx context.Context, req jira.CreateIssueRequest) (*jira.CreatedIssue, error)
	UploadAttachment(ctx context.Context, issueKey, filename, mimeType string, data []byte) (*jira.Attachment, error)
	GetIssue(ctx context.Context, issueKey string) (*jira.Issue, error)
	UpdateDescription(ctx context.Context, issueKey string, doc adf.Document) error
	GetProject(ctx context.Context) error
}
