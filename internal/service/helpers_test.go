package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/spec-kit/bugreport-service/internal/adf"
	"github.com/spec-kit/bugreport-service/internal/jira"
	apperrors "github.com/spec-kit/bugreport-service/pkg/util"
)

// fakeTracker is an in-memory TrackerClient that records call counts and
// mirrors created issues so the patcher can read back what it wrote.
type fakeTracker struct {
	mu           sync.Mutex
	createCalls  int
	uploadCalls  int
	getCalls     int
	updateCalls  int
	projectCalls int

	createKey   string
	createErr   error
	uploadErrs  map[string]error
	updateErrs  []error
	issues      map[string]*jira.Issue
	issueErrs   map[string]error
	lastDoc     adf.Document
	projectErr  error
	projectWait bool
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		createKey:  "PB-123",
		uploadErrs: map[string]error{},
		issues:     map[string]*jira.Issue{},
		issueErrs:  map[string]error{},
	}
}

func (f *fakeTracker) CreateIssue(ctx context.Context, req jira.CreateIssueRequest) (*jira.CreatedIssue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	issue := &jira.Issue{Key: f.createKey}
	doc := req.Fields.Description
	issue.Fields.Summary = req.Fields.Summary
	issue.Fields.Description = &doc
	issue.Fields.Status = &jira.IssueStatus{Name: "To Do"}
	f.issues[f.createKey] = issue
	return &jira.CreatedIssue{ID: "10000", Key: f.createKey}, nil
}

func (f *fakeTracker) UploadAttachment(ctx context.Context, issueKey, filename, mimeType string, data []byte) (*jira.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if err, ok := f.uploadErrs[filename]; ok {
		return nil, err
	}
	return &jira.Attachment{
		ID:       strconv.Itoa(f.uploadCalls),
		FileName: filename,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}, nil
}

func (f *fakeTracker) GetIssue(ctx context.Context, issueKey string) (*jira.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if err, ok := f.issueErrs[issueKey]; ok {
		return nil, err
	}
	issue, ok := f.issues[issueKey]
	if !ok {
		return nil, &apperrors.RemoteError{
			StatusCode:    404,
			ErrorMessages: []string{"Issue does not exist or you do not have permission to see it."},
		}
	}
	return issue, nil
}

func (f *fakeTracker) UpdateDescription(ctx context.Context, issueKey string, doc adf.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	f.lastDoc = doc
	if issue, ok := f.issues[issueKey]; ok {
		stored := doc
		issue.Fields.Description = &stored
	}
	return nil
}

func (f *fakeTracker) GetProject(ctx context.Context) error {
	f.mu.Lock()
	wait := f.projectWait
	err := f.projectErr
	f.projectCalls++
	f.mu.Unlock()
	if wait {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeTracker) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls + f.uploadCalls + f.getCalls + f.updateCalls + f.projectCalls
}
