package jira

import "github.com/spec-kit/bugreport-service/internal/adf"

// IDRef references a tracker entity by id.
type IDRef struct {
	ID string `json:"id"`
}

// KeyRef references a tracker entity by key.
type KeyRef struct {
	Key string `json:"key"`
}

// AccountRef references a tracker user.
type AccountRef struct {
	AccountID string `json:"accountId"`
}

// IssueFields is the create-issue field set. The epic link rides on the
// tracker's fixed custom field id.
type IssueFields struct {
	Project     KeyRef       `json:"project"`
	Summary     string       `json:"summary"`
	Description adf.Document `json:"description"`
	IssueType   IDRef        `json:"issuetype"`
	Priority    IDRef        `json:"priority"`
	Assignee    AccountRef   `json:"assignee"`
	Components  []IDRef      `json:"components"`
	EpicLink    string       `json:"customfield_10014,omitempty"`
}

// CreateIssueRequest is the POST /issue payload.
type CreateIssueRequest struct {
	Fields IssueFields `json:"fields"`
}

// CreatedIssue is the create-issue response subset this service consumes.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// Attachment is one element of the attachments upload response array.
type Attachment struct {
	ID       string `json:"id"`
	FileName string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// IssueStatus is the workflow state reported on an issue.
type IssueStatus struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	StatusCategory struct {
		Name string `json:"name"`
	} `json:"statusCategory"`
}

// Issue is the GET /issue response subset this service consumes.
type Issue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary     string        `json:"summary"`
		Description *adf.Document `json:"description"`
		Status      *IssueStatus  `json:"status"`
	} `json:"fields"`
}

// UpdateDescriptionRequest is the PUT /issue payload for a full-document
// description replace; the tracker has no partial-append primitive.
type UpdateDescriptionRequest struct {
	Fields struct {
		Description adf.Document `json:"description"`
	} `json:"fields"`
}
