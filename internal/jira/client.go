// Package jira is the canonical tracker REST client. Every remote call the
// service makes goes through here with HTTP Basic auth and a bounded timeout.
package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/bugreport-service/internal/adf"
	"github.com/spec-kit/bugreport-service/internal/config"
	apperrors "github.com/spec-kit/bugreport-service/pkg/util"
)

// Client talks to the tracker's REST API v3.
type Client struct {
	baseURL    string
	projectKey string
	authHeader string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client from config. The timeout applies per call.
func NewClient(cfg config.JiraConfig, logger *zap.Logger) *Client {
	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.Email + ":" + cfg.APIToken))
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		projectKey: cfg.ProjectKey,
		authHeader: "Basic " + credentials,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

// ProjectKey returns the configured tracker project key.
func (c *Client) ProjectKey() string {
	return c.projectKey
}

// CreateIssue posts a new issue and returns its assigned key.
func (c *Client) CreateIssue(ctx context.Context, req CreateIssueRequest) (*CreatedIssue, error) {
	var created CreatedIssue
	if err := c.doJSON(ctx, http.MethodPost, "/rest/api/3/issue", req, &created); err != nil {
		return nil, err
	}
	if created.Key == "" {
		return nil, apperrors.NewDomainError("TRACKER_ERROR",
			"ticket creation failed: no ticket key returned", http.StatusBadGateway, nil)
	}
	return &created, nil
}

// UploadAttachment streams one file to the issue's attachments collection
// and returns the first element of the tracker's response array.
func (c *Client) UploadAttachment(ctx context.Context, issueKey, filename, mimeType string, data []byte) (*Attachment, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if mimeType != "" {
		header.Set("Content-Type", mimeType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/rest/api/3/issue/%s/attachments", url.PathEscape(issueKey))
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Atlassian-Token", "no-check")

	respBody, err := c.do(req, "upload attachment")
	if err != nil {
		return nil, err
	}

	var attachments []Attachment
	if err := json.Unmarshal(respBody, &attachments); err != nil {
		return nil, fmt.Errorf("decode attachment response: %w", err)
	}
	if len(attachments) == 0 {
		return nil, apperrors.NewDomainError("TRACKER_ERROR",
			"attachment upload returned an empty result", http.StatusBadGateway, nil)
	}
	return &attachments[0], nil
}

// GetIssue fetches an issue with rendered fields, including the current
// description body.
func (c *Client) GetIssue(ctx context.Context, issueKey string) (*Issue, error) {
	endpoint := fmt.Sprintf("/rest/api/3/issue/%s?expand=renderedFields", url.PathEscape(issueKey))
	var issue Issue
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// GetIssueRaw fetches an issue as raw JSON for pass-through responses.
func (c *Client) GetIssueRaw(ctx context.Context, issueKey string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/rest/api/3/issue/%s", url.PathEscape(issueKey))
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, "get issue")
}

// UpdateDescription replaces the issue's full description document.
func (c *Client) UpdateDescription(ctx context.Context, issueKey string, doc adf.Document) error {
	endpoint := fmt.Sprintf("/rest/api/3/issue/%s", url.PathEscape(issueKey))
	var payload UpdateDescriptionRequest
	payload.Fields.Description = doc
	return c.doJSON(ctx, http.MethodPut, endpoint, payload, nil)
}

// UpdateIssueRaw forwards an arbitrary issue update body for pass-through
// requests.
func (c *Client) UpdateIssueRaw(ctx context.Context, issueKey string, body json.RawMessage) error {
	endpoint := fmt.Sprintf("/rest/api/3/issue/%s", url.PathEscape(issueKey))
	return c.doJSON(ctx, http.MethodPut, endpoint, body, nil)
}

// SearchIssues runs a JQL search restricted to the given fields.
func (c *Client) SearchIssues(ctx context.Context, jql, fields string) (json.RawMessage, error) {
	if fields == "" {
		fields = "status,summary"
	}
	endpoint := fmt.Sprintf("/rest/api/3/search?jql=%s&fields=%s", url.QueryEscape(jql), url.QueryEscape(fields))
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, "search issues")
}

// GetProject is the connectivity probe: a cheap read of the configured
// project.
func (c *Client) GetProject(ctx context.Context) error {
	endpoint := fmt.Sprintf("/rest/api/3/project/%s", url.PathEscape(c.projectKey))
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	_, err = c.do(req, "get project")
	return err
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}
	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	respBody, err := c.do(req, strings.ToLower(method)+" "+endpoint)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode tracker response: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remoteErr := decodeRemoteError(resp.StatusCode, body)
		c.logger.Warn("tracker request failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("error", remoteErr.Message()),
		)
		return nil, remoteErr
	}
	return body, nil
}
