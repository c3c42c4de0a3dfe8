package jira

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/spec-kit/bugreport-service/pkg/util"
)

type remoteErrorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// decodeRemoteError converts a non-success tracker response into the
// RemoteError taxonomy. Unparseable bodies fall back to the raw text.
func decodeRemoteError(statusCode int, body []byte) *apperrors.RemoteError {
	var parsed remoteErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil &&
		(len(parsed.ErrorMessages) > 0 || len(parsed.Errors) > 0) {
		return &apperrors.RemoteError{
			StatusCode:    statusCode,
			ErrorMessages: parsed.ErrorMessages,
			FieldErrors:   parsed.Errors,
		}
	}
	remoteErr := &apperrors.RemoteError{StatusCode: statusCode}
	if text := strings.TrimSpace(string(body)); text != "" {
		remoteErr.ErrorMessages = []string{text}
	}
	return remoteErr
}

// ExtractMessage flattens any submission error into a human-readable string.
func ExtractMessage(err error) string {
	if err == nil {
		return ""
	}
	var remoteErr *apperrors.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Message()
	}
	return err.Error()
}

// RewriteEpicLinkError turns the tracker's opaque INVALID_INPUT failure on
// drafts referencing an epic into an actionable message naming that epic.
func RewriteEpicLinkError(message, epicKey string) string {
	if epicKey == "" || !strings.Contains(message, "INVALID_INPUT") {
		return message
	}
	return fmt.Sprintf(
		"Invalid Epic Link %q. This Epic might not be configured to accept child issues or may have been deleted. "+
			"Please try a different Epic or create the ticket without an Epic Link.", epicKey)
}
