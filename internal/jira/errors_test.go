package jira

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/bugreport-service/pkg/util"
)

func TestDecodeRemoteErrorStructuredBody(t *testing.T) {
	body := []byte(`{"errorMessages":["Issue does not exist"],"errors":{"priority":"Priority is required"}}`)

	remoteErr := decodeRemoteError(404, body)
	require.NotNil(t, remoteErr)
	assert.Equal(t, 404, remoteErr.StatusCode)
	assert.Equal(t, []string{"Issue does not exist"}, remoteErr.ErrorMessages)
	assert.Equal(t, "Priority is required", remoteErr.FieldErrors["priority"])
	assert.Equal(t, "Issue does not exist, priority: Priority is required", remoteErr.Message())
}

func TestDecodeRemoteErrorPlainBody(t *testing.T) {
	remoteErr := decodeRemoteError(502, []byte("Bad Gateway"))
	assert.Equal(t, []string{"Bad Gateway"}, remoteErr.ErrorMessages)
	assert.Equal(t, "Bad Gateway", remoteErr.Message())
}

func TestDecodeRemoteErrorEmptyBody(t *testing.T) {
	remoteErr := decodeRemoteError(500, nil)
	assert.Empty(t, remoteErr.ErrorMessages)
	assert.Equal(t, "tracker request failed with status 500", remoteErr.Message())
}

func TestExtractMessage(t *testing.T) {
	remoteErr := &apperrors.RemoteError{StatusCode: 400, ErrorMessages: []string{"boom"}}
	assert.Equal(t, "boom", ExtractMessage(fmt.Errorf("create issue: %w", remoteErr)))

	assert.Equal(t, "plain failure", ExtractMessage(errors.New("plain failure")))
	assert.Empty(t, ExtractMessage(nil))
}

func TestRewriteEpicLinkError(t *testing.T) {
	message := "customfield_10014: INVALID_INPUT"

	rewritten := RewriteEpicLinkError(message, "PB-10")
	assert.Contains(t, rewritten, `Invalid Epic Link "PB-10"`)

	// No epic on the draft: the raw message passes through.
	assert.Equal(t, message, RewriteEpicLinkError(message, ""))

	// Unrelated failures are never rewritten.
	other := "Summary is required"
	assert.Equal(t, other, RewriteEpicLinkError(other, "PB-10"))
}
