package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCheckReportsOnlineOnFirstSuccess(t *testing.T) {
	tracker := newFakeTracker()
	connectivity := NewConnectivityService(tracker, RetryPolicy{MaxAttempts: 3}, time.Second, zap.NewNop())

	online, message := connectivity.Check(context.Background())
	assert.True(t, online)
	assert.Equal(t, "Connected to Jira API", message)
	assert.Equal(t, 1, tracker.projectCalls)
}

func TestCheckRetriesBeforeGivingUp(t *testing.T) {
	tracker := newFakeTracker()
	tracker.projectErr = errors.New("connection refused")
	connectivity := NewConnectivityService(tracker, RetryPolicy{MaxAttempts: 3}, time.Second, zap.NewNop())

	online, message := connectivity.Check(context.Background())
	assert.False(t, online)
	assert.Equal(t, "Network error - check connection", message)
	assert.Equal(t, 3, tracker.projectCalls)
}

func TestCheckTimesOutStalledProbe(t *testing.T) {
	tracker := newFakeTracker()
	tracker.projectWait = true
	connectivity := NewConnectivityService(tracker, RetryPolicy{MaxAttempts: 1}, 20*time.Millisecond, zap.NewNop())

	start := time.Now()
	online, message := connectivity.Check(context.Background())
	assert.False(t, online)
	assert.Equal(t, "Network error - check connection", message)
	assert.Less(t, time.Since(start), time.Second)
}

func TestConnectivityStateDefaultsOffline(t *testing.T) {
	state := NewConnectivityState()
	assert.False(t, state.Online())
	assert.Equal(t, "Connectivity not yet checked", state.Message())

	state.Set(true, "Connected to Jira API")
	assert.True(t, state.Online())
	assert.Equal(t, "Connected to Jira API", state.Message())
}
