package domain

import "time"

// LegacySentinelKey marks a corrupt placeholder record left behind by old
// builds. Its presence anywhere in a loaded history triggers a full store
// reset rather than per-entry repair.
const LegacySentinelKey = "PB-LEGACY"

// InitialIssueStatus is the tracker's initial workflow state for a freshly
// created issue.
const InitialIssueStatus = "To Do"

// HistoryEntry is the local record of a previously created issue. The issue
// key is immutable once created and joins all later status lookups.
type HistoryEntry struct {
	IssueKey          string    `json:"key"`
	Summary           string    `json:"summary"`
	CreatedAt         time.Time `json:"created"`
	Status            string    `json:"status"`
	LastStatusCheckAt time.Time `json:"lastStatusCheck"`
	IsDeleted         bool      `json:"isDeleted,omitempty"`
}

// IsLegacy reports whether the entry is the known corrupt sentinel.
func (e HistoryEntry) IsLegacy() bool {
	return e.IssueKey == LegacySentinelKey
}
