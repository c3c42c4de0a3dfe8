package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketSubmitted  EventType = "ticket_submitted"
	EventAttachmentFailed EventType = "attachment_failed"
	EventHistoryRefreshed EventType = "history_refreshed"
	EventConnectivityLost EventType = "connectivity_lost"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueKey  string      `json:"issue_key,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	Summary         string `json:"summary"`
	IssueURL        string `json:"issue_url"`
	AttachmentCount int    `json:"attachment_count"`
	UploadedCount   int    `json:"uploaded_count"`
	Partial         bool   `json:"partial"`
}

// AttachmentFailedPayload payload.
type AttachmentFailedPayload struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// HistoryRefreshedPayload payload.
type HistoryRefreshedPayload struct {
	Checked int `json:"checked"`
	Deleted int `json:"deleted"`
}
