package dto

import (
	"time"

	"github.com/spec-kit/bugreport-service/internal/domain"
)

// CreateTicketRequest is the flat bug-report form payload.
type CreateTicketRequest struct {
	Platform         string `json:"platform" form:"platform"`
	Module           string `json:"module" form:"module"`
	Summary          string `json:"summary" form:"summary"`
	Priority         string `json:"priority" form:"priority"`
	Component        string `json:"component" form:"component"`
	EpicLink         string `json:"epicLink" form:"epicLink"`
	StepsToReproduce string `json:"stepsToReproduce" form:"stepsToReproduce"`
	ExpectedBehavior string `json:"expectedBehavior" form:"expectedBehavior"`
	ActualBehavior   string `json:"actualBehavior" form:"actualBehavior"`
	Note             string `json:"note" form:"note"`
}

// Draft maps the request onto the domain draft.
func (r CreateTicketRequest) Draft() domain.TicketDraft {
	return domain.TicketDraft{
		Platform:         r.Platform,
		Module:           r.Module,
		Summary:          r.Summary,
		Priority:         domain.DraftPriority(r.Priority),
		Component:        r.Component,
		EpicLink:         r.EpicLink,
		StepsToReproduce: r.StepsToReproduce,
		ExpectedBehavior: r.ExpectedBehavior,
		ActualBehavior:   r.ActualBehavior,
		Note:             r.Note,
	}
}

// CreateTicketResponse reports a successful submission.
type CreateTicketResponse struct {
	TicketKey string `json:"ticketKey"`
	TicketURL string `json:"ticketUrl"`
	Message   string `json:"message"`
	Partial   bool   `json:"partial,omitempty"`
}

// HistoryEntryResponse is one history row with resolved display info.
type HistoryEntryResponse struct {
	Key             string    `json:"key"`
	Summary         string    `json:"summary"`
	Created         time.Time `json:"created"`
	Status          string    `json:"status"`
	StatusDisplay   string    `json:"statusDisplay"`
	StatusColor     string    `json:"statusColor"`
	StatusCategory  string    `json:"statusCategory"`
	LastStatusCheck time.Time `json:"lastStatusCheck"`
	IsDeleted       bool      `json:"isDeleted"`
}

// HistoryEntryFromDomain resolves display fields for an entry.
func HistoryEntryFromDomain(entry domain.HistoryEntry) HistoryEntryResponse {
	info := domain.ResolveStatus(entry.Status)
	return HistoryEntryResponse{
		Key:             entry.IssueKey,
		Summary:         entry.Summary,
		Created:         entry.CreatedAt,
		Status:          entry.Status,
		StatusDisplay:   info.DisplayName,
		StatusColor:     info.Color,
		StatusCategory:  info.Category,
		LastStatusCheck: entry.LastStatusCheckAt,
		IsDeleted:       entry.IsDeleted,
	}
}
