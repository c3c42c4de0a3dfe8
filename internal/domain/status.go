package domain

import "strings"

// StatusInfo is the display mapping for a tracker-reported status name.
type StatusInfo struct {
	DisplayName string
	Color       string
	Category    string
}

// DefaultStatus is returned for status names with no table match.
var DefaultStatus = StatusInfo{DisplayName: "Unknown", Color: "default", Category: "unknown"}

var knownStatuses = map[string]StatusInfo{
	"To Do":               {DisplayName: "To Do", Color: "default", Category: "todo"},
	"In Progress":         {DisplayName: "In Progress", Color: "primary", Category: "inprogress"},
	"Done":                {DisplayName: "Done", Color: "success", Category: "done"},
	"Completed (In Prod)": {DisplayName: "Completed (In Prod)", Color: "success", Category: "done"},
	"In Review":           {DisplayName: "In Review", Color: "warning", Category: "review"},
	"Blocked":             {DisplayName: "Blocked", Color: "error", Category: "blocked"},
	"Cancelled":           {DisplayName: "Cancelled", Color: "error", Category: "cancelled"},
	"Reopened":            {DisplayName: "Reopened", Color: "info", Category: "reopened"},
}

// ResolveStatus maps a tracker status name to display info. Exact match
// first, then case-insensitive substring match in either direction, then
// DefaultStatus. It never fails.
func ResolveStatus(statusName string) StatusInfo {
	if statusName == "" {
		return DefaultStatus
	}
	if info, ok := knownStatuses[statusName]; ok {
		return info
	}
	lower := strings.ToLower(statusName)
	for name, info := range knownStatuses {
		known := strings.ToLower(name)
		if strings.Contains(known, lower) || strings.Contains(lower, known) {
			return info
		}
	}
	return DefaultStatus
}
