package domain

import (
	"regexp"
	"strings"
)

// DraftPriority is the tracker-side priority id selected on the form.
type DraftPriority string

// Attachment is a binary file staged on a draft before submission.
type Attachment struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	Data      []byte
}

// UploadedAttachment is the tracker's identity for a stored file. It exists
// only after a successful upload call.
type UploadedAttachment struct {
	ID       string
	FileName string
	MimeType string
	URL      string
}

// TicketDraft is the flat bug-report form. A draft is never partially
// submitted; the orchestrator validates it as a whole.
type TicketDraft struct {
	Platform         string
	Module           string
	Summary          string
	Priority         DraftPriority
	Component        string
	EpicLink         string
	StepsToReproduce string
	ExpectedBehavior string
	ActualBehavior   string
	Note             string
	Attachments      []Attachment
}

// SummaryLine derives the issue summary from the platform, module and
// summary fields.
func (d TicketDraft) SummaryLine() string {
	return d.Platform + " - " + d.Module + " - " + d.Summary
}

// HasAttachments reports whether any files are staged.
func (d TicketDraft) HasAttachments() bool {
	return len(d.Attachments) > 0
}

// Reset clears every field, returning the draft to its empty state.
func (d *TicketDraft) Reset() {
	*d = TicketDraft{}
}

// MaxAttachmentBytes caps individual attachment size.
const MaxAttachmentBytes = 10 * 1024 * 1024

var allowedAttachmentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
	"text/plain":      {},
}

// ValidateAttachment checks size and MIME type limits for a staged file.
func ValidateAttachment(att Attachment) string {
	switch {
	case att.FileName == "":
		return "Invalid file"
	case att.SizeBytes > MaxAttachmentBytes:
		return "File size must be less than 10MB"
	default:
		if _, ok := allowedAttachmentTypes[att.MimeType]; !ok {
			return "File type not supported"
		}
	}
	return ""
}

var jamLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://([^\s/]+\.)?jam\.ai`),
	regexp.MustCompile(`(?i)https?://([^\s/]+\.)?jam\.com`),
	regexp.MustCompile(`(?i)https?://([^\s/]+\.)?jam\.dev`),
}

// ContainsJamLink reports whether the text references the Jam
// screen-recording service; such sections get a "JAM:" header.
func ContainsJamLink(text string) bool {
	if text == "" {
		return false
	}
	for _, pattern := range jamLinkPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// Validate checks required fields and the epic link against the known epic
// keys. It returns a field to message mapping, empty when the draft is valid.
func (d TicketDraft) Validate(knownEpicKeys []string) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(d.Platform) == "" {
		errs["platform"] = "Platform is required"
	}
	if strings.TrimSpace(d.Module) == "" {
		errs["module"] = "Module/Page is required"
	}
	if strings.TrimSpace(d.Summary) == "" {
		errs["summary"] = "Summary is required"
	}
	if strings.TrimSpace(string(d.Priority)) == "" {
		errs["priority"] = "Priority is required"
	}
	if strings.TrimSpace(d.Component) == "" {
		errs["component"] = "Component is required"
	}

	if epic := strings.TrimSpace(d.EpicLink); epic != "" && len(knownEpicKeys) > 0 {
		known := false
		for _, key := range knownEpicKeys {
			if key == epic {
				known = true
				break
			}
		}
		if !known {
			errs["epicLink"] = "Invalid Epic Link. Please select a valid Epic from the dropdown."
		}
	}

	for _, att := range d.Attachments {
		if msg := ValidateAttachment(att); msg != "" {
			errs["attachments"] = msg
			break
		}
	}

	return errs
}
