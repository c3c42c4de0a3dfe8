package adf

import (
	"time"

	"github.com/spec-kit/bugreport-service/internal/domain"
)

// Section headers in their fixed order.
const (
	headerDescription = "Description:"
	headerSteps       = "Steps to Reproduce:"
	headerJam         = "JAM:"
	headerExpected    = "Expected Behavior:"
	headerActual      = "Actual Behavior:"
	headerNote        = "Note:"
	headerDate        = "Date:"
)

// BuildDescription maps a draft onto the fixed description layout:
// Description, Steps to Reproduce, Expected Behavior, Actual Behavior, Note,
// Date. Empty optional fields contribute no blocks; every present section is
// a strong header, a body and a spacer. The sequence always ends with the
// Date section. Attachment blocks are appended later, after issue creation.
func BuildDescription(draft domain.TicketDraft, now time.Time) []Node {
	content := []Node{
		StrongParagraph(headerDescription),
		Paragraph(draft.SummaryLine()),
		EmptyParagraph(),
	}

	if text := draft.StepsToReproduce; nonEmpty(text) {
		header := headerSteps
		if domain.ContainsJamLink(text) {
			header = headerJam
		}
		content = append(content,
			StrongParagraph(header),
			ParagraphWithLinks(text),
			EmptyParagraph(),
		)
	}

	if text := draft.ExpectedBehavior; nonEmpty(text) {
		content = append(content,
			StrongParagraph(headerExpected),
			Paragraph(text),
			EmptyParagraph(),
		)
	}

	if text := draft.ActualBehavior; nonEmpty(text) {
		header := headerActual
		if domain.ContainsJamLink(text) {
			header = headerJam
		}
		content = append(content,
			StrongParagraph(header),
			ParagraphWithLinks(text),
			EmptyParagraph(),
		)
	}

	if text := draft.Note; nonEmpty(text) {
		content = append(content,
			StrongParagraph(headerNote),
			Paragraph(text),
			EmptyParagraph(),
		)
	}

	content = append(content,
		StrongParagraph(headerDate),
		Paragraph(now.Format("02/01/2006")),
	)

	return content
}

func nonEmpty(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
