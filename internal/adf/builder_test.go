package adf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/bugreport-service/internal/domain"
)

var buildTime = time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)

func headerText(t *testing.T, node Node) string {
	t.Helper()
	require.Equal(t, NodeParagraph, node.Type)
	require.NotEmpty(t, node.Content)
	require.NotEmpty(t, node.Content[0].Marks)
	assert.Equal(t, MarkStrong, node.Content[0].Marks[0].Type)
	return node.Content[0].Text
}

func TestBuildDescriptionMinimalDraft(t *testing.T) {
	draft := domain.TicketDraft{
		Platform: "Web",
		Module:   "Checkout",
		Summary:  "Button broken",
	}

	content := BuildDescription(draft, buildTime)
	require.Len(t, content, 5)

	assert.Equal(t, "Description:", headerText(t, content[0]))
	assert.Equal(t, "Web - Checkout - Button broken", content[1].Content[0].Text)
	assert.Empty(t, content[2].Content)
	assert.Equal(t, "Date:", headerText(t, content[3]))
	assert.Equal(t, "15/08/2026", content[4].Content[0].Text)
}

func TestBuildDescriptionSectionOrder(t *testing.T) {
	draft := domain.TicketDraft{
		Platform:         "Web",
		Module:           "Checkout",
		Summary:          "Button broken",
		StepsToReproduce: "1. Open cart\n2. Press Pay",
		ExpectedBehavior: "Payment form opens",
		ActualBehavior:   "Nothing happens",
		Note:             "Only on Safari",
	}

	content := BuildDescription(draft, buildTime)

	var headers []string
	for _, node := range content {
		if len(node.Content) > 0 && len(node.Content[0].Marks) > 0 &&
			node.Content[0].Marks[0].Type == MarkStrong {
			headers = append(headers, node.Content[0].Text)
		}
	}
	assert.Equal(t, []string{
		"Description:",
		"Steps to Reproduce:",
		"Expected Behavior:",
		"Actual Behavior:",
		"Note:",
		"Date:",
	}, headers)
}

func TestBuildDescriptionRelabelsJamSections(t *testing.T) {
	draft := domain.TicketDraft{
		Platform:         "Web",
		Module:           "Checkout",
		Summary:          "Button broken",
		StepsToReproduce: "recording: https://jam.dev/c/abc123",
	}

	content := BuildDescription(draft, buildTime)
	require.Len(t, content, 8)
	assert.Equal(t, "JAM:", headerText(t, content[3]))

	draft.StepsToReproduce = "1. Open the page"
	content = BuildDescription(draft, buildTime)
	assert.Equal(t, "Steps to Reproduce:", headerText(t, content[3]))
}

func TestBuildDescriptionSkipsBlankSections(t *testing.T) {
	draft := domain.TicketDraft{
		Platform:         "Web",
		Module:           "Checkout",
		Summary:          "Button broken",
		ExpectedBehavior: "   \n\t ",
	}

	content := BuildDescription(draft, buildTime)
	require.Len(t, content, 5)
}

func TestTextWithLinksSplitsAroundURL(t *testing.T) {
	nodes := TextWithLinks("see https://example.com/x for details")
	require.Len(t, nodes, 3)

	assert.Equal(t, "see ", nodes[0].Text)
	assert.Empty(t, nodes[0].Marks)

	assert.Equal(t, "https://example.com/x", nodes[1].Text)
	require.Len(t, nodes[1].Marks, 1)
	assert.Equal(t, MarkLink, nodes[1].Marks[0].Type)
	assert.Equal(t, "https://example.com/x", nodes[1].Marks[0].Attrs["href"])

	assert.Equal(t, " for details", nodes[2].Text)
}

func TestTextWithLinksPlainText(t *testing.T) {
	nodes := TextWithLinks("no links here")
	require.Len(t, nodes, 1)
	assert.Equal(t, "no links here", nodes[0].Text)
	assert.Empty(t, nodes[0].Marks)
}
