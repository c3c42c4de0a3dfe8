// Package adf models the fixed subset of the Atlassian Document Format used
// for bug-report descriptions: paragraphs with strong and link marks plus
// embedded media blocks, one level deep.
package adf

import "strings"

// Node kinds used by this form.
const (
	NodeDoc         = "doc"
	NodeParagraph   = "paragraph"
	NodeText        = "text"
	NodeMediaSingle = "mediaSingle"
	NodeMedia       = "media"
)

// Mark kinds used by this form.
const (
	MarkStrong = "strong"
	MarkLink   = "link"
)

// Mark decorates a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Node is a single ADF block or inline node.
type Node struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Content []Node         `json:"content,omitempty"`
}

// Document is a full description body as the tracker stores it.
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

// NewDocument wraps content blocks into a version-1 doc.
func NewDocument(content []Node) Document {
	return Document{Type: NodeDoc, Version: 1, Content: content}
}

// Paragraph creates a plain text paragraph.
func Paragraph(text string) Node {
	return Node{
		Type:    NodeParagraph,
		Content: []Node{{Type: NodeText, Text: text}},
	}
}

// StrongParagraph creates a bold text paragraph, used for section headers.
func StrongParagraph(text string) Node {
	return Node{
		Type: NodeParagraph,
		Content: []Node{{
			Type:  NodeText,
			Text:  text,
			Marks: []Mark{{Type: MarkStrong}},
		}},
	}
}

// EmptyParagraph creates a spacer block.
func EmptyParagraph() Node {
	return Node{Type: NodeParagraph}
}

// LinkParagraph creates a paragraph holding a single clickable link.
func LinkParagraph(text, href string) Node {
	return Node{
		Type: NodeParagraph,
		Content: []Node{{
			Type:  NodeText,
			Text:  text,
			Marks: []Mark{{Type: MarkLink, Attrs: map[string]any{"href": href}}},
		}},
	}
}

// EmbeddedImage creates a centered external media block for an attachment
// addressed by the tracker's stable attachment URL.
func EmbeddedImage(url string) Node {
	return Node{
		Type:  NodeMediaSingle,
		Attrs: map[string]any{"layout": "center"},
		Content: []Node{{
			Type:  NodeMedia,
			Attrs: map[string]any{"type": "external", "url": url},
		}},
	}
}

// ParagraphWithLinks splits free text into alternating plain and link-marked
// spans so URLs stay clickable. Detection is a plain http(s):// token scan,
// not markdown parsing.
func ParagraphWithLinks(text string) Node {
	return Node{Type: NodeParagraph, Content: TextWithLinks(text)}
}

// TextWithLinks builds the inline content for ParagraphWithLinks.
func TextWithLinks(text string) []Node {
	var content []Node
	rest := text
	for {
		idx := urlIndex(rest)
		if idx < 0 {
			break
		}
		if before := rest[:idx]; strings.TrimSpace(before) != "" {
			content = append(content, Node{Type: NodeText, Text: before})
		}
		tail := rest[idx:]
		end := strings.IndexFunc(tail, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' })
		if end < 0 {
			end = len(tail)
		}
		url := tail[:end]
		content = append(content, Node{
			Type:  NodeText,
			Text:  url,
			Marks: []Mark{{Type: MarkLink, Attrs: map[string]any{"href": url}}},
		})
		rest = tail[end:]
	}
	if strings.TrimSpace(rest) != "" {
		content = append(content, Node{Type: NodeText, Text: rest})
	}
	if len(content) == 0 {
		return []Node{{Type: NodeText, Text: text}}
	}
	return content
}

func urlIndex(s string) int {
	https := strings.Index(s, "https://")
	http := strings.Index(s, "http://")
	switch {
	case https < 0:
		return http
	case http < 0:
		return https
	case http < https:
		return http
	default:
		return https
	}
}
