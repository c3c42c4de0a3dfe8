package adf

import "github.com/spec-kit/bugreport-service/internal/domain"

const headerAttachments = "Attachments:"

// HasAttachmentsSection reports whether the content already carries an
// "Attachments:" header, so patching twice never duplicates it.
func HasAttachmentsSection(content []Node) bool {
	for _, node := range content {
		if node.Type != NodeParagraph || len(node.Content) == 0 {
			continue
		}
		if node.Content[0].Text == headerAttachments {
			return true
		}
	}
	return false
}

// AppendEmbeddedAttachments extends the content with an attachments section
// of embedded image blocks, one per uploaded file, each followed by a spacer.
func AppendEmbeddedAttachments(content []Node, uploaded []domain.UploadedAttachment) []Node {
	out := appendSectionHeader(content)
	for _, att := range uploaded {
		out = append(out, EmbeddedImage(att.URL), EmptyParagraph())
	}
	return out
}

// AppendAttachmentLinks is the fallback form used when the embedded-media
// update is rejected: plain clickable links instead of images.
func AppendAttachmentLinks(content []Node, uploaded []domain.UploadedAttachment) []Node {
	out := appendSectionHeader(content)
	for _, att := range uploaded {
		out = append(out, LinkParagraph(att.FileName, att.URL))
	}
	return out
}

func appendSectionHeader(content []Node) []Node {
	out := make([]Node, len(content), len(content)+2)
	copy(out, content)
	if !HasAttachmentsSection(out) {
		out = append(out, EmptyParagraph(), StrongParagraph(headerAttachments))
	}
	return out
}
