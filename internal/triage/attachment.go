package triage

import (
	"net/url"
	"path"
	"strings"
)

// AttachmentKind decides the rendering affordance for an attachment URL:
// inline preview for images, a generic file tile for everything else.
type AttachmentKind string

const (
	AttachmentImage    AttachmentKind = "image"
	AttachmentDocument AttachmentKind = "document"
)

var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
}

// AttachmentExtension extracts the lowercased file extension (without dot)
// from a URL, ignoring query and fragment. Empty when the file has none.
func AttachmentExtension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	return strings.ToLower(ext)
}

// ClassifyAttachment classifies by file extension only. The blob store owns
// the bytes, so there is no content sniffing; unknown or missing extensions
// fall back to the document tile.
func ClassifyAttachment(rawURL string) AttachmentKind {
	if imageExtensions[AttachmentExtension(rawURL)] {
		return AttachmentImage
	}
	return AttachmentDocument
}
