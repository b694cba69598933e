package bucket

import (
	"fmt"
	"path"
	"strings"
)

const (
	contentTypeJPEG = "image/jpeg"
	contentTypePNG  = "image/png"
	contentTypeWEBP = "image/webp"
	contentTypePDF  = "application/pdf"
)

func fileExtensionFromContentType(contentType string) string {
	switch contentType {
	case contentTypeJPEG:
		return "jpg"
	case contentTypePNG:
		return "png"
	case contentTypeWEBP:
		return "webp"
	case contentTypePDF:
		return "pdf"
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) > 1 {
			return parts[1]
		}
		return contentType
	}
}

func (b *Bucket) constructFullPath(folder, fileName, ext string) string {
	return path.Clean(path.Join(b.BaseFolder, folder, fileName) + "." + ext)
}

func (b *Bucket) getCDNURL(filePath string) string {
	return fmt.Sprintf("https://%s.%s/%s", b.S3BucketName, b.S3Endpoint, filePath)
}

// getB64DataFromString splits a "data:[<mediatype>];base64,[<data>]" string
// into its content type and payload.
func getB64DataFromString(rawB64 string) (contentType string, payload string, err error) {
	const base64Prefix = ";base64,"
	parts := strings.Split(rawB64, base64Prefix)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid base64 format: expected 'data:[mediatype];base64,[data]'")
	}
	return strings.TrimPrefix(parts[0], "data:"), parts[1], nil
}
