package bucket

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// UploadFile puts a raw file into the bucket and returns its public CDN URL.
// Objects are uploaded world-readable with a long cache lifetime since the
// CDN URL is what ends up stored on the record.
func (b *Bucket) UploadFile(ctx context.Context, raw []byte, folder, fileName, contentType string) (string, error) {
	ext := fileExtensionFromContentType(contentType)
	fp := b.constructFullPath(folder, fileName, ext)

	r := bytes.NewReader(raw)
	userMetaData := map[string]string{"x-amz-acl": "public-read"}
	cacheControl := "max-age=31536000"

	_, err := b.Client.PutObject(ctx, b.Config.S3BucketName, fp, r,
		int64(r.Len()), minio.PutObjectOptions{
			ContentType:  contentType,
			CacheControl: cacheControl,
			UserMetadata: userMetaData,
		},
	)
	if err != nil {
		return "", fmt.Errorf("error putting object: %w", err)
	}

	return b.getCDNURL(fp), nil
}

// UploadContentImage decodes a b64 encoded image and uploads it, returning
// the public URL. Only jpeg, png and webp payloads are accepted.
func (b *Bucket) UploadContentImage(ctx context.Context, rawB64Image, folder, imageName string) (string, error) {
	contentType, payload, err := getB64DataFromString(rawB64Image)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 image: %w", err)
	}

	switch contentType {
	case contentTypeJPEG, contentTypePNG, contentTypeWEBP:
	default:
		return "", fmt.Errorf("unsupported image content type: %s", contentType)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	return b.UploadFile(ctx, raw, folder, imageName, contentType)
}
