package bucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBucket() *Bucket {
	return &Bucket{
		Config: &Config{
			S3Endpoint:   "ams3.digitaloceanspaces.com",
			S3BucketName: "pageant",
			BaseFolder:   "uploads",
		},
	}
}

func TestConstructFullPath(t *testing.T) {
	b := testBucket()
	assert.Equal(t, "uploads/attachments/doc.pdf", b.constructFullPath("attachments", "doc", "pdf"))
	assert.Equal(t, "uploads/photos/head.jpg", b.constructFullPath("photos/", "head", "jpg"))
}

func TestGetCDNURL(t *testing.T) {
	b := testBucket()
	assert.Equal(t,
		"https://pageant.ams3.digitaloceanspaces.com/uploads/photos/head.jpg",
		b.getCDNURL("uploads/photos/head.jpg"),
	)
}

func TestFileExtensionFromContentType(t *testing.T) {
	assert.Equal(t, "jpg", fileExtensionFromContentType("image/jpeg"))
	assert.Equal(t, "png", fileExtensionFromContentType("image/png"))
	assert.Equal(t, "pdf", fileExtensionFromContentType("application/pdf"))
	assert.Equal(t, "zip", fileExtensionFromContentType("application/zip"))
}

func TestGetB64DataFromString(t *testing.T) {
	ct, payload, err := getB64DataFromString("data:image/png;base64,iVBORw0KGgo=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, "iVBORw0KGgo=", payload)

	_, _, err = getB64DataFromString("iVBORw0KGgo=")
	assert.Error(t, err)
}
