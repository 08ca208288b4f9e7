package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC)

	key := ObjectKey("image", "Photo.JPG", now)
	assert.True(t, strings.HasPrefix(key, "images/2026-10-14/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.NotEqual(t, key, ObjectKey("image", "Photo.JPG", now))

	assert.True(t, strings.HasPrefix(ObjectKey("video", "clip", now), "videos/2026-10-14/"))
}

func TestURL(t *testing.T) {
	s := &MinIO{bucketName: "lookout", publicEndpoint: "cdn.example.com"}
	assert.Equal(t, "http://cdn.example.com/lookout/images/a.png", s.URL("images/a.png"))

	s.useSSL = true
	assert.Equal(t, "https://cdn.example.com/lookout/images/a.png", s.URL("images/a.png"))

	s.publicEndpoint = "https://files.example.com"
	assert.Equal(t, "https://files.example.com/lookout/videos/b.mp4", s.URL("videos/b.mp4"))
}
