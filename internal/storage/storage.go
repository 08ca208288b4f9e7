// Package storage keeps uploaded report images and footage videos in an object store.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnavailable is returned when no object store is configured
var ErrUnavailable = errors.New("object storage is not configured")

// Object is a stored upload
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ObjectStore stores uploads and reports its reachability
type ObjectStore interface {
	Upload(ctx context.Context, kind, filename, contentType string, r io.Reader, size int64) (Object, error)
	HealthCheck(ctx context.Context) error
}

// ObjectKey builds a unique key such as images/2026-10-14/<uuid>.jpg
func ObjectKey(kind, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(kind+"s", now.UTC().Format("2006-01-02"), uuid.New().String()+ext)
}
