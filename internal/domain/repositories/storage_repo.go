package repositories

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

type StoredObject struct {
	Key          string
	URL          string
	LastModified time.Time
}

// ObjectStorage keeps binary image objects addressed by key and hands out a
// public URL for each one.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// Delete removes the object behind url. Missing objects yield ErrObjectNotFound.
	Delete(ctx context.Context, url string) error
	List(ctx context.Context, prefix string) ([]StoredObject, error)
}

// RetryQueue hands object deletions that failed inline to a background worker.
type RetryQueue interface {
	EnqueueDelete(ctx context.Context, url string) error
}
