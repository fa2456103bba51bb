package policies

import (
	"context"
	"io"
)

// PhotoStorage uploads listing photos to object storage and returns the
// public URL.
type PhotoStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}
