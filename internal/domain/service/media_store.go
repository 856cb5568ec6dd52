package service

import (
	"context"
	"io"
)

// MediaStore defines the interface for storing dish and caterer media
// (photos, preparation videos) in a blob bucket.
type MediaStore interface {
	// Upload writes the media payload under the given key and returns
	// the public URL it can be served from.
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)

	// Delete removes the media stored under the given key.
	Delete(ctx context.Context, key string) error
}
