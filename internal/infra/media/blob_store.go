// Package media stores dish and caterer media in a blob bucket.
package media

import (
	"context"
	"io"
	"strings"

	"feast/config"
	"feast/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// bucket URLs
	_ "gocloud.dev/blob/s3blob"   // s3:// bucket URLs
)

// Params defines the dependencies required to open the media bucket.
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
}

type blobStore struct {
	bucket        *blob.Bucket
	publicBaseURL string
}

// NewBlobStore opens the configured bucket and returns it as a
// service.MediaStore. The bucket stays open for the process lifetime
// and is released on shutdown.
func NewBlobStore(params Params) (service.MediaStore, error) {
	cfg := params.Config
	if cfg.Media == nil || cfg.Media.BucketURL == "" {
		return nil, errors.New("media bucket url must be provided")
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.Media.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open media bucket %s", cfg.Media.BucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return errors.WithStack(bucket.Close())
		},
	})

	return &blobStore{
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(cfg.Media.PublicBaseURL, "/"),
	}, nil
}

// Upload writes the payload under key and returns the URL it is served from.
func (s *blobStore) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "open writer for media key %s", key)
	}

	if _, err := io.Copy(writer, body); err != nil {
		_ = writer.Close()

		return "", errors.Wrapf(err, "write media key %s", key)
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrapf(err, "commit media key %s", key)
	}

	return s.publicBaseURL + "/" + key, nil
}

// Delete removes the media stored under key.
func (s *blobStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return errors.Wrapf(err, "delete media key %s", key)
	}

	return nil
}
