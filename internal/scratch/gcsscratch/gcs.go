// Package gcsscratch implements a Google Cloud Storage-backed scratch
// storage backend.
package gcsscratch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/duskline/extsort/internal/scratch"
)

// Compile-time check that Handle implements scratch.Handle.
var _ scratch.Handle = (*Handle)(nil)

// Handle is a GCS-backed scratch storage backend. Every run becomes one
// object under bucket/prefix; Close deletes every object it created.
type Handle struct {
	ctx     context.Context
	client  *storage.Client
	bucket  *storage.BucketHandle
	prefix  string
	created []int
}

// Option configures a Handle.
type Option func(*Handle)

// WithPrefix sets a key prefix for all run objects.
func WithPrefix(prefix string) Option {
	return func(h *Handle) {
		h.prefix = strings.TrimSuffix(prefix, "/")
		if h.prefix != "" {
			h.prefix += "/"
		}
	}
}

// Open creates a new GCS scratch handle. The bucket must already exist.
func Open(ctx context.Context, bucketName string, opts ...Option) (*Handle, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	h := &Handle{
		ctx:    ctx,
		client: client,
		bucket: client.Bucket(bucketName),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

// CreateRun returns a streaming writer for the object backing run index.
func (h *Handle) CreateRun(index int) (io.WriteCloser, error) {
	h.created = append(h.created, index)
	return h.bucket.Object(h.runKey(index)).NewWriter(h.ctx), nil
}

// OpenRun opens the object for run index.
func (h *Handle) OpenRun(index int) (io.ReadCloser, error) {
	r, err := h.bucket.Object(h.runKey(index)).NewReader(h.ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil, fmt.Errorf("run %d not found", index)
		}
		return nil, fmt.Errorf("opening run %d: %w", index, err)
	}
	return r, nil
}

// Close deletes every run object this handle created, then closes the client.
func (h *Handle) Close() error {
	var firstErr error
	for _, index := range h.created {
		if err := h.bucket.Object(h.runKey(index)).Delete(h.ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("deleting run %d: %w", index, err)
		}
	}
	if err := h.client.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing GCS client: %w", err)
	}
	return firstErr
}

func (h *Handle) runKey(index int) string {
	return fmt.Sprintf("%sruns/%d", h.prefix, index)
}
