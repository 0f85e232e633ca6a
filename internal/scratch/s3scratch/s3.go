// Package s3scratch implements an AWS S3-backed scratch storage backend,
// for sorts running on compute with no local disk to spill to.
package s3scratch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/duskline/extsort/internal/scratch"
)

// Compile-time check that Handle implements scratch.Handle.
var _ scratch.Handle = (*Handle)(nil)

// Handle is an S3-backed scratch storage backend. Every run becomes one
// object under bucket/prefix; Close deletes every object it created.
type Handle struct {
	ctx     context.Context
	client  *s3.Client
	bucket  string
	prefix  string
	created []int
}

// Option configures a Handle.
type Option func(*Handle) error

// WithPrefix sets a key prefix for all run objects.
func WithPrefix(prefix string) Option {
	return func(h *Handle) error {
		h.prefix = strings.TrimSuffix(prefix, "/")
		if h.prefix != "" {
			h.prefix += "/"
		}
		return nil
	}
}

// WithRegion sets the AWS region used to construct the S3 client.
func WithRegion(region string) Option {
	return func(h *Handle) error {
		cfg, err := config.LoadDefaultConfig(h.ctx, config.WithRegion(region))
		if err != nil {
			return fmt.Errorf("loading AWS config with region: %w", err)
		}
		h.client = s3.NewFromConfig(cfg)
		return nil
	}
}

// WithEndpoint points the client at a custom S3-compatible endpoint.
func WithEndpoint(endpoint string) Option {
	return func(h *Handle) error {
		cfg, err := config.LoadDefaultConfig(h.ctx)
		if err != nil {
			return fmt.Errorf("loading AWS config for endpoint: %w", err)
		}
		h.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
		return nil
	}
}

// Open creates a new S3 scratch handle. The bucket must already exist.
func Open(ctx context.Context, bucket string, opts ...Option) (*Handle, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	h := &Handle{
		ctx:    ctx,
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}

	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// CreateRun buffers the run in memory and uploads it as one object on Close.
func (h *Handle) CreateRun(index int) (io.WriteCloser, error) {
	h.created = append(h.created, index)
	return &runWriter{handle: h, index: index}, nil
}

// OpenRun fetches the object for run index.
func (h *Handle) OpenRun(index int) (io.ReadCloser, error) {
	out, err := h.client.GetObject(h.ctx, &s3.GetObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(h.runKey(index)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("run %d not found", index)
		}
		return nil, fmt.Errorf("reading run %d: %w", index, err)
	}
	return out.Body, nil
}

// Close deletes every run object this handle created.
func (h *Handle) Close() error {
	var firstErr error
	for _, index := range h.created {
		_, err := h.client.DeleteObject(h.ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(h.bucket),
			Key:    aws.String(h.runKey(index)),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("deleting run %d: %w", index, err)
		}
	}
	return firstErr
}

func (h *Handle) runKey(index int) string {
	return fmt.Sprintf("%sruns/%d", h.prefix, index)
}

type runWriter struct {
	handle *Handle
	index  int
	buf    bytes.Buffer
}

func (w *runWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *runWriter) Close() error {
	_, err := w.handle.client.PutObject(w.handle.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.handle.bucket),
		Key:    aws.String(w.handle.runKey(w.index)),
		Body:   bytes.NewReader(w.buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("uploading run %d: %w", w.index, err)
	}
	return nil
}
