// Package gcs adapts Google Cloud Storage to objectstore.Client.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/felixgeelhaar/worksheet-go/infrastructure/storage/objectstore"
)

// Config configures the GCS client.
type Config struct {
	Bucket string

	// CredentialsFile is a service account key; empty uses application
	// default credentials.
	CredentialsFile string
}

// Client implements objectstore.Client for one bucket.
type Client struct {
	client *storage.Client
	bucket string
}

// NewClient connects to GCS.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &Client{client: client, bucket: cfg.Bucket}, nil
}

// Upload implements objectstore.Client.
func (c *Client) Upload(ctx context.Context, key string, content io.Reader, contentType string) error {
	w := c.client.Bucket(c.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, content); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize object: %w", err)
	}
	return nil
}

// Download implements objectstore.Client.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := c.client.Bucket(c.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, objectstore.ErrObjectNotFound
		}
		return nil, err
	}
	return r, nil
}

// Delete implements objectstore.Client.
func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.client.Bucket(c.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}

// Exists implements objectstore.Client.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.client.Bucket(c.bucket).Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// URL implements objectstore.Client.
func (c *Client) URL(key string) string {
	return "gs://" + c.bucket + "/" + key
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.client.Close()
}

var _ objectstore.Client = (*Client)(nil)
