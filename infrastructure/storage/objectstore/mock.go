package objectstore

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MockClient is an in-memory Client for tests.
type MockClient struct {
	mu      sync.RWMutex
	scheme  string
	bucket  string
	objects map[string][]byte
	types   map[string]string

	// UploadErr, when set, fails every upload.
	UploadErr error
}

// NewMockClient creates an empty mock bucket.
func NewMockClient(scheme, bucket string) *MockClient {
	return &MockClient{
		scheme:  scheme,
		bucket:  bucket,
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// Upload implements Client.
func (c *MockClient) Upload(_ context.Context, key string, content io.Reader, contentType string) error {
	if c.UploadErr != nil {
		return c.UploadErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[key] = data
	c.types[key] = contentType
	return nil
}

// Download implements Client.
func (c *MockClient) Download(_ context.Context, key string) (io.ReadCloser, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete implements Client.
func (c *MockClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.objects, key)
	delete(c.types, key)
	return nil
}

// Exists implements Client.
func (c *MockClient) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.objects[key]
	return ok, nil
}

// URL implements Client.
func (c *MockClient) URL(key string) string {
	return c.scheme + "://" + c.bucket + "/" + key
}

// ContentType returns the content type an object was uploaded with.
func (c *MockClient) ContentType(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.types[key]
}

// ObjectCount returns the number of stored objects.
func (c *MockClient) ObjectCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}

var _ Client = (*MockClient)(nil)
