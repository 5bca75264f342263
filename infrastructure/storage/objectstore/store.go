// Package objectstore implements artifact.Store on top of a bucket client.
// Each artifact is stored as <prefix>/<id>/content and
// <prefix>/<id>/metadata.json.
package objectstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/worksheet-go/domain/artifact"
)

// ErrObjectNotFound is returned by clients when an object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Client is the bucket-scoped object API each cloud adapter provides.
type Client interface {
	// Upload writes content to key.
	Upload(ctx context.Context, key string, content io.Reader, contentType string) error

	// Download opens key. Missing objects return ErrObjectNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Exists checks if key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the canonical URI of key, e.g. s3://bucket/key.
	URL(key string) string
}

// ArtifactStore implements artifact.Store over a Client.
type ArtifactStore struct {
	client Client
	prefix string
}

// NewArtifactStore creates a store writing under prefix.
func NewArtifactStore(client Client, prefix string) (*ArtifactStore, error) {
	if client == nil {
		return nil, errors.New("object store client is required")
	}
	return &ArtifactStore{client: client, prefix: prefix}, nil
}

// Store uploads content and its metadata.
func (s *ArtifactStore) Store(ctx context.Context, content io.Reader, opts artifact.StoreOptions) (artifact.Ref, error) {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	ref := artifact.NewRef(id)
	if !ref.IsValid() {
		return artifact.Ref{}, artifact.ErrInvalidRef
	}
	ref = ref.WithName(opts.Name).WithKind(opts.Kind)

	var buf bytes.Buffer
	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(&buf, hasher), content)
	if err != nil {
		return artifact.Ref{}, fmt.Errorf("read content: %w", err)
	}

	contentKey := s.objectKey(id, "content")
	if err := s.client.Upload(ctx, contentKey, &buf, ref.ContentType); err != nil {
		return artifact.Ref{}, fmt.Errorf("upload content: %w", err)
	}

	ref.Size = size
	ref.Checksum = hex.EncodeToString(hasher.Sum(nil))
	ref.Location = s.client.URL(contentKey)
	for k, v := range opts.Metadata {
		ref = ref.WithMetadata(k, v)
	}

	meta, err := json.Marshal(ref)
	if err != nil {
		_ = s.client.Delete(ctx, contentKey)
		return artifact.Ref{}, fmt.Errorf("encode metadata: %w", err)
	}
	if err := s.client.Upload(ctx, s.objectKey(id, "metadata.json"), bytes.NewReader(meta), "application/json"); err != nil {
		_ = s.client.Delete(ctx, contentKey)
		return artifact.Ref{}, fmt.Errorf("upload metadata: %w", err)
	}

	return ref, nil
}

// Retrieve opens the content of an artifact.
func (s *ArtifactStore) Retrieve(ctx context.Context, ref artifact.Ref) (io.ReadCloser, error) {
	if !ref.IsValid() {
		return nil, artifact.ErrInvalidRef
	}

	rc, err := s.client.Download(ctx, s.objectKey(ref.ID, "content"))
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, artifact.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("download artifact: %w", err)
	}
	return rc, nil
}

// Exists checks if an artifact exists.
func (s *ArtifactStore) Exists(ctx context.Context, ref artifact.Ref) (bool, error) {
	if !ref.IsValid() {
		return false, artifact.ErrInvalidRef
	}
	return s.client.Exists(ctx, s.objectKey(ref.ID, "content"))
}

// Metadata returns the stored reference.
func (s *ArtifactStore) Metadata(ctx context.Context, ref artifact.Ref) (artifact.Ref, error) {
	if !ref.IsValid() {
		return artifact.Ref{}, artifact.ErrInvalidRef
	}

	rc, err := s.client.Download(ctx, s.objectKey(ref.ID, "metadata.json"))
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return artifact.Ref{}, artifact.ErrArtifactNotFound
		}
		return artifact.Ref{}, fmt.Errorf("download metadata: %w", err)
	}
	defer rc.Close()

	var stored artifact.Ref
	if err := json.NewDecoder(rc).Decode(&stored); err != nil {
		return artifact.Ref{}, fmt.Errorf("decode metadata: %w", err)
	}
	return stored, nil
}

// Delete removes an artifact's content and metadata.
func (s *ArtifactStore) Delete(ctx context.Context, ref artifact.Ref) error {
	if !ref.IsValid() {
		return artifact.ErrInvalidRef
	}

	contentKey := s.objectKey(ref.ID, "content")
	exists, err := s.client.Exists(ctx, contentKey)
	if err != nil {
		return fmt.Errorf("check artifact: %w", err)
	}
	if !exists {
		return artifact.ErrArtifactNotFound
	}

	if err := s.client.Delete(ctx, contentKey); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	_ = s.client.Delete(ctx, s.objectKey(ref.ID, "metadata.json"))
	return nil
}

func (s *ArtifactStore) objectKey(id, name string) string {
	return path.Join(s.prefix, id, name)
}

var _ artifact.Store = (*ArtifactStore)(nil)
