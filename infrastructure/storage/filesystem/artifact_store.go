package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/worksheet-go/domain/artifact"
)

// ArtifactStore implements artifact.Store under a local directory. Each
// artifact is a directory holding "content" and "metadata.json".
type ArtifactStore struct {
	basePath string
}

// NewArtifactStore creates the base directory and returns a store.
func NewArtifactStore(basePath string) (*ArtifactStore, error) {
	if err := os.MkdirAll(basePath, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &ArtifactStore{basePath: basePath}, nil
}

// Store saves content and returns its reference.
func (s *ArtifactStore) Store(ctx context.Context, content io.Reader, opts artifact.StoreOptions) (artifact.Ref, error) {
	if err := ctx.Err(); err != nil {
		return artifact.Ref{}, err
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	ref := artifact.NewRef(id)
	if !ref.IsValid() {
		return artifact.Ref{}, artifact.ErrInvalidRef
	}

	dir := s.artifactPath(id)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return artifact.Ref{}, fmt.Errorf("create artifact path: %w", err)
	}

	contentPath := filepath.Join(dir, "content")
	file, err := os.Create(contentPath) // #nosec G304 -- path built from a validated ID
	if err != nil {
		return artifact.Ref{}, fmt.Errorf("create content file: %w", err)
	}

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(file, hasher), content)
	if err != nil {
		_ = file.Close()
		_ = os.RemoveAll(dir)
		return artifact.Ref{}, fmt.Errorf("write content: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.RemoveAll(dir)
		return artifact.Ref{}, fmt.Errorf("close content file: %w", err)
	}

	ref = ref.WithName(opts.Name).WithKind(opts.Kind)
	ref.Size = size
	ref.Checksum = hex.EncodeToString(hasher.Sum(nil))
	ref.Location = "file://" + filepath.ToSlash(contentPath)
	for k, v := range opts.Metadata {
		ref = ref.WithMetadata(k, v)
	}

	meta, err := json.MarshalIndent(ref, "", "  ")
	if err != nil {
		_ = os.RemoveAll(dir)
		return artifact.Ref{}, fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), meta, 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return artifact.Ref{}, fmt.Errorf("write metadata: %w", err)
	}

	return ref, nil
}

// Retrieve opens the content of an artifact.
func (s *ArtifactStore) Retrieve(_ context.Context, ref artifact.Ref) (io.ReadCloser, error) {
	if !ref.IsValid() {
		return nil, artifact.ErrInvalidRef
	}

	file, err := os.Open(filepath.Join(s.artifactPath(ref.ID), "content"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, artifact.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return file, nil
}

// Exists checks if an artifact exists.
func (s *ArtifactStore) Exists(_ context.Context, ref artifact.Ref) (bool, error) {
	if !ref.IsValid() {
		return false, artifact.ErrInvalidRef
	}

	_, err := os.Stat(filepath.Join(s.artifactPath(ref.ID), "content"))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Metadata returns the stored reference.
func (s *ArtifactStore) Metadata(_ context.Context, ref artifact.Ref) (artifact.Ref, error) {
	if !ref.IsValid() {
		return artifact.Ref{}, artifact.ErrInvalidRef
	}

	data, err := os.ReadFile(filepath.Join(s.artifactPath(ref.ID), "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return artifact.Ref{}, artifact.ErrArtifactNotFound
		}
		return artifact.Ref{}, fmt.Errorf("read metadata: %w", err)
	}

	var stored artifact.Ref
	if err := json.Unmarshal(data, &stored); err != nil {
		return artifact.Ref{}, fmt.Errorf("decode metadata: %w", err)
	}
	return stored, nil
}

// Delete removes an artifact.
func (s *ArtifactStore) Delete(_ context.Context, ref artifact.Ref) error {
	if !ref.IsValid() {
		return artifact.ErrInvalidRef
	}

	dir := s.artifactPath(ref.ID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return artifact.ErrArtifactNotFound
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return nil
}

func (s *ArtifactStore) artifactPath(id string) string {
	return filepath.Join(s.basePath, id)
}

var _ artifact.Store = (*ArtifactStore)(nil)
