package artifact

import (
	"context"
	"errors"
	"io"
)

// Store publishes and retrieves artifacts.
// Implementations are in infrastructure.
type Store interface {
	// Store saves content and returns a stable reference.
	Store(ctx context.Context, content io.Reader, opts StoreOptions) (Ref, error)

	// Retrieve returns the content for an artifact reference.
	Retrieve(ctx context.Context, ref Ref) (io.ReadCloser, error)

	// Exists checks if an artifact exists.
	Exists(ctx context.Context, ref Ref) (bool, error)

	// Metadata returns the stored reference without content.
	Metadata(ctx context.Context, ref Ref) (Ref, error)

	// Delete removes an artifact.
	Delete(ctx context.Context, ref Ref) error
}

// StoreOptions configures a single Store call.
type StoreOptions struct {
	// ID fixes the artifact ID; empty lets the store generate one.
	ID string

	// Name is the original file name.
	Name string

	// Kind classifies the artifact.
	Kind Kind

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]string
}

// OptionsForFile derives options from a file name.
func OptionsForFile(name string) StoreOptions {
	return StoreOptions{
		Name: name,
		Kind: KindForPath(name),
	}
}

// WithID fixes the artifact ID.
func (o StoreOptions) WithID(id string) StoreOptions {
	o.ID = id
	return o
}

// WithMetadata adds metadata.
func (o StoreOptions) WithMetadata(key, value string) StoreOptions {
	if o.Metadata == nil {
		o.Metadata = make(map[string]string)
	}
	o.Metadata[key] = value
	return o
}

// Domain errors for artifact storage.
var (
	// ErrArtifactNotFound indicates the artifact was not found.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrInvalidRef indicates the artifact reference is invalid.
	ErrInvalidRef = errors.New("invalid artifact reference")

	// ErrUnsupportedTarget indicates a publish URI scheme has no store.
	ErrUnsupportedTarget = errors.New("unsupported publish target")
)
