// Package artifact provides domain models for published worksheet files.
package artifact

import (
	"path/filepath"
	"strings"
	"time"
)

// Kind classifies a published file.
type Kind string

// Artifact kinds.
const (
	KindProblemSet Kind = "problem-set"
	KindWorksheet  Kind = "worksheet"
	KindOther      Kind = "other"
)

// KindForPath guesses the kind from a file extension.
func KindForPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return KindProblemSet
	case ".pdf":
		return KindWorksheet
	default:
		return KindOther
	}
}

// ContentType returns the MIME type stored for the kind.
func (k Kind) ContentType() string {
	switch k {
	case KindProblemSet:
		return "application/json"
	case KindWorksheet:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Ref is a stable reference to a published artifact.
type Ref struct {
	// ID is the unique identifier, usually a run ID.
	ID string `json:"id"`

	// Name is the original file name.
	Name string `json:"name,omitempty"`

	// Kind classifies the artifact.
	Kind Kind `json:"kind,omitempty"`

	// ContentType is the MIME type of the artifact.
	ContentType string `json:"content_type,omitempty"`

	// Size is the size of the artifact in bytes.
	Size int64 `json:"size"`

	// Checksum is the hex sha256 of the content.
	Checksum string `json:"checksum,omitempty"`

	// Location is where the store placed the content, e.g. s3://bucket/key.
	Location string `json:"location,omitempty"`

	// CreatedAt is when the artifact was stored.
	CreatedAt time.Time `json:"created_at"`

	// Metadata contains arbitrary key-value pairs such as seed or batch name.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewRef creates a new artifact reference.
func NewRef(id string) Ref {
	return Ref{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Metadata:  make(map[string]string),
	}
}

// WithName sets the artifact name.
func (r Ref) WithName(name string) Ref {
	r.Name = name
	return r
}

// WithKind sets the kind and, if unset, the content type.
func (r Ref) WithKind(kind Kind) Ref {
	r.Kind = kind
	if r.ContentType == "" {
		r.ContentType = kind.ContentType()
	}
	return r
}

// WithMetadata adds metadata to the artifact.
func (r Ref) WithMetadata(key, value string) Ref {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
	return r
}

// IsValid returns true if the reference has a usable ID.
func (r Ref) IsValid() bool {
	return r.ID != "" && !strings.ContainsAny(r.ID, `/\`) && r.ID != "." && r.ID != ".."
}

// String returns a string representation of the reference.
func (r Ref) String() string {
	if r.Name != "" {
		return r.Name + " (" + r.ID + ")"
	}
	return r.ID
}
