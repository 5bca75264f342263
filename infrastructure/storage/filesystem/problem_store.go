// Package filesystem provides local file storage for problem sets and
// published artifacts.
package filesystem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/worksheet-go/domain/problem"
)

// ProblemStore reads and writes problem sets as indented JSON files.
type ProblemStore struct{}

// NewProblemStore creates a problem set store.
func NewProblemStore() *ProblemStore {
	return &ProblemStore{}
}

// Save writes set to path, creating parent directories. The file is
// written to a temporary sibling first so a failed write leaves no output.
func (s *ProblemStore) Save(ctx context.Context, path string, set *problem.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode problem set: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write problem set: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close problem set: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod problem set: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename problem set: %w", err)
	}
	return nil
}

// Load reads a problem set from path.
func (s *ProblemStore) Load(ctx context.Context, path string) (*problem.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", problem.ErrSetNotFound, path)
		}
		return nil, fmt.Errorf("read problem set: %w", err)
	}

	var set problem.Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode problem set %s: %w", path, err)
	}
	return &set, nil
}

var _ problem.Store = (*ProblemStore)(nil)
