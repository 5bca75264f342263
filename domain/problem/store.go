package problem

import "context"

// Store persists problem sets.
type Store interface {
	// Save writes the set to path, creating parent directories as needed.
	Save(ctx context.Context, path string, set *Set) error

	// Load reads a set from path.
	Load(ctx context.Context, path string) (*Set, error)
}
