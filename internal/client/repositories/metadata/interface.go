// Package metadata is the CLI's scoped key/value region. The session lives
// here under a single key.
package metadata

import (
	"context"
)

// DefaultScope is the region the CLI keeps its session in.
const DefaultScope = "session"

// Repository stores opaque values by key within one scope. Get returns
// (nil, nil) for an absent key and Delete of an absent key is not an error.
// List and Clear never touch other scopes.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
