// Package cache provides pluggable byte caching for pipeline stages.
//
// Three backends are available: a file cache for CLI usage, a Redis
// cache for the server, and a null cache that disables caching. Keys are
// built by a [Keyer] so both CLI and server agree on what identifies a
// cached stage result.
package cache

import (
	"context"
	"time"
)

// Stage TTLs. Assemblies are cheap to recompute, so they expire fastest;
// rendered artifacts and generated text are the expensive parts.
const (
	TTLAssembly = 24 * time.Hour
	TTLText     = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl stores it without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
