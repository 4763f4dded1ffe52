package blob

import "context"

// Store is a small key-value blob store used for the local inventory snapshot,
// its last-modified marker and the installation id. Implementations must
// preserve last-write-wins per key.
//
// This abstraction allows swapping between the embedded SQLite store, Redis
// for shared deployments and an in-memory store for tests without changing
// business logic.
type Store interface {
	// GetString retrieves the value for key. The boolean reports whether the
	// key was present.
	GetString(ctx context.Context, key string) (string, bool, error)

	// SetString stores value under key, replacing any previous value.
	SetString(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}
