// Package mirror abstracts the durable remote copy of the inventory snapshot.
// One document exists per installation; reconciliation compares its timestamp
// against the local one and propagates the winner.
package mirror

import (
	"context"

	"fridgekeep/internal/model"
)

// Document is the remote snapshot: the full item set plus its last-modified
// timestamp in wall-clock milliseconds.
type Document struct {
	Items        []model.InventoryItem `json:"items"`
	LastModified int64                 `json:"lastModified"`
}

// Mirror is a capability-checked remote snapshot store. Environments without
// a remote backend plug in Unavailable and every remote-dependent code path
// short-circuits silently.
type Mirror interface {
	// Available reports whether the remote side is reachable at all.
	Available(ctx context.Context) bool

	// Read fetches the remote snapshot, or nil when none has been written yet.
	Read(ctx context.Context) (*Document, error)

	// Write replaces the remote snapshot.
	Write(ctx context.Context, doc *Document) error
}

// Unavailable is the no-op Mirror for deployments without a remote backend.
type Unavailable struct{}

// Available always reports false.
func (Unavailable) Available(ctx context.Context) bool { return false }

// Read never returns a document.
func (Unavailable) Read(ctx context.Context) (*Document, error) { return nil, nil }

// Write discards the document.
func (Unavailable) Write(ctx context.Context, doc *Document) error { return nil }
