package mirror

import (
	"context"
	"sync"

	"fridgekeep/internal/model"
)

// MemoryMirror is an in-memory Mirror for tests.
type MemoryMirror struct {
	mu  sync.Mutex
	doc *Document

	// Offline, when true, makes Available report false.
	Offline bool
	// ReadErr and WriteErr force the corresponding operations to fail.
	ReadErr  error
	WriteErr error
	// BeforeRead, when set, runs at the start of each Read while no lock is
	// held. Used to interleave calls in concurrency tests.
	BeforeRead func()

	reads  int
	writes int
}

// NewMemoryMirror creates an empty in-memory mirror.
func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{}
}

// Available reports whether the mirror is online.
func (m *MemoryMirror) Available(ctx context.Context) bool {
	return !m.Offline
}

// Read returns a copy of the stored document, or nil when none exists.
func (m *MemoryMirror) Read(ctx context.Context) (*Document, error) {
	if m.BeforeRead != nil {
		m.BeforeRead()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	if m.doc == nil {
		return nil, nil
	}
	copied := *m.doc
	copied.Items = append([]model.InventoryItem(nil), m.doc.Items...)
	return &copied, nil
}

// Write replaces the stored document.
func (m *MemoryMirror) Write(ctx context.Context, doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	copied := *doc
	copied.Items = append(copied.Items[:0:0], doc.Items...)
	m.doc = &copied
	return nil
}

// Document returns the currently stored document.
func (m *MemoryMirror) Document() *Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc
}

// Reads returns how many Read calls have been made.
func (m *MemoryMirror) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Writes returns how many Write calls have been made.
func (m *MemoryMirror) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
