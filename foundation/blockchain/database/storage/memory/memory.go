// Package memory implements snapshot persistence in memory. This implements
// the database.Storage interface and exists to support testing.
package memory

import (
	"sync"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
)

// Memory represents the serialization implementation for keeping the
// ledger snapshot in memory.
type Memory struct {
	mu       sync.Mutex
	snapshot database.Snapshot
	saved    bool
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// NewWithSnapshot constructs a Memory value that starts out holding the
// specified snapshot, as if a previous run had saved it.
func NewWithSnapshot(snapshot database.Snapshot) (*Memory, error) {
	return &Memory{snapshot: snapshot, saved: true}, nil
}

// Save keeps the specified snapshot as the current one.
func (m *Memory) Save(snapshot database.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = snapshot
	m.saved = true

	return nil
}

// Load returns the current snapshot if one was ever saved.
func (m *Memory) Load() (database.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshot, m.saved, nil
}

// Reset clears the current snapshot.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = database.Snapshot{}
	m.saved = false

	return nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}
