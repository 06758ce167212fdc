// Package disk implements snapshot persistence using a single JSON file
// per node. This implements the database.Storage interface.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
)

// Disk represents the serialization implementation for reading and storing
// the ledger snapshot on disk.
type Disk struct {
	mu       sync.Mutex
	filePath string
}

// New constructs a Disk value for use, creating the parent directory
// if needed. The node id keys the snapshot file so multiple nodes can
// share a data folder.
func New(dbPath string, nodeID string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{
		filePath: filepath.Join(dbPath, fmt.Sprintf("ledger-%s.json", nodeID)),
	}, nil
}

// Save writes the full snapshot to disk, replacing any previous one.
func (d *Disk) Save(snapshot database.Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Marshal the snapshot in a more human readable format.
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temp file first so a crash mid-write can't corrupt the
	// current snapshot.
	tmp := d.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmp, d.filePath)
}

// Load reads the snapshot from disk. A missing file is not an error, the
// found return tells the caller to start from genesis.
func (d *Disk) Load() (database.Snapshot, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return database.Snapshot{}, false, nil
		}
		return database.Snapshot{}, false, err
	}

	var snapshot database.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return database.Snapshot{}, false, err
	}

	return snapshot, true, nil
}

// Reset removes the snapshot from disk.
func (d *Disk) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.Remove(d.filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// Close in this implementation has nothing to do since the file is written
// and immediately closed on every save.
func (d *Disk) Close() error {
	return nil
}
