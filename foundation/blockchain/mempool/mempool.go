// Package mempool maintains the pool of open transactions waiting to be
// mined into a block. Admission order is preserved because the transaction
// order inside a block is part of its hash.
package mempool

import (
	"sync"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
)

// Mempool represents the ordered pool of open transactions.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new mempool seeded with the specified pending
// transactions, typically reloaded from a snapshot.
func New(pending []database.Tx) *Mempool {
	mp := Mempool{
		pool: make([]database.Tx, len(pending)),
	}
	copy(mp.pool, pending)

	return &mp
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds a transaction to the end of the pool.
func (mp *Mempool) Append(tx database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)
}

// Copy returns a copy of the pool in admission order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// RemoveMatching removes the first pool entry structurally equal to the
// specified transaction. Removing a transaction that is already absent
// is not an error.
func (mp *Mempool) RemoveMatching(tx database.Tx) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for i, openTx := range mp.pool {
		if openTx.Equals(tx) {
			mp.pool = append(mp.pool[:i], mp.pool[i+1:]...)
			return true
		}
	}

	return false
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = []database.Tx{}
}
