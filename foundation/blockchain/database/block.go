package database

import (
	"errors"
	"time"

	"github.com/coinledger/blockchain/foundation/blockchain/signature"
)

// genesisProof is the proof value carried by the genesis block. It is never
// validated, it only anchors the chain so every node starts from the same
// block hash.
const genesisProof uint64 = 100

// Block represents one link of the chain. A block is immutable once
// constructed. Invariants: Index equals the block's position in the chain
// and PrevHash equals the hash of the block at Index-1 (except genesis).
type Block struct {
	Index        uint64 `json:"index"`
	PrevHash     string `json:"previous_hash"`
	Transactions []Tx   `json:"transactions"`
	Proof        uint64 `json:"proof"`
	TimeStamp    int64  `json:"timestamp"`
}

// Genesis constructs the well-known first block every chain starts from.
func Genesis() Block {
	return Block{
		Index:        0,
		PrevHash:     "",
		Transactions: []Tx{},
		Proof:        genesisProof,
		TimeStamp:    0,
	}
}

// NewBlock constructs the next block for the chain from the set of
// transactions and the discovered proof.
func NewBlock(index uint64, prevHash string, trans []Tx, proof uint64) Block {
	return Block{
		Index:        index,
		PrevHash:     prevHash,
		Transactions: trans,
		Proof:        proof,
		TimeStamp:    time.Now().UTC().Unix(),
	}
}

// Hash returns the unique hash for the block over the canonical key-sorted
// encoding of all its fields, including the ordered transaction list.
func (b Block) Hash() string {
	return signature.Hash(map[string]any{
		"index":         b.Index,
		"previous_hash": b.PrevHash,
		"proof":         b.Proof,
		"timestamp":     b.TimeStamp,
		"transactions":  TxHashMaps(b.Transactions),
	})
}

// =============================================================================

// ErrChainEmpty is returned when an operation needs a chain tail and the
// chain has no blocks at all.
var ErrChainEmpty = errors.New("chain has no blocks")

// LatestBlock returns the tail of the specified chain.
func LatestBlock(chain []Block) (Block, error) {
	if len(chain) == 0 {
		return Block{}, ErrChainEmpty
	}
	return chain[len(chain)-1], nil
}

// CopyChain returns a defensive copy of the chain so callers can never
// mutate ledger state out from under the owner.
func CopyChain(chain []Block) []Block {
	cpy := make([]Block, len(chain))
	copy(cpy, chain)
	return cpy
}
