package state

import (
	"fmt"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/verification"
)

// ProcessPeerBlock validates a block mined by a peer and appends it to the
// chain. Pool entries that appear in the block are pruned so this node
// does not mine them again. Any mining in flight is cancelled since its
// tail snapshot is now stale.
func (s *State) ProcessPeerBlock(block database.Block) error {
	if err := s.validateAndCommit(block); err != nil {
		return err
	}

	s.evHandler("state: ProcessPeerBlock: accepted block %d: prevHash[%s] txs[%d]", block.Index, block.PrevHash, len(block.Transactions))

	if s.Worker != nil {
		s.Worker.SignalCancelMining()
	}

	return nil
}

func (s *State) validateAndCommit(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tail, err := database.LatestBlock(s.chain)
	if err != nil {
		return err
	}

	// The proof was computed before the reward transaction was appended,
	// so it is excluded from the check.
	trans := block.Transactions
	if len(trans) > 0 {
		trans = trans[:len(trans)-1]
	}

	if !verification.ValidProof(trans, block.PrevHash, block.Proof) {
		return fmt.Errorf("block %d: %w", block.Index, ErrInvalidProof)
	}

	if block.PrevHash != tail.Hash() {
		return fmt.Errorf("block %d: %w", block.Index, ErrHashMismatch)
	}

	s.chain = append(s.chain, block)

	for _, tx := range block.Transactions {
		if s.mempool.RemoveMatching(tx) {
			s.evHandler("state: ProcessPeerBlock: pruned open tx: %s -> %s: %v", tx.Sender, tx.Recipient, tx.Amount)
		}
	}

	s.persist()

	return nil
}
