package state

import (
	"context"
	"fmt"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/verification"
)

// MiningReward is the amount granted to the mining node for each block it
// successfully mines.
const MiningReward = 10.0

// MineBlock performs the proof of work over the current open transaction
// pool, appends the new block with the mining reward, and removes the
// mined transactions from the pool. The context cancels a search in
// flight. If the chain tail advances while the proof is being searched,
// ErrChainAdvanced is returned and nothing is committed.
func (s *State) MineBlock(ctx context.Context) (database.Block, error) {
	if s.beneficiaryID == "" {
		return database.Block{}, ErrNoIdentity
	}

	// Snapshot the pool and the chain tail. The proof search runs without
	// the lock so block acceptance and queries are never starved.
	s.mu.Lock()
	trans := s.mempool.Copy()
	tail, err := database.LatestBlock(s.chain)
	s.mu.Unlock()
	if err != nil {
		return database.Block{}, err
	}

	// Every open transaction must carry a valid signature before it can be
	// committed to a block.
	for _, tx := range trans {
		if err := tx.VerifySignature(); err != nil {
			return database.Block{}, fmt.Errorf("tx %s -> %s: %w", tx.Sender, tx.Recipient, err)
		}
	}

	prevHash := tail.Hash()

	proof, err := s.proofOfWork(ctx, trans, prevHash)
	if err != nil {
		return database.Block{}, err
	}

	// The reward transaction is part of the block but never part of the
	// proof digest.
	trans = append(trans, database.NewRewardTx(s.beneficiaryID, MiningReward))

	block := database.NewBlock(tail.Index+1, prevHash, trans, proof)

	if err := s.commitMinedBlock(block); err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineBlock: mined block %d: prevHash[%s] txs[%d]", block.Index, block.PrevHash, len(block.Transactions))

	return block, nil
}

// proofOfWork searches for the smallest proof value that satisfies the
// difficulty condition, checking for cancellation as it goes.
func (s *State) proofOfWork(ctx context.Context, trans []database.Tx, prevHash string) (uint64, error) {
	var proof uint64

	for !verification.ValidProof(trans, prevHash, proof) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		proof++
	}

	return proof, nil
}

// commitMinedBlock appends the mined block if the chain tail is still the
// one the proof was computed against, then drops the mined transactions
// from the open pool.
func (s *State) commitMinedBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tail, err := database.LatestBlock(s.chain)
	if err != nil {
		return err
	}

	if block.PrevHash != tail.Hash() || block.Index != tail.Index+1 {
		return ErrChainAdvanced
	}

	s.chain = append(s.chain, block)

	for _, tx := range block.Transactions {
		s.mempool.RemoveMatching(tx)
	}

	s.persist()

	return nil
}
