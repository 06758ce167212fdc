package state

import (
	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveBeneficiaryID returns the account that receives this node's
// mining rewards. Empty when the node runs without a mining identity.
func (s *State) RetrieveBeneficiaryID() database.AccountID {
	return s.beneficiaryID
}

// RetrieveChain returns a copy of the full chain of blocks.
func (s *State) RetrieveChain() []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return database.CopyChain(s.chain)
}

// RetrieveLatestBlock returns a copy of the current chain tail.
func (s *State) RetrieveLatestBlock() (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return database.LatestBlock(s.chain)
}

// RetrieveMempool returns a copy of the open transaction pool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list, this node
// excluded.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// NeedsResolve reports whether a peer flagged a chain conflict that has
// not been reconciled yet.
func (s *State) NeedsResolve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.needsResolve
}
