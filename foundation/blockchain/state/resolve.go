package state

import (
	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/verification"
)

// Resolve reconciles this node's chain against every known peer by the
// longest-valid-chain rule. A strictly longer chain that verifies end to
// end replaces the local chain and clears the open pool. The resolve flag
// is cleared whether or not a replacement happened. Unreachable peers are
// skipped. The bool reports whether the local chain was replaced.
func (s *State) Resolve() (bool, error) {
	s.evHandler("state: Resolve: started")
	defer s.evHandler("state: Resolve: completed")

	winner := s.RetrieveChain()
	replaced := false

	for _, pr := range s.knownPeers.Copy(s.host) {
		chain, err := s.NetRequestPeerChain(pr)
		if err != nil {
			s.evHandler("state: Resolve: WARNING: peer %s unreachable: %s", pr.Host, err)
			continue
		}

		if len(chain) <= len(winner) {
			continue
		}

		if err := verification.VerifyChain(chain); err != nil {
			s.evHandler("state: Resolve: WARNING: peer %s chain invalid: %s", pr.Host, err)
			continue
		}

		winner = chain
		replaced = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The local chain can advance while the peers are being queried, so
	// the strictly longer rule is re-checked against the current chain
	// before adoption. A block mined or accepted mid-resolve wins a tie.
	if replaced && len(winner) > len(s.chain) {
		s.chain = database.CopyChain(winner)
		s.mempool.Truncate()
		s.evHandler("state: Resolve: chain replaced: %d blocks", len(winner))
	} else {
		replaced = false
	}

	s.needsResolve = false
	s.persist()

	return replaced, nil
}
