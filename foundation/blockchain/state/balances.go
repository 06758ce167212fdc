package state

import (
	"github.com/coinledger/blockchain/foundation/blockchain/database"
)

// BalanceOf derives the balance for the specified account: the sum of
// amounts received across mined blocks minus the sum sent across mined
// blocks and the open transaction pool.
func (s *State) BalanceOf(account database.AccountID) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.balanceOf(account)
}

// Balances derives the balance of every account that appears in the chain
// or the open pool.
func (s *State) Balances() map[database.AccountID]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make(map[database.AccountID]struct{})

	capture := func(tx database.Tx) {
		if tx.Sender != "" {
			accounts[tx.Sender] = struct{}{}
		}
		accounts[tx.Recipient] = struct{}{}
	}

	for _, block := range s.chain {
		for _, tx := range block.Transactions {
			capture(tx)
		}
	}
	for _, tx := range s.mempool.Copy() {
		capture(tx)
	}

	balances := make(map[database.AccountID]float64, len(accounts))
	for account := range accounts {
		balances[account] = s.balanceOf(account)
	}

	return balances
}

// OwnBalance derives the balance of this node's mining identity.
func (s *State) OwnBalance() (float64, error) {
	if s.beneficiaryID == "" {
		return 0, ErrNoIdentity
	}

	return s.BalanceOf(s.beneficiaryID), nil
}
