package state

import (
	"fmt"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/verification"
)

// UpsertWalletTransaction accepts a signed transaction submitted on this
// node, relays it to every known peer, and signals mining. An explicit
// rejection by a peer surfaces as an error to the caller; the local
// admission is not rolled back.
func (s *State) UpsertWalletTransaction(tx database.Tx) error {
	if err := s.upsertTransaction(tx); err != nil {
		return err
	}

	s.evHandler("state: UpsertWalletTransaction: tx admitted: %s -> %s: %v", tx.Sender, tx.Recipient, tx.Amount)

	if err := s.NetSendTxToPeers(tx); err != nil {
		return err
	}

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// UpsertPeerTransaction accepts a transaction relayed by a peer node.
// Relayed transactions are not re-broadcast.
func (s *State) UpsertPeerTransaction(tx database.Tx) error {
	if err := s.upsertTransaction(tx); err != nil {
		return err
	}

	s.evHandler("state: UpsertPeerTransaction: tx admitted: %s -> %s: %v", tx.Sender, tx.Recipient, tx.Amount)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// upsertTransaction validates the sender has sufficient funds, appends the
// transaction to the open pool, and persists. Admission only checks the
// balance; signatures are verified when the transaction is mined.
func (s *State) upsertTransaction(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !verification.VerifyTransaction(tx, s.balanceOf) {
		return fmt.Errorf("account %s, balance %v, amount %v: %w", tx.Sender, s.balanceOf(tx.Sender), tx.Amount, ErrInsufficientFunds)
	}

	s.mempool.Append(tx)
	s.persist()

	return nil
}
