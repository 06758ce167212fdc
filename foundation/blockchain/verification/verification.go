// Package verification provides the stateless consensus predicates: is a
// proof valid for a set of transactions, does a sender hold enough funds,
// and is an entire chain internally consistent.
package verification

import (
	"fmt"
	"strings"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/signature"
)

// powPrefix is the difficulty target: a proof digest must start with this
// many zero characters. The target is fixed and deliberately cheap so a
// block mines in bounded time; it never adjusts to network hash-rate.
const powPrefix = "00"

// BalanceFunc reports the current balance of an account. The ledger
// provides one derived from its chain and open transaction pool.
type BalanceFunc func(account database.AccountID) float64

// ValidProof reports whether the proof solves the work puzzle for the
// specified transactions and previous block hash. The digest is computed
// over the same canonical encoding used for block hashing so mining and
// later re-verification agree bit for bit.
func ValidProof(trans []database.Tx, prevHash string, proof uint64) bool {
	digest := signature.Hash(map[string]any{
		"previous_hash": prevHash,
		"proof":         proof,
		"transactions":  database.TxHashMaps(trans),
	})

	return strings.HasPrefix(digest, powPrefix)
}

// VerifyTransaction reports whether the sender holds enough funds for the
// transaction. Reward transactions are always valid regardless of balance.
func VerifyTransaction(tx database.Tx, balanceOf BalanceFunc) bool {
	if tx.IsReward() {
		return true
	}

	return balanceOf(tx.Sender) >= tx.Amount
}

// VerifyChain checks the chain is internally consistent: every block
// after genesis links to the hash of its predecessor and carries a valid
// proof over all but its final (reward) transaction. The check
// short-circuits on the first violation.
func VerifyChain(chain []database.Block) error {
	for i, block := range chain {
		if i == 0 {
			continue
		}

		if block.PrevHash != chain[i-1].Hash() {
			return fmt.Errorf("block %d does not link to its predecessor", block.Index)
		}

		// The mining reward is appended after proof discovery, so it is
		// excluded from the proof check.
		trans := block.Transactions
		if len(trans) > 0 {
			trans = trans[:len(trans)-1]
		}

		if !ValidProof(trans, block.PrevHash, block.Proof) {
			return fmt.Errorf("block %d carries an invalid proof", block.Index)
		}
	}

	return nil
}
