package worker_test

import (
	"context"
	"crypto/ecdsa"
	"testing"
	"time"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/database/storage/memory"
	"github.com/coinledger/blockchain/foundation/blockchain/state"
	"github.com/coinledger/blockchain/foundation/blockchain/worker"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func newAccount(t *testing.T) (*ecdsa.PrivateKey, database.AccountID) {
	t.Helper()

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("unable to generate private key: %v", err)
	}

	return privateKey, database.PublicKeyToAccountID(privateKey.PublicKey)
}

func newState(t *testing.T, beneficiaryID database.AccountID) *state.State {
	t.Helper()

	strg, err := memory.New()
	if err != nil {
		t.Fatalf("unable to open memory storage: %v", err)
	}

	st, err := state.New(state.Config{
		BeneficiaryID: beneficiaryID,
		Host:          "0.0.0.0:9080",
		Storage:       strg,
	})
	if err != nil {
		t.Fatalf("unable to construct state: %v", err)
	}

	return st
}

func signedTx(t *testing.T, privateKey *ecdsa.PrivateKey, recipient database.AccountID, amount float64) database.Tx {
	t.Helper()

	sender := database.PublicKeyToAccountID(privateKey.PublicKey)

	tx, err := database.NewTx(sender, recipient, amount)
	if err != nil {
		t.Fatalf("unable to construct transaction: %v", err)
	}

	tx, err = tx.Sign(privateKey)
	if err != nil {
		t.Fatalf("unable to sign transaction: %v", err)
	}

	return tx
}

// waitFor polls the condition until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

// =============================================================================

func Test_MiningDrainsPool(t *testing.T) {
	minerKey, miner := newAccount(t)
	_, other := newAccount(t)

	t.Log("Given the need to mine every admitted transaction without outside help.")
	{
		t.Logf("\tTest 0:\tWhen transactions arrive while a mining operation runs.")
		{
			st := newState(t, miner)

			// Fund the miner before the worker starts.
			if _, err := st.MineBlock(context.Background()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the first block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine the first block.", success)

			worker.Run(st, func(v string, args ...any) {})
			defer st.Worker.Shutdown()

			// Submissions overlap the proof searches they trigger. Any
			// transaction left behind by a dropped signal must still be
			// picked up by a follow-on mining attempt.
			for i := 0; i < 4; i++ {
				if err := st.UpsertWalletTransaction(signedTx(t, minerKey, other, 1)); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to submit transaction %d: %v", failed, i, err)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould be able to submit the transactions.", success)

			drained := waitFor(t, func() bool {
				return len(st.RetrieveMempool()) == 0
			})
			if !drained {
				t.Fatalf("\t%s\tTest 0:\tShould drain the open pool: %d left", failed, len(st.RetrieveMempool()))
			}
			t.Logf("\t%s\tTest 0:\tShould drain the open pool.", success)

			if bal := st.BalanceOf(other); bal != 4 {
				t.Fatalf("\t%s\tTest 0:\tShould mine every transferred unit: got %v", failed, bal)
			}
			t.Logf("\t%s\tTest 0:\tShould mine every transferred unit.", success)
		}
	}
}
