package verification_test

import (
	"testing"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/verification"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

// findProof searches for a proof the same way a mining node would.
func findProof(t *testing.T, trans []database.Tx, prevHash string) uint64 {
	t.Helper()

	var proof uint64
	for !verification.ValidProof(trans, prevHash, proof) {
		proof++
	}
	return proof
}

// mineNext extends the chain with a block over the specified transactions
// plus a mining reward.
func mineNext(t *testing.T, chain []database.Block, trans []database.Tx) []database.Block {
	t.Helper()

	tail := chain[len(chain)-1]
	prevHash := tail.Hash()
	proof := findProof(t, trans, prevHash)

	trans = append(trans, database.NewRewardTx("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", 10))
	return append(chain, database.NewBlock(tail.Index+1, prevHash, trans, proof))
}

func Test_ValidProof(t *testing.T) {
	t.Log("Given the need to validate the proof of work predicate.")
	{
		t.Logf("\tTest 0:\tWhen searching for a proof over a set of transactions.")
		{
			trans := []database.Tx{
				{Sender: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Recipient: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", Amount: 5},
			}
			prevHash := database.Genesis().Hash()

			proof := findProof(t, trans, prevHash)

			if !verification.ValidProof(trans, prevHash, proof) {
				t.Fatalf("\t%s\tTest 0:\tShould validate the proof that was found.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould validate the proof that was found.", success)

			if !verification.ValidProof(trans, prevHash, proof) {
				t.Fatalf("\t%s\tTest 0:\tShould validate deterministically.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould validate deterministically.", success)
		}
	}
}

func Test_VerifyTransaction(t *testing.T) {
	balanceOf := func(account database.AccountID) float64 {
		if account == "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4" {
			return 10
		}
		return 0
	}

	t.Log("Given the need to validate transaction funding.")
	{
		t.Logf("\tTest 0:\tWhen the sender holds enough funds.")
		{
			tx := database.Tx{Sender: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Recipient: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", Amount: 10}
			if !verification.VerifyTransaction(tx, balanceOf) {
				t.Fatalf("\t%s\tTest 0:\tShould accept a fully funded transaction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a fully funded transaction.", success)
		}

		t.Logf("\tTest 1:\tWhen the sender is short of funds.")
		{
			tx := database.Tx{Sender: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Recipient: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", Amount: 10.01}
			if verification.VerifyTransaction(tx, balanceOf) {
				t.Fatalf("\t%s\tTest 1:\tShould reject an underfunded transaction.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject an underfunded transaction.", success)
		}

		t.Logf("\tTest 2:\tWhen the transaction is a mining reward.")
		{
			tx := database.NewRewardTx("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", 10)
			if !verification.VerifyTransaction(tx, balanceOf) {
				t.Fatalf("\t%s\tTest 2:\tShould accept a reward regardless of balance.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould accept a reward regardless of balance.", success)
		}
	}
}

func Test_VerifyChain(t *testing.T) {
	t.Log("Given the need to validate an entire chain.")
	{
		t.Logf("\tTest 0:\tWhen verifying a freshly mined chain.")
		{
			chain := []database.Block{database.Genesis()}
			chain = mineNext(t, chain, nil)
			chain = mineNext(t, chain, []database.Tx{
				{Sender: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", Recipient: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Amount: 3},
			})

			if err := verification.VerifyChain(chain); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould verify a well formed chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould verify a well formed chain.", success)
		}

		t.Logf("\tTest 1:\tWhen a block in the middle is tampered with.")
		{
			chain := []database.Block{database.Genesis()}
			chain = mineNext(t, chain, nil)
			chain = mineNext(t, chain, nil)

			chain[1].Transactions[0].Amount = 1000000

			if err := verification.VerifyChain(chain); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a chain with a tampered block.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a chain with a tampered block.", success)
		}

		t.Logf("\tTest 2:\tWhen a link points at the wrong predecessor.")
		{
			chain := []database.Block{database.Genesis()}
			chain = mineNext(t, chain, nil)

			chain[1].PrevHash = database.Genesis().Hash()[1:] + "0"

			if err := verification.VerifyChain(chain); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a broken link.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a broken link.", success)
		}
	}
}
