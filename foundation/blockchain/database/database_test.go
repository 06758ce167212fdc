package database_test

import (
	"errors"
	"testing"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/database/storage/disk"
	"github.com/coinledger/blockchain/foundation/blockchain/database/storage/memory"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_Transactions(t *testing.T) {
	t.Log("Given the need to validate transaction construction and signing.")
	{
		t.Logf("\tTest 0:\tWhen constructing and signing a transaction.")
		{
			privateKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a private key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to generate a private key.", success)

			sender := database.PublicKeyToAccountID(privateKey.PublicKey)
			recipient := database.AccountID("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32")

			tx, err := database.NewTx(sender, recipient, 10)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct a transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to construct a transaction.", success)

			signedTx, err := tx.Sign(privateKey)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign the transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to sign the transaction.", success)

			if err := signedTx.VerifySignature(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to verify the signature: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to verify the signature.", success)

			tampered := signedTx
			tampered.Amount = 99
			if err := tampered.VerifySignature(); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a tampered amount.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a tampered amount.", success)
		}

		t.Logf("\tTest 1:\tWhen signing with a key that is not the sender's.")
		{
			privateKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to generate a private key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to generate a private key.", success)

			tx, err := database.NewTx("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", 10)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to construct a transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to construct a transaction.", success)

			if _, err := tx.Sign(privateKey); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a foreign signing key.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a foreign signing key.", success)
		}

		t.Logf("\tTest 2:\tWhen constructing invalid transactions.")
		{
			if _, err := database.NewTx("not-an-account", "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", 10); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a malformed sender.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a malformed sender.", success)

			if _, err := database.NewTx("0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", -1); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a negative amount.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a negative amount.", success)
		}

		t.Logf("\tTest 3:\tWhen constructing a reward transaction.")
		{
			tx := database.NewRewardTx("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", 10)

			if !tx.IsReward() {
				t.Fatalf("\t%s\tTest 3:\tShould be flagged as a reward.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould be flagged as a reward.", success)

			if err := tx.VerifySignature(); err != nil {
				t.Fatalf("\t%s\tTest 3:\tShould verify without a signature: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould verify without a signature.", success)
		}
	}
}

func Test_AccountID(t *testing.T) {
	type table struct {
		name    string
		account string
		valid   bool
	}

	tt := []table{
		{"mixed case hex", "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", true},
		{"no 0x prefix", "dd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", true},
		{"non hex character", "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebg4", false},
		{"too short", "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8eb", false},
		{"reward identity", "MINING", false},
	}

	t.Log("Given the need to validate account formatting.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen checking %s.", testID, tst.name)
			{
				_, err := database.ToAccountID(tst.account)

				if tst.valid && err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould accept the account: %v", failed, testID, err)
				}
				if !tst.valid && err == nil {
					t.Fatalf("\t%s\tTest %d:\tShould reject the account.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get the expected verdict.", success, testID)
			}
		}
	}
}

func Test_Blocks(t *testing.T) {
	t.Log("Given the need to validate block construction and hashing.")
	{
		t.Logf("\tTest 0:\tWhen checking the genesis block.")
		{
			gen := database.Genesis()

			if gen.Index != 0 || gen.PrevHash != "" || gen.Proof != 100 || gen.TimeStamp != 0 || len(gen.Transactions) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould carry the well known genesis values: %+v", failed, gen)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the well known genesis values.", success)

			if database.Genesis().Hash() != gen.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould hash identically on every node.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hash identically on every node.", success)
		}

		t.Logf("\tTest 1:\tWhen hashing a block.")
		{
			gen := database.Genesis()
			block := database.NewBlock(1, gen.Hash(), []database.Tx{database.NewRewardTx("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", 10)}, 42)

			if block.Hash() != block.Hash() {
				t.Fatalf("\t%s\tTest 1:\tShould hash deterministically.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould hash deterministically.", success)

			tampered := block
			tampered.Proof++
			if tampered.Hash() == block.Hash() {
				t.Fatalf("\t%s\tTest 1:\tShould change the hash when any field changes.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould change the hash when any field changes.", success)
		}

		t.Logf("\tTest 2:\tWhen asking for the tail of an empty chain.")
		{
			if _, err := database.LatestBlock(nil); !errors.Is(err, database.ErrChainEmpty) {
				t.Fatalf("\t%s\tTest 2:\tShould get ErrChainEmpty: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get ErrChainEmpty.", success)
		}
	}
}

func Test_Storage(t *testing.T) {
	snapshot := database.Snapshot{
		Chain:            []database.Block{database.Genesis()},
		OpenTransactions: []database.Tx{database.NewRewardTx("0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", 10)},
		PeerNodes:        []string{"0.0.0.0:9180"},
	}

	t.Log("Given the need to persist and reload snapshots.")
	{
		t.Logf("\tTest 0:\tWhen using disk storage.")
		{
			strg, err := disk.New(t.TempDir(), "9080")
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to open disk storage: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to open disk storage.", success)
			defer strg.Close()

			if _, found, err := strg.Load(); err != nil || found {
				t.Fatalf("\t%s\tTest 0:\tShould report not found before the first save: found %v, err %v", failed, found, err)
			}
			t.Logf("\t%s\tTest 0:\tShould report not found before the first save.", success)

			if err := strg.Save(snapshot); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save a snapshot: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to save a snapshot.", success)

			loaded, found, err := strg.Load()
			if err != nil || !found {
				t.Fatalf("\t%s\tTest 0:\tShould be able to reload the snapshot: found %v, err %v", failed, found, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to reload the snapshot.", success)

			if len(loaded.Chain) != 1 || len(loaded.OpenTransactions) != 1 || len(loaded.PeerNodes) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould round trip all three sections: %+v", failed, loaded)
			}
			t.Logf("\t%s\tTest 0:\tShould round trip all three sections.", success)

			if loaded.Chain[0].Hash() != database.Genesis().Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould preserve the block hash across the round trip.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould preserve the block hash across the round trip.", success)
		}

		t.Logf("\tTest 1:\tWhen using memory storage.")
		{
			strg, err := memory.New()
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to open memory storage: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to open memory storage.", success)

			if err := strg.Save(snapshot); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to save a snapshot: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to save a snapshot.", success)

			loaded, found, err := strg.Load()
			if err != nil || !found {
				t.Fatalf("\t%s\tTest 1:\tShould be able to reload the snapshot: found %v, err %v", failed, found, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to reload the snapshot.", success)

			if len(loaded.Chain) != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould round trip the chain.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould round trip the chain.", success)
		}
	}
}
