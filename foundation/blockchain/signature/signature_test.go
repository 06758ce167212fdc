package signature_test

import (
	"testing"

	"github.com/coinledger/blockchain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_Hashing(t *testing.T) {
	t.Log("Given the need to produce reproducible hashes.")
	{
		t.Logf("\tTest 0:\tWhen hashing the same value twice.")
		{
			value := map[string]any{
				"sender":    "bill",
				"recipient": "ed",
				"amount":    10.5,
			}

			hash1 := signature.Hash(value)
			hash2 := signature.Hash(value)

			if hash1 != hash2 {
				t.Fatalf("\t%s\tTest 0:\tShould produce the same hash: %s != %s", failed, hash1, hash2)
			}
			t.Logf("\t%s\tTest 0:\tShould produce the same hash.", success)

			if len(hash1) != 64 {
				t.Fatalf("\t%s\tTest 0:\tShould produce a 64 character hex digest: got %d", failed, len(hash1))
			}
			t.Logf("\t%s\tTest 0:\tShould produce a 64 character hex digest.", success)
		}

		t.Logf("\tTest 1:\tWhen hashing different values.")
		{
			hash1 := signature.Hash(map[string]any{"amount": 10.5})
			hash2 := signature.Hash(map[string]any{"amount": 10.6})

			if hash1 == hash2 {
				t.Fatalf("\t%s\tTest 1:\tShould produce different hashes.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould produce different hashes.", success)
		}
	}
}

func Test_SignConsistency(t *testing.T) {
	t.Log("Given the need to verify signatures are recoverable.")
	{
		t.Logf("\tTest 0:\tWhen signing a value and recovering the address.")
		{
			privateKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to generate a private key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to generate a private key.", success)

			value := map[string]any{
				"sender":    "bill",
				"recipient": "ed",
				"amount":    10.5,
			}

			sig, err := signature.Sign(value, privateKey)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to sign the value: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to sign the value.", success)

			if err := signature.VerifySignature(sig); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould produce a well formed signature: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould produce a well formed signature.", success)

			addr, err := signature.FromAddress(value, sig)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to recover the address: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to recover the address.", success)

			expected := crypto.PubkeyToAddress(privateKey.PublicKey).String()
			if addr != expected {
				t.Fatalf("\t%s\tTest 0:\tShould recover the signing address: exp %s, got %s", failed, expected, addr)
			}
			t.Logf("\t%s\tTest 0:\tShould recover the signing address.", success)
		}

		t.Logf("\tTest 1:\tWhen recovering from a different value.")
		{
			privateKey, err := crypto.GenerateKey()
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to generate a private key: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to generate a private key.", success)

			sig, err := signature.Sign(map[string]any{"amount": 10.5}, privateKey)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to sign the value: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to sign the value.", success)

			addr, err := signature.FromAddress(map[string]any{"amount": 99.9}, sig)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould still recover an address: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould still recover an address.", success)

			expected := crypto.PubkeyToAddress(privateKey.PublicKey).String()
			if addr == expected {
				t.Fatalf("\t%s\tTest 1:\tShould not recover the signing address for tampered data.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould not recover the signing address for tampered data.", success)
		}

		t.Logf("\tTest 2:\tWhen checking a malformed signature.")
		{
			if err := signature.VerifySignature("0xdeadbeef"); err == nil {
				t.Fatalf("\t%s\tTest 2:\tShould reject a short signature.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a short signature.", success)
		}
	}
}
