package mempool_test

import (
	"testing"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_Mempool(t *testing.T) {
	tx1 := database.Tx{Sender: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Recipient: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", Amount: 1}
	tx2 := database.Tx{Sender: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Recipient: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", Amount: 2}

	t.Log("Given the need to manage the open transaction pool.")
	{
		t.Logf("\tTest 0:\tWhen appending and copying transactions.")
		{
			mp := mempool.New(nil)

			mp.Append(tx1)
			mp.Append(tx2)

			if mp.Count() != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould hold 2 transactions: got %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 0:\tShould hold 2 transactions.", success)

			cpy := mp.Copy()
			if !cpy[0].Equals(tx1) || !cpy[1].Equals(tx2) {
				t.Fatalf("\t%s\tTest 0:\tShould preserve admission order.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould preserve admission order.", success)

			cpy[0].Amount = 99
			if !mp.Copy()[0].Equals(tx1) {
				t.Fatalf("\t%s\tTest 0:\tShould hand out defensive copies.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould hand out defensive copies.", success)
		}

		t.Logf("\tTest 1:\tWhen removing matching transactions.")
		{
			mp := mempool.New([]database.Tx{tx1, tx2, tx1})

			if !mp.RemoveMatching(tx1) {
				t.Fatalf("\t%s\tTest 1:\tShould remove a matching transaction.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould remove a matching transaction.", success)

			if mp.Count() != 2 {
				t.Fatalf("\t%s\tTest 1:\tShould remove only the first match: got %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 1:\tShould remove only the first match.", success)

			if mp.RemoveMatching(database.Tx{Sender: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Recipient: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", Amount: 42}) {
				t.Fatalf("\t%s\tTest 1:\tShould report false for an absent transaction.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould report false for an absent transaction.", success)
		}

		t.Logf("\tTest 2:\tWhen truncating the pool.")
		{
			mp := mempool.New([]database.Tx{tx1, tx2})

			mp.Truncate()
			if mp.Count() != 0 {
				t.Fatalf("\t%s\tTest 2:\tShould be empty after truncate: got %d", failed, mp.Count())
			}
			t.Logf("\t%s\tTest 2:\tShould be empty after truncate.", success)
		}
	}
}
