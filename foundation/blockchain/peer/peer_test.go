package peer_test

import (
	"testing"

	"github.com/coinledger/blockchain/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// =============================================================================

func Test_PeerSet(t *testing.T) {
	t.Log("Given the need to manage the set of known peers.")
	{
		t.Logf("\tTest 0:\tWhen adding peers to the set.")
		{
			ps := peer.NewPeerSet()

			if !ps.Add(peer.New("0.0.0.0:9080")) {
				t.Fatalf("\t%s\tTest 0:\tShould report true for a new peer.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report true for a new peer.", success)

			if ps.Add(peer.New("0.0.0.0:9080")) {
				t.Fatalf("\t%s\tTest 0:\tShould report false for a duplicate peer.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report false for a duplicate peer.", success)

			ps.Add(peer.New("0.0.0.0:9180"))
			if len(ps.Copy("")) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould hold 2 peers: got %d", failed, len(ps.Copy("")))
			}
			t.Logf("\t%s\tTest 0:\tShould hold 2 peers.", success)
		}

		t.Logf("\tTest 1:\tWhen removing peers from the set.")
		{
			ps := peer.NewPeerSet()
			ps.Add(peer.New("0.0.0.0:9080"))

			ps.Remove(peer.New("0.0.0.0:9080"))
			ps.Remove(peer.New("0.0.0.0:9080"))

			if len(ps.Copy("")) != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould be empty after removal: got %d", failed, len(ps.Copy("")))
			}
			t.Logf("\t%s\tTest 1:\tShould be empty after repeated removal.", success)
		}

		t.Logf("\tTest 2:\tWhen copying the set excluding this node.")
		{
			ps := peer.NewPeerSet()
			ps.Add(peer.New("0.0.0.0:9080"))
			ps.Add(peer.New("0.0.0.0:9180"))

			peers := ps.Copy("0.0.0.0:9080")
			if len(peers) != 1 || peers[0].Host != "0.0.0.0:9180" {
				t.Fatalf("\t%s\tTest 2:\tShould exclude the local host: %+v", failed, peers)
			}
			t.Logf("\t%s\tTest 2:\tShould exclude the local host.", success)
		}
	}
}
