// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/mempool"
	"github.com/coinledger/blockchain/foundation/blockchain/peer"
)

// Set of errors the ledger operations can return.
var (
	ErrNoIdentity        = errors.New("node has no mining identity configured")
	ErrInsufficientFunds = errors.New("sender does not have sufficient funds")
	ErrChainAdvanced     = errors.New("chain tail advanced during mining")
	ErrPeerRejected      = errors.New("peer rejected the broadcast")
	ErrInvalidProof      = errors.New("block proof is not valid")
	ErrHashMismatch      = errors.New("previous hash does not match the chain tail")
)

// defaultRelayTimeout bounds every peer call so one unreachable peer can't
// stall relay or resolve indefinitely.
const defaultRelayTimeout = 5 * time.Second

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of mining and block acceptance.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and conflict resolution.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
	SignalResolve()
}

// =============================================================================

// Config represents the configuration required to start the ledger node.
type Config struct {
	BeneficiaryID database.AccountID
	Host          string
	Storage       database.Storage
	KnownPeers    *peer.PeerSet
	EvHandler     EventHandler
	RelayTimeout  time.Duration
}

// State manages the ledger: the chain of blocks, the open transaction
// pool, and the peer set. All chain mutations happen under one mutex.
type State struct {
	mu sync.Mutex

	beneficiaryID database.AccountID
	host          string
	evHandler     EventHandler

	chain        []database.Block
	needsResolve bool

	mempool    *mempool.Mempool
	knownPeers *peer.PeerSet
	storage    database.Storage
	client     http.Client

	Worker Worker
}

// New constructs a new ledger for data management, reloading any
// previously persisted snapshot or starting from genesis.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// Reload the snapshot from storage. A missing or unreadable snapshot
	// is not fatal, the node starts over from genesis.
	snapshot, found, err := cfg.Storage.Load()
	if err != nil {
		ev("state: New: snapshot unreadable, starting from genesis: %s", err)
		found = false
	}

	chain := snapshot.Chain
	if !found || len(chain) == 0 {
		chain = []database.Block{database.Genesis()}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}
	for _, host := range snapshot.PeerNodes {
		knownPeers.Add(peer.New(host))
	}

	relayTimeout := cfg.RelayTimeout
	if relayTimeout == 0 {
		relayTimeout = defaultRelayTimeout
	}

	// Create the State to provide support for managing the ledger.
	state := State{
		beneficiaryID: cfg.BeneficiaryID,
		host:          cfg.Host,
		evHandler:     ev,

		chain:      chain,
		mempool:    mempool.New(snapshot.OpenTransactions),
		knownPeers: knownPeers,
		storage:    cfg.Storage,
		client:     http.Client{Timeout: relayTimeout},
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Make sure the database file is properly closed.
	defer func() {
		s.storage.Close()
	}()

	// Stop all ledger writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// AddKnownPeer provides the ability to add a new peer to the known peer
// set. The operation is idempotent and always persists.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	added := s.knownPeers.Add(pr)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist()

	return added
}

// RemoveKnownPeer provides the ability to remove a peer from the known
// peer set. Removing an unknown peer is a no-op that still persists.
func (s *State) RemoveKnownPeer(pr peer.Peer) {
	s.knownPeers.Remove(pr)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist()
}

// SetNeedsResolve flags that a peer reported a conflict and a
// reconciliation pass is required before further mining.
func (s *State) SetNeedsResolve(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.needsResolve = v
}

// =============================================================================

// persist writes the current state to storage. Persistence failures are
// reported but never abort the in-memory mutation that already happened.
// The caller must hold the state mutex.
func (s *State) persist() {
	snapshot := database.Snapshot{
		Chain:            database.CopyChain(s.chain),
		OpenTransactions: s.mempool.Copy(),
		PeerNodes:        s.knownPeers.Hosts(""),
	}

	if err := s.storage.Save(snapshot); err != nil {
		s.evHandler("state: persist: WARNING: %s", err)
	}
}

// balanceOf derives the balance for an account from the chain and the
// open transaction pool: everything received in mined blocks minus
// everything sent in mined blocks and still-open transactions. The caller
// must hold the state mutex.
func (s *State) balanceOf(account database.AccountID) float64 {
	var balance float64

	for _, block := range s.chain {
		for _, tx := range block.Transactions {
			if tx.Recipient == account {
				balance += tx.Amount
			}
			if tx.Sender == account {
				balance -= tx.Amount
			}
		}
	}

	for _, tx := range s.mempool.Copy() {
		if tx.Sender == account {
			balance -= tx.Amount
		}
	}

	return balance
}
