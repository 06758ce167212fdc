// Package peer maintains the set of known peer nodes in the network.
package peer

import (
	"sync"
)

// Peer represents information about a node in the network.
type Peer struct {
	Host string `json:"host"`
}

// New contructs a new peer value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// =============================================================================

// Status represents information about the status of any given peer.
type Status struct {
	LatestBlockHash   string `json:"latest_block_hash"`
	LatestBlockNumber uint64 `json:"latest_block_number"`
	KnownPeers        []Peer `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set. Adding a peer that already exists
// reports false and leaves the set unchanged.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.set[peer]; !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set. Removing a peer that does not
// exist is a no-op.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Copy returns a list of the known peers, excluding the specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	return peers
}

// Hosts returns the set of peer addresses, excluding the specified host.
func (ps *PeerSet) Hosts(host string) []string {
	var hosts []string
	for _, peer := range ps.Copy(host) {
		hosts = append(hosts, peer.Host)
	}

	return hosts
}
