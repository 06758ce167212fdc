package database

// Snapshot is the persisted form of a node's ledger state. Save then Load
// must reproduce an equal chain, open transaction pool, and peer set.
type Snapshot struct {
	Chain            []Block  `json:"chain"`
	OpenTransactions []Tx     `json:"open_transactions"`
	PeerNodes        []string `json:"peer_nodes"`
}

// Storage interface represents the behavior required to be implemented by
// any package providing support for persisting and reloading a snapshot of
// the ledger state.
type Storage interface {
	Save(snapshot Snapshot) error
	Load() (snapshot Snapshot, found bool, err error)
	Reset() error
	Close() error
}
