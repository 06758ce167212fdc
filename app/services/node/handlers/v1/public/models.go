package public

import (
	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/validate"
)

// submitTx is what a wallet submits to move funds between accounts.
type submitTx struct {
	Sender    string  `json:"sender" validate:"required"`
	Recipient string  `json:"recipient" validate:"required"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Signature string  `json:"signature" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (tx submitTx) Validate() error {
	return validate.Check(tx)
}

// submitPeer is what it takes to register a peer with this node.
type submitPeer struct {
	Host string `json:"host" validate:"required,hostname_port"`
}

// Validate checks the data in the model is considered clean.
func (p submitPeer) Validate() error {
	return validate.Check(p)
}

type actBalance struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance float64            `json:"balance"`
}

type balances struct {
	LatestBlockHash string       `json:"latest_block_hash"`
	Uncommitted     int          `json:"uncommitted"`
	Balances        []actBalance `json:"balances"`
}

type genesisInfo struct {
	MiningReward float64        `json:"mining_reward"`
	Block        database.Block `json:"block"`
}
