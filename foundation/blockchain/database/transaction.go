package database

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/coinledger/blockchain/foundation/blockchain/signature"
)

// Tx is the transactional information between two parties. A transaction is
// immutable once constructed; the ordered fields are part of every block
// hash, so mutating one after admission would corrupt the chain.
type Tx struct {
	Sender    AccountID `json:"sender"`    // Account sending the funds.
	Recipient AccountID `json:"recipient"` // Account receiving the funds.
	Signature string    `json:"signature"` // Signature of the sender, empty for reward transactions.
	Amount    float64   `json:"amount"`    // Amount of funds being transferred.
}

// NewTx constructs a new unsigned transaction between two parties.
func NewTx(sender AccountID, recipient AccountID, amount float64) (Tx, error) {
	if !sender.IsAccountID() {
		return Tx{}, fmt.Errorf("sender account is not properly formatted")
	}
	if !recipient.IsAccountID() {
		return Tx{}, fmt.Errorf("recipient account is not properly formatted")
	}
	if amount < 0 {
		return Tx{}, fmt.Errorf("amount can't be negative")
	}

	tx := Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}

	return tx, nil
}

// NewRewardTx constructs the transaction that credits the mining reward
// to the specified beneficiary. Reward transactions carry no signature.
func NewRewardTx(beneficiaryID AccountID, reward float64) Tx {
	return Tx{
		Sender:    RewardAccount,
		Recipient: beneficiaryID,
		Amount:    reward,
	}
}

// Sign uses the specified private key to sign the transaction. The account
// derived from the key must match the declared sender.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (Tx, error) {
	if PublicKeyToAccountID(privateKey.PublicKey) != tx.Sender {
		return Tx{}, errors.New("sender does not match the signing key")
	}

	sig, err := signature.Sign(tx.payload(), privateKey)
	if err != nil {
		return Tx{}, err
	}

	tx.Signature = sig

	return tx, nil
}

// VerifySignature checks the transaction carries a signature produced by
// the declared sender over this exact payload. Reward transactions are
// always valid.
func (tx Tx) VerifySignature() error {
	if tx.IsReward() {
		return nil
	}

	if err := signature.VerifySignature(tx.Signature); err != nil {
		return err
	}

	address, err := signature.FromAddress(tx.payload(), tx.Signature)
	if err != nil {
		return err
	}

	if AccountID(address) != tx.Sender {
		return errors.New("signature does not match the sender")
	}

	return nil
}

// IsReward reports whether this is a mining reward transaction.
func (tx Tx) IsReward() bool {
	return tx.Sender == RewardAccount
}

// Equals reports whether two transactions are structurally equal. This is
// the identity used when pruning the open pool against mined blocks.
func (tx Tx) Equals(otherTx Tx) bool {
	return tx.Sender == otherTx.Sender &&
		tx.Recipient == otherTx.Recipient &&
		tx.Amount == otherTx.Amount &&
		tx.Signature == otherTx.Signature
}

// HashMap returns the canonical key-sorted representation of the
// transaction used for hashing and proof digests.
func (tx Tx) HashMap() map[string]any {
	return map[string]any{
		"amount":    tx.Amount,
		"recipient": tx.Recipient,
		"sender":    tx.Sender,
		"signature": tx.Signature,
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s -> %s : %.2f", tx.Sender, tx.Recipient, tx.Amount)
}

// =============================================================================

// payload is the portion of the transaction covered by the signature.
func (tx Tx) payload() map[string]any {
	return map[string]any{
		"amount":    tx.Amount,
		"recipient": tx.Recipient,
		"sender":    tx.Sender,
	}
}

// TxHashMaps converts a set of transactions to their canonical hashing
// representation, preserving order.
func TxHashMaps(txs []Tx) []map[string]any {
	maps := make([]map[string]any, len(txs))
	for i, tx := range txs {
		maps[i] = tx.HashMap()
	}
	return maps
}
