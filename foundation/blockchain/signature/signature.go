// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// coinledgerID is an arbitrary number for signing messages. This will make it
// clear that the signature comes from the coinledger blockchain.
// Ethereum and Bitcoin do this as well, but they use the value of 27.
const coinledgerID = 29

// =============================================================================

// Hash returns a unique string for the value. The value is serialized with
// the canonical encoding (map keys sorted by the JSON encoder) so the digest
// is reproducible across nodes regardless of in-memory field ordering.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Sign uses the specified private key to sign the value. The signature is
// returned hex encoded for transport and storage.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {

	// Prepare the data for signing.
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	// Extract the public key from the data and the signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}

	// Check the public key extracted from the data and signature.
	rs := sig[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, rs) {
		return "", errors.New("invalid signature produced")
	}

	// Embed the coinledger id in the recovery byte before encoding.
	sig[crypto.RecoveryIDOffset] += coinledgerID

	return hexutil.Encode(sig), nil
}

// FromAddress extracts the address of the account that signed the value.
func FromAddress(value any, signature string) (string, error) {

	// Prepare the data for public key extraction.
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	// Decode the hex signature and remove the coinledger id so the
	// signature is back in the raw [R|S|V] format.
	sig, err := toSignatureBytes(signature)
	if err != nil {
		return "", err
	}

	// Capture the public key associated with this data and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}

	// Extract the account address from the public key.
	return crypto.PubkeyToAddress(*publicKey).String(), nil
}

// VerifySignature verifies the signature conforms to our standards.
func VerifySignature(signature string) error {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return err
	}

	if len(sig) != crypto.SignatureLength {
		return errors.New("invalid signature length")
	}

	// Check the recovery id is either 0 or 1.
	v := sig[crypto.RecoveryIDOffset] - coinledgerID
	if v != 0 && v != 1 {
		return errors.New("invalid recovery id")
	}

	return nil
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this data with
// the coinledger stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {

	// Marshal the data with the canonical encoding.
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Hash the data into a 32 byte array. This will provide
	// a data length consistency with all data.
	txHash := crypto.Keccak256(v)

	// Convert the stamp into a slice of bytes. This stamp is
	// used so signatures we produce when signing data
	// are always unique to the coinledger blockchain.
	stamp := []byte("\x19Coinledger Signed Message:\n32")

	// Hash the stamp and txHash together in a final 32 byte array
	// that represents the data.
	data := crypto.Keccak256(stamp, txHash)

	return data, nil
}

// toSignatureBytes converts the hex encoded signature into the raw 65 byte
// format with the removal of the coinledger id.
func toSignatureBytes(signature string) ([]byte, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return nil, err
	}

	if len(sig) != crypto.SignatureLength {
		return nil, errors.New("invalid signature length")
	}

	sig[crypto.RecoveryIDOffset] -= coinledgerID

	return sig, nil
}
