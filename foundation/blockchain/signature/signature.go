// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/minio/sha256-simd"
)

// ZeroHash represents a hash code of zeros.
var ZeroHash common.Hash

// ZeroAddress represents an address of zeros.
var ZeroAddress common.Address

// genesisKeyHex is the private key that signs the genesis transaction. It is
// embedded so every node produces the exact same genesis block.
const genesisKeyHex = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"

// =============================================================================

// Hash returns the SHA-256 digest over the concatenation of the specified
// byte slices.
func Hash(data ...[]byte) common.Hash {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}

	var hash common.Hash
	copy(hash[:], h.Sum(nil))

	return hash
}

// HashString returns the digest of the bytes of the specified string.
func HashString(s string) common.Hash {
	return Hash([]byte(s))
}

// Sign uses the specified private key to sign the data. The signature is
// returned in the 65 byte [R|S|V] format.
func Sign(data []byte, privateKey *ecdsa.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, errors.New("private key is required")
	}

	// Sign the stamped hash with the private key to produce a signature.
	sig, err := crypto.Sign(stamp(data), privateKey)
	if err != nil {
		return nil, err
	}

	return sig, nil
}

// Verify checks the signature was produced over the data by the private key
// associated with the specified public key. Malformed signatures and public
// keys are treated as a failed verification.
func Verify(data []byte, sig []byte, publicKey []byte) bool {
	switch len(sig) {
	case crypto.SignatureLength, crypto.SignatureLength - 1:
	default:
		return false
	}

	if _, err := crypto.UnmarshalPubkey(publicKey); err != nil {
		return false
	}

	// VerifySignature wants the 64 byte [R|S] format.
	return crypto.VerifySignature(publicKey, stamp(data), sig[:crypto.RecoveryIDOffset])
}

// AddressFromPublicKey derives the account address from the bytes of an
// uncompressed public key.
func AddressFromPublicKey(publicKey []byte) (common.Address, error) {
	pk, err := crypto.UnmarshalPubkey(publicKey)
	if err != nil {
		return common.Address{}, fmt.Errorf("unmarshal public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pk), nil
}

// PublicKeyBytes returns the uncompressed bytes of the public key that
// belongs to the specified private key.
func PublicKeyBytes(privateKey *ecdsa.PrivateKey) []byte {
	return crypto.FromECDSAPub(&privateKey.PublicKey)
}

// GenerateKey produces a new random private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}

// GenesisKey returns the fixed private key used to sign the genesis
// transaction.
func GenesisKey() *ecdsa.PrivateKey {
	pk, err := crypto.HexToECDSA(genesisKeyHex)
	if err != nil {
		panic(fmt.Sprintf("signature: genesis key is corrupt: %s", err))
	}

	return pk
}

// RandomHash returns a hash of random bytes.
func RandomHash() common.Hash {
	var hash common.Hash
	if _, err := rand.Read(hash[:]); err != nil {
		panic(fmt.Sprintf("signature: reading random bytes: %s", err))
	}

	return hash
}

// RandomAddress returns an address of random bytes.
func RandomAddress() common.Address {
	var addr common.Address
	if _, err := rand.Read(addr[:]); err != nil {
		panic(fmt.Sprintf("signature: reading random bytes: %s", err))
	}

	return addr
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this data with
// the Ardan stamp embedded into the final hash.
func stamp(data []byte) []byte {

	// Hash the data into a 32 byte array. This will provide
	// a data length consistency with all data.
	txHash := Hash(data)

	// Convert the stamp into a slice of bytes. This stamp is
	// used so signatures we produce when signing data
	// are always unique to the Ardan blockchain.
	stamp := []byte("\x19Ardan Signed Message:\n32")

	// Hash the stamp and txHash together in a final 32 byte array
	// that represents the data.
	return crypto.Keccak256(stamp, txHash[:])
}
