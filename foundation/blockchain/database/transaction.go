package database

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
)

// UTXOInput identifies a spendable output by the hash of the transaction that
// created it and the position of the output in that transaction.
type UTXOInput struct {
	PrevTxHash common.Hash `json:"prev_tx_hash"` // Bitcoin: Hash of the transaction holding the output.
	Index      uint8       `json:"index"`        // Bitcoin: Position of the output in that transaction.
}

// String implements the fmt.Stringer interface for logging.
func (in UTXOInput) String() string {
	return fmt.Sprintf("%s:%d", in.PrevTxHash.Hex(), in.Index)
}

// UTXOOutput represents value assigned to an address.
type UTXOOutput struct {
	Recipient common.Address `json:"recipient"` // Bitcoin: Address that can spend this output.
	Value     uint32         `json:"value"`     // Bitcoin: Monetary value of the output.
}

// =============================================================================

// Tx is the transactional information of what is spent and what is created.
type Tx struct {
	Inputs  []UTXOInput  `json:"inputs"`
	Outputs []UTXOOutput `json:"outputs"`
}

// NewTx constructs a new transaction.
func NewTx(inputs []UTXOInput, outputs []UTXOOutput) Tx {
	return Tx{
		Inputs:  inputs,
		Outputs: outputs,
	}
}

// Encode returns the canonical encoding of the transaction. This is what is
// hashed and what is signed.
func (tx Tx) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(tx)
}

// Hash returns the unique hash for the transaction. The outputs it creates
// are keyed in the ledger by this hash.
func (tx Tx) Hash() common.Hash {
	data, err := tx.Encode()
	if err != nil {
		return signature.ZeroHash
	}

	return signature.Hash(data)
}

// Sign uses the specified private key to sign the transaction.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (SignedTx, error) {
	data, err := tx.Encode()
	if err != nil {
		return SignedTx{}, fmt.Errorf("encode tx: %w", err)
	}

	sig, err := signature.Sign(data, privateKey)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Tx:        tx,
		PublicKey: signature.PublicKeyBytes(privateKey),
		Signature: sig,
	}

	return signedTx, nil
}

// =============================================================================

// SignedTx is a signed version of the transaction. The signature covers the
// canonical encoding of the transaction only.
type SignedTx struct {
	Tx        Tx            `json:"tx"`
	PublicKey hexutil.Bytes `json:"public_key"` // Uncompressed secp256k1 public key of the signer.
	Signature hexutil.Bytes `json:"signature"`  // Ethereum: 65 byte [R|S|V] signature.
}

// Verify checks the signature was produced by the holder of the public key
// over this transaction. Malformed signatures or keys fail verification.
func (tx SignedTx) Verify() bool {
	data, err := tx.Tx.Encode()
	if err != nil {
		return false
	}

	return signature.Verify(data, tx.Signature, tx.PublicKey)
}

// FromAddress derives the address of the account that signed the transaction.
func (tx SignedTx) FromAddress() (common.Address, error) {
	return signature.AddressFromPublicKey(tx.PublicKey)
}

// Hash implements the merkle Hashable interface for providing a hash of a
// signed transaction.
func (tx SignedTx) Hash() common.Hash {
	data, err := rlp.EncodeToBytes(tx)
	if err != nil {
		return signature.ZeroHash
	}

	return signature.Hash(data)
}

// SignatureString returns the signature as a string.
func (tx SignedTx) SignatureString() string {
	return tx.Signature.String()
}

// String implements the fmt.Stringer interface for logging.
func (tx SignedTx) String() string {
	from, err := tx.FromAddress()
	if err != nil {
		return fmt.Sprintf("unknown:%s", tx.Tx.Hash().Hex())
	}

	return fmt.Sprintf("%s:%s", from.Hex(), tx.Tx.Hash().Hex())
}

// =============================================================================

// NewRandomTx constructs a transaction spending a random prior output and
// creating one zero value output to a random address.
func NewRandomTx() Tx {
	inputs := []UTXOInput{{PrevTxHash: signature.RandomHash(), Index: 0}}
	outputs := []UTXOOutput{{Recipient: signature.RandomAddress(), Value: 0}}

	return NewTx(inputs, outputs)
}

// NewRandomSignedTx constructs a random transaction signed by a freshly
// generated key.
func NewRandomSignedTx() (SignedTx, error) {
	privateKey, err := signature.GenerateKey()
	if err != nil {
		return SignedTx{}, fmt.Errorf("generate key: %w", err)
	}

	return NewRandomTx().Sign(privateKey)
}

// NewGenesisTx constructs the all zero transaction recorded in the genesis
// block.
func NewGenesisTx() Tx {
	inputs := []UTXOInput{{PrevTxHash: signature.ZeroHash, Index: 0}}
	outputs := []UTXOOutput{{Recipient: signature.ZeroAddress, Value: 0}}

	return NewTx(inputs, outputs)
}

// NewGenesisSignedTx constructs the genesis transaction signed with the
// embedded genesis key. Signing is deterministic so every node produces the
// same bytes.
func NewGenesisSignedTx() (SignedTx, error) {
	return NewGenesisTx().Sign(signature.GenesisKey())
}
