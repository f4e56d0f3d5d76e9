package database

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxochain/foundation/blockchain/merkle"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// DefaultDifficulty is the target given to blocks constructed by
// NewRandomBlock.
var DefaultDifficulty = common.HexToHash("0x0101ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	ParentHash common.Hash `json:"parent_hash"` // Bitcoin: Hash of the previous block in the chain.
	Nonce      uint32      `json:"nonce"`       // Bitcoin: Value varied to solve the hash solution.
	Difficulty common.Hash `json:"difficulty"`  // Target the block hash must be less than or equal to.
	TimeStamp  uint64      `json:"timestamp"`   // Bitcoin: Time the block was mined in unix milliseconds.
	MerkleRoot common.Hash `json:"merkle_root"` // Bitcoin: Merkle root of the transactions in this block.
}

// Encode returns the canonical encoding of the header.
func (bh BlockHeader) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(bh)
}

// BlockContent represents the ordered transactions recorded by a block.
type BlockContent struct {
	Trans []SignedTx `json:"trans"`
}

// MerkleRoot computes the merkle root over the transactions in order.
func (bc BlockContent) MerkleRoot() common.Hash {
	return merkle.NewTree(bc.Trans).Root()
}

// Block represents a group of transactions batched together.
type Block struct {
	Header  BlockHeader  `json:"header"`
	Content BlockContent `json:"content"`
}

// NewBlock constructs a block over the specified transactions with the
// merkle root computed from them.
func NewBlock(parentHash common.Hash, nonce uint32, difficulty common.Hash, timeStamp uint64, trans []SignedTx) Block {
	content := BlockContent{
		Trans: trans,
	}

	return Block{
		Header: BlockHeader{
			ParentHash: parentHash,
			Nonce:      nonce,
			Difficulty: difficulty,
			TimeStamp:  timeStamp,
			MerkleRoot: content.MerkleRoot(),
		},
		Content: content,
	}
}

// NewRandomBlock constructs a block holding one random signed transaction
// with a random nonce and the default difficulty.
func NewRandomBlock(parentHash common.Hash) (Block, error) {
	tx, err := NewRandomSignedTx()
	if err != nil {
		return Block{}, err
	}

	return NewBlock(parentHash, rand.Uint32(), DefaultDifficulty, Now(), []SignedTx{tx}), nil
}

// NewGenesisBlock constructs the genesis block. Every value is derived from
// the genesis information so every node produces the same block.
func NewGenesisBlock(parentHash common.Hash, gen genesis.Genesis) (Block, error) {
	tx, err := NewGenesisSignedTx()
	if err != nil {
		return Block{}, fmt.Errorf("genesis tx: %w", err)
	}

	digest := gen.BlockDigest()

	block := Block{
		Header: BlockHeader{
			ParentHash: parentHash,
			Nonce:      0,
			Difficulty: digest,
			TimeStamp:  0,
			MerkleRoot: digest,
		},
		Content: BlockContent{
			Trans: []SignedTx{tx},
		},
	}

	return block, nil
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() common.Hash {

	// CORE NOTE: Hashing the block header and not the whole block so the blockchain
	// can be cryptographically checked by only needing block headers and not full
	// blocks with the transaction data. The transactions are bound to the header
	// through the merkle root.

	data, err := b.Header.Encode()
	if err != nil {
		return signature.ZeroHash
	}

	return signature.Hash(data)
}

// IsSolved reports whether the block hash satisfies the block difficulty.
func (b Block) IsSolved() bool {
	return IsHashSolved(b.Header.Difficulty, b.Hash())
}

// Encode returns the canonical encoding of the full block for transfer.
func (b Block) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(b)
}

// DecodeBlock converts the canonical encoding back into a block.
func DecodeBlock(data []byte) (Block, error) {
	var block Block
	if err := rlp.DecodeBytes(data, &block); err != nil {
		return Block{}, fmt.Errorf("decode block: %w", err)
	}

	return block, nil
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("%s <- %s", b.Header.ParentHash.Hex(), b.Hash().Hex())
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// The hash, read as a big endian 256 bit number, must be less than or equal
// to the difficulty.
func IsHashSolved(difficulty common.Hash, hash common.Hash) bool {
	target := new(uint256.Int).SetBytes32(difficulty[:])
	value := new(uint256.Int).SetBytes32(hash[:])

	return !value.Gt(target)
}

// Now returns the current time in unix milliseconds.
func Now() uint64 {
	return uint64(time.Now().UTC().UnixMilli())
}
