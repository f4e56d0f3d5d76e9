// Package database handles all the lower level support for maintaining the
// blockchain in memory: the block and transaction data model, the UTXO
// ledger, the validation rules and the hash keyed store of admitted blocks.
package database

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Blockchain stores every admitted block keyed by its hash and tracks the tip,
// the block this node currently considers canonical.
//
// The tip is the block with the greatest height. When a new block ties the
// height of the current tip, the current tip is kept so the first block to
// arrive wins.
//
// Blockchain is not safe for concurrent use.
type Blockchain struct {
	blocks  map[common.Hash]Block
	heights map[common.Hash]uint64
	genesis common.Hash
	tip     common.Hash
}

// NewBlockchain constructs a blockchain holding the genesis block at height 0.
func NewBlockchain(genesisBlock Block) *Blockchain {
	hash := genesisBlock.Hash()

	return &Blockchain{
		blocks:  map[common.Hash]Block{hash: genesisBlock},
		heights: map[common.Hash]uint64{hash: 0},
		genesis: hash,
		tip:     hash,
	}
}

// Genesis returns the hash of the genesis block.
func (bc *Blockchain) Genesis() common.Hash {
	return bc.genesis
}

// Tip returns the hash of the block at the tip of the preferred chain.
func (bc *Blockchain) Tip() common.Hash {
	return bc.tip
}

// Insert adds the block to the chain keyed by its hash and moves the tip if
// the block extends a longer chain. The parent of the block must already be
// in the chain. Inserting a block that already exists does nothing. The
// return value reports whether the tip moved to this block.
func (bc *Blockchain) Insert(block Block) (bool, error) {
	hash := block.Hash()

	if _, exists := bc.blocks[hash]; exists {
		return false, nil
	}

	parentHeight, exists := bc.heights[block.Header.ParentHash]
	if !exists {
		return false, fmt.Errorf("block %s, parent %s: %w", hash.Hex(), block.Header.ParentHash.Hex(), ErrUnknownParent)
	}

	height := parentHeight + 1
	bc.blocks[hash] = block
	bc.heights[hash] = height

	if height > bc.heights[bc.tip] {
		bc.tip = hash
		return true, nil
	}

	return false, nil
}

// Block returns the block for the specified hash.
func (bc *Blockchain) Block(hash common.Hash) (Block, bool) {
	block, exists := bc.blocks[hash]
	return block, exists
}

// Height returns the number of blocks between the specified block and the
// genesis block.
func (bc *Blockchain) Height(hash common.Hash) (uint64, bool) {
	height, exists := bc.heights[hash]
	return height, exists
}

// Length returns the number of blocks stored, including every fork.
func (bc *Blockchain) Length() int {
	return len(bc.blocks)
}

// Chain returns the blocks of the preferred chain starting with genesis and
// ending with the tip.
func (bc *Blockchain) Chain() []Block {
	chain := make([]Block, bc.heights[bc.tip]+1)

	hash := bc.tip
	for i := len(chain) - 1; i >= 0; i-- {
		block := bc.blocks[hash]
		chain[i] = block
		hash = block.Header.ParentHash
	}

	return chain
}
