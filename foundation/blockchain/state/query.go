package state

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ethereum/go-ethereum/common"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// GenesisHash returns the hash of the genesis block.
func (s *State) GenesisHash() common.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Genesis()
}

// Tip returns the hash of the block the node currently considers canonical.
func (s *State) Tip() common.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Tip()
}

// Length returns the number of blocks admitted to the chain, including forks.
func (s *State) Length() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Length()
}

// Difficulty returns the difficulty recorded by the specified block.
func (s *State) Difficulty(hash common.Hash) (common.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, exists := s.chain.Block(hash)
	if !exists {
		return common.Hash{}, fmt.Errorf("block %s: %w", hash, ErrNotFound)
	}

	return block.Header.Difficulty, nil
}

// =============================================================================

// QueryBlock returns the block for the specified hash and its height.
func (s *State) QueryBlock(hash common.Hash) (database.Block, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, exists := s.chain.Block(hash)
	if !exists {
		return database.Block{}, 0, fmt.Errorf("block %s: %w", hash, ErrNotFound)
	}

	height, _ := s.chain.Height(hash)

	return block, height, nil
}

// QueryChain returns the blocks of the preferred chain from genesis to tip.
func (s *State) QueryChain() []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain.Chain()
}

// QueryUTXOSet returns a copy of the ledger state recorded for the
// specified block.
func (s *State) QueryUTXOSet(hash common.Hash) (database.UTXOSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	utxos, exists := s.utxos[hash]
	if !exists {
		return nil, fmt.Errorf("state %s: %w", hash, ErrNotFound)
	}

	return utxos.Clone(), nil
}

// QueryBalance returns the value owned by the address in the ledger state of
// the tip.
func (s *State) QueryBalance(addr common.Address) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.utxos[s.chain.Tip()].Balance(addr)
}

// QueryOwnedAtTip returns the tip hash and the outputs owned by the address
// in the ledger state of that tip. Both are read under one lock so the
// outputs always belong to the returned tip.
func (s *State) QueryOwnedAtTip(addr common.Address) (common.Hash, database.UTXOSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tip := s.chain.Tip()

	return tip, s.utxos[tip].Owned(addr)
}
