package state

import (
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
)

// AddMinedBlock adds a block mined by this node to the chain and records the
// ledger state of the block. The parent of the block must already be part of
// the chain.
func (s *State) AddMinedBlock(block database.Block) error {
	s.evHandler("state: AddMinedBlock: started: blk[%s]", block.Hash())
	defer s.evHandler("state: AddMinedBlock: completed: blk[%s]", block.Hash())

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.admitBlock(block)
}

// ProcessPeerBlock takes a block received from outside the node, validates the
// header against its parent and every transaction against the parent's
// ledger state, and if that passes adds the block to the chain.
func (s *State) ProcessPeerBlock(block database.Block) error {
	hash := block.Hash()

	s.evHandler("state: ProcessPeerBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", block.Header.ParentHash, hash, len(block.Content.Trans))
	defer s.evHandler("state: ProcessPeerBlock: completed: newBlk[%s]", hash)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.chain.Block(hash); exists {
		s.evHandler("state: ProcessPeerBlock: blk[%s]: already known", hash)
		return nil
	}

	parent, exists := s.chain.Block(block.Header.ParentHash)
	if !exists {
		return fmt.Errorf("blk[%s]: parent[%s]: %w", hash, block.Header.ParentHash, database.ErrUnknownParent)
	}

	s.evHandler("state: ProcessPeerBlock: validate header")

	if err := database.ValidateHeader(block, parent); err != nil {
		return err
	}

	s.evHandler("state: ProcessPeerBlock: validate inputs")

	if err := database.ValidateInputs(block); err != nil {
		return err
	}

	s.evHandler("state: ProcessPeerBlock: validate transactions")

	if err := database.ValidateBlock(block, s.utxos[block.Header.ParentHash], s.evHandler); err != nil {
		return err
	}

	return s.admitBlock(block)
}

// =============================================================================

// admitBlock inserts the block into the chain and computes its ledger state.
// The caller must hold the lock.
func (s *State) admitBlock(block database.Block) error {
	hash := block.Hash()

	if _, exists := s.chain.Block(hash); exists {
		return nil
	}

	moved, err := s.chain.Insert(block)
	if err != nil {
		return err
	}

	s.updateBlockState(block)

	if moved {
		s.evHandler("state: admitBlock: tip[%s]", hash)
	}

	s.blockEvent(block)

	return nil
}

// updateBlockState records the ledger state of the block computed from the
// ledger state of its parent. Blocks must be admitted in causal order, a
// missing parent state means the chain and the ledger disagree.
func (s *State) updateBlockState(block database.Block) {
	parent, exists := s.utxos[block.Header.ParentHash]
	if !exists {
		panic(fmt.Sprintf("state: no ledger state for parent %s of block %s", block.Header.ParentHash, block.Hash()))
	}

	s.utxos[block.Hash()] = database.ApplyBlock(parent, block)
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockHeaderJSON, err := json.Marshal(block.Header)
	if err != nil {
		blockHeaderJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	blockTransJSON, err := json.Marshal(block.Content.Trans)
	if err != nil {
		blockTransJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"header":%s,"trans":%s}`, block.Hash().Hex(), string(blockHeaderJSON), string(blockTransJSON))
}
