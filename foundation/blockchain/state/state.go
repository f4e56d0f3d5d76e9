// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
)

// ErrNotFound is returned when a block or ledger state is requested for a
// hash the node does not know.
var ErrNotFound = errors.New("not found")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// State manages the blockchain and the ledger state recorded for every
// admitted block. A single mutex guards both so a block is never visible in
// the chain without its ledger state.
type State struct {
	mu        sync.Mutex
	evHandler EventHandler
	genesis   genesis.Genesis

	chain *database.Blockchain
	utxos map[common.Hash]database.UTXOSet
}

// New constructs a new blockchain for data management. The chain starts with
// the genesis block and the ICO is recorded as the genesis block's state.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}

	genesisBlock, err := database.NewGenesisBlock(signature.ZeroHash, cfg.Genesis)
	if err != nil {
		return nil, err
	}

	hash := genesisBlock.Hash()
	ico := database.ICO(cfg.Genesis)

	state := State{
		evHandler: ev,
		genesis:   cfg.Genesis,
		chain:     database.NewBlockchain(genesisBlock),
		utxos: map[common.Hash]database.UTXOSet{
			hash: ico,
		},
	}

	ev("state: New: genesis blk[%s]: ico outputs[%d]", hash, len(ico))

	return &state, nil
}
