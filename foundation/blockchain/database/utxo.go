package database

import (
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ethereum/go-ethereum/common"
)

// UTXOSet represents the complete set of spendable outputs at a point in
// chain history. One snapshot exists for every block admitted to the chain.
type UTXOSet map[UTXOInput]UTXOOutput

// ICO constructs the initial coin offering from the genesis information.
// This is the root economic state and belongs to the genesis block.
func ICO(gen genesis.Genesis) UTXOSet {
	txHash := gen.ICODigest()

	utxos := make(UTXOSet, len(gen.Allocations))
	for i, alloc := range gen.Allocations {
		input := UTXOInput{PrevTxHash: txHash, Index: uint8(i)}
		utxos[input] = UTXOOutput{Recipient: common.HexToAddress(alloc.Address), Value: alloc.Value}
	}

	return utxos
}

// Clone makes a copy of the set.
func (s UTXOSet) Clone() UTXOSet {
	utxos := make(UTXOSet, len(s))
	for input, output := range s {
		utxos[input] = output
	}

	return utxos
}

// Balance returns the total value of the outputs owned by the address.
func (s UTXOSet) Balance(addr common.Address) uint64 {
	var balance uint64
	for _, output := range s {
		if output.Recipient == addr {
			balance += uint64(output.Value)
		}
	}

	return balance
}

// Owned returns the outputs owned by the address.
func (s UTXOSet) Owned(addr common.Address) UTXOSet {
	utxos := make(UTXOSet)
	for input, output := range s {
		if output.Recipient == addr {
			utxos[input] = output
		}
	}

	return utxos
}

// =============================================================================

// ApplyBlock performs the state transition of the block against the parent
// set. The parent set is never modified, a new set is returned. Every input
// spent by the block is removed and every output it creates is added keyed by
// the hash of the creating transaction and the output index.
func ApplyBlock(parent UTXOSet, block Block) UTXOSet {
	utxos := parent.Clone()

	for _, tx := range block.Content.Trans {
		for _, input := range tx.Tx.Inputs {
			delete(utxos, input)
		}

		txHash := tx.Tx.Hash()
		for i, output := range tx.Tx.Outputs {
			utxos[UTXOInput{PrevTxHash: txHash, Index: uint8(i)}] = output
		}
	}

	return utxos
}
