// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"fmt"
	"io"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
)

// Genesis prints the genesis block and the ICO outputs derived from the
// genesis file at the path in args, or the built in genesis when no path
// is provided.
func Genesis(w io.Writer, args []string) error {
	gen := genesis.Default()
	if len(args) > 0 {
		var err error
		if gen, err = genesis.Load(args[0]); err != nil {
			return err
		}
	}

	block, err := database.NewGenesisBlock(signature.ZeroHash, gen)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Block:      %s\n", block.Hash())
	fmt.Fprintf(w, "Difficulty: %s\n", block.Header.Difficulty)
	fmt.Fprintf(w, "MerkleRoot: %s\n", block.Header.MerkleRoot)
	fmt.Fprintf(w, "ICO:        %s\n\n", gen.ICODigest())

	for i, alloc := range gen.Allocations {
		fmt.Fprintf(w, "Output: %d  Address: %s  Value: %d\n", i, alloc.Address, alloc.Value)
	}

	return nil
}
