package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ardanlabs/utxochain/foundation/blockchain/merkle"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// value is a string leaf of the tree.
type value string

// Hash implements the merkle Hashable interface.
func (v value) Hash() common.Hash {
	return signature.HashString(string(v))
}

// Merkle prints the tree built from the values in args and the proof for
// every value.
func Merkle(w io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("at least one value is required")
	}

	values := make([]value, len(args))
	for i, arg := range args {
		values[i] = value(arg)
	}

	tree := merkle.NewTree(values)
	fmt.Fprint(w, tree)
	fmt.Fprintln(w)

	for i, v := range values {
		proof, err := tree.Proof(i)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "Value: %q  Index: %d  Leaf: %s\n", v, i, v.Hash())
		for _, h := range proof {
			fmt.Fprintf(w, "  %s\n", h)
		}
	}

	return nil
}

// Verify checks the value is committed to by the root. The args are the
// root, the value, its index, the number of leafs and the proof hashes.
func Verify(w io.Writer, args []string) error {
	if len(args) < 4 {
		return errors.New("usage: verify <root> <value> <index> <count> <proof>...")
	}

	root, err := toHash(args[0])
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}

	index, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}

	count, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}

	proof := make([]common.Hash, 0, len(args)-4)
	for _, arg := range args[4:] {
		h, err := toHash(arg)
		if err != nil {
			return fmt.Errorf("proof: %w", err)
		}
		proof = append(proof, h)
	}

	if !merkle.Verify(root, value(args[1]).Hash(), proof, index, count) {
		return errors.New("value is not committed to by the root")
	}

	fmt.Fprintln(w, "Verified")

	return nil
}

func toHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, err
	}

	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("expected %d bytes, got %d", common.HashLength, len(b))
	}

	return common.BytesToHash(b), nil
}
