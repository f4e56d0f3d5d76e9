// Package merkle provides an implementation of a merkle tree for committing
// to the ordered transactions of a block and proving their inclusion.
package merkle

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable interface {
	Hash() common.Hash
}

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits the
// behavior defined by the Hashable interface.
//
// Every level of the tree is stored in one flat slice, leaf level first. A
// level with an odd number of nodes has its last node duplicated before it is
// paired, so the stored width of every level below the root is even.
type Tree[T Hashable] struct {
	hashes []common.Hash
	widths []int
	values []T
}

// NewTree constructs a new merkle tree from the specified values. An empty
// set of values produces a tree whose root is the zero hash.
func NewTree[T Hashable](values []T) *Tree[T] {
	var t Tree[T]
	t.Generate(values)

	return &t
}

// Generate constructs the levels of the tree from the specified data. If the
// tree has been generated previously, the tree is re-generated from scratch.
func (t *Tree[T]) Generate(values []T) {
	t.values = values
	t.hashes = nil
	t.widths = nil

	if len(values) == 0 {
		t.hashes = []common.Hash{signature.ZeroHash}
		return
	}

	level := make([]common.Hash, 0, len(values)+1)
	for _, value := range values {
		level = append(level, value.Hash())
	}

	for {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		t.hashes = append(t.hashes, level...)
		t.widths = append(t.widths, len(level))

		next := make([]common.Hash, len(level)/2)
		for i := range next {
			next[i] = hashPair(level[2*i], level[2*i+1])
		}
		level = next

		if len(level) == 1 {
			t.hashes = append(t.hashes, level[0])
			return
		}
	}
}

// Root returns the merkle root of the tree which is the last hash stored.
func (t *Tree[T]) Root() common.Hash {
	return t.hashes[len(t.hashes)-1]
}

// RootHex converts the merkle root hash to a hex encoded string.
func (t *Tree[T]) RootHex() string {
	return hexutil.Encode(t.Root().Bytes())
}

// Leafs returns the number of values the tree was built from, not counting
// any duplication used for padding.
func (t *Tree[T]) Leafs() int {
	return len(t.values)
}

// Values returns the values stored in the tree in their original order.
func (t *Tree[T]) Values() []T {
	return t.values
}

// Proof returns the sibling hashes needed to recompute the root from the
// hash of the value at the specified index. The hashes are ordered from the
// leaf level up to, but not including, the root.
func (t *Tree[T]) Proof(index int) ([]common.Hash, error) {
	if len(t.values) == 0 {
		return nil, errors.New("unable to prove data in an empty tree")
	}

	if index < 0 || index >= len(t.values) {
		return nil, fmt.Errorf("index %d is out of range for %d leafs", index, len(t.values))
	}

	proof := make([]common.Hash, 0, len(t.widths))

	var offset int
	for _, width := range t.widths {

		// Nodes are paired as 0-1, 2-3, 4-5 so the sibling of an even
		// index is to the right and the sibling of an odd index is to
		// the left.
		proof = append(proof, t.hashes[offset+(index^1)])

		offset += width
		index /= 2
	}

	return proof, nil
}

// String returns a string representation of the tree levels.
func (t *Tree[T]) String() string {
	s := fmt.Sprintf("leafs[%d] root[%s]\n", len(t.values), t.RootHex())

	var offset int
	for i, width := range t.widths {
		s += fmt.Sprintf("level[%d] %v\n", i, t.hashes[offset:offset+width])
		offset += width
	}

	return s
}

// =============================================================================

// Verify validates the leaf hash at the specified index is committed to by
// the root using the proof. The leafCount is the original number of values
// the tree was built from, not counting any padding.
func Verify(root common.Hash, leaf common.Hash, proof []common.Hash, index int, leafCount int) bool {
	if leafCount <= 0 || index < 0 || index >= leafCount {
		return false
	}

	if len(proof) != depth(leafCount) {
		return false
	}

	data := leaf
	for _, sibling := range proof {
		switch index % 2 {
		case 0:
			data = hashPair(data, sibling)
		default:
			data = hashPair(sibling, data)
		}
		index /= 2
	}

	return data == root
}

// =============================================================================

// hashPair produces the parent hash of two nodes. This is a single hash over
// the concatenation of the two values.
func hashPair(left common.Hash, right common.Hash) common.Hash {
	return signature.Hash(left[:], right[:])
}

// depth returns the number of levels below the root for a tree built from
// the specified number of leafs.
func depth(leafCount int) int {
	var levels int
	for width := leafCount; ; {
		if width%2 == 1 {
			width++
		}
		levels++

		width /= 2
		if width == 1 {
			return levels
		}
	}
}
