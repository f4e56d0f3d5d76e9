// Package genesis maintains access to the genesis information that every node
// must agree on: the seeds of the genesis block and the initial coin offering.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
)

// ICOValue is the balance each founding address receives.
const ICOValue uint32 = 10_000_000

// Allocation represents a value assigned to an address by the initial coin
// offering.
type Allocation struct {
	Address string `json:"address"`
	Value   uint32 `json:"value"`
}

// Genesis represents the genesis file.
type Genesis struct {
	BlockSeed   string       `json:"block_seed"`  // Hashed to produce the genesis difficulty and merkle root.
	ICOSeed     string       `json:"ico_seed"`    // Hashed to produce the transaction hash the ICO outputs belong to.
	Allocations []Allocation `json:"allocations"` // Ordered, the position is the ICO output index.
}

// Default returns the genesis information every node starts with when no
// genesis file is provided.
func Default() Genesis {
	return Genesis{
		BlockSeed: "00011718210e0b3b608814e04e61fde06d0df794319a12162f287412df3ec920",
		ICOSeed:   "liyijian19991214c0932d964c0859397b9db4d93h4d62c368b95419db574db0",
		Allocations: []Allocation{
			{Address: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Value: ICOValue},
			{Address: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", Value: ICOValue},
			{Address: "0xFef311483Cc040e1A89fb9bb469eeB8A70935EF8", Value: ICOValue},
		},
	}
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, fmt.Errorf("genesis file %s: %w", path, err)
	}

	return genesis, nil
}

// Validate checks the genesis information is usable.
func (g Genesis) Validate() error {
	if g.BlockSeed == "" {
		return errors.New("block seed is required")
	}

	if g.ICOSeed == "" {
		return errors.New("ico seed is required")
	}

	if len(g.Allocations) > 256 {
		return fmt.Errorf("too many allocations, got %d, max 256", len(g.Allocations))
	}

	for i, alloc := range g.Allocations {
		if !common.IsHexAddress(alloc.Address) {
			return fmt.Errorf("allocation %d: invalid address %q", i, alloc.Address)
		}
	}

	return nil
}

// BlockDigest returns the digest the genesis block uses as both its
// difficulty and its merkle root.
func (g Genesis) BlockDigest() common.Hash {
	return signature.HashString(g.BlockSeed)
}

// ICODigest returns the transaction hash the ICO outputs are keyed by.
func (g Genesis) ICODigest() common.Hash {
	return signature.HashString(g.ICOSeed)
}
