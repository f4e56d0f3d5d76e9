package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
)

func Test_Load(t *testing.T) {
	const content = `{
		"block_seed": "block",
		"ico_seed": "ico",
		"allocations": [
			{"address": "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", "value": 100}
		]
	}`

	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Should be able to write the genesis file: %s", err)
	}

	gen, err := genesis.Load(path)
	if err != nil {
		t.Fatalf("Should be able to load the genesis file: %s", err)
	}

	if len(gen.Allocations) != 1 || gen.Allocations[0].Value != 100 {
		t.Fatalf("Should get back the allocations, got %+v", gen.Allocations)
	}

	if gen.BlockDigest() == gen.ICODigest() {
		t.Fatalf("Should get different digests for different seeds.")
	}
}

func Test_LoadInvalid(t *testing.T) {
	const content = `{"block_seed": "block", "ico_seed": "ico", "allocations": [{"address": "bill", "value": 1}]}`

	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Should be able to write the genesis file: %s", err)
	}

	if _, err := genesis.Load(path); err == nil {
		t.Fatalf("Should not accept an invalid allocation address.")
	}
}

func Test_Default(t *testing.T) {
	gen := genesis.Default()

	if err := gen.Validate(); err != nil {
		t.Fatalf("Should have a valid default genesis: %s", err)
	}

	if len(gen.Allocations) != 3 {
		t.Fatalf("Should have three founding allocations, got %d", len(gen.Allocations))
	}

	for _, alloc := range gen.Allocations {
		if alloc.Value != genesis.ICOValue {
			t.Fatalf("Should allocate %d to %s, got %d", genesis.ICOValue, alloc.Address, alloc.Value)
		}
	}
}
