package database_test

import (
	"crypto/ecdsa"
	"errors"
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
)

func Test_ValidateBlock(t *testing.T) {
	gen := genesis.Default()
	ico := database.ICO(gen)
	owner := genesisKeyAddress(t)

	// Two outputs owned by the genesis key with different values.
	multi := database.UTXOSet{
		{PrevTxHash: signature.HashString("multi"), Index: 0}: {Recipient: owner, Value: 100},
		{PrevTxHash: signature.HashString("multi"), Index: 1}: {Recipient: owner, Value: 40},
	}
	multiInputs := []database.UTXOInput{
		{PrevTxHash: signature.HashString("multi"), Index: 0},
		{PrevTxHash: signature.HashString("multi"), Index: 1},
	}

	type table struct {
		name   string
		parent database.UTXOSet
		tx     func(t *testing.T) database.SignedTx
		expErr error
	}

	tt := []table{
		{
			name:   "valid",
			parent: ico,
			tx: func(t *testing.T) database.SignedTx {
				return spendICO(t, gen, 0, genesis.ICOValue, signature.GenesisKey())
			},
		},
		{
			name:   "split",
			parent: ico,
			tx: func(t *testing.T) database.SignedTx {
				outputs := []database.UTXOOutput{
					{Recipient: signature.RandomAddress(), Value: 4_000_000},
					{Recipient: owner, Value: 6_000_000},
				}
				return sign(t, []database.UTXOInput{{PrevTxHash: gen.ICODigest(), Index: 0}}, outputs, signature.GenesisKey())
			},
		},
		{
			name:   "corrupted-signature",
			parent: ico,
			tx: func(t *testing.T) database.SignedTx {
				tx := spendICO(t, gen, 0, genesis.ICOValue, signature.GenesisKey())
				tx.Signature[10] ^= 0xff
				return tx
			},
			expErr: database.ErrInvalidSignature,
		},
		{
			name:   "wrong-public-key",
			parent: ico,
			tx: func(t *testing.T) database.SignedTx {
				tx := spendICO(t, gen, 0, genesis.ICOValue, signature.GenesisKey())
				pk, err := signature.GenerateKey()
				if err != nil {
					t.Fatalf("\t%s\tShould be able to generate a key: %v", failed, err)
				}
				tx.PublicKey = signature.PublicKeyBytes(pk)
				return tx
			},
			expErr: database.ErrInvalidSignature,
		},
		{
			name:   "missing-input",
			parent: ico,
			tx: func(t *testing.T) database.SignedTx {
				return spendICO(t, gen, 7, genesis.ICOValue, signature.GenesisKey())
			},
			expErr: database.ErrMissingInput,
		},
		{
			name:   "owner-mismatch",
			parent: ico,
			tx: func(t *testing.T) database.SignedTx {
				return spendICO(t, gen, 1, genesis.ICOValue, signature.GenesisKey())
			},
			expErr: database.ErrOwnerMismatch,
		},
		{
			name:   "value-mismatch",
			parent: ico,
			tx: func(t *testing.T) database.SignedTx {
				return spendICO(t, gen, 0, genesis.ICOValue-1, signature.GenesisKey())
			},
			expErr: database.ErrValueMismatch,
		},
		{
			name:   "last-input-wins",
			parent: multi,
			tx: func(t *testing.T) database.SignedTx {
				outputs := []database.UTXOOutput{{Recipient: signature.RandomAddress(), Value: 40}}
				return sign(t, multiInputs, outputs, signature.GenesisKey())
			},
		},
		{
			name:   "inputs-not-summed",
			parent: multi,
			tx: func(t *testing.T) database.SignedTx {
				outputs := []database.UTXOOutput{{Recipient: signature.RandomAddress(), Value: 140}}
				return sign(t, multiInputs, outputs, signature.GenesisKey())
			},
			expErr: database.ErrValueMismatch,
		},
	}

	t.Log("Given the need to validate blocks against the parent state.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					block := database.NewBlock(signature.RandomHash(), 0, database.DefaultDifficulty, database.Now(), []database.SignedTx{tst.tx(t)})

					err := database.ValidateBlock(block, tst.parent, nil)
					switch {
					case tst.expErr == nil && err != nil:
						t.Fatalf("\t%s\tTest %d:\tShould accept the block: %v", failed, testID, err)
					case tst.expErr != nil && !errors.Is(err, tst.expErr):
						t.Fatalf("\t%s\tTest %d:\tShould reject the block with %q: got %v", failed, testID, tst.expErr, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected validation result.", success, testID)

					if valid := database.IsBlockValid(block, tst.parent); valid != (tst.expErr == nil) {
						t.Fatalf("\t%s\tTest %d:\tShould agree with ValidateBlock, got %v.", failed, testID, valid)
					}
					t.Logf("\t%s\tTest %d:\tShould agree with ValidateBlock.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_ValidateBlockEvents(t *testing.T) {
	t.Log("Given the need to trace block validation.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen validating with an event handler.", testID)
		{
			gen := genesis.Default()
			tx := spendICO(t, gen, 0, genesis.ICOValue, signature.GenesisKey())
			block := database.NewBlock(signature.RandomHash(), 0, database.DefaultDifficulty, database.Now(), []database.SignedTx{tx})

			var events int
			ev := func(v string, args ...any) {
				events++
			}

			if err := database.ValidateBlock(block, database.ICO(gen), ev); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept the block: %v", failed, testID, err)
			}

			if events == 0 {
				t.Fatalf("\t%s\tTest %d:\tShould receive validation events.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould receive validation events.", success, testID)
		}
	}
}

func Test_ValidateHeader(t *testing.T) {
	t.Log("Given the need to validate a block header from outside the node.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen checking a solved child of genesis.", testID)
		{
			parent := newGenesisBlock(t)
			block := solve(t, parent)

			if err := database.ValidateHeader(block, parent); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept the solved block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould accept the solved block.", success, testID)

			orphan := block
			orphan.Header.ParentHash = signature.RandomHash()
			if err := database.ValidateHeader(orphan, parent); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a block that does not link to the parent.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a block that does not link to the parent.", success, testID)

			harder := block
			harder.Header.Difficulty = common.Hash{}
			if err := database.ValidateHeader(harder, parent); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a block that changes the difficulty.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a block that changes the difficulty.", success, testID)

			unbound := block
			unbound.Header.MerkleRoot = signature.RandomHash()
			if err := database.ValidateHeader(unbound, parent); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a block whose merkle root does not match.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a block whose merkle root does not match.", success, testID)
		}
	}
}

func Test_ValidateInputs(t *testing.T) {
	gen := genesis.Default()
	ico := database.ICO(gen)
	key := signature.GenesisKey()

	t.Log("Given the need to stop an output being spent twice in one block.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen two transactions spend the same ICO output.", testID)
		{
			first := spendICO(t, gen, 0, genesis.ICOValue, key)
			second := spendICO(t, gen, 0, genesis.ICOValue, key)
			block := database.NewBlock(signature.RandomHash(), 0, database.DefaultDifficulty, database.Now(), []database.SignedTx{first, second})

			if !database.IsBlockValid(block, ico) {
				t.Fatalf("\t%s\tTest %d:\tShould pass the per transaction checks.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould pass the per transaction checks.", success, testID)

			if err := database.ValidateInputs(block); !errors.Is(err, database.ErrDoubleSpend) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the block with ErrDoubleSpend: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the block with ErrDoubleSpend.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen transactions spend different outputs.", testID)
		{
			first := spendICO(t, gen, 0, genesis.ICOValue, key)
			second := spendICO(t, gen, 1, genesis.ICOValue, key)
			block := database.NewBlock(signature.RandomHash(), 0, database.DefaultDifficulty, database.Now(), []database.SignedTx{first, second})

			if err := database.ValidateInputs(block); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept distinct inputs: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould accept distinct inputs.", success, testID)
		}
	}
}

func Test_ApplyBlock(t *testing.T) {
	t.Log("Given the need to compute the state of a block.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen applying a block spending an ICO output.", testID)
		{
			gen := genesis.Default()
			parent := database.ICO(gen)

			recipient := signature.RandomAddress()
			tx := sign(t, []database.UTXOInput{{PrevTxHash: gen.ICODigest(), Index: 0}}, []database.UTXOOutput{{Recipient: recipient, Value: genesis.ICOValue}}, signature.GenesisKey())
			block := database.NewBlock(signature.RandomHash(), 0, database.DefaultDifficulty, database.Now(), []database.SignedTx{tx})

			child := database.ApplyBlock(parent, block)

			spent := database.UTXOInput{PrevTxHash: gen.ICODigest(), Index: 0}
			if _, exists := parent[spent]; !exists || len(parent) != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the parent state unchanged.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the parent state unchanged.", success, testID)

			if _, exists := child[spent]; exists {
				t.Fatalf("\t%s\tTest %d:\tShould remove the spent input from the child state.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould remove the spent input from the child state.", success, testID)

			created := database.UTXOInput{PrevTxHash: tx.Tx.Hash(), Index: 0}
			if output, exists := child[created]; !exists || output.Recipient != recipient {
				t.Fatalf("\t%s\tTest %d:\tShould key the new output by the transaction hash.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould key the new output by the transaction hash.", success, testID)

			if child.Balance(recipient) != uint64(genesis.ICOValue) || child.Balance(genesisKeyAddress(t)) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould move the balance to the recipient.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould move the balance to the recipient.", success, testID)

			if err := database.ValidateBlock(block, child, nil); !errors.Is(err, database.ErrMissingInput) {
				t.Fatalf("\t%s\tTest %d:\tShould reject a double spend against the child state: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a double spend against the child state.", success, testID)
		}
	}
}

// =============================================================================

func genesisKeyAddress(t *testing.T) common.Address {
	t.Helper()

	addr, err := signature.AddressFromPublicKey(signature.PublicKeyBytes(signature.GenesisKey()))
	if err != nil {
		t.Fatalf("\t%s\tShould be able to derive the genesis key address: %v", failed, err)
	}

	return addr
}

func sign(t *testing.T, inputs []database.UTXOInput, outputs []database.UTXOOutput, pk *ecdsa.PrivateKey) database.SignedTx {
	t.Helper()

	tx, err := database.NewTx(inputs, outputs).Sign(pk)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign the transaction: %v", failed, err)
	}

	return tx
}

func spendICO(t *testing.T, gen genesis.Genesis, index uint8, value uint32, pk *ecdsa.PrivateKey) database.SignedTx {
	t.Helper()

	inputs := []database.UTXOInput{{PrevTxHash: gen.ICODigest(), Index: index}}
	outputs := []database.UTXOOutput{{Recipient: signature.RandomAddress(), Value: value}}

	return sign(t, inputs, outputs, pk)
}

func solve(t *testing.T, parent database.Block) database.Block {
	t.Helper()

	tx, err := database.NewRandomSignedTx()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a random transaction: %v", failed, err)
	}

	for nonce := uint32(0); nonce < 1_000; nonce++ {
		block := database.NewBlock(parent.Hash(), nonce, parent.Header.Difficulty, database.Now(), []database.SignedTx{tx})
		if block.IsSolved() {
			return block
		}
	}

	t.Fatalf("\t%s\tShould be able to solve a block against the parent difficulty.", failed)
	return database.Block{}
}
