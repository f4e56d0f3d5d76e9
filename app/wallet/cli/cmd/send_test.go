package cmd

import (
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_BuildTx(t *testing.T) {
	privateKey := signature.GenesisKey()
	owner, err := signature.AddressFromPublicKey(signature.PublicKeyBytes(privateKey))
	if err != nil {
		t.Fatalf("\t%s\tShould be able to derive the owner address: %v", failed, err)
	}

	recipient := signature.RandomAddress()
	owned := []utxo{
		{PrevTxHash: signature.RandomHash().Hex(), Index: 0, Value: 500},
		{PrevTxHash: signature.RandomHash().Hex(), Index: 3, Value: 120},
		{PrevTxHash: signature.RandomHash().Hex(), Index: 1, Value: 90},
	}

	t.Log("Given the need to spend owned outputs.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen sending a value smaller than several outputs.", testID)
		{
			tx, err := buildTx(privateKey, owner, owned, recipient, 100)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to build the transaction: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to build the transaction.", success, testID)

			if len(tx.Tx.Inputs) != 1 || tx.Tx.Inputs[0].Index != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould spend the smallest output that covers the value: %+v", failed, testID, tx.Tx.Inputs)
			}
			t.Logf("\t%s\tTest %d:\tShould spend the smallest output that covers the value.", success, testID)

			if len(tx.Tx.Outputs) != 2 || tx.Tx.Outputs[0].Value != 100 || tx.Tx.Outputs[1].Value != 20 || tx.Tx.Outputs[1].Recipient != owner {
				t.Fatalf("\t%s\tTest %d:\tShould return the change to the owner: %+v", failed, testID, tx.Tx.Outputs)
			}
			t.Logf("\t%s\tTest %d:\tShould return the change to the owner.", success, testID)

			if !database.IsTransactionValid(tx) {
				t.Fatalf("\t%s\tTest %d:\tShould sign the transaction.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould sign the transaction.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen sending the exact value of an output.", testID)
		{
			tx, err := buildTx(privateKey, owner, owned, recipient, 90)
			if err != nil || len(tx.Tx.Outputs) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not create a change output: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not create a change output.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen no output covers the value.", testID)
		{
			if _, err := buildTx(privateKey, owner, owned, recipient, 501); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould refuse to build the transaction.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse to build the transaction.", success, testID)

			if _, err := buildTx(privateKey, owner, owned, recipient, 0); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould refuse a zero value.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse a zero value.", success, testID)
		}
	}
}

func Test_SolveBlock(t *testing.T) {
	t.Log("Given the need to solve a block before submitting it.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen solving against the genesis difficulty.", testID)
		{
			gen := genesis.Default()
			tx, err := database.NewRandomSignedTx()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to build a transaction: %v", failed, testID, err)
			}

			parent := signature.RandomHash()
			block, err := solveBlock(parent, gen.BlockDigest(), tx)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to solve the block: %v", failed, testID, err)
			}

			if !block.IsSolved() || block.Header.ParentHash != parent {
				t.Fatalf("\t%s\tTest %d:\tShould return a solved child of the parent.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould return a solved child of the parent.", success, testID)
		}
	}
}
