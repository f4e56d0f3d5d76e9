package database

import (
	"errors"
	"fmt"
)

// Set of errors returned when validating transactions and blocks.
var (
	ErrInvalidSignature = errors.New("transaction signature is invalid")
	ErrMissingInput     = errors.New("transaction input is not in the parent state")
	ErrOwnerMismatch    = errors.New("transaction signer does not own the input")
	ErrValueMismatch    = errors.New("transaction input value does not match output value")
	ErrUnknownParent    = errors.New("parent block is unknown")
	ErrDoubleSpend      = errors.New("transaction input is spent twice in the block")
)

// =============================================================================

// IsTransactionValid verifies the transaction is properly signed. This is a
// local check and says nothing about balance or ownership.
func IsTransactionValid(tx SignedTx) bool {
	return tx.Verify()
}

// IsBlockValid reports whether every transaction in the block can be applied
// to the state of the parent block.
func IsBlockValid(block Block, parent UTXOSet) bool {
	return ValidateBlock(block, parent, nil) == nil
}

// ValidateBlock takes a block and validates every transaction against the
// state of the parent block. For each transaction the signature must verify,
// every input must exist in the parent state and be owned by the signer, and
// the input value must match the output value.
//
// The input value of a transaction is the value of its last input, not the
// sum of all inputs.
func ValidateBlock(block Block, parent UTXOSet, evHandler func(v string, args ...any)) error {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	for i, tx := range block.Content.Trans {
		ev("database: ValidateBlock: tx[%d]: check: signature", i)

		if !IsTransactionValid(tx) {
			return fmt.Errorf("tx[%d]: %w", i, ErrInvalidSignature)
		}

		owner, err := tx.FromAddress()
		if err != nil {
			return fmt.Errorf("tx[%d]: %w: %s", i, ErrInvalidSignature, err)
		}

		var inputValue uint64
		for _, input := range tx.Tx.Inputs {
			ev("database: ValidateBlock: tx[%d]: check: input[%s] is unspent", i, input)

			output, exists := parent[input]
			if !exists {
				return fmt.Errorf("tx[%d]: input[%s]: %w", i, input, ErrMissingInput)
			}

			ev("database: ValidateBlock: tx[%d]: check: input[%s] is owned by signer", i, input)

			if output.Recipient != owner {
				return fmt.Errorf("tx[%d]: input[%s]: owner %s, signer %s: %w", i, input, output.Recipient.Hex(), owner.Hex(), ErrOwnerMismatch)
			}

			inputValue = uint64(output.Value)
		}

		var outputValue uint64
		for _, output := range tx.Tx.Outputs {
			outputValue += uint64(output.Value)
		}

		ev("database: ValidateBlock: tx[%d]: check: input value matches output value", i)

		if inputValue != outputValue {
			return fmt.Errorf("tx[%d]: input %d, output %d: %w", i, inputValue, outputValue, ErrValueMismatch)
		}
	}

	return nil
}

// ValidateInputs checks no output is spent by more than one input across the
// transactions of the block. ValidateBlock checks every transaction against
// the parent state on its own, so two spends of one output in the same block
// are only caught here.
func ValidateInputs(block Block) error {
	spent := make(map[UTXOInput]int)
	for i, tx := range block.Content.Trans {
		for _, input := range tx.Tx.Inputs {
			if j, exists := spent[input]; exists {
				return fmt.Errorf("tx[%d]: input[%s]: already spent by tx[%d]: %w", i, input, j, ErrDoubleSpend)
			}
			spent[input] = i
		}
	}

	return nil
}

// ValidateHeader checks the header of a block received from outside the node
// against its parent block: the parent hash must link, the difficulty must be
// inherited, the hash must be solved and the merkle root must commit to the
// content.
func ValidateHeader(block Block, parent Block) error {
	if block.Header.ParentHash != parent.Hash() {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", block.Header.ParentHash.Hex(), parent.Hash().Hex())
	}

	if block.Header.Difficulty != parent.Header.Difficulty {
		return fmt.Errorf("block difficulty doesn't match parent difficulty, parent %s, block %s", parent.Header.Difficulty.Hex(), block.Header.Difficulty.Hex())
	}

	hash := block.Hash()
	if !IsHashSolved(block.Header.Difficulty, hash) {
		return fmt.Errorf("%s invalid block hash", hash.Hex())
	}

	if root := block.Content.MerkleRoot(); block.Header.MerkleRoot != root {
		return fmt.Errorf("merkle root does not match transactions, got %s, exp %s", block.Header.MerkleRoot.Hex(), root.Hex())
	}

	return nil
}
