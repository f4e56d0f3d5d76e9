package public

import (
	"sort"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
)

type genesisInfo struct {
	Hash    string          `json:"hash"`
	Genesis genesis.Genesis `json:"genesis"`
}

type tip struct {
	Hash   string `json:"hash"`
	Height uint64 `json:"height"`
	Length int    `json:"length"`
}

type input struct {
	PrevTxHash string `json:"prev_tx_hash"`
	Index      uint8  `json:"index"`
}

type output struct {
	Recipient string `json:"recipient"`
	Value     uint32 `json:"value"`
}

type tx struct {
	Hash      string   `json:"hash"`
	From      string   `json:"from"`
	Inputs    []input  `json:"inputs"`
	Outputs   []output `json:"outputs"`
	Signature string   `json:"signature"`
}

type block struct {
	Hash       string `json:"hash"`
	Height     uint64 `json:"height"`
	ParentHash string `json:"parent_hash"`
	Nonce      uint32 `json:"nonce"`
	Difficulty string `json:"difficulty"`
	TimeStamp  uint64 `json:"timestamp"`
	MerkleRoot string `json:"merkle_root"`
	Trans      []tx   `json:"trans"`
}

type utxo struct {
	PrevTxHash string `json:"prev_tx_hash"`
	Index      uint8  `json:"index"`
	Recipient  string `json:"recipient"`
	Value      uint32 `json:"value"`
}

type balance struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Tip     string `json:"tip"`
	Balance uint64 `json:"balance"`
	Outputs []utxo `json:"outputs"`
}

// =============================================================================

func toBlock(blk database.Block, height uint64) block {
	trans := make([]tx, len(blk.Content.Trans))
	for i, tran := range blk.Content.Trans {
		from := "unknown"
		if addr, err := tran.FromAddress(); err == nil {
			from = addr.Hex()
		}

		inputs := make([]input, len(tran.Tx.Inputs))
		for j, in := range tran.Tx.Inputs {
			inputs[j] = input{PrevTxHash: in.PrevTxHash.Hex(), Index: in.Index}
		}

		outputs := make([]output, len(tran.Tx.Outputs))
		for j, out := range tran.Tx.Outputs {
			outputs[j] = output{Recipient: out.Recipient.Hex(), Value: out.Value}
		}

		trans[i] = tx{
			Hash:      tran.Tx.Hash().Hex(),
			From:      from,
			Inputs:    inputs,
			Outputs:   outputs,
			Signature: tran.SignatureString(),
		}
	}

	return block{
		Hash:       blk.Hash().Hex(),
		Height:     height,
		ParentHash: blk.Header.ParentHash.Hex(),
		Nonce:      blk.Header.Nonce,
		Difficulty: blk.Header.Difficulty.Hex(),
		TimeStamp:  blk.Header.TimeStamp,
		MerkleRoot: blk.Header.MerkleRoot.Hex(),
		Trans:      trans,
	}
}

// toUTXOs flattens the set into a list ordered by transaction hash and index
// so responses are stable.
func toUTXOs(utxos database.UTXOSet) []utxo {
	list := make([]utxo, 0, len(utxos))
	for in, out := range utxos {
		list = append(list, utxo{
			PrevTxHash: in.PrevTxHash.Hex(),
			Index:      in.Index,
			Recipient:  out.Recipient.Hex(),
			Value:      out.Value,
		})
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].PrevTxHash != list[j].PrevTxHash {
			return list[i].PrevTxHash < list[j].PrevTxHash
		}
		return list[i].Index < list[j].Index
	})

	return list
}
