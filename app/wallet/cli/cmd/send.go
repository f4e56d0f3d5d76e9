package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

// maxNonceAttempts bounds the search for a nonce that solves the block.
const maxNonceAttempts = 1_000_000

var (
	privateURL string
	to         string
	value      uint32
)

type tipBlock struct {
	Hash       string `json:"hash"`
	Difficulty string `json:"difficulty"`
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send value by submitting a solved block to the node",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringVarP(&privateURL, "private-url", "r", "http://localhost:9080", "Url of the node private api.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address to send the value to.")
	sendCmd.Flags().Uint32VarP(&value, "value", "v", 0, "Value to send.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("value")
}

func sendRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	if !common.IsHexAddress(to) {
		log.Fatalf("invalid address %q", to)
	}

	hash, err := send(privateKey, common.HexToAddress(to), value)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Block accepted:", hash)
}

func send(privateKey *ecdsa.PrivateKey, recipient common.Address, value uint32) (string, error) {
	address, err := signature.AddressFromPublicKey(signature.PublicKeyBytes(privateKey))
	if err != nil {
		return "", err
	}

	bal, err := queryBalance(address)
	if err != nil {
		return "", err
	}

	tx, err := buildTx(privateKey, address, bal.Outputs, recipient, value)
	if err != nil {
		return "", err
	}

	var tip tipBlock
	if err := getJSON(fmt.Sprintf("%s/v1/blocks/%s", url, bal.Tip), &tip); err != nil {
		return "", err
	}

	block, err := solveBlock(common.HexToHash(tip.Hash), common.HexToHash(tip.Difficulty), tx)
	if err != nil {
		return "", err
	}

	data, err := block.Encode()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(struct {
		Block hexutil.Bytes `json:"block"`
	}{
		Block: data,
	})
	if err != nil {
		return "", err
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/node/block", privateURL), "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&er)
		return "", fmt.Errorf("block rejected: status %s: %s", resp.Status, er.Error)
	}

	return block.Hash().Hex(), nil
}

// buildTx spends the smallest owned output that covers the value. Only one
// input is used since the value of a transaction is the value of its last
// input. Anything above the value is returned to the owner.
func buildTx(privateKey *ecdsa.PrivateKey, owner common.Address, owned []utxo, recipient common.Address, value uint32) (database.SignedTx, error) {
	if value == 0 {
		return database.SignedTx{}, errors.New("value must be greater than zero")
	}

	var selected *utxo
	for i := range owned {
		if owned[i].Value < value {
			continue
		}
		if selected == nil || owned[i].Value < selected.Value {
			selected = &owned[i]
		}
	}

	if selected == nil {
		return database.SignedTx{}, fmt.Errorf("no single output covers the value %d", value)
	}

	inputs := []database.UTXOInput{
		{PrevTxHash: common.HexToHash(selected.PrevTxHash), Index: selected.Index},
	}

	outputs := []database.UTXOOutput{
		{Recipient: recipient, Value: value},
	}
	if change := selected.Value - value; change > 0 {
		outputs = append(outputs, database.UTXOOutput{Recipient: owner, Value: change})
	}

	return database.NewTx(inputs, outputs).Sign(privateKey)
}

// solveBlock searches for a nonce that solves a block holding the
// transaction on top of the parent.
func solveBlock(parent common.Hash, difficulty common.Hash, tx database.SignedTx) (database.Block, error) {
	timeStamp := database.Now()
	start := rand.Uint32()

	for i := range uint32(maxNonceAttempts) {
		block := database.NewBlock(parent, start+i, difficulty, timeStamp, []database.SignedTx{tx})
		if block.IsSolved() {
			return block, nil
		}
	}

	return database.Block{}, fmt.Errorf("no nonce solved the block after %d attempts", maxNonceAttempts)
}

func getJSON(url string, v any) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %s", url, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
