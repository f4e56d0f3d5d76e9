package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type utxo struct {
	PrevTxHash string `json:"prev_tx_hash"`
	Index      uint8  `json:"index"`
	Recipient  string `json:"recipient"`
	Value      uint32 `json:"value"`
}

type balance struct {
	Address string `json:"address"`
	Tip     string `json:"tip"`
	Balance uint64 `json:"balance"`
	Outputs []utxo `json:"outputs"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

func balanceRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	address, err := signature.AddressFromPublicKey(signature.PublicKeyBytes(privateKey))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("For Account:", address.Hex())

	bal, err := queryBalance(address)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Tip: %s\n", bal.Tip)
	fmt.Printf("Balance: %d\n", bal.Balance)
	for _, out := range bal.Outputs {
		fmt.Printf("  %s:%d  %d\n", out.PrevTxHash, out.Index, out.Value)
	}
}

func queryBalance(address common.Address) (balance, error) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/balance/%s", url, address.Hex()))
	if err != nil {
		return balance{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return balance{}, fmt.Errorf("query balance: status %s", resp.Status)
	}

	var bal balance
	if err := json.NewDecoder(resp.Body).Decode(&bal); err != nil {
		return balance{}, err
	}

	return bal, nil
}
