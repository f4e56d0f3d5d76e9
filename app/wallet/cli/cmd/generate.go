package cmd

import (
	"crypto/ecdsa"
	"log"
	"os"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var useGenesisKey bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&useGenesisKey, "genesis", "g", false, "Save the key that owns the first ICO output instead of a new one.")
}

func generateRun(cmd *cobra.Command, args []string) {
	var privateKey *ecdsa.PrivateKey
	switch {
	case useGenesisKey:
		privateKey = signature.GenesisKey()

	default:
		var err error
		if privateKey, err = signature.GenerateKey(); err != nil {
			log.Fatal(err)
		}
	}

	if err := os.MkdirAll(accountPath, 0755); err != nil {
		log.Fatal(err)
	}

	if err := crypto.SaveECDSA(getPrivateKeyPath(), privateKey); err != nil {
		log.Fatal(err)
	}
}
