// This program is a wallet for the blockchain. It manages a private key and
// spends the outputs it owns by submitting solved blocks to a node.
package main

import "github.com/ardanlabs/utxochain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
