// This program performs administrative tasks for the blockchain.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/utxochain/app/tooling/admin/commands"
	"github.com/ardanlabs/utxochain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	log.Infow("admin", "version", build, "args", os.Args[1:])

	return processCommands(os.Args)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: admin genesis [path] | merkle <value>... | verify <root> <value> <index> <count> <proof>...")
	}

	switch args[1] {
	case "genesis":
		if err := commands.Genesis(os.Stdout, args[2:]); err != nil {
			return fmt.Errorf("reading genesis: %w", err)
		}
	case "merkle":
		if err := commands.Merkle(os.Stdout, args[2:]); err != nil {
			return fmt.Errorf("building merkle tree: %w", err)
		}
	case "verify":
		if err := commands.Verify(os.Stdout, args[2:]); err != nil {
			return fmt.Errorf("verifying merkle proof: %w", err)
		}
	default:
		return fmt.Errorf("unknown command %q", args[1])
	}

	return nil
}
