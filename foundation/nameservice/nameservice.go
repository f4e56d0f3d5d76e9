// Package nameservice reads the zblock/accounts folder and creates a name
// service lookup for the addresses of the wallets kept there.
package nameservice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	addresses map[common.Address]string
}

// New constructs a name service with the addresses of the keys found in the
// root folder. A root that does not exist produces an empty name service.
func New(root string) (*NameService, error) {
	ns := NameService{
		addresses: make(map[common.Address]string),
	}

	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return &ns, nil
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != ".ecdsa" {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return err
		}

		address, err := signature.AddressFromPublicKey(signature.PublicKeyBytes(privateKey))
		if err != nil {
			return err
		}
		ns.addresses[address] = strings.TrimSuffix(path.Base(fileName), ".ecdsa")

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified address.
func (ns *NameService) Lookup(address common.Address) string {
	name, exists := ns.addresses[address]
	if !exists {
		return address.Hex()
	}
	return name
}

// Copy returns a copy of the map of names and addresses.
func (ns *NameService) Copy() map[common.Address]string {
	cpy := make(map[common.Address]string, len(ns.addresses))
	for address, name := range ns.addresses {
		cpy[address] = name
	}
	return cpy
}
