// Package peer defines the messages this node shares with the rest of the
// network and the behavior required to deliver them.
package peer

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Kind identifies the content carried by a message.
type Kind string

// Set of message kinds.
const (
	KindNewBlockHashes Kind = "new_block_hashes"
)

// Message represents information shared with the network.
type Message struct {
	Kind   Kind          `json:"kind"`
	Hashes []common.Hash `json:"hashes"`
}

// NewBlockHashes constructs a message announcing the specified blocks in order.
func NewBlockHashes(hashes ...common.Hash) Message {
	return Message{
		Kind:   KindNewBlockHashes,
		Hashes: hashes,
	}
}

// String implements the fmt.Stringer interface for logging.
func (m Message) String() string {
	hashes := make([]string, len(m.Hashes))
	for i, hash := range m.Hashes {
		hashes[i] = hash.Hex()
	}

	return fmt.Sprintf("%s[%s]", m.Kind, strings.Join(hashes, ","))
}

// =============================================================================

// Server represents the behavior required to deliver messages to the network.
// Broadcast is fire and forget: it must not block the caller and there is no
// acknowledgment.
type Server interface {
	Broadcast(msg Message)
}
