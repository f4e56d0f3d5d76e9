package peer_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/peer"
	"github.com/ethereum/go-ethereum/common"
)

func Test_NewBlockHashes(t *testing.T) {
	type table struct {
		name   string
		hashes []common.Hash
	}

	tt := []table{
		{
			name:   "one",
			hashes: []common.Hash{common.HexToHash("0x01")},
		},
		{
			name:   "ordered",
			hashes: []common.Hash{common.HexToHash("0x03"), common.HexToHash("0x01"), common.HexToHash("0x02")},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			msg := peer.NewBlockHashes(tst.hashes...)

			if msg.Kind != peer.KindNewBlockHashes {
				t.Fatalf("Test %s:\tShould get back the right kind, got %q.", tst.name, msg.Kind)
			}

			if len(msg.Hashes) != len(tst.hashes) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(msg.Hashes))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.hashes))
				t.Fatalf("Test %s:\tShould get back the right hashes.", tst.name)
			}

			for i := range tst.hashes {
				if msg.Hashes[i] != tst.hashes[i] {
					t.Fatalf("Test %s:\tShould keep the hashes in order, index %d.", tst.name, i)
				}
			}

			data, err := json.Marshal(msg)
			if err != nil {
				t.Fatalf("Test %s:\tShould be able to marshal the message: %v", tst.name, err)
			}

			if !strings.Contains(string(data), tst.hashes[0].Hex()) {
				t.Logf("Test %s:\tgot: %s", tst.name, data)
				t.Fatalf("Test %s:\tShould encode the hashes as hex.", tst.name)
			}

			if !strings.HasPrefix(msg.String(), string(peer.KindNewBlockHashes)) {
				t.Fatalf("Test %s:\tShould name the kind when logged, got %s.", tst.name, msg)
			}
		}

		t.Run(tst.name, f)
	}
}
