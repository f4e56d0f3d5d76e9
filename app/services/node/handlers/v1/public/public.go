// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ardanlabs/utxochain/business/web/errs"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
	"github.com/ardanlabs/utxochain/foundation/events"
	"github.com/ardanlabs/utxochain/foundation/nameservice"
	"github.com/ardanlabs/utxochain/foundation/web"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information and the hash of the genesis block.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := genesisInfo{
		Hash:    h.State.GenesisHash().Hex(),
		Genesis: h.State.RetrieveGenesis(),
	}

	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Tip returns the block the node currently considers canonical.
func (h Handlers) Tip(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash := h.State.Tip()

	_, height, err := h.State.QueryBlock(hash)
	if err != nil {
		return errs.FromChain(err)
	}

	t := tip{
		Hash:   hash.Hex(),
		Height: height,
		Length: h.State.Length(),
	}

	return web.Respond(ctx, w, t, http.StatusOK)
}

// Block returns the block for the specified hash.
func (h Handlers) Block(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash, err := toHash(web.Param(r, "hash"))
	if err != nil {
		return err
	}

	blk, height, err := h.State.QueryBlock(hash)
	if err != nil {
		return errs.FromChain(err)
	}

	return web.Respond(ctx, w, toBlock(blk, height), http.StatusOK)
}

// Chain returns the blocks of the preferred chain from genesis to tip.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.QueryChain()

	blocks := make([]block, len(chain))
	for i, blk := range chain {
		blocks[i] = toBlock(blk, uint64(i))
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// UTXOSet returns the ledger state recorded for the specified block.
func (h Handlers) UTXOSet(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash, err := toHash(web.Param(r, "hash"))
	if err != nil {
		return err
	}

	utxos, err := h.State.QueryUTXOSet(hash)
	if err != nil {
		return errs.FromChain(err)
	}

	return web.Respond(ctx, w, toUTXOs(utxos), http.StatusOK)
}

// Balance returns the value owned by the address at the tip.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")
	if !common.IsHexAddress(address) {
		return errs.NewTrusted(errors.New("invalid address"), http.StatusBadRequest)
	}

	addr := common.HexToAddress(address)
	tip, owned := h.State.QueryOwnedAtTip(addr)

	bal := balance{
		Address: addr.Hex(),
		Name:    h.NS.Lookup(addr),
		Tip:     tip.Hex(),
		Balance: owned.Balance(addr),
		Outputs: toUTXOs(owned),
	}

	return web.Respond(ctx, w, bal, http.StatusOK)
}

// =============================================================================

func toHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, errs.NewTrusted(errors.New("invalid hash"), http.StatusBadRequest)
	}

	return common.BytesToHash(b), nil
}
