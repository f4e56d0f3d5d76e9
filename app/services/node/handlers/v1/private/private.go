// Package private maintains the group of handlers for operator and node to
// node access.
package private

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ardanlabs/utxochain/business/web/errs"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/peer"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
	"github.com/ardanlabs/utxochain/foundation/blockchain/worker"
	"github.com/ardanlabs/utxochain/foundation/web"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Handlers manages the set of private node endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Miner  *worker.Handle
	Server peer.Server
}

// StartMining moves the miner into the running state with the requested
// interval. Calling it while mining changes the interval.
func (h Handlers) StartMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req startRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("start mining", "traceid", v.TraceID, "interval_us", *req.IntervalUS)
	h.Miner.Start(*req.IntervalUS)

	return web.Respond(ctx, w, status{Status: "start signaled"}, http.StatusAccepted)
}

// PauseMining moves the miner into the paused state.
func (h Handlers) PauseMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Miner.Pause()

	return web.Respond(ctx, w, status{Status: "pause signaled"}, http.StatusAccepted)
}

// ExitMining shuts the miner down. The miner can't be started again without
// restarting the node.
func (h Handlers) ExitMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Miner.Exit()

	return web.Respond(ctx, w, status{Status: "exit signaled"}, http.StatusAccepted)
}

// MiningStats returns the counters of the miner.
func (h Handlers) MiningStats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	stats, err := h.Miner.Stats(ctx)
	if err != nil {
		return errs.FromChain(err)
	}

	return web.Respond(ctx, w, stats, http.StatusOK)
}

// SubmitBlock takes a block received from outside the node, validates it and
// if that passes, adds the block to the local blockchain and announces it.
func (h Handlers) SubmitBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req submitRequest
	if err := web.Decode(r, &req); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	block, err := database.DecodeBlock(req.Block)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	hash := block.Hash()
	h.Log.Infow("submit block", "traceid", v.TraceID, "block", block)

	if err := h.State.ProcessPeerBlock(block); err != nil {
		trusted := errs.FromChain(err)
		if errs.GetTrusted(trusted) == nil {
			return errs.NewTrusted(fmt.Errorf("block not accepted: %w", err), http.StatusNotAcceptable)
		}
		return trusted
	}

	h.Server.Broadcast(peer.NewBlockHashes(hash))

	return web.Respond(ctx, w, status{Status: "accepted", Hash: hash.Hex()}, http.StatusOK)
}

// =============================================================================

type startRequest struct {
	IntervalUS *uint64 `json:"interval_us" validate:"required"`
}

type submitRequest struct {
	Block hexutil.Bytes `json:"block" validate:"required"`
}

type status struct {
	Status string `json:"status"`
	Hash   string `json:"hash,omitempty"`
}
