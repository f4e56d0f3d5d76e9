// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/utxochain/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/utxochain/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/utxochain/foundation/blockchain/peer"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
	"github.com/ardanlabs/utxochain/foundation/blockchain/worker"
	"github.com/ardanlabs/utxochain/foundation/events"
	"github.com/ardanlabs/utxochain/foundation/nameservice"
	"github.com/ardanlabs/utxochain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log    *zap.SugaredLogger
	State  *state.State
	Miner  *worker.Handle
	Server peer.Server
	NS     *nameservice.NameService
	Evts   *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/chain", pbl.Chain)
	app.Handle(http.MethodGet, version, "/chain/tip", pbl.Tip)
	app.Handle(http.MethodGet, version, "/blocks/:hash", pbl.Block)
	app.Handle(http.MethodGet, version, "/utxo/:hash", pbl.UTXOSet)
	app.Handle(http.MethodGet, version, "/balance/:address", pbl.Balance)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:    cfg.Log,
		State:  cfg.State,
		Miner:  cfg.Miner,
		Server: cfg.Server,
	}

	app.Handle(http.MethodPost, version, "/miner/start", prv.StartMining)
	app.Handle(http.MethodPost, version, "/miner/pause", prv.PauseMining)
	app.Handle(http.MethodPost, version, "/miner/exit", prv.ExitMining)
	app.Handle(http.MethodGet, version, "/miner/stats", prv.MiningStats)
	app.Handle(http.MethodPost, version, "/node/block", prv.SubmitBlock)
}
