// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/coinledger/blockchain/app/services/node/handlers/v1/private"
	"github.com/coinledger/blockchain/app/services/node/handlers/v1/public"
	"github.com/coinledger/blockchain/foundation/blockchain/state"
	"github.com/coinledger/blockchain/foundation/events"
	"github.com/coinledger/blockchain/foundation/nameservice"
	"github.com/coinledger/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
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
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/balances/list", pbl.Balances)
	app.Handle(http.MethodGet, version, "/balances/list/:account", pbl.Balances)
	app.Handle(http.MethodGet, version, "/chain/list", pbl.Chain)
	app.Handle(http.MethodGet, version, "/tx/uncommitted/list", pbl.Mempool)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitWalletTransaction)
	app.Handle(http.MethodGet, version, "/mining/signal", pbl.SignalMining)
	app.Handle(http.MethodPost, version, "/resolve", pbl.Resolve)
	app.Handle(http.MethodGet, version, "/node/list", pbl.KnownPeers)
	app.Handle(http.MethodPost, version, "/node/add", pbl.AddPeer)
	app.Handle(http.MethodDelete, version, "/node/remove/:host", pbl.RemovePeer)
}

// PrivateRoutes binds all the version 1 node to node routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
	}

	app.Handle(http.MethodPost, version, "/node/broadcast-transaction", prv.BroadcastTransaction)
	app.Handle(http.MethodPost, version, "/node/broadcast-block", prv.BroadcastBlock)
	app.Handle(http.MethodGet, version, "/node/chain", prv.Chain)
	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
}
