// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	v1 "github.com/coinledger/blockchain/business/web/v1"
	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/peer"
	"github.com/coinledger/blockchain/foundation/blockchain/state"
	"github.com/coinledger/blockchain/foundation/events"
	"github.com/coinledger/blockchain/foundation/nameservice"
	"github.com/coinledger/blockchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public ledger endpoints.
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

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitWalletTransaction adds a new signed transaction to the open pool
// and relays it to the known peers.
func (h Handlers) SubmitWalletTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var app submitTx
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	tx, err := toDatabaseTx(app)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	// The signature must check out before the transaction is even
	// considered for admission.
	if err := tx.VerifySignature(); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", tx.Sender, "recipient", tx.Recipient, "amount", tx.Amount)

	if err := h.State.UpsertWalletTransaction(tx); err != nil {
		switch {
		case errors.Is(err, state.ErrInsufficientFunds):
			return v1.NewRequestError(err, http.StatusBadRequest)
		case errors.Is(err, state.ErrPeerRejected):
			return v1.NewRequestError(err, http.StatusInternalServerError)
		default:
			return err
		}
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to the open pool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis block and the ledger parameters.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := genesisInfo{
		MiningReward: state.MiningReward,
		Block:        database.Genesis(),
	}

	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Chain returns the full chain of blocks.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// Balances returns the current balance for all accounts or for the one
// specified in the route.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var acts []actBalance

	switch account := web.Param(r, "account"); account {
	case "":
		for accountID, bal := range h.State.Balances() {
			acts = append(acts, actBalance{
				Account: accountID,
				Name:    h.NS.Lookup(accountID),
				Balance: bal,
			})
		}
		sort.Slice(acts, func(i, j int) bool { return acts[i].Account < acts[j].Account })

	default:
		accountID, err := database.ToAccountID(account)
		if err != nil {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}
		acts = append(acts, actBalance{
			Account: accountID,
			Name:    h.NS.Lookup(accountID),
			Balance: h.State.BalanceOf(accountID),
		})
	}

	latestBlock, err := h.State.RetrieveLatestBlock()
	if err != nil {
		return err
	}

	resp := balances{
		LatestBlockHash: latestBlock.Hash(),
		Uncommitted:     len(h.State.RetrieveMempool()),
		Balances:        acts,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignalMining signals the worker to start a mining operation over the
// open pool.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.RetrieveBeneficiaryID() == "" {
		return v1.NewRequestError(state.ErrNoIdentity, http.StatusBadRequest)
	}

	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Resolve reconciles the local chain against the known peers by the
// longest valid chain rule.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.State.Resolve()
	if err != nil {
		return err
	}

	latestBlock, err := h.State.RetrieveLatestBlock()
	if err != nil {
		return err
	}

	resp := struct {
		Status   string `json:"status"`
		Replaced bool   `json:"replaced"`
		Latest   string `json:"latest_block_hash"`
	}{
		Status:   "chain resolved",
		Replaced: replaced,
		Latest:   latestBlock.Hash(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// KnownPeers returns the current set of known peer nodes.
func (h Handlers) KnownPeers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveKnownPeers(), http.StatusOK)
}

// AddPeer registers a new peer node with this node.
func (h Handlers) AddPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var app submitPeer
	if err := web.Decode(r, &app); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	added := h.State.AddKnownPeer(peer.New(app.Host))

	resp := struct {
		Status string      `json:"status"`
		Added  bool        `json:"added"`
		Peers  []peer.Peer `json:"known_peers"`
	}{
		Status: "peer registered",
		Added:  added,
		Peers:  h.State.RetrieveKnownPeers(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RemovePeer removes a peer node from this node's peer set. Removing an
// unknown peer is not an error.
func (h Handlers) RemovePeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	host := web.Param(r, "host")

	h.State.RemoveKnownPeer(peer.New(host))

	resp := struct {
		Status string      `json:"status"`
		Peers  []peer.Peer `json:"known_peers"`
	}{
		Status: "peer removed",
		Peers:  h.State.RetrieveKnownPeers(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// toDatabaseTx converts the wire model into a transaction ready for
// admission.
func toDatabaseTx(app submitTx) (database.Tx, error) {
	sender, err := database.ToAccountID(app.Sender)
	if err != nil {
		return database.Tx{}, err
	}

	recipient, err := database.ToAccountID(app.Recipient)
	if err != nil {
		return database.Tx{}, err
	}

	tx, err := database.NewTx(sender, recipient, app.Amount)
	if err != nil {
		return database.Tx{}, err
	}
	tx.Signature = app.Signature

	return tx, nil
}
