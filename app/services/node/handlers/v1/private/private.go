// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	v1 "github.com/coinledger/blockchain/business/web/v1"
	"github.com/coinledger/blockchain/foundation/blockchain/database"
	"github.com/coinledger/blockchain/foundation/blockchain/peer"
	"github.com/coinledger/blockchain/foundation/blockchain/state"
	"github.com/coinledger/blockchain/foundation/nameservice"
	"github.com/coinledger/blockchain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
}

// BroadcastTransaction accepts a transaction relayed by a peer node and
// adds it to the local open pool.
func (h Handlers) BroadcastTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx database.Tx
	if err := web.Decode(r, &tx); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	if err := tx.VerifySignature(); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	h.Log.Infow("add peer tran", "traceid", v.TraceID, "sender", tx.Sender, "recipient", tx.Recipient, "amount", tx.Amount)

	if err := h.State.UpsertPeerTransaction(tx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to the open pool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BroadcastBlock takes a block mined by a peer, validates it, and if that
// passes, appends the block to the local chain. An index that does not
// line up with the local chain tail reports a conflict so both sides can
// reconcile.
func (h Handlers) BroadcastBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var payload struct {
		Block database.Block `json:"block"`
	}
	if err := web.Decode(r, &payload); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}
	block := payload.Block

	tail, err := h.State.RetrieveLatestBlock()
	if err != nil {
		return err
	}

	switch {
	case block.Index == tail.Index+1:
		if err := h.State.ProcessPeerBlock(block); err != nil {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}

	case block.Index > tail.Index:
		// The peer is ahead of us by more than one block. Flag the
		// conflict and reconcile in the background.
		h.State.SetNeedsResolve(true)
		h.State.Worker.SignalResolve()
		return v1.NewRequestError(errors.New("local chain is behind, conflict flagged"), http.StatusConflict)

	default:
		return v1.NewRequestError(errors.New("broadcast block is behind the local chain"), http.StatusConflict)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "accepted",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns the full chain of blocks for conflict resolution.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveChain(), http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latestBlock, err := h.State.RetrieveLatestBlock()
	if err != nil {
		return err
	}

	status := peer.Status{
		LatestBlockHash:   latestBlock.Hash(),
		LatestBlockNumber: latestBlock.Index,
		KnownPeers:        h.State.RetrieveKnownPeers(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}
