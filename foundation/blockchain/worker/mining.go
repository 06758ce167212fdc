package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/coinledger/blockchain/foundation/blockchain/state"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation takes all the transactions from the open pool and
// writes a new block to the database.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// A pending conflict must be reconciled before mining on a chain that
	// may be about to be replaced.
	if w.state.NeedsResolve() {
		w.runResolveOperation()
	}

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
		case <-ctx.Done():
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		block, err := w.state.MineBlock(ctx)
		if err != nil {
			switch {
			case errors.Is(err, state.ErrChainAdvanced):
				w.evHandler("worker: runMiningOperation: MINING: chain advanced, signaling new attempt")
				w.SignalStartMining()

			case ctx.Err() != nil:
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")

			case errors.Is(err, state.ErrNoIdentity):
				w.evHandler("worker: runMiningOperation: MINING: WARNING: no mining identity configured")

			default:
				w.evHandler("worker: runMiningOperation: MINING: WARNING: %s", err)
			}
			return
		}

		// The block was mined. Broadcast it to the known peers.
		if err := w.state.NetSendBlockToPeers(block); err != nil {
			w.evHandler("worker: runMiningOperation: MINING: WARNING: broadcast: %s", err)
		}

		// Transactions admitted while the proof search ran are still
		// waiting in the open pool. Signal another attempt for them.
		if len(w.state.RetrieveMempool()) > 0 {
			w.evHandler("worker: runMiningOperation: MINING: open pool not empty, signaling new attempt")
			w.SignalStartMining()
		}
	}()

	wg.Wait()
}
