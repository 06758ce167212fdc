// Package worker implements mining and conflict resolution goroutines.
package worker

import (
	"sync"
	"time"

	"github.com/coinledger/blockchain/foundation/blockchain/state"
)

// checkInterval is how often the worker checks whether a peer reported a
// chain conflict that still needs reconciling.
const checkInterval = 10 * time.Second

// Worker manages the POW workflows against the ledger.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	startMining  chan bool
	cancelMining chan bool
	resolve      chan bool
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, evHandler state.EventHandler) {
	w := Worker{
		state:        st,
		ticker:       time.NewTicker(checkInterval),
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan bool, 1),
		resolve:      make(chan bool, 1),
		evHandler:    evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations needed to run.
	operations := []func(){
		w.miningOperations,
		w.resolveOperations,
		w.conflictCheckOperations,
	}

	// Set waitgroup to match the number of G's needed for the operations.
	g := len(operations)
	w.wg.Add(g)

	// Don't return until all G's are up and running.
	hasStarted := make(chan bool)
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: signal cancel mining")
	w.SignalCancelMining()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// =============================================================================

// SignalStartMining starts a mining operation. If mining is already
// in progress, the signal is dropped.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalCancelMining signals the G executing the runMiningOperation to
// stop immediately.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: cancel mining signaled")
}

// SignalResolve starts a conflict resolution pass against the known
// peers. If one is already pending, the signal is dropped.
func (w *Worker) SignalResolve() {
	select {
	case w.resolve <- true:
	default:
	}
	w.evHandler("worker: SignalResolve: resolve signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
