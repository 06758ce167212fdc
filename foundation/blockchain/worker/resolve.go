package worker

// resolveOperations handles chain conflict resolution against the known
// peers.
func (w *Worker) resolveOperations() {
	w.evHandler("worker: resolveOperations: G started")
	defer w.evHandler("worker: resolveOperations: G completed")

	for {
		select {
		case <-w.resolve:
			if !w.isShutdown() {
				w.runResolveOperation()
			}
		case <-w.shut:
			w.evHandler("worker: resolveOperations: received shut signal")
			return
		}
	}
}

// conflictCheckOperations periodically checks whether a peer reported a
// conflict that has not been reconciled yet.
func (w *Worker) conflictCheckOperations() {
	w.evHandler("worker: conflictCheckOperations: G started")
	defer w.evHandler("worker: conflictCheckOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() && w.state.NeedsResolve() {
				w.SignalResolve()
			}
		case <-w.shut:
			w.evHandler("worker: conflictCheckOperations: received shut signal")
			return
		}
	}
}

// runResolveOperation reconciles the local chain against the known peers
// by the longest valid chain rule.
func (w *Worker) runResolveOperation() {
	w.evHandler("worker: runResolveOperation: RESOLVE: started")
	defer w.evHandler("worker: runResolveOperation: RESOLVE: completed")

	replaced, err := w.state.Resolve()
	if err != nil {
		w.evHandler("worker: runResolveOperation: RESOLVE: WARNING: %s", err)
		return
	}

	w.evHandler("worker: runResolveOperation: RESOLVE: chain replaced[%v]", replaced)

	// Anything still sitting in the open pool should get mined on the
	// reconciled chain.
	if len(w.state.RetrieveMempool()) > 0 {
		w.SignalStartMining()
	}
}
