package worker

import (
	"math/rand/v2"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/peer"
)

// miningOperations handles mining. While paused the G blocks waiting for a
// control signal. While running it polls for a signal, performs one mining
// attempt and then waits out the interval. A shut down is checked before
// every step.
func (w *worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		if w.isShutdown() {
			w.shutDown()
		}

		switch w.status {
		case StatusShutDown:
			w.evHandler("worker: miningOperations: received shut signal")
			return

		case StatusPaused:
			select {
			case sig := <-w.signals:
				w.apply(sig)
			case <-w.shut:
				w.shutDown()
			}
			continue
		}

		select {
		case sig := <-w.signals:
			w.apply(sig)
		default:
		}

		if w.status != StatusRunning || w.isShutdown() {
			continue
		}

		w.runMiningOperation()
		w.pause()
	}
}

// runMiningOperation performs a single nonce attempt on a fresh block built
// on top of the current tip. A solved block is added to the chain and
// announced to the network.
func (w *worker) runMiningOperation() {
	w.attempts++

	tip := w.state.Tip()

	difficulty, err := w.state.Difficulty(tip)
	if err != nil {
		w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		return
	}

	tx, err := database.NewRandomSignedTx()
	if err != nil {
		w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		return
	}

	block := database.NewBlock(tip, rand.Uint32(), difficulty, database.Now(), []database.SignedTx{tx})
	if !block.IsSolved() {
		return
	}

	hash := block.Hash()
	w.evHandler("worker: runMiningOperation: MINING: solved: blk[%s]: attempts[%d]", hash, w.attempts)

	// The tip may have moved since it was read. The parent is never removed
	// from the chain so the block is still admitted, possibly as a fork.
	if err := w.state.AddMinedBlock(block); err != nil {
		w.evHandler("worker: runMiningOperation: MINING: WARNING: %s", err)
		return
	}

	w.mined++

	w.server.Broadcast(peer.NewBlockHashes(hash))
}

// pause waits the configured interval between mining attempts. A control
// signal or a shut down arriving during the wait ends the wait.
func (w *worker) pause() {
	if w.interval == 0 {
		return
	}

	timer := time.NewTimer(time.Duration(w.interval) * time.Microsecond)
	defer timer.Stop()

	select {
	case sig := <-w.signals:
		w.apply(sig)
	case <-w.shut:
		w.shutDown()
	case <-timer.C:
	}
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

// shutDown moves the worker into the terminal state.
func (w *worker) shutDown() {
	if w.status == StatusShutDown {
		return
	}

	w.evHandler("worker: shutDown: mined[%d]: attempts[%d]", w.mined, w.attempts)
	w.status = StatusShutDown
}

// apply performs the state transition requested by the control signal.
func (w *worker) apply(sig signal) {
	switch sig.kind {
	case signalStart:
		w.evHandler("worker: apply: start: interval[%dus]", sig.interval)
		w.status = StatusRunning
		w.interval = sig.interval

	case signalPause:
		w.evHandler("worker: apply: pause")
		w.status = StatusPaused

	case signalStats:
		sig.reply <- Stats{
			Status:   w.status,
			Interval: w.interval,
			Mined:    w.mined,
			Attempts: w.attempts,
		}
	}
}
