// Package worker implements the mining control loop for the blockchain.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/ardanlabs/utxochain/foundation/blockchain/peer"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
)

// maxControlSignals represents the max number of pending control signals
// that can be outstanding before signals are dropped. If the channel does
// become full, new signals will not be accepted.
const maxControlSignals = 10

// ErrShutDown is returned when the worker has stopped and can no longer
// answer requests.
var ErrShutDown = errors.New("worker is shut down")

// =============================================================================

// Status represents the state of the mining control loop.
type Status string

// Set of mining states. A worker starts Paused, moves between Paused and
// Running, and ShutDown is terminal.
const (
	StatusPaused   Status = "paused"
	StatusRunning  Status = "running"
	StatusShutDown Status = "shut_down"
)

// Stats represents the counters owned by the mining loop.
type Stats struct {
	Status   Status `json:"status"`
	Interval uint64 `json:"interval_us"`
	Mined    uint64 `json:"mined"`
	Attempts uint64 `json:"attempts"`
}

type signalKind int

const (
	signalStart signalKind = iota + 1
	signalPause
	signalStats
)

type signal struct {
	kind     signalKind
	interval uint64
	reply    chan Stats
}

// =============================================================================

// worker manages the POW workflow for the blockchain. All of its fields are
// owned by the mining goroutine.
type worker struct {
	state     *state.State
	server    peer.Server
	evHandler state.EventHandler
	signals   <-chan signal
	shut      <-chan struct{}
	done      chan struct{}

	status   Status
	interval uint64
	mined    uint64
	attempts uint64
}

// Run creates a worker in the paused state, starts the mining goroutine and
// returns the handle used to control it.
func Run(st *state.State, server peer.Server, evHandler state.EventHandler) *Handle {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	signals := make(chan signal, maxControlSignals)
	shut := make(chan struct{})

	w := worker{
		state:     st,
		server:    server,
		evHandler: ev,
		signals:   signals,
		shut:      shut,
		done:      make(chan struct{}),
		status:    StatusPaused,
	}

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	go func() {
		defer close(w.done)
		hasStarted <- true
		w.miningOperations()
	}()

	<-hasStarted

	h := Handle{
		signals:   signals,
		shut:      shut,
		done:      w.done,
		evHandler: ev,
	}

	return &h
}

// =============================================================================

// Handle is the control surface of a running worker. Its methods never block
// on the mining goroutine, except Stats which waits for the reply.
type Handle struct {
	signals   chan<- signal
	shut      chan struct{}
	shutOnce  sync.Once
	done      <-chan struct{}
	evHandler state.EventHandler
}

// Start moves the worker into the running state with the specified interval
// in microseconds between mining attempts. An interval of 0 attempts as fast
// as possible. Calling Start while running changes the interval in place.
func (h *Handle) Start(interval uint64) {
	h.send(signal{kind: signalStart, interval: interval}, "start")
}

// Pause moves the worker back into the paused state. The interval is kept
// and the counters are preserved.
func (h *Handle) Pause() {
	h.send(signal{kind: signalPause}, "pause")
}

// Exit signals the worker to shut down. The worker stops at its next
// control check, use Done to wait for it. Exit does not go through the
// control queue so it is never dropped, and calling it more than once is
// safe.
func (h *Handle) Exit() {
	h.shutOnce.Do(func() {
		h.evHandler("worker: Handle: exit signaled")
		close(h.shut)
	})
}

// Stats requests the current counters from the worker.
func (h *Handle) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)

	select {
	case h.signals <- signal{kind: signalStats, reply: reply}:
	case <-h.done:
		return Stats{}, ErrShutDown
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}

	select {
	case stats := <-reply:
		return stats, nil
	case <-h.done:
		return Stats{}, ErrShutDown
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Done returns a channel that is closed once the worker has shut down.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// send delivers the signal without blocking. If maxControlSignals signals are
// already pending, the signal is dropped. Exit never uses the queue.
func (h *Handle) send(sig signal, name string) {
	select {
	case h.signals <- sig:
		h.evHandler("worker: Handle: %s signaled", name)
	default:
		h.evHandler("worker: Handle: queue full, %s signal dropped", name)
	}
}
