package tasks

import (
	"errors"
	"sync/atomic"
)

// ErrBusy is returned for any request that arrives while an ingestion run
// holds the gate.
var ErrBusy = errors.New("ingestion already running")

type State int32

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Gate allows at most one ingestion run at a time. The zero Gate is idle.
type Gate struct {
	state atomic.Int32
}

// TryStart moves the gate from idle to running. Only the caller that gets
// true owns the run and must call Finish.
func (g *Gate) TryStart() bool {
	return g.state.CompareAndSwap(int32(StateIdle), int32(StateRunning))
}

func (g *Gate) Finish() {
	g.state.Store(int32(StateIdle))
}

func (g *Gate) State() State {
	return State(g.state.Load())
}

func (g *Gate) Running() bool {
	return g.State() == StateRunning
}

// Run executes fn while holding the gate. The gate is released on every
// exit path of fn, panics included.
func (g *Gate) Run(fn func() error) error {
	if !g.TryStart() {
		return ErrBusy
	}
	defer g.Finish()
	return fn()
}
