// Package dals is the top-level Delay-Driven Approximate Logic Synthesis
// engine facade: an ordinary constructed value replacing the original's
// process-wide DALS/Framework singletons (spec.md §9).
package dals

import (
	"log"

	"github.com/go-dals/dals/ntk"
	"github.com/go-dals/dals/reducer"
)

// Config is the engine's configuration surface (spec.md §6): sim_64_cycles,
// err_constraint, top_k, show_progress.
type Config = reducer.Config

// Round is one iteration's report.
type Round = reducer.Round

// Engine owns an immutable copy of the input network (target) and a
// mutable working copy (approx) that Run rewrites in place.
type Engine struct {
	target  ntk.Network
	reducer *reducer.Reducer
}

// New duplicates net into an immutable target and a mutable approx, and
// returns an Engine ready to Run. sta is the static timing analysis
// collaborator (spec.md §6); pass timing.New() for the reference
// implementation.
func New(net ntk.Network, sta ntk.STA, cfg Config, logger *log.Logger) *Engine {
	target := net.Duplicate()
	approx := target.Duplicate()
	return &Engine{
		target:  target,
		reducer: reducer.New(target, approx, sta, cfg, logger),
	}
}

// Target returns the immutable reference network.
func (e *Engine) Target() ntk.Network {
	return e.target
}

// Approx returns the mutable working network, reflecting every ALC
// committed so far.
func (e *Engine) Approx() ntk.Network {
	return e.reducer.Approx()
}

// Run drives the round loop until the error budget is spent (or a round
// makes no progress) and returns every round's report.
func (e *Engine) Run() ([]Round, error) {
	return e.reducer.Run()
}
