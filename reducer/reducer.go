// Package reducer is the Delay Reducer: each round it builds a critical
// flow graph from the round's candidate ALCs, solves a min cut, commits
// the cut ALCs permanently, and loops until the error budget is spent.
// Grounded on original_source/src/dals.cpp's DALS::Run.
package reducer

import (
	"log"

	"github.com/pkg/errors"

	"github.com/go-dals/dals/candidate"
	"github.com/go-dals/dals/flow"
	"github.com/go-dals/dals/ntk"
	"github.com/go-dals/dals/sim"
)

// sentinelCapacity stands in for "must be cut if anything" on a zero-error
// (lossless) node-internal arc: strictly smaller than any positive error a
// round's candidates will ever produce (the smallest possible nonzero
// error is 1/(64*W), many orders of magnitude larger for any W a caller
// would choose), while still letting the max-flow solver work with
// ordinary strictly-positive capacities.
const sentinelCapacity = 1e-12

// Config is the DALS configuration surface (spec.md §6).
type Config struct {
	W             int     // sim_64_cycles
	ErrConstraint float64 // loop terminates once simulated error reaches this
	TopK          int     // candidate refinement breadth per target node
	ShowProgress  bool
}

// CutALC reports one committed substitution for a round.
type CutALC struct {
	TargetName     string
	SubstituteName string
	IsComplemented bool
	Error          float64
}

// Round summarizes one iteration of the outer loop.
type Round struct {
	Index                    int
	Cuts                     []CutALC
	Error                    float64
	OldMaxDelay, NewMaxDelay int
}

// Reducer owns the immutable target network and the mutable working
// network, and drives the round loop.
type Reducer struct {
	target ntk.Network
	approx ntk.Network
	sta    ntk.STA
	cfg    Config
	logger *log.Logger
}

// New returns a Reducer over target (read-only reference) and approx (the
// mutable working network, normally a fresh Duplicate of target).
func New(target, approx ntk.Network, sta ntk.STA, cfg Config, logger *log.Logger) *Reducer {
	if logger == nil {
		logger = log.Default()
	}
	return &Reducer{target: target, approx: approx, sta: sta, cfg: cfg, logger: logger}
}

// Approx returns the working network, reflecting every ALC committed so
// far.
func (r *Reducer) Approx() ntk.Network {
	return r.approx
}

// Run executes rounds until the simulated error rate reaches
// cfg.ErrConstraint or a round makes no progress, and returns every
// round's report.
func (r *Reducer) Run() ([]Round, error) {
	var rounds []Round
	err := 0.0
	round := 0
	for err < r.cfg.ErrConstraint {
		round++
		errBefore := err
		oldMaxDelay := r.maxDelay()

		timing, e := r.sta.CalcSlack(r.approx)
		if e != nil {
			return rounds, errors.Wrap(e, "reducer: calc slack")
		}
		critInternal := criticalInternalNodes(r.approx, timing)

		gen := candidate.New(r.target, r.approx, r.sta, r.cfg.W, r.cfg.TopK)
		result, e := gen.Generate(critInternal)
		if e != nil {
			return rounds, errors.Wrap(e, "reducer: generate candidates")
		}

		committed, e := r.commitMinCut(result, timing)
		if e != nil {
			return rounds, errors.Wrap(e, "reducer: min cut")
		}

		err = sim.SimulateErrorRate(r.target, r.approx, r.cfg.W)
		newMaxDelay := r.maxDelay()

		rep := Round{Index: round, Cuts: committed, Error: err, OldMaxDelay: oldMaxDelay, NewMaxDelay: newMaxDelay}
		rounds = append(rounds, rep)
		if r.cfg.ShowProgress {
			r.report(rep)
		}

		if len(committed) == 0 {
			r.logger.Printf("dals: round %d made no cuts, stopping", round)
			break
		}
		if newMaxDelay == oldMaxDelay && err == errBefore {
			r.logger.Printf("dals: round %d made no progress (delay stayed %d, error stayed %.6f), stopping", round, newMaxDelay, err)
			break
		}
	}
	return rounds, nil
}

func (r *Reducer) maxDelay() int {
	paths := r.sta.KMostCriticalPaths(r.approx, 1)
	if len(paths) == 0 {
		return 0
	}
	return paths[0].MaxDelay
}

func criticalInternalNodes(net ntk.Network, timing map[ntk.Node]ntk.TimingInfo) []ntk.Node {
	var out []ntk.Node
	for _, n := range net.TopoSortPIsAndNodes() {
		if net.IsNode(n) && timing[n].Critical() {
			out = append(out, n)
		}
	}
	return out
}

// commitMinCut builds the flow graph of spec.md §4.D, solves the min cut,
// and permanently applies the corresponding ALC for every cut node.
func (r *Reducer) commitMinCut(result *candidate.Result, timing map[ntk.Node]ntk.TimingInfo) ([]CutALC, error) {
	m := r.approx.MaxIDBound() // M = max node id + 1
	source, sink := 0, m-1
	g := flow.New(2 * m)

	for n, ti := range timing {
		if !ti.Critical() {
			continue
		}
		u := n.ID()
		switch {
		case r.approx.IsPI(n):
			g.AddEdge(source, u, ntk.Inf())
		case r.approx.IsNode(n):
			opt, ok := result.Opt[n]
			if !ok {
				continue // no candidate: uncuttable, per spec.md §7/§9
			}
			capacity := sentinelCapacity
			if opt.Error > 0 {
				capacity = opt.Error
			}
			g.AddEdge(u, u+m, capacity)
			if r.approx.IsPONode(n) {
				g.AddEdge(u+m, sink, ntk.Inf())
			}
		}
	}

	for u, vs := range r.sta.CriticalGraph(r.approx) {
		un := r.approx.ObjByID(u)
		if un == nil {
			continue
		}
		from := u + m
		if r.approx.IsPI(un) {
			from = u
		}
		for v := range vs {
			g.AddEdge(from, v, ntk.Inf())
		}
	}

	cuts := g.MinCut(source, sink)
	var committed []CutALC
	for _, c := range cuts {
		if c.V != c.U+m {
			continue
		}
		n := r.approx.ObjByID(c.U)
		if n == nil {
			continue
		}
		opt, ok := result.Opt[n]
		if !ok {
			continue
		}
		opt.Apply()
		committed = append(committed, CutALC{
			TargetName:     opt.Target.Name(),
			SubstituteName: opt.Substitute.Name(),
			IsComplemented: opt.IsComplemented,
			Error:          opt.Error,
		})
	}
	return committed, nil
}

func (r *Reducer) report(rep Round) {
	r.logger.Printf("--- round %d ---", rep.Index)
	for _, c := range rep.Cuts {
		r.logger.Printf("%s ---> %s : %v : %.6f", c.TargetName, c.SubstituteName, c.IsComplemented, c.Error)
	}
	r.logger.Printf("error rate: %.6f", rep.Error)
	r.logger.Printf("delay: %d ---> %d", rep.OldMaxDelay, rep.NewMaxDelay)
}
