// Package candidate is the per-round ALC candidate generator: for each
// critical node it enumerates legal substitutes, ranks them by a cheap
// simulated-pair-error estimate, and refines the top-k by full-network
// simulation. Grounded on original_source/src/dals.cpp's
// DALS::CalcALCs/EstSubPairError.
package candidate

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/go-dals/dals/alc"
	"github.com/go-dals/dals/ntk"
	"github.com/go-dals/dals/sim"
)

// Generator produces ranked ALC candidates against a working network,
// evaluating full-network error against an immutable reference network.
type Generator struct {
	target ntk.Network // immutable reference network
	approx ntk.Network // mutable working network candidates are drawn from
	sta    ntk.STA
	w      int
	topK   int
}

// New returns a Generator drawing candidates from approx and measuring
// refined error against target. w is sim_64_cycles; topK is the
// candidate-refinement breadth per target node.
func New(target, approx ntk.Network, sta ntk.STA, w, topK int) *Generator {
	return &Generator{target: target, approx: approx, sta: sta, w: w, topK: topK}
}

// Result is the Candidate Generator's output for one round: cand_alcs
// (ascending by error, truncated to top-k) and opt_alc (the single best by
// refined error) for every target node that had at least one candidate.
type Result struct {
	Cand map[ntk.Node][]*alc.ALC
	Opt  map[ntk.Node]*alc.ALC
}

// Generate computes candidate ALCs for every node in targets.
func (g *Generator) Generate(targets []ntk.Node) (*Result, error) {
	tv := sim.Compute(g.approx, g.w)
	timing, err := g.sta.CalcSlack(g.approx)
	if err != nil {
		return nil, errors.Wrap(err, "candidate: calc slack")
	}
	sNodes := g.approx.TopoSortPIsAndNodes()

	res := &Result{
		Cand: make(map[ntk.Node][]*alc.ALC, len(targets)),
		Opt:  make(map[ntk.Node]*alc.ALC, len(targets)),
	}

	for _, t := range targets {
		tInfo, ok := timing[t]
		if !ok {
			return nil, errors.Errorf("candidate: no timing info for target %q", t.Name())
		}
		var cands []*alc.ALC
		for _, s := range sNodes {
			if s.ID() == t.ID() {
				continue
			}
			sInfo, ok := timing[s]
			if !ok {
				return nil, errors.Errorf("candidate: no timing info for candidate %q", s.Name())
			}
			if sInfo.ArrivalTime >= tInfo.ArrivalTime {
				continue
			}
			estErr := sim.EstimatePairError(tv, t, s, g.w)
			isComplemented, storedErr := classify(estErr, sInfo.ArrivalTime, tInfo.ArrivalTime)
			cand, err := alc.New(g.approx, t, s, isComplemented, storedErr)
			if err != nil {
				return nil, errors.Wrap(err, "candidate: build ALC")
			}
			cands = append(cands, cand)
		}
		if len(cands) == 0 {
			continue
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Error < cands[j].Error })
		if len(cands) > g.topK {
			cands = cands[:g.topK]
		}
		for _, c := range cands {
			c.Apply()
			refined := sim.SimulateErrorRate(g.target, g.approx, g.w)
			c.Recover()
			c.Error = refined
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Error < cands[j].Error })

		res.Cand[t] = cands
		res.Opt[t] = cands[0]
	}
	return res, nil
}

// classify decides whether a candidate substitute at arrival time sAT
// should be wired directly or through an inverter, and what error to
// record for it. A substitute arriving strictly more than one level ahead
// of the target has slack to spare an inverter, so the cheaper of the two
// polarities is used: pass estErr through unchanged, or take its
// complement (1-estErr) and mark IsComplemented when estErr is above 0.5,
// so the stored error is never above 0.5. A substitute exactly one level ahead has no
// slack for the extra gate, so it is always wired directly.
func classify(estErr float64, sAT, tAT int) (isComplemented bool, storedErr float64) {
	if sAT >= tAT-1 {
		return false, estErr
	}
	if estErr > 0.5 {
		return true, 1 - estErr
	}
	return false, estErr
}
