// Package timing is a default ntk.STA implementation under the unit-delay
// model spec.md §3 assumes. The static timing analysis algorithm itself is
// outside the DALS core's scope (spec.md §1); this package exists so the
// core is runnable standalone, grounded on the call shape original_source
// exercises (CalcSlack/GetCriticalGraph/GetKMostCriticalPaths).
package timing

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/go-dals/dals/ntk"
)

// STA computes arrival time, required time, and slack under a unit-delay
// model: each internal node costs one time unit over the latest of its
// fan-ins; primary outputs pass their driver's arrival time through
// unchanged.
type STA struct{}

var _ ntk.STA = (*STA)(nil)

// New returns a unit-delay STA.
func New() *STA {
	return &STA{}
}

// CalcSlack computes timing info for every PI, internal node, and PO of
// net.
func (s *STA) CalcSlack(net ntk.Network) (map[ntk.Node]ntk.TimingInfo, error) {
	order := net.TopoSortPIsAndNodes()
	at := make(map[ntk.Node]int, len(order))
	for _, n := range order {
		if net.IsPI(n) {
			at[n] = 0
			continue
		}
		max := 0
		for _, m := range n.Fanins() {
			src := net.ObjByID(int(m.Var()))
			if src == nil {
				return nil, errors.Errorf("timing: dangling fan-in on node %q", n.Name())
			}
			if v := at[src]; v > max {
				max = v
			}
		}
		at[n] = max + 1
	}

	pos := net.PrimaryOutputs()
	for _, po := range pos {
		ins := po.Fanins()
		if len(ins) != 1 {
			return nil, errors.Errorf("timing: PO %q must have exactly one fan-in", po.Name())
		}
		src := net.ObjByID(int(ins[0].Var()))
		if src == nil {
			return nil, errors.Errorf("timing: dangling fan-in on PO %q", po.Name())
		}
		at[po] = at[src]
	}

	maxDelay := 0
	for _, po := range pos {
		if at[po] > maxDelay {
			maxDelay = at[po]
		}
	}
	if len(pos) == 0 {
		for _, n := range order {
			if at[n] > maxDelay {
				maxDelay = at[n]
			}
		}
	}

	// Reverse topological order (POs first, then order backwards), so
	// every fan-out's required time is known before its driver's. Id order
	// is not used: a committed inverter has a higher id than its fan-outs.
	all := make([]ntk.Node, 0, len(order)+len(pos))
	all = append(all, pos...)
	for i := len(order) - 1; i >= 0; i-- {
		all = append(all, order[i])
	}

	// A fanout edge into a PO costs no extra delay (a PO only names its
	// driver's signal at the boundary); an edge into an internal node
	// costs the unit delay of that node's own gate.
	rt := make(map[ntk.Node]int, len(all))
	for _, n := range all {
		fo := n.Fanouts()
		if len(fo) == 0 {
			rt[n] = maxDelay
			continue
		}
		min := math.MaxInt64
		for _, f := range fo {
			v, ok := rt[f]
			if !ok {
				continue
			}
			if net.IsPO(f) {
				if v < min {
					min = v
				}
			} else if v-1 < min {
				min = v - 1
			}
		}
		rt[n] = min
	}

	result := make(map[ntk.Node]ntk.TimingInfo, len(all))
	for _, n := range all {
		a, r := at[n], rt[n]
		result[n] = ntk.TimingInfo{ArrivalTime: a, RequiredTime: r, Slack: r - a}
	}
	return result, nil
}

// CriticalGraph returns, for every critical node, the set of critical
// nodes it directly drives along some critical path, not merely every
// critical node it fans into. Two independently-critical nodes joined by
// a fan-out edge are not necessarily on the same critical path: v's
// arrival time may be set by a different, deeper fan-in than n, in which
// case the edge n->v carries none of v's delay. An edge only belongs to
// the critical graph when it is tight: v's arrival time is exactly one
// unit-delay past n's (or, for an edge into a PO, exactly equal, since a
// PO adds no delay of its own).
func (s *STA) CriticalGraph(net ntk.Network) map[int]map[int]bool {
	info, err := s.CalcSlack(net)
	if err != nil {
		return map[int]map[int]bool{}
	}
	g := make(map[int]map[int]bool)
	for n, ti := range info {
		if ti.Slack != 0 {
			continue
		}
		for _, f := range n.Fanouts() {
			fi, ok := info[f]
			if !ok || fi.Slack != 0 {
				continue
			}
			want := ti.ArrivalTime + 1
			if net.IsPO(f) {
				want = ti.ArrivalTime
			}
			if fi.ArrivalTime == want {
				if g[n.ID()] == nil {
					g[n.ID()] = make(map[int]bool)
				}
				g[n.ID()][f.ID()] = true
			}
		}
	}
	return g
}

// KMostCriticalPaths returns up to k paths ending at a primary output,
// most critical (largest arrival time) first.
func (s *STA) KMostCriticalPaths(net ntk.Network, k int) []ntk.CriticalPath {
	info, err := s.CalcSlack(net)
	if err != nil {
		return nil
	}
	pos := net.PrimaryOutputs()
	paths := make([]ntk.CriticalPath, 0, len(pos))
	for _, po := range pos {
		paths = append(paths, ntk.CriticalPath{
			MaxDelay: info[po].ArrivalTime,
			Nodes:    reconstructPath(net, po, info),
		})
	}
	sort.SliceStable(paths, func(i, j int) bool { return paths[i].MaxDelay > paths[j].MaxDelay })
	if len(paths) > k {
		paths = paths[:k]
	}
	return paths
}

// reconstructPath walks backward from start along the fan-in with the
// largest arrival time at each step, producing one worst-case path.
func reconstructPath(net ntk.Network, start ntk.Node, info map[ntk.Node]ntk.TimingInfo) []ntk.Node {
	path := []ntk.Node{start}
	cur := start
	for {
		ins := cur.Fanins()
		if len(ins) == 0 {
			break
		}
		var next ntk.Node
		best := -1
		for _, m := range ins {
			src := net.ObjByID(int(m.Var()))
			if src == nil {
				continue
			}
			if a := info[src].ArrivalTime; a > best {
				best = a
				next = src
			}
		}
		if next == nil {
			break
		}
		path = append(path, next)
		cur = next
	}
	return path
}
