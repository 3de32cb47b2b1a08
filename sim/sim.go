// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package sim is the bit-parallel simulator: it assigns each primary
// input a truth vector of pseudo-random samples and propagates it through
// a network's internal nodes, generalizing the teacher's Eval64
// (logic.C.Eval64) from "evaluate a fixed circuit once" to "recompute per
// round, keyed by node handle".
package sim

import (
	"hash/fnv"
	"math/bits"
	"math/rand"

	"github.com/go-dals/dals/ntk"
	"github.com/go-dals/dals/z"
)

// TruthVectors maps every PI, internal node, and PO of a network to W
// 64-bit words of bit-parallel simulated values.
type TruthVectors map[ntk.Node][]uint64

// Compute assigns each PI a pseudo-random truth vector seeded
// deterministically from its name — so two networks sharing PI names
// (such as target and its approx duplicate) always see the same random
// input assignment, and two calls on the same network agree bit for bit —
// then propagates values through internal nodes in topological order and
// finally through PO nodes.
func Compute(net ntk.Network, w int) TruthVectors {
	tv := make(TruthVectors, len(net.TopoSortPIsAndNodes())+1)
	for _, n := range net.TopoSortPIsAndNodes() {
		if net.IsPI(n) {
			tv[n] = randomWords(n.Name(), w)
			continue
		}
		tv[n] = evalNode(net, n, tv, w)
	}
	for _, po := range net.PrimaryOutputs() {
		ins := po.Fanins()
		if len(ins) != 1 {
			continue
		}
		tv[po] = operand(net, ins[0], tv, w)
	}
	return tv
}

func randomWords(name string, w int) []uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	words := make([]uint64, w)
	for i := range words {
		words[i] = rng.Uint64()
	}
	return words
}

func evalNode(net ntk.Network, n ntk.Node, tv TruthVectors, w int) []uint64 {
	ins := n.Fanins()
	out := make([]uint64, w)
	switch len(ins) {
	case 0:
		return out
	case 1:
		copy(out, operand(net, ins[0], tv, w))
	default:
		a := operand(net, ins[0], tv, w)
		b := operand(net, ins[1], tv, w)
		for i := range out {
			out[i] = a[i] & b[i]
		}
	}
	return out
}

func operand(net ntk.Network, m z.Lit, tv TruthVectors, w int) []uint64 {
	src := net.ObjByID(int(m.Var()))
	vals := tv[src]
	if m.IsPos() {
		return vals
	}
	flipped := make([]uint64, len(vals))
	for i, v := range vals {
		flipped[i] = ^v
	}
	return flipped
}

// EstimatePairError returns the fraction of the 64*w simulated samples on
// which target and substitute disagree: popcount(TV[target] xor
// TV[substitute]) / (64*w). It is symmetric and always in [0,1].
func EstimatePairError(tv TruthVectors, target, substitute ntk.Node, w int) float64 {
	a, b := tv[target], tv[substitute]
	mismatches := 0
	for i := 0; i < w; i++ {
		mismatches += bits.OnesCount64(a[i] ^ b[i])
	}
	return float64(mismatches) / float64(64*w)
}

// SimulateErrorRate computes truth vectors for both networks under the
// same pseudo-random PI assignment, then returns the fraction of samples
// on which any pair of corresponding primary outputs disagrees.
func SimulateErrorRate(a, b ntk.Network, w int) float64 {
	tvA := Compute(a, w)
	tvB := Compute(b, w)
	bByName := make(map[string]ntk.Node)
	for _, po := range b.PrimaryOutputs() {
		bByName[po.Name()] = po
	}
	mismatch := make([]uint64, w)
	for _, poA := range a.PrimaryOutputs() {
		poB, ok := bByName[poA.Name()]
		if !ok {
			continue
		}
		va, vb := tvA[poA], tvB[poB]
		for i := range mismatch {
			mismatch[i] |= va[i] ^ vb[i]
		}
	}
	total := 0
	for _, m := range mismatch {
		total += bits.OnesCount64(m)
	}
	return float64(total) / float64(64*w)
}
