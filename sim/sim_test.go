// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sim

import (
	"testing"

	"github.com/go-dals/dals/circuit"
)

func buildAnd() *circuit.Network {
	net := circuit.New()
	net.NewPI("a")
	net.NewPI("b")
	net.NewAnd("n1", net.Lit("a"), net.Lit("b"))
	net.NewPO("f", net.Lit("n1"))
	return net
}

func TestComputeIsDeterministicAcrossCalls(t *testing.T) {
	net := buildAnd()
	tv1 := Compute(net, 4)
	tv2 := Compute(net, 4)
	a := net.Node("a")
	for i := range tv1[a] {
		if tv1[a][i] != tv2[a][i] {
			t.Fatalf("PI truth vectors must be deterministic across calls")
		}
	}
}

func TestComputeAgreesAcrossStructurallyIdenticalNetworks(t *testing.T) {
	net1 := buildAnd()
	net2 := buildAnd()
	tv1 := Compute(net1, 4)
	tv2 := Compute(net2, 4)
	a1, a2 := net1.Node("a"), net2.Node("a")
	for i := range tv1[a1] {
		if tv1[a1][i] != tv2[a2][i] {
			t.Fatalf("PI %q's truth vector must depend only on its name, not network identity", "a")
		}
	}
}

func TestComputeANDMatchesBitwiseAnd(t *testing.T) {
	net := buildAnd()
	tv := Compute(net, 4)
	a, b, n1 := net.Node("a"), net.Node("b"), net.Node("n1")
	for i := range tv[n1] {
		want := tv[a][i] & tv[b][i]
		if tv[n1][i] != want {
			t.Fatalf("word %d: n1 = %064b, want a&b = %064b", i, tv[n1][i], want)
		}
	}
}

func TestComputePropagatesNegativePolarity(t *testing.T) {
	net := circuit.New()
	net.NewPI("a")
	net.NewAnd("inv", net.Lit("a").Not(), net.Lit("a").Not())
	tv := Compute(net, 4)
	a, inv := net.Node("a"), net.Node("inv")
	for i := range tv[a] {
		if tv[inv][i] != ^tv[a][i] {
			t.Fatalf("word %d: inv should be bitwise complement of a", i)
		}
	}
}

func TestEstimatePairErrorIsZeroForIdenticalNodes(t *testing.T) {
	net := buildAnd()
	tv := Compute(net, 8)
	n1 := net.Node("n1")
	if e := EstimatePairError(tv, n1, n1, 8); e != 0 {
		t.Fatalf("EstimatePairError(n, n) = %v, want 0", e)
	}
}

func TestEstimatePairErrorIsSymmetric(t *testing.T) {
	net := buildAnd()
	tv := Compute(net, 8)
	a, n1 := net.Node("a"), net.Node("n1")
	e1 := EstimatePairError(tv, a, n1, 8)
	e2 := EstimatePairError(tv, n1, a, 8)
	if e1 != e2 {
		t.Fatalf("EstimatePairError should be symmetric, got %v and %v", e1, e2)
	}
	if e1 < 0 || e1 > 1 {
		t.Fatalf("EstimatePairError must be in [0,1], got %v", e1)
	}
}

func TestSimulateErrorRateZeroForIdenticalNetworks(t *testing.T) {
	net := buildAnd()
	dup := net.Duplicate()
	if e := SimulateErrorRate(net, dup, 8); e != 0 {
		t.Fatalf("SimulateErrorRate on identical networks = %v, want 0", e)
	}
}

func TestSimulateErrorRateNonzeroForDifferingNetworks(t *testing.T) {
	target := circuit.New()
	target.NewPI("a")
	target.NewPI("b")
	target.NewAnd("n1", target.Lit("a"), target.Lit("b"))
	target.NewPO("f", target.Lit("n1"))

	approx := circuit.New()
	approx.NewPI("a")
	approx.NewPI("b")
	approx.NewAnd("n1", approx.Lit("a"), approx.Lit("b").Not())
	approx.NewPO("f", approx.Lit("n1"))

	if e := SimulateErrorRate(target, approx, 8); e == 0 {
		t.Fatalf("SimulateErrorRate should be nonzero for a & b vs a & ~b")
	}
}
