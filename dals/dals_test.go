package dals

import (
	"io"
	"log"
	"testing"

	"github.com/go-dals/dals/circuit"
	"github.com/go-dals/dals/timing"
)

func buildNet() *circuit.Network {
	net := circuit.New()
	net.NewPI("a")
	net.NewPI("b")
	net.NewPI("c")
	net.NewPI("d")
	net.NewAnd("n1", net.Lit("a"), net.Lit("b"))
	net.NewAnd("n2", net.Lit("c"), net.Lit("d"))
	net.NewAnd("n3", net.Lit("n1"), net.Lit("n2"))
	net.NewPO("f", net.Lit("n3"))
	return net
}

// TestNewDuplicatesInputLeavingItUntouched checks the immutable-target
// half of spec.md §9's singleton-to-explicit-instance redesign: Engine
// never mutates the network New was called with.
func TestNewDuplicatesInputLeavingItUntouched(t *testing.T) {
	net := buildNet()
	before := net.MaxObjID()

	eng := New(net, timing.New(), Config{W: 8, ErrConstraint: 0.5, TopK: 2}, log.New(io.Discard, "", 0))
	if _, err := eng.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if net.MaxObjID() != before {
		t.Fatalf("New/Run must never mutate the caller's original network")
	}
	if eng.Target().MaxObjID() != before {
		t.Fatalf("Target() should reflect the pre-run network exactly")
	}
}

// TestTwoEnginesOverTheSameNetworkAreIndependent exercises the very
// property the redesign exists for: two concurrent Engines built from the
// same source network must not share state.
func TestTwoEnginesOverTheSameNetworkAreIndependent(t *testing.T) {
	net := buildNet()
	cfg := Config{W: 8, ErrConstraint: 0.4, TopK: 2}
	e1 := New(net, timing.New(), cfg, log.New(io.Discard, "", 0))
	e2 := New(net, timing.New(), cfg, log.New(io.Discard, "", 0))

	if e1.Approx() == e2.Approx() {
		t.Fatalf("engines built from the same source network must own distinct working networks")
	}

	if _, err := e1.Run(); err != nil {
		t.Fatalf("e1.Run: %v", err)
	}
	if _, err := e2.Run(); err != nil {
		t.Fatalf("e2.Run: %v", err)
	}
	if e2.Target().MaxObjID() != e1.Target().MaxObjID() {
		t.Fatalf("both engines' targets should have the same size")
	}
}
