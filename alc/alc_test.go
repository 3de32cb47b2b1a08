package alc

import (
	"reflect"
	"testing"

	"github.com/go-dals/dals/circuit"
)

// buildNet returns a 3-PI, 3-node, 1-PO network where n1 has two fan-outs
// (n2 and n3) that reference it with different polarities, exercising
// the "remove-all-then-reinsert" recovery technique on a signal referenced
// more than once:
//
//	n1 = a & b
//	n2 = n1 & c        (fanin 0 positive)
//	n3 = ~n1 & n2       (fanin 0 negative, fanin 1 positive)
//	po f = n3
func buildNet() *circuit.Network {
	net := circuit.New()
	net.NewPI("a")
	net.NewPI("b")
	net.NewPI("c")
	net.NewAnd("n1", net.Lit("a"), net.Lit("b"))
	net.NewAnd("n2", net.Lit("n1"), net.Lit("c"))
	net.NewAnd("n3", net.Lit("n1").Not(), net.Lit("n2"))
	net.NewPO("f", net.Lit("n3"))
	return net
}

func snapshotFanins(net *circuit.Network, names ...string) map[string][]string {
	out := make(map[string][]string, len(names))
	for _, name := range names {
		n := net.Node(name)
		ins := n.Fanins()
		s := make([]string, len(ins))
		for i, m := range ins {
			s[i] = net.ObjByID(int(m.Var())).Name()
			if !m.IsPos() {
				s[i] = "~" + s[i]
			}
		}
		out[name] = s
	}
	return out
}

// TestApplyRecoverRoundTrip is scenario S1: substituting c for n1 and
// recovering must restore n2 and n3's exact original fan-in lists.
func TestApplyRecoverRoundTrip(t *testing.T) {
	net := buildNet()
	before := snapshotFanins(net, "n2", "n3")

	target := net.Node("n1")
	substitute := net.Node("c")
	a, err := New(net, target, substitute, false, 0.1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a.Apply()
	if len(target.Fanouts()) != 0 {
		t.Fatalf("target should have no fanouts after Apply, got %v", target.Fanouts())
	}

	a.Recover()
	after := snapshotFanins(net, "n2", "n3")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("Recover did not restore original wiring: before=%v after=%v", before, after)
	}
	if len(target.Fanouts()) != 2 {
		t.Fatalf("target should have its 2 original fanouts back, got %v", target.Fanouts())
	}
}

// TestApplyRecoverComplementedRoundTrip is scenario S2: an inverted
// substitution creates a fresh inverter node on Apply, and Recover must
// both restore original wiring and remove the inverter.
func TestApplyRecoverComplementedRoundTrip(t *testing.T) {
	net := buildNet()
	before := snapshotFanins(net, "n2", "n3")
	maxIDBefore := net.MaxObjID()

	target := net.Node("n1")
	substitute := net.Node("c")
	a, err := New(net, target, substitute, true, 0.2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a.Apply()
	if net.MaxObjID() != maxIDBefore+1 {
		t.Fatalf("Apply with IsComplemented should add exactly one inverter node")
	}

	a.Recover()
	after := snapshotFanins(net, "n2", "n3")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("Recover did not restore original wiring: before=%v after=%v", before, after)
	}
	// MaxObjID is the largest id ever assigned, so it does not drop back;
	// the inverter (id maxIDBefore+1) must no longer be reachable.
	if net.ObjByID(maxIDBefore+1) != nil {
		t.Fatalf("Recover should delete the inverter, but id %d is still present", maxIDBefore+1)
	}
}

// TestApplyRecoverFanoutWithTargetInBothSlots exercises the
// "remove-all-then-reinsert" technique's reason for existing: a single
// fan-out that references target from more than one of its own fan-in
// slots. Naively patching "the" matching slot would only fix one of the
// two.
func TestApplyRecoverFanoutWithTargetInBothSlots(t *testing.T) {
	net := circuit.New()
	net.NewPI("a")
	net.NewPI("b")
	net.NewAnd("n1", net.Lit("a"), net.Lit("b"))
	net.NewAnd("n4", net.Lit("n1"), net.Lit("n1").Not())
	net.NewPO("f", net.Lit("n4"))

	before := snapshotFanins(net, "n4")
	target := net.Node("n1")
	substitute := net.Node("b")

	a, err := New(net, target, substitute, false, 0.05)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Apply()
	n4 := net.Node("n4")
	ins := n4.Fanins()
	if net.ObjByID(int(ins[0].Var())).Name() != "b" || net.ObjByID(int(ins[1].Var())).Name() != "b" {
		t.Fatalf("both slots of n4 should now reference b, got %v", ins)
	}

	a.Recover()
	after := snapshotFanins(net, "n4")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("Recover did not restore both slots: before=%v after=%v", before, after)
	}
}

func TestNewRejectsIdenticalTargetAndSubstitute(t *testing.T) {
	net := buildNet()
	n1 := net.Node("n1")
	if _, err := New(net, n1, n1, false, 0); err == nil {
		t.Fatal("New should reject target == substitute")
	}
}

func TestApplyPanicsWhenAlreadyApplied(t *testing.T) {
	net := buildNet()
	a, err := New(net, net.Node("n1"), net.Node("c"), false, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Apply()
	defer func() {
		if recover() == nil {
			t.Fatal("Apply on an already-applied ALC should panic")
		}
	}()
	a.Apply()
}

func TestRecoverPanicsWhenNotApplied(t *testing.T) {
	net := buildNet()
	a, err := New(net, net.Node("n1"), net.Node("c"), false, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Recover on a fresh ALC should panic")
		}
	}()
	a.Recover()
}
