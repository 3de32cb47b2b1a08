// Package alc implements the Approximate Local Change: a single-node
// substitution, optionally inverted, that can be applied to a network and
// exactly undone. Grounded on original_source/src/dals.cpp's ALC class.
package alc

import (
	"github.com/pkg/errors"

	"github.com/go-dals/dals/ntk"
	"github.com/go-dals/dals/z"
)

// state is ALC's Fresh/Applied state machine (spec §4.B). Double-apply and
// double-recover are caller misuse, not recoverable errors: they panic,
// the same way the teacher's own strash/node-table code panics on
// invariants only the caller can violate.
type state int

const (
	fresh state = iota
	applied
)

type fanoutSnapshot struct {
	node   ntk.Node
	fanins []z.Lit
}

// ALC is a candidate (or committed) substitution of substitute for target,
// optionally through a fresh inverter.
type ALC struct {
	net            ntk.Network
	Target         ntk.Node
	Substitute     ntk.Node
	IsComplemented bool
	Error          float64

	saved []fanoutSnapshot
	inv   ntk.Node
	st    state
}

// New snapshots target's current fan-outs (and each fan-out's exact
// fan-in order) and returns an ALC ready to Apply. target and substitute
// must both already belong to net and must be distinct.
func New(net ntk.Network, target, substitute ntk.Node, isComplemented bool, estError float64) (*ALC, error) {
	if target == nil || substitute == nil {
		return nil, errors.New("alc: target and substitute must not be nil")
	}
	if target.ID() == substitute.ID() {
		return nil, errors.Errorf("alc: target and substitute must differ (both %q)", target.Name())
	}
	saved := make([]fanoutSnapshot, 0, len(target.Fanouts()))
	for _, f := range target.Fanouts() {
		saved = append(saved, fanoutSnapshot{node: f, fanins: f.Fanins()})
	}
	return &ALC{
		net:            net,
		Target:         target,
		Substitute:     substitute,
		IsComplemented: isComplemented,
		Error:          estError,
		saved:          saved,
		st:             fresh,
	}, nil
}

// Apply rewires every fan-out of Target so it now reads Substitute — via a
// fresh inverter if IsComplemented. After Apply, Target has no fan-outs
// but still exists in the network.
func (a *ALC) Apply() {
	if a.st != fresh {
		panic("alc: Apply called on an already-applied ALC")
	}
	if a.IsComplemented {
		a.inv = a.net.CreateInverter(a.Substitute)
		a.net.Replace(a.Target, a.inv)
	} else {
		a.net.Replace(a.Target, a.Substitute)
	}
	a.st = applied
}

// Recover undoes Apply exactly: every saved fan-out has its fan-in list
// rebuilt from scratch in its original order, and any inverter created by
// Apply is deleted. Fan-outs are patched before the inverter is deleted
// (not after, as in the original) so that DeleteNode never sees a node
// with live fan-outs — the two steps are independent, so this reordering
// changes nothing observable.
func (a *ALC) Recover() {
	if a.st != applied {
		panic("alc: Recover called on an ALC that was not applied")
	}
	for _, s := range a.saved {
		a.net.RemoveAllFanins(s.node)
		for _, m := range s.fanins {
			a.net.AddFanin(s.node, m)
		}
	}
	if a.IsComplemented {
		a.net.DeleteNode(a.inv)
		a.inv = nil
	}
	a.st = fresh
}
