// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package circuit is a default, in-process implementation of ntk.Network:
// a mutable And-Inverter Graph with named primary inputs, primary outputs,
// and 2-input (or single-input, for inverters) internal nodes. It exists
// so the DALS core is runnable and testable standalone; callers may supply
// any other ntk.Network implementation instead.
package circuit

import (
	"sort"

	"github.com/go-dals/dals/ntk"
	"github.com/go-dals/dals/z"
)

// Network is the concrete AIG. The zero value is not usable; use New.
type Network struct {
	nodes  map[int]*node
	order  []int // creation order of every id ever assigned, PI/Node/PO mixed
	pis    []*node
	pos    []*node
	nextID int
}

var _ ntk.Network = (*Network)(nil)

// New returns an empty network.
func New() *Network {
	return &Network{nodes: make(map[int]*node), nextID: 1}
}

func (net *Network) alloc(name string, kind ntk.Kind, fanins []z.Lit) *node {
	id := net.nextID
	net.nextID++
	n := &node{id: id, name: name, kind: kind, fanins: fanins, net: net}
	net.nodes[id] = n
	net.order = append(net.order, id)
	n.registerFanins()
	switch kind {
	case ntk.KindPI:
		net.pis = append(net.pis, n)
	case ntk.KindPO:
		net.pos = append(net.pos, n)
	}
	return n
}

// NewPI creates and returns a fresh primary input.
func (net *Network) NewPI(name string) ntk.Node {
	return net.alloc(name, ntk.KindPI, nil)
}

// NewAnd creates and returns a fresh internal node computing a AND b.
func (net *Network) NewAnd(name string, a, b z.Lit) ntk.Node {
	return net.alloc(name, ntk.KindNode, []z.Lit{a, b})
}

// NewPO creates and returns a fresh primary output driven by src.
func (net *Network) NewPO(name string, src z.Lit) ntk.Node {
	return net.alloc(name, ntk.KindPO, []z.Lit{src})
}

// Node returns the node named name, or nil.
func (net *Network) Node(name string) *node {
	for _, id := range net.order {
		if n := net.nodes[id]; n != nil && n.name == name {
			return n
		}
	}
	return nil
}

// Lit returns the positive literal naming the node called name.
func (net *Network) Lit(name string) z.Lit {
	n := net.Node(name)
	if n == nil {
		return z.LitNull
	}
	return n.lit()
}

// Duplicate returns a structurally identical copy sharing no state with
// net. Node ids are preserved so a node in the duplicate can be found by
// the id of its counterpart in net.
func (net *Network) Duplicate() ntk.Network {
	dup := &Network{nodes: make(map[int]*node, len(net.nodes)), nextID: net.nextID}
	dup.order = append(dup.order, net.order...)
	for _, id := range net.order {
		src := net.nodes[id]
		n := &node{
			id:     src.id,
			name:   src.name,
			kind:   src.kind,
			fanins: append([]z.Lit(nil), src.fanins...),
			net:    dup,
		}
		dup.nodes[id] = n
		switch n.kind {
		case ntk.KindPI:
			dup.pis = append(dup.pis, n)
		case ntk.KindPO:
			dup.pos = append(dup.pos, n)
		}
	}
	for _, id := range net.order {
		dup.nodes[id].registerFanins()
	}
	return dup
}

// TopoSortPIsAndNodes returns PIs in creation order followed by internal
// nodes in a valid topological order over live fan-in edges. Ascending id
// order used to double as a topological order, since node ids were
// assigned only to nodes whose fan-ins already existed at creation time.
// Replace (used by ALC.Apply to commit a complemented substitute) breaks
// that invariant: it wires a freshly created, high-id inverter into the
// fan-in of pre-existing, lower-id nodes, so id order alone is no longer
// safe. Kahn's algorithm over each internal node's live fan-in count
// restores a correct order regardless of id churn.
func (net *Network) TopoSortPIsAndNodes() []ntk.Node {
	out := make([]ntk.Node, 0, len(net.nodes))
	for _, p := range net.pis {
		out = append(out, p)
	}

	indeg := make(map[int]int, len(net.nodes))
	for _, id := range net.order {
		n := net.nodes[id]
		if n == nil || n.kind != ntk.KindNode {
			continue
		}
		deg := 0
		for _, m := range n.fanins {
			if src := net.nodes[int(m.Var())]; src != nil && src.kind == ntk.KindNode {
				deg++
			}
		}
		indeg[id] = deg
	}

	var ready []int
	for _, id := range net.order {
		if n := net.nodes[id]; n != nil && n.kind == ntk.KindNode && indeg[id] == 0 {
			ready = append(ready, id)
		}
	}

	for len(ready) > 0 {
		sort.Ints(ready)
		id := ready[0]
		ready = ready[1:]
		n := net.nodes[id]
		out = append(out, n)
		for _, f := range n.fanout {
			if f.kind != ntk.KindNode {
				continue
			}
			indeg[f.id]--
			if indeg[f.id] == 0 {
				ready = append(ready, f.id)
			}
		}
	}
	return out
}

// PrimaryOutputs returns the PO nodes in creation order.
func (net *Network) PrimaryOutputs() []ntk.Node {
	out := make([]ntk.Node, len(net.pos))
	for i, p := range net.pos {
		out[i] = p
	}
	return out
}

func (net *Network) IsPI(n ntk.Node) bool { return n != nil && n.Kind() == ntk.KindPI }
func (net *Network) IsPO(n ntk.Node) bool { return n != nil && n.Kind() == ntk.KindPO }
func (net *Network) IsNode(n ntk.Node) bool { return n != nil && n.Kind() == ntk.KindNode }

// IsPONode reports whether n is an internal node directly named by some
// PO's fan-in literal.
func (net *Network) IsPONode(n ntk.Node) bool {
	if n == nil || n.Kind() != ntk.KindNode {
		return false
	}
	for _, po := range net.pos {
		if len(po.fanins) == 1 && po.fanins[0].Var() == z.Var(n.ID()) {
			return true
		}
	}
	return false
}

func (net *Network) ObjByID(id int) ntk.Node {
	n := net.nodes[id]
	if n == nil {
		return nil
	}
	return n
}

func (net *Network) MaxObjID() int {
	return net.nextID - 1
}

func (net *Network) MaxIDBound() int {
	return net.nextID
}

// CreateInverter adds a node whose single fan-in is src, so its value is
// always the complement of src's own signal (the caller wires it in with
// positive polarity and relies on the node's fan-in polarity to invert).
func (net *Network) CreateInverter(src ntk.Node) ntk.Node {
	s, ok := src.(*node)
	if !ok {
		panic("circuit: foreign node passed to CreateInverter")
	}
	return net.alloc("inv"+s.name, ntk.KindNode, []z.Lit{s.lit().Not()})
}

// Replace redirects every fan-out edge of old to newNode, preserving each
// fan-out's fan-in slot order and the polarity that edge carried. After
// Replace, old has no fan-outs.
func (net *Network) Replace(old, newNode ntk.Node) {
	o, ok := old.(*node)
	if !ok {
		panic("circuit: foreign node passed to Replace")
	}
	nn, ok := newNode.(*node)
	if !ok {
		panic("circuit: foreign node passed to Replace")
	}
	fanouts := o.fanout
	o.fanout = nil
	for _, f := range fanouts {
		for i, m := range f.fanins {
			if m.Var() == z.Var(o.id) {
				pos := m.IsPos()
				nm := nn.lit()
				if !pos {
					nm = nm.Not()
				}
				f.fanins[i] = nm
			}
		}
		nn.fanout = append(nn.fanout, f)
	}
}

// RemoveAllFanins clears n's fan-in slots without touching n's fan-outs.
func (net *Network) RemoveAllFanins(target ntk.Node) {
	n, ok := target.(*node)
	if !ok {
		panic("circuit: foreign node passed to RemoveAllFanins")
	}
	n.unregisterFanins()
	n.fanins = n.fanins[:0]
}

// AddFanin appends a fan-in slot to n carrying literal src, in call
// order — used by ALC.Recover to rebuild a fan-out's exact original
// fan-in sequence after RemoveAllFanins.
func (net *Network) AddFanin(target ntk.Node, src z.Lit) {
	n, ok := target.(*node)
	if !ok {
		panic("circuit: foreign node passed to AddFanin")
	}
	n.fanins = append(n.fanins, src)
	if s := net.nodes[int(src.Var())]; s != nil {
		s.fanout = append(s.fanout, n)
	}
}

// DeleteNode removes n from the network. n must have no remaining
// fan-outs; callers (ALC.Recover) are responsible for rewiring
// fan-outs away from n first.
func (net *Network) DeleteNode(target ntk.Node) {
	n, ok := target.(*node)
	if !ok {
		panic("circuit: foreign node passed to DeleteNode")
	}
	if len(n.fanout) != 0 {
		panic("circuit: DeleteNode on a node with live fan-outs")
	}
	n.unregisterFanins()
	delete(net.nodes, n.id)
	net.order = removeID(net.order, n.id)
	if n.kind == ntk.KindPI {
		net.pis = removeNodePtr(net.pis, n)
	}
	if n.kind == ntk.KindPO {
		net.pos = removeNodePtr(net.pos, n)
	}
}

// DeleteNet releases net's resources.
func (net *Network) DeleteNet() {
	net.nodes = nil
	net.order = nil
	net.pis = nil
	net.pos = nil
}

func removeID(list []int, id int) []int {
	out := list[:0]
	for _, x := range list {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func removeNodePtr(list []*node, target *node) []*node {
	out := list[:0]
	for _, n := range list {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}
