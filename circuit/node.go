// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package circuit

import (
	"github.com/go-dals/dals/ntk"
	"github.com/go-dals/dals/z"
)

// node is the concrete AIG object backing ntk.Node. Unlike the teacher's
// literal-indexed array-of-structs (logic.C), node is a pointer so that
// handles captured before a mutation (an ALC's saved fan-out snapshot, in
// particular) stay valid across id churn elsewhere in the network.
type node struct {
	id     int
	name   string
	kind   ntk.Kind
	fanins []z.Lit // 0 for PI, 1 for inverter/buffer or PO, 2 for AND
	fanout []*node // nodes whose fanins reference this node, in connection order
	net    *Network
}

func (n *node) ID() int         { return n.id }
func (n *node) Name() string    { return n.name }
func (n *node) Kind() ntk.Kind  { return n.kind }
func (n *node) Fanins() []z.Lit { return append([]z.Lit(nil), n.fanins...) }

func (n *node) Fanouts() []ntk.Node {
	out := make([]ntk.Node, len(n.fanout))
	for i, f := range n.fanout {
		out[i] = f
	}
	return out
}

// lit returns the positive literal naming n.
func (n *node) lit() z.Lit {
	return z.Var(n.id).Pos()
}

// registerFanins registers n as a user of every variable referenced in
// n.fanins, so those nodes' fanout lists stay accurate.
func (n *node) registerFanins() {
	for _, m := range n.fanins {
		src := n.net.nodes[int(m.Var())]
		if src == nil {
			continue
		}
		src.fanout = append(src.fanout, n)
	}
}

// unregisterFanins removes n from the fanout list of every node it
// currently references, without touching n.fanins itself.
func (n *node) unregisterFanins() {
	for _, m := range n.fanins {
		src := n.net.nodes[int(m.Var())]
		if src == nil {
			continue
		}
		src.fanout = removeNode(src.fanout, n)
	}
}

func removeNode(list []*node, target *node) []*node {
	out := list[:0]
	for _, n := range list {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}
