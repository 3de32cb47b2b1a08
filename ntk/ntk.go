// Package ntk declares the abstract collaborators the DALS core is built
// against: AIG primitives, static timing analysis, and max-flow. Packages
// alc, sim, candidate, and reducer take the network and STA as these
// interfaces, so any conforming AIG library or STA pass can stand in for
// the reference implementations in circuit and timing. The max-flow solver
// is not swappable: reducer imports package flow and builds its graph with
// flow.New directly.
package ntk

import "github.com/go-dals/dals/z"

// Kind classifies a Node.
type Kind int

const (
	// KindPI is a primary input.
	KindPI Kind = iota
	// KindNode is an internal node: a 2-input AND, or a single-input
	// inverter made by CreateInverter.
	KindNode
	// KindPO is a primary output. A PO does not itself compute a
	// function; it names the single fan-in it exposes at the network
	// boundary.
	KindPO
)

// Node is a single AIG object: a primary input, an internal AND node, or
// a primary output. Fan-in order is significant — a Node's fan-ins are the
// literals of its inputs in slot order, and slot order determines
// which polarity feeds which physical input of the gate.
type Node interface {
	ID() int
	Name() string
	Kind() Kind

	// Fanins returns this node's ordered input literals. A PI has none.
	// A PO has exactly one. An internal AND node has exactly two; an
	// inverter made by CreateInverter has one.
	Fanins() []z.Lit

	// Fanouts returns the nodes that use this node as an input, in the
	// order they were connected.
	Fanouts() []Node
}

// Network is a mutable AIG. All mutation methods act in place; Duplicate
// is the only way to obtain an independent copy.
type Network interface {
	// Duplicate returns a structurally identical copy of the network,
	// with new Node identities.
	Duplicate() Network

	// TopoSortPIsAndNodes returns primary inputs first (in creation
	// order), then internal nodes in topological order (every node
	// appears after all of its fan-ins).
	TopoSortPIsAndNodes() []Node

	// PrimaryOutputs returns the network's PO nodes, in creation order.
	PrimaryOutputs() []Node

	IsPI(n Node) bool
	IsPO(n Node) bool
	// IsPONode reports whether n is an internal node that also drives a
	// PO directly (i.e. some PO's single fan-in names n, positively or
	// negated).
	IsPONode(n Node) bool
	IsNode(n Node) bool

	// ObjByID returns the node with the given id, or nil if none exists
	// (e.g. it was deleted).
	ObjByID(id int) Node
	// MaxObjID returns the largest id ever assigned in this network.
	MaxObjID() int
	// MaxIDBound returns an upper bound suitable for sizing dense
	// id-indexed structures (flow-graph vertex counts, in particular);
	// it is MaxObjID()+1.
	MaxIDBound() int

	// CreateInverter adds a fresh internal node computing the complement
	// of src and returns it.
	CreateInverter(src Node) Node

	// Replace redirects every fan-out edge of old so that the slot that
	// used to carry a literal over old's variable now carries the same
	// polarity over newNode's variable, preserving slot order.
	Replace(old, newNode Node)

	// RemoveAllFanins clears n's fan-in list without affecting n's
	// fan-outs.
	RemoveAllFanins(n Node)
	// AddFanin appends a fan-in slot to n carrying literal src.
	AddFanin(n Node, src z.Lit)

	// DeleteNode removes n from the network. n must have no remaining
	// fan-outs.
	DeleteNode(n Node)
	// DeleteNet releases the network's resources.
	DeleteNet()
}

// TimingInfo is the per-node output of static timing analysis under a
// unit-delay model.
type TimingInfo struct {
	ArrivalTime  int
	RequiredTime int
	Slack        int
}

// Critical reports whether the node's slack is zero.
func (t TimingInfo) Critical() bool {
	return t.Slack == 0
}

// CriticalPath summarizes one of the k most critical paths of a network.
type CriticalPath struct {
	MaxDelay int
	Nodes    []Node
}

// STA is the static timing analysis collaborator: it produces arrival,
// required, and slack times, the critical subgraph, and a report of the
// most critical paths. The algorithm itself is out of the DALS core's
// scope; the core only ever calls through this interface.
type STA interface {
	// CalcSlack computes timing info for every PI and internal node of
	// net.
	CalcSlack(net Network) (map[Node]TimingInfo, error)

	// CriticalGraph returns, for every critical node id, the set of
	// critical node ids it directly drives along some critical path.
	CriticalGraph(net Network) map[int]map[int]bool

	// KMostCriticalPaths returns up to k of the paths with the largest
	// delay, most critical first.
	KMostCriticalPaths(net Network, k int) []CriticalPath
}

// MaxFlowEdge is a saturating arc returned by a min cut.
type MaxFlowEdge struct {
	U, V int
}

// MaxFlowGraph is the max-flow/min-cut collaborator used by the Delay
// Reducer to select which critical nodes to substitute in a round.
type MaxFlowGraph interface {
	// AddEdge adds a directed arc u->v with the given capacity. Capacity
	// Inf() denotes an arc that must never be part of a minimum cut.
	AddEdge(u, v int, capacity float64)

	// MinCut returns the saturating arcs of a minimum source-sink cut.
	MinCut(source, sink int) []MaxFlowEdge
}

// Inf is the capacity used for arcs that must never appear in a minimum
// cut (spec: PI-attaching arcs, and node-to-PO arcs).
func Inf() float64 {
	return infCapacity
}

const infCapacity = 1e18
