// Package egraph implements the slice/e-graph bridge (spec.md §4.6): a
// small congruence-closure structure recording equalities between
// bit-vector sub-ranges ("slices") of terms, queried by the saturation
// engine to connect polynomial variables to the theory variables the
// wider solver's e-graph already knows to be equal.
//
// This is a minimal union-find e-graph, not a production congruence
// closure: it supports exactly the operations the adapter in adapter.go
// needs (defining variables, constants and slices, unioning classes, and
// walking sub-/super-slice and fixed-bit structure), which is all
// spec.md §4.6 asks of the collaborator.
package egraph

// NodeID identifies an e-node.
type NodeID int

// Kind classifies what an e-node represents.
type Kind int

const (
	KindVar Kind = iota
	KindConst
	KindSlice
)

type enode struct {
	id     NodeID
	kind   Kind
	width  int
	base   NodeID // valid when kind == KindSlice
	offset int    // valid when kind == KindSlice

	thVar    uint32
	hasThVar bool

	value    uint64
	hasValue bool
}

// Graph is the union-find e-graph of bit-vector terms.
type Graph struct {
	nodes  []*enode
	parent []int

	// subSlices[b] lists the slice nodes registered with base b.
	subSlices map[NodeID][]NodeID
	// superSlices[s] lists the base nodes that slice node s was sliced from.
	superSlices map[NodeID][]NodeID
}

// NewGraph returns an empty e-graph.
func NewGraph() *Graph {
	return &Graph{
		subSlices:   make(map[NodeID][]NodeID),
		superSlices: make(map[NodeID][]NodeID),
	}
}

func (g *Graph) newNode(n *enode) NodeID {
	n.id = NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.parent = append(g.parent, int(n.id))
	return n.id
}

// DefineVar registers a fresh e-node representing theory variable thVar.
func (g *Graph) DefineVar(thVar uint32, width int) NodeID {
	return g.newNode(&enode{kind: KindVar, width: width, thVar: thVar, hasThVar: true})
}

// DefineConst registers a fresh e-node representing the numeric constant
// value at the given width.
func (g *Graph) DefineConst(width int, value uint64) NodeID {
	return g.newNode(&enode{kind: KindConst, width: width, value: value, hasValue: true})
}

// DefineSlice registers a fresh e-node representing base[offset:offset+width],
// recording both the sub-slice edge (base -> slice) and the super-slice
// edge (slice -> base).
func (g *Graph) DefineSlice(base NodeID, offset, width int) NodeID {
	id := g.newNode(&enode{kind: KindSlice, width: width, base: base, offset: offset})
	g.subSlices[base] = append(g.subSlices[base], id)
	g.superSlices[id] = append(g.superSlices[id], base)
	return id
}

// BindThVar attaches theory variable thVar to n's equivalence class,
// without changing n's own kind.
func (g *Graph) BindThVar(n NodeID, thVar uint32) {
	g.nodes[n].thVar = thVar
	g.nodes[n].hasThVar = true
}

func (g *Graph) find(n NodeID) NodeID {
	if g.parent[n] != int(n) {
		g.parent[n] = int(g.find(NodeID(g.parent[n])))
	}
	return NodeID(g.parent[n])
}

// GetRoot returns the canonical representative of n's equivalence class.
func (g *Graph) GetRoot(n NodeID) NodeID { return g.find(n) }

// Union merges the equivalence classes of a and b.
func (g *Graph) Union(a, b NodeID) {
	ra, rb := g.find(a), g.find(b)
	if ra != rb {
		g.parent[ra] = int(rb)
	}
}

// classMembers returns every node sharing n's equivalence class,
// including n itself.
func (g *Graph) classMembers(n NodeID) []NodeID {
	root := g.find(n)
	var out []NodeID
	for i := range g.nodes {
		if g.find(NodeID(i)) == root {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// GetThVar returns the theory variable attached to n's equivalence class,
// if any.
func (g *Graph) GetThVar(n NodeID) (uint32, bool) {
	for _, m := range g.classMembers(n) {
		if g.nodes[m].hasThVar {
			return g.nodes[m].thVar, true
		}
	}
	return 0, false
}

// Interpreted returns the numeric constant value assigned to n's
// equivalence class, if the class contains a constant node.
func (g *Graph) Interpreted(n NodeID) (uint64, bool) {
	for _, m := range g.classMembers(n) {
		if g.nodes[m].kind == KindConst {
			return g.nodes[m].value, true
		}
	}
	return 0, false
}
