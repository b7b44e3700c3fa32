package egraph

import "github.com/emirpasic/gods/sets/linkedhashset"

// SlicePair is a theory variable paired with the bit offset at which it
// was found to be a slice, as returned by the sub-/super-slice and suffix
// queries.
type SlicePair struct {
	PVar   uint32
	Offset int
}

// FixedRange is a contiguous bit range of a term forced to a known
// constant value: bits [Lo, Hi) equal Value.
type FixedRange struct {
	Lo, Hi int
	Value  uint64
}

// Adapter is the public slice/e-graph collaborator (spec.md §4.6): it
// binds polynomial-variable indices to e-graph nodes and answers the five
// queries the rule engine's matchers need, without exposing e-node
// internals to callers.
type Adapter struct {
	g        *Graph
	byPVar   map[uint32]NodeID
	nodePVar map[NodeID]uint32 // inverse of byPVar, for explain_*
}

// NewAdapter returns an empty adapter.
func NewAdapter() *Adapter {
	return &Adapter{
		g:        NewGraph(),
		byPVar:   make(map[uint32]NodeID),
		nodePVar: make(map[NodeID]uint32),
	}
}

// DefineVar registers pvar as a base term of the given width and returns
// its e-node. Calling it twice for the same pvar is an error left to the
// caller to avoid; the adapter does not itself deduplicate definitions.
func (a *Adapter) DefineVar(pvar uint32, width int) NodeID {
	n := a.g.DefineVar(pvar, width)
	a.byPVar[pvar] = n
	a.nodePVar[n] = pvar
	return n
}

// DefineConst registers a constant e-node.
func (a *Adapter) DefineConst(width int, value uint64) NodeID {
	return a.g.DefineConst(width, value)
}

// DefineSlice registers base[offset:offset+width] as a new e-node.
func (a *Adapter) DefineSlice(base NodeID, offset, width int) NodeID {
	return a.g.DefineSlice(base, offset, width)
}

// BindVar attaches pvar to the equivalence class of an existing node
// (e.g. a slice discovered equal to some already-known theory variable).
func (a *Adapter) BindVar(n NodeID, pvar uint32) {
	a.g.BindThVar(n, pvar)
	a.byPVar[pvar] = n
	a.nodePVar[n] = pvar
}

// Union merges the equivalence classes of x and y.
func (a *Adapter) Union(x, y NodeID) { a.g.Union(x, y) }

// GetRoot returns the canonical representative of n's equivalence class.
func (a *Adapter) GetRoot(n NodeID) NodeID { return a.g.find(n) }

func (a *Adapter) nodeOf(pvar uint32) (NodeID, bool) {
	n, ok := a.byPVar[pvar]
	return n, ok
}

// pvarsInClass returns every theory variable whose e-node shares n's
// equivalence class, in first-seen order.
func (a *Adapter) pvarsInClass(n NodeID, seen *linkedhashset.Set) []uint32 {
	var out []uint32
	for _, m := range a.g.classMembers(n) {
		node := a.g.nodes[m]
		if !node.hasThVar {
			continue
		}
		if seen != nil {
			if seen.Contains(node.thVar) {
				continue
			}
			seen.Add(node.thVar)
		}
		out = append(out, node.thVar)
	}
	return out
}

// GetBitvectorSuffixes yields every theory variable known equal to a
// zero-offset sub-slice of pvar: a suffix pvar[0:w] of pvar itself. This
// is the one query restricted to offset == 0 (spec.md §4.6); the others
// walk every offset.
func (a *Adapter) GetBitvectorSuffixes(pvar uint32) []SlicePair {
	base, ok := a.nodeOf(pvar)
	if !ok {
		return nil
	}
	seen := linkedhashset.New()
	var out []SlicePair
	for _, s := range a.g.subSlices[base] {
		node := a.g.nodes[s]
		if node.offset != 0 {
			continue
		}
		for _, pv := range a.pvarsInClass(s, nil) {
			key := pv
			if seen.Contains(key) {
				continue
			}
			seen.Add(key)
			out = append(out, SlicePair{PVar: pv, Offset: 0})
		}
	}
	return out
}

// GetBitvectorSubSlices yields every (theory variable, offset) pair known
// equal to some sub-slice of pvar, at any offset.
func (a *Adapter) GetBitvectorSubSlices(pvar uint32) []SlicePair {
	base, ok := a.nodeOf(pvar)
	if !ok {
		return nil
	}
	return a.walkSlices(a.g.subSlices[base])
}

// GetBitvectorSuperSlices yields every (theory variable, offset) pair for
// which pvar is known to be a sub-slice at that offset within a larger
// term bound to that variable.
func (a *Adapter) GetBitvectorSuperSlices(pvar uint32) []SlicePair {
	self, ok := a.nodeOf(pvar)
	if !ok {
		return nil
	}
	var out []SlicePair
	dedup := linkedhashset.New()
	for _, m := range a.g.classMembers(self) {
		node := a.g.nodes[m]
		if node.kind != KindSlice {
			continue
		}
		off := node.offset
		for _, b := range a.g.superSlices[m] {
			for _, pv := range a.pvarsInClass(b, nil) {
				dkey := [2]interface{}{pv, off}
				if dedup.Contains(dkey) {
					continue
				}
				dedup.Add(dkey)
				out = append(out, SlicePair{PVar: pv, Offset: off})
			}
		}
	}
	return out
}

func (a *Adapter) walkSlices(slices []NodeID) []SlicePair {
	var out []SlicePair
	dedup := linkedhashset.New()
	for _, s := range slices {
		off := a.g.nodes[s].offset
		for _, pv := range a.pvarsInClass(s, nil) {
			dkey := [2]interface{}{pv, off}
			if dedup.Contains(dkey) {
				continue
			}
			dedup.Add(dkey)
			out = append(out, SlicePair{PVar: pv, Offset: off})
		}
	}
	return out
}

// GetFixedBits yields the contiguous bit ranges of pvar known to carry a
// constant value, by walking pvar's direct sub-slices and reporting the
// ones whose equivalence class contains a constant node. A range that
// hits a constant is not descended into further -- the caller is assumed
// to already have the finest fixed range once a sub-slice resolves -- but
// sibling sub-slices are still visited.
func (a *Adapter) GetFixedBits(pvar uint32) []FixedRange {
	base, ok := a.nodeOf(pvar)
	if !ok {
		return nil
	}
	var out []FixedRange
	if v, ok := a.g.Interpreted(base); ok {
		out = append(out, FixedRange{Lo: 0, Hi: a.g.nodes[base].width, Value: v})
		return out
	}
	for _, s := range a.g.subSlices[base] {
		node := a.g.nodes[s]
		if v, ok := a.g.Interpreted(s); ok {
			out = append(out, FixedRange{Lo: node.offset, Hi: node.offset + node.width, Value: v})
		}
	}
	return out
}

// ExplainSlice reports the e-node pair justifying why pvar is known equal
// to pw[offset:offset+width], if such a registered slice of pw exists and
// shares pvar's equivalence class. consumeEq is called with the two node
// ids forming the explaining equality.
func (a *Adapter) ExplainSlice(pvar uint32, pw uint32, offset, width int, consumeEq func(a, b NodeID)) bool {
	pvNode, ok := a.nodeOf(pvar)
	if !ok {
		return false
	}
	pwNode, ok := a.nodeOf(pw)
	if !ok {
		return false
	}
	for _, s := range a.g.subSlices[pwNode] {
		node := a.g.nodes[s]
		if node.offset != offset || node.width != width {
			continue
		}
		if a.g.find(s) != a.g.find(pvNode) {
			continue
		}
		consumeEq(pvNode, s)
		return true
	}
	return false
}

// ExplainFixed reports the e-node pair justifying why bits [lo,hi) of
// pvar are forced to value, if a registered sub-slice spanning exactly
// that range resolves to that constant. consumeEq is called with the
// slice node and the constant node forming the explaining equality.
func (a *Adapter) ExplainFixed(pvar uint32, lo, hi int, value uint64, consumeEq func(a, b NodeID)) bool {
	base, ok := a.nodeOf(pvar)
	if !ok {
		return false
	}
	candidates := []NodeID{base}
	candidates = append(candidates, a.g.subSlices[base]...)
	for _, s := range candidates {
		node := a.g.nodes[s]
		lo0, hi0 := 0, node.width
		if node.kind == KindSlice {
			lo0, hi0 = node.offset, node.offset+node.width
		}
		if lo0 != lo || hi0 != hi {
			continue
		}
		for _, m := range a.g.classMembers(s) {
			if a.g.nodes[m].kind == KindConst && a.g.nodes[m].value == value {
				consumeEq(s, m)
				return true
			}
		}
	}
	return false
}
