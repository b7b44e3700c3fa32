// Package trail implements the two SAT-core collaborators the saturation
// engine is defined against (spec.md §3/§6): Search, the ordered trail of
// boolean and variable-decision entries, and Conflict, the set-like,
// insertion-ordered carrier of constraints that the engine reads and
// writes lemmas into.
//
// This is deliberately a minimal stand-in for a real CDCL trail -- full
// unit propagation, watched literals, and backjumping are out of scope
// (spec.md §1) -- but it reproduces the tri-state variable assignment
// (Tribool) of a Davis-Putnam solver's assnVal exactly, since the
// saturation rules' premise oracle depends on that three-way distinction
// between true, false, and undef.
package trail

import "github.com/cespare/polysat/scon"

// Tribool is a three-valued boolean: Undef, True, or False. The encoding
// mirrors a DPLL solver's assnVal (unassigned/true/false), including the
// convention that flipping toggles only between the two assigned states.
type Tribool uint8

const (
	Undef Tribool = iota
	True
	False
)

func (t Tribool) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "undef"
	}
}

// Flip toggles an assigned Tribool and leaves Undef unchanged.
func (t Tribool) Flip() Tribool {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Undef
	}
}

// Entry is one position in the trail: either a boolean entry (a signed
// constraint asserted true, with Resolved marking literals already
// consumed during conflict analysis) or a variable decision (a concrete
// value committed to a polynomial variable).
type Entry struct {
	Boolean  bool
	Lit      scon.SignedConstraint
	Resolved bool

	VarID uint32
	Val   uint64
}

// Trail is the Search collaborator: an ordered, append-only sequence of
// entries, plus the derived boolean-valuation and model maps the premise
// oracle queries.
type Trail struct {
	entries []Entry
	bvals   map[string]Tribool // constraint key (unsigned) -> Tribool
	model   map[uint32]uint64  // pvar id -> committed value
}

// New returns an empty trail.
func New() *Trail {
	return &Trail{
		bvals: make(map[string]Tribool),
		model: make(map[uint32]uint64),
	}
}

// PushBoolean appends a boolean entry asserting sc true, with the given
// resolved flag.
func (tr *Trail) PushBoolean(sc scon.SignedConstraint, resolved bool) {
	val := True
	if sc.Neg {
		val = False
	}
	tr.bvals[sc.C.Key()] = val
	tr.entries = append(tr.entries, Entry{Boolean: true, Lit: sc, Resolved: resolved})
}

// PushDecision appends a variable-decision entry and commits val into the
// model.
func (tr *Trail) PushDecision(varID uint32, val uint64) {
	tr.model[varID] = val
	tr.entries = append(tr.entries, Entry{Boolean: false, VarID: varID, Val: val})
}

// MarkResolved marks the i'th entry as already consumed by conflict
// analysis.
func (tr *Trail) MarkResolved(i int) {
	tr.entries[i].Resolved = true
}

// Entries returns the trail in insertion order.
func (tr *Trail) Entries() []Entry { return tr.entries }

// Model returns the current variable assignment (pvar id -> value).
func (tr *Trail) Model() map[uint32]uint64 { return tr.model }

// BValue returns sc's boolean value on the trail: True/False if some
// entry asserted sc or its negation, Undef otherwise.
func (tr *Trail) BValue(sc scon.SignedConstraint) Tribool {
	v, ok := tr.bvals[sc.C.Key()]
	if !ok {
		return Undef
	}
	if sc.Neg {
		return v.Flip()
	}
	return v
}
