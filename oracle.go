// Package polysat implements the saturation inference core of a
// polynomial-arithmetic SAT solver over modular (fixed-width, two's
// complement) bit-vector arithmetic: the premise oracle, lemma builder,
// pattern matchers, rule engine, and the ten saturation rules themselves.
// The supporting collaborators it is defined against -- the polynomial
// view (bv), the signed-constraint/inequality abstraction (scon), the SAT
// trail (trail), and the slice/e-graph bridge (egraph) -- live in their
// own packages.
package polysat

import (
	"github.com/cespare/polysat/bv"
	"github.com/cespare/polysat/egraph"
	"github.com/cespare/polysat/scon"
	"github.com/cespare/polysat/trail"
)

// Env bundles the collaborators the saturation core reads from: the SAT
// trail (boolean valuations, the model, and decision history) and the
// slice/e-graph adapter. The core only reads from Env; it writes lemmas
// through the separately-passed Conflict.
type Env struct {
	Trail  *trail.Trail
	Egraph *egraph.Adapter
}

// NewEnv returns an Env over the given trail and e-graph adapter.
func NewEnv(tr *trail.Trail, eg *egraph.Adapter) *Env {
	return &Env{Trail: tr, Egraph: eg}
}

// IsForcedTrue reports whether sc's trail valuation is true, or it
// currently evaluates true under the model.
func (e *Env) IsForcedTrue(sc scon.SignedConstraint) bool {
	if e.Trail.BValue(sc) == trail.True {
		return true
	}
	return sc.IsCurrentlyTrue(e.Trail.Model())
}

// IsForcedFalse reports whether sc's trail valuation is false, or it
// currently evaluates false under the model.
func (e *Env) IsForcedFalse(sc scon.SignedConstraint) bool {
	if e.Trail.BValue(sc) == trail.False {
		return true
	}
	return sc.IsCurrentlyFalse(e.Trail.Model())
}

// IsForcedEq reports whether p currently evaluates to v.
func (e *Env) IsForcedEq(p bv.Poly, v uint64) bool {
	got, ok := p.TryEval(e.Trail.Model())
	return ok && got == v
}

// IsForcedDiseq reports whether p is forced not-equal to v, returning the
// eq(p,v) constraint whose falsity witnesses the claim.
func (e *Env) IsForcedDiseq(p bv.Poly, v uint64) (scon.Constraint, bool) {
	c := scon.EqK(p, v)
	return c, e.IsForcedFalse(scon.Pos(c))
}

// IsForcedOdd reports whether p is forced odd, returning the odd(p)
// constraint witnessing the claim.
func (e *Env) IsForcedOdd(p bv.Poly) (scon.Constraint, bool) {
	c := scon.Odd(p)
	return c, e.IsForcedTrue(scon.Pos(c))
}

// IsNonOverflow reports whether x*y is known, from the model alone, not
// to overflow at x's width (Ω*(x,y) with no witness literal).
func (e *Env) IsNonOverflow(x, y bv.Poly) bool {
	xv, ok := x.TryEval(e.Trail.Model())
	if !ok {
		return false
	}
	yv, ok := y.TryEval(e.Trail.Model())
	if !ok {
		return false
	}
	return !x.Width().MulOverflows(xv, yv)
}

// IsNonOverflowWitness is the stronger Ω*(x,y) check of spec.md §4.2: it
// first tries the semantic check, and failing that scans the trail for
// an unresolved boolean entry whose literal is a negated umul_ovfl(p,q)
// with {p,q} = {x,y}, returning that literal as the witness critical.
func (e *Env) IsNonOverflowWitness(x, y bv.Poly) (scon.SignedConstraint, bool) {
	if e.IsNonOverflow(x, y) {
		return scon.NegOf(scon.MulOvfl(x, y)), true
	}
	for _, ent := range e.Trail.Entries() {
		if !ent.Boolean || ent.Resolved {
			continue
		}
		lit := ent.Lit
		if lit.C.Kind() != scon.KindMulOvfl || !lit.Neg {
			continue
		}
		lhs, rhs := lit.C.Lhs(), lit.C.Rhs()
		if (lhs.Equal(x) && rhs.Equal(y)) || (lhs.Equal(y) && rhs.Equal(x)) {
			return lit, true
		}
	}
	return scon.SignedConstraint{}, false
}

// maxConfirmedParity returns the largest k in [0, p.Width()] such that
// parity(p, k) currently evaluates true, used by the parity rule (§4.5.7)
// to find the strongest propagation it can justify.
func (e *Env) maxConfirmedParity(p bv.Poly) uint {
	model := e.Trail.Model()
	best := uint(0)
	for k := uint(1); k <= p.Width().PowerOf2(); k++ {
		c := scon.Parity(p, k)
		if val, ok := c.Eval(model); !ok || !val {
			break
		}
		best = k
	}
	return best
}

// smallestFalseParity returns the smallest k such that parity(p, k)
// currently evaluates false, or ok=false if parity holds all the way to
// the polynomial's full width (p is forced zero).
func (e *Env) smallestFalseParity(p bv.Poly) (uint, bool) {
	model := e.Trail.Model()
	for k := uint(1); k <= p.Width().PowerOf2(); k++ {
		c := scon.Parity(p, k)
		if val, ok := c.Eval(model); ok && !val {
			return k, true
		}
	}
	return 0, false
}
