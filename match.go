package polysat

import (
	"github.com/cespare/polysat/bv"
	"github.com/cespare/polysat/scon"
)

// isZero reports whether p is the constant polynomial 0.
func isZero(p bv.Poly) bool {
	v, ok := p.IsVal()
	return ok && v == 0
}

// factorNonzero decomposes p = a*v + b (via Poly.Factor) and additionally
// requires a be nonzero -- i.e. v genuinely appears in p -- which every
// shape matcher below needs on top of the bare degree-1 factorization.
func factorNonzero(p bv.Poly, v bv.PVar) (a, b bv.Poly, ok bool) {
	a, b, ok = p.Factor(v)
	if !ok || isZero(a) {
		return bv.Poly{}, bv.Poly{}, false
	}
	return a, b, true
}

// matchMulX recognises "[x] y*x <=+ z*x" (spec.md §4.5.1-4.5.3): both
// sides of i are exactly a coefficient polynomial times x, with no
// additive remainder.
func matchMulX(i scon.Inequality, x bv.PVar) (y, z bv.Poly, ok bool) {
	a1, b1, ok1 := factorNonzero(i.Lhs, x)
	if !ok1 || !isZero(b1) {
		return bv.Poly{}, bv.Poly{}, false
	}
	a2, b2, ok2 := factorNonzero(i.Rhs, x)
	if !ok2 || !isZero(b2) {
		return bv.Poly{}, bv.Poly{}, false
	}
	return a1, a2, true
}

// matchYLeAX recognises "[x] y <=+ a*x" with a != 1 (spec.md §4.5.4): the
// left side must not contain x at all, the right side must be a nonzero
// coefficient (other than the constant 1) times x.
func matchYLeAX(i scon.Inequality, x bv.PVar) (y, a bv.Poly, ok bool) {
	if i.Lhs.Degree(x) != 0 {
		return bv.Poly{}, bv.Poly{}, false
	}
	a, b, ok2 := factorNonzero(i.Rhs, x)
	if !ok2 || !isZero(b) || a.IsOne() {
		return bv.Poly{}, bv.Poly{}, false
	}
	return i.Lhs, a, true
}

// matchAXPlusBLeY recognises the generic "[x] a*x + b <=+ y" shape shared
// by mul_bounds, mul_eq_1, parity and mul_odd (spec.md §4.5.5-4.5.8): x
// appears linearly with a nonzero coefficient a on the left, b is
// whatever remains on the left not containing x, and y is the right side
// verbatim (callers apply their own forced-value side conditions to b
// and y).
func matchAXPlusBLeY(i scon.Inequality, x bv.PVar) (a, b, y bv.Poly, ok bool) {
	a, b, ok = factorNonzero(i.Lhs, x)
	if !ok {
		return bv.Poly{}, bv.Poly{}, bv.Poly{}, false
	}
	return a, b, i.Rhs, true
}

// matchTrailULE scans the trail for an unresolved, currently-asserted
// ule/ult literal of the shape "lhs <=+ rhs" with the given lhs (up to
// Poly equality), used by ugt_z and y_l_ax_and_x_l_z to find the chaining
// premise.
func matchTrailULE(env *Env, lhs bv.Poly) (scon.Inequality, bool) {
	for _, ent := range env.Trail.Entries() {
		if !ent.Boolean || ent.Resolved {
			continue
		}
		ineq, ok := scon.FromULE(ent.Lit)
		if !ok {
			continue
		}
		if ineq.Lhs.Equal(lhs) {
			return ineq, true
		}
	}
	return scon.Inequality{}, false
}

// matchTrailULERhs is matchTrailULE's mirror image, searching by the
// inequality's right-hand side instead of its left (used by ugt_y).
func matchTrailULERhs(env *Env, rhs bv.Poly) (scon.Inequality, bool) {
	for _, ent := range env.Trail.Entries() {
		if !ent.Boolean || ent.Resolved {
			continue
		}
		ineq, ok := scon.FromULE(ent.Lit)
		if !ok {
			continue
		}
		if ineq.Rhs.Equal(rhs) {
			return ineq, true
		}
	}
	return scon.Inequality{}, false
}

// matchTangent recognises any inequality over v where both sides are
// non-constant and at least one side is non-linear in v (spec.md
// §4.5.10): the catch-all rule, tried last because it otherwise always
// applies.
func matchTangent(i scon.Inequality, v bv.PVar) bool {
	if _, ok := i.Lhs.IsVal(); ok {
		return false
	}
	if _, ok := i.Rhs.IsVal(); ok {
		return false
	}
	return i.Lhs.Degree(v) >= 2 || i.Rhs.Degree(v) >= 2
}
