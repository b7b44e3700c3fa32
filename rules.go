package polysat

import (
	"github.com/cespare/polysat/bv"
	"github.com/cespare/polysat/scon"
	"github.com/cespare/polysat/trail"
)

// ruleFunc is the signature shared by every try_* rule (spec.md §4.5): it
// attempts to fire against the target variable x and the matched
// inequality i, writing one or more lemmas into conflict (rules that derive
// several independent facts emit one lemma per fact) and reporting whether
// it fired.
type ruleFunc func(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool

func mkULE(lhs, rhs bv.Poly, strict bool) scon.Constraint {
	if strict {
		return scon.Ult(lhs, rhs)
	}
	return scon.Ule(lhs, rhs)
}

// tryUgtX implements ugt_x (spec.md §4.5.1): cancellation of a common
// factor x from both sides of y*x <=+ z*x.
func tryUgtX(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool {
	y, z, ok := matchMulX(i, x)
	if !ok {
		return false
	}
	if !i.Strict && env.IsForcedEq(x.Poly(), 0) {
		return false
	}
	witness, ok := env.IsNonOverflowWitness(x.Poly(), y)
	if !ok {
		return false
	}
	if !env.IsForcedTrue(i.Critical) {
		return false
	}
	b.Reset()
	b.insertForced(witness.Negate())
	var extra []scon.SignedConstraint
	if !i.Strict {
		extra = append(extra, scon.Pos(scon.EqK(x.Poly(), 0)))
	}
	extra = append(extra, scon.Pos(mkULE(y, z, i.Strict)))
	return b.Propagate(conflict, tag, i.Critical, extra...)
}

// tryUgtY implements ugt_y (spec.md §4.5.2): monotonicity using a trail
// literal z' <=+' y.
func tryUgtY(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool {
	y, z, ok := matchMulX(i, x)
	if !ok {
		return false
	}
	trailIneq, ok := matchTrailULERhs(env, y)
	if !ok {
		return false
	}
	witness, ok := env.IsNonOverflowWitness(x.Poly(), y)
	if !ok {
		return false
	}
	if !env.IsForcedTrue(i.Critical) {
		return false
	}
	strict := i.Strict || trailIneq.Strict
	consequent := scon.Pos(mkULE(trailIneq.Lhs.Mul(x.Poly()), z.Mul(x.Poly()), strict))
	b.Reset()
	b.insertForced(trailIneq.Critical.Negate())
	b.insertForced(witness.Negate())
	return b.Propagate(conflict, tag, i.Critical, consequent)
}

// tryUgtZ implements ugt_z (spec.md §4.5.3): the dual of ugt_y using a
// trail literal z <=+' y'.
func tryUgtZ(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool {
	y, z, ok := matchMulX(i, x)
	if !ok {
		return false
	}
	trailIneq, ok := matchTrailULE(env, z)
	if !ok {
		return false
	}
	yPrime := trailIneq.Rhs
	witness, ok := env.IsNonOverflowWitness(x.Poly(), yPrime)
	if !ok {
		return false
	}
	if !env.IsForcedTrue(i.Critical) {
		return false
	}
	strict := i.Strict || trailIneq.Strict
	consequent := scon.Pos(mkULE(y.Mul(x.Poly()), yPrime.Mul(x.Poly()), strict))
	b.Reset()
	b.insertForced(trailIneq.Critical.Negate())
	b.insertForced(witness.Negate())
	return b.Propagate(conflict, tag, i.Critical, consequent)
}

// tryYLAXAndXLZ implements y_l_ax_and_x_l_z (spec.md §4.5.4): chaining
// y <=+ a*x with a trail literal x <=+' z.
func tryYLAXAndXLZ(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool {
	y, a, ok := matchYLeAX(i, x)
	if !ok {
		return false
	}
	trailIneq, ok := matchTrailULE(env, x.Poly())
	if !ok {
		return false
	}
	z := trailIneq.Rhs
	witness, ok := env.IsNonOverflowWitness(a, z)
	if !ok {
		return false
	}
	if !env.IsForcedTrue(i.Critical) {
		return false
	}
	strict := i.Strict || trailIneq.Strict
	consequent := scon.Pos(mkULE(y, a.Mul(z), strict))
	b.Reset()
	b.insertForced(trailIneq.Critical.Negate())
	b.insertForced(witness.Negate())
	return b.Propagate(conflict, tag, i.Critical, consequent)
}

// boundCandidate describes one of the four signed operands (+a, -a, +x,
// -x) mul_bounds looks for a bound on in the trail.
type boundCandidate struct {
	poly bv.Poly
	// other is the operand bounding the candidate implies a bound on.
	other bv.Poly
}

// findBoundLiteral scans the trail for an unresolved <=+ literal whose
// left side matches one of candidates and whose right side is a forced
// constant, returning the first match (spec.md §4.5.5's "trail literal
// u <=+ k" premise).
func findBoundLiteral(env *Env, candidates []boundCandidate) (other bv.Poly, k uint64, strict bool, lit scon.SignedConstraint, ok bool) {
	for _, ent := range env.Trail.Entries() {
		if !ent.Boolean || ent.Resolved {
			continue
		}
		ineq, ok2 := scon.FromULE(ent.Lit)
		if !ok2 {
			continue
		}
		kv, isVal := ineq.Rhs.IsVal()
		if !isVal {
			continue
		}
		for _, c := range candidates {
			if ineq.Lhs.Equal(c.poly) {
				return c.other, kv, ineq.Strict, ineq.Critical, true
			}
		}
	}
	return bv.Poly{}, 0, false, scon.SignedConstraint{}, false
}

// tryMulBounds implements mul_bounds (spec.md §4.5.5): from a*x = 0 (a,x
// both nonzero), the product of a and x must overflow under every sign
// combination, and an existing bound on either operand yields a bound on
// the other.
func tryMulBounds(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool {
	a, bb, y, ok := matchAXPlusBLeY(i, x)
	if !ok {
		return false
	}
	if !env.IsForcedEq(bb, 0) || !env.IsForcedEq(y, 0) {
		return false
	}
	diseqX, diseqXOk := env.IsForcedDiseq(x.Poly(), 0)
	diseqA, diseqAOk := env.IsForcedDiseq(a, 0)
	if !diseqXOk || !diseqAOk {
		return false
	}
	if !env.IsForcedTrue(i.Critical) {
		return false
	}

	w := x.Width()
	negA, negX := a.Neg(), x.Poly().Neg()
	signs := [][2]bv.Poly{{a, x.Poly()}, {a, negX}, {negA, x.Poly()}, {negA, negX}}

	b.Reset()
	b.InsertEval(scon.NegOf(scon.EqK(bb, 0)))
	b.InsertEval(scon.NegOf(scon.EqK(y, 0)))
	b.InsertEval(scon.Pos(diseqX))
	b.InsertEval(scon.Pos(diseqA))

	extra := make([]scon.SignedConstraint, 0, len(signs)+2)
	for _, s := range signs {
		extra = append(extra, scon.Pos(scon.MulOvfl(s[0], s[1])))
	}

	candidates := []boundCandidate{
		{a, x.Poly()}, {negA, x.Poly()},
		{x.Poly(), a}, {negX, a},
	}
	if other, kv, strict, lit, found := findBoundLiteral(env, candidates); found {
		k := kv
		if strict && k > 0 {
			k--
		}
		if k >= 2 && k < w.TwoToN()/2 {
			bound := (w.TwoToN() + k - 1) / k
			b.insertForced(lit.Negate())
			extra = append(extra, scon.Pos(scon.Uge(other, bound)))
			extra = append(extra, scon.Pos(scon.Uge(other.Neg(), bound)))
		}
	}
	return b.Propagate(conflict, tag, i.Critical, extra...)
}

// tryMulEq1 implements mul_eq_1 (spec.md §4.5.6): a*x - 1 = 0 forces both
// operands to be the unit 1.
func tryMulEq1(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool {
	a, bb, y, ok := matchAXPlusBLeY(i, x)
	if !ok {
		return false
	}
	negOne := x.Width().Mask()
	if !env.IsForcedEq(bb, negOne) || !env.IsForcedEq(y, 0) {
		return false
	}
	witness, ok := env.IsNonOverflowWitness(a, x.Poly())
	if !ok {
		return false
	}
	if !env.IsForcedTrue(i.Critical) {
		return false
	}

	insertPremises := func() {
		b.Reset()
		b.InsertEval(scon.NegOf(scon.EqK(bb, negOne)))
		b.InsertEval(scon.NegOf(scon.EqK(y, 0)))
		b.insertForced(witness.Negate())
	}

	insertPremises()
	b.Propagate(conflict, tag, i.Critical, scon.Pos(scon.EqK(x.Poly(), 1)))
	insertPremises()
	b.Propagate(conflict, tag, i.Critical, scon.Pos(scon.EqK(a, 1)))
	return true
}

// tryParity implements parity (spec.md §4.5.7): parity propagation along
// the equation a*x = -b.
func tryParity(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool {
	a, bb, y, ok := matchAXPlusBLeY(i, x)
	if !ok {
		return false
	}
	if !env.IsForcedEq(y, 0) {
		return false
	}
	if !env.IsForcedTrue(i.Critical) {
		return false
	}
	basePremises := func() {
		b.Reset()
		b.InsertEval(scon.NegOf(scon.EqK(y, 0)))
	}

	model := env.Trail.Model()
	aOdd, aOddOk := scon.Pos(scon.Odd(a)).C.Eval(model)
	xOdd, xOddOk := scon.Pos(scon.Odd(x.Poly())).C.Eval(model)
	if aOddOk && aOdd && xOddOk && xOdd {
		basePremises()
		b.InsertEval(scon.NegOf(scon.Odd(a)))
		b.InsertEval(scon.NegOf(scon.Odd(x.Poly())))
		return b.Propagate(conflict, tag, i.Critical, scon.Pos(scon.Odd(bb)))
	}

	bOdd, bOddOk := scon.Pos(scon.Odd(bb)).C.Eval(model)
	if bOddOk && bOdd {
		basePremises()
		b.InsertEval(scon.NegOf(scon.Odd(bb)))
		b.Propagate(conflict, tag, i.Critical, scon.Pos(scon.Odd(a)))
		basePremises()
		b.InsertEval(scon.NegOf(scon.Odd(bb)))
		return b.Propagate(conflict, tag, i.Critical, scon.Pos(scon.Odd(x.Poly())))
	}

	_, aNonzero := env.IsForcedDiseq(a, 0)
	_, xNonzero := env.IsForcedDiseq(x.Poly(), 0)
	pa := env.maxConfirmedParity(a)
	px := env.maxConfirmedParity(x.Poly())
	if aNonzero && xNonzero && (pa >= 1 || px >= 1) {
		k := pa + px
		if k > x.Width().PowerOf2() {
			k = x.Width().PowerOf2()
		}
		basePremises()
		if pa >= 1 {
			b.InsertEval(scon.NegOf(scon.Parity(a, pa)))
		}
		if px >= 1 {
			b.InsertEval(scon.NegOf(scon.Parity(x.Poly(), px)))
		}
		return b.Propagate(conflict, tag, i.Critical, scon.Pos(scon.Parity(bb, k)))
	}

	if env.IsForcedEq(bb, 0) {
		return false
	}
	pb, ok := env.smallestFalseParity(bb)
	if !ok {
		return false
	}
	bParity := scon.Pos(scon.Parity(bb, pb))
	fired := false
	basePremises()
	b.InsertEval(bParity)
	fired = b.Propagate(conflict, tag, i.Critical, scon.NegOf(scon.Parity(a, pb))) || fired
	for k := uint(1); k < x.Width().PowerOf2(); k++ {
		if pb <= k {
			continue
		}
		if v, ok := scon.Pos(scon.Parity(a, k)).C.Eval(model); ok && v {
			basePremises()
			b.InsertEval(bParity)
			b.InsertEval(scon.NegOf(scon.Parity(a, k)))
			fired = b.Propagate(conflict, tag, i.Critical, scon.NegOf(scon.Parity(x.Poly(), pb-k))) || fired
		}
		if v, ok := scon.Pos(scon.Parity(x.Poly(), k)).C.Eval(model); ok && v {
			basePremises()
			b.InsertEval(bParity)
			b.InsertEval(scon.NegOf(scon.Parity(x.Poly(), k)))
			fired = b.Propagate(conflict, tag, i.Critical, scon.NegOf(scon.Parity(a, pb-k))) || fired
		}
	}
	return fired
}

// tryMulOdd implements mul_odd (spec.md §4.5.8): a*x = 0 with a nonzero
// forces x even, and if x is also nonzero, forces a even too.
func tryMulOdd(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool {
	a, bb, y, ok := matchAXPlusBLeY(i, x)
	if !ok {
		return false
	}
	if !env.IsForcedEq(bb, 0) || !env.IsForcedEq(y, 0) {
		return false
	}
	diseqA, diseqAOk := env.IsForcedDiseq(a, 0)
	if !diseqAOk {
		return false
	}
	if !env.IsForcedTrue(i.Critical) {
		return false
	}
	basePremises := func() {
		b.Reset()
		b.InsertEval(scon.NegOf(scon.EqK(bb, 0)))
		b.InsertEval(scon.NegOf(scon.EqK(y, 0)))
		b.InsertEval(scon.Pos(diseqA))
	}
	basePremises()
	fired := b.Propagate(conflict, tag, i.Critical, scon.Pos(scon.Even(x.Poly())))
	if diseqX, diseqXOk := env.IsForcedDiseq(x.Poly(), 0); diseqXOk {
		basePremises()
		b.InsertEval(scon.Pos(diseqX))
		fired = b.Propagate(conflict, tag, i.Critical, scon.Pos(scon.Even(a))) || fired
	}
	return fired
}

// tryFactorEquality is the documented placeholder for factor_equality
// (spec.md §4.5.9): rewriting a*b*x + p <=+ q using a trail equality
// a*x + r = 0 needs a committed polynomial-rewrite helper this core does
// not build; left as a no-op, as spec.md explicitly allows for a first
// cut.
func tryFactorEquality(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool {
	return false
}

// tryTangent implements tangent (spec.md §4.5.10): the catch-all rule for
// any inequality non-linear in x, always tried last.
func tryTangent(env *Env, b *LemmaBuilder, x bv.PVar, i scon.Inequality, conflict *trail.Conflict, tag string) bool {
	if !matchTangent(i, x) {
		return false
	}
	model := env.Trail.Model()
	lv, ok1 := i.Lhs.TryEval(model)
	rv, ok2 := i.Rhs.TryEval(model)
	if !ok1 || !ok2 {
		return false
	}
	w := i.Lhs.Width()

	if !i.Strict && lv > rv {
		side := scon.Ule(i.Rhs, bv.NewConst(w, rv))
		if env.IsForcedFalse(scon.Pos(side)) {
			return false
		}
		if !env.IsForcedTrue(i.Critical) {
			return false
		}
		b.Reset()
		b.InsertEval(scon.NegOf(side))
		return b.Propagate(conflict, tag, i.Critical, scon.Pos(scon.Ule(i.Lhs, bv.NewConst(w, rv))))
	}
	if i.Strict && lv >= rv {
		side := scon.Ule(bv.NewConst(w, lv), i.Lhs)
		if env.IsForcedFalse(scon.Pos(side)) {
			return false
		}
		if !env.IsForcedTrue(i.Critical) {
			return false
		}
		b.Reset()
		b.InsertEval(scon.NegOf(side))
		return b.Propagate(conflict, tag, i.Critical, scon.Pos(scon.Ult(bv.NewConst(w, rv), i.Rhs)))
	}
	return false
}
