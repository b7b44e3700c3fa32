// Package scon implements the signed-constraint and inequality abstraction
// (§3/§4.2 of the saturation spec): an atomic proposition over polynomials
// paired with a polarity, plus the handful of constructors
// (eq/ule/ult/uge/umul_ovfl/odd/even/parity) the rule engine's pattern
// matchers and rules rely on.
package scon

import (
	"errors"
	"fmt"

	"github.com/cespare/polysat/bv"
)

// ErrWidthMismatch is the panic value raised by the two-operand
// constructors when operand polynomials have different bit widths.
var ErrWidthMismatch = errors.New("scon: operand polynomials have different widths")

// Kind identifies the shape of an atomic constraint.
type Kind int

const (
	KindEq Kind = iota
	KindUle
	KindUlt
	KindUge
	KindMulOvfl
	KindOdd
	KindEven
	KindParity
)

func (k Kind) String() string {
	switch k {
	case KindEq:
		return "eq"
	case KindUle:
		return "ule"
	case KindUlt:
		return "ult"
	case KindUge:
		return "uge"
	case KindMulOvfl:
		return "umul_ovfl"
	case KindOdd:
		return "odd"
	case KindEven:
		return "even"
	case KindParity:
		return "parity"
	default:
		return "?"
	}
}

// Constraint is an atomic proposition over one or two polynomials.
type Constraint struct {
	kind     Kind
	lhs, rhs bv.Poly
	hasRHS   bool
	k        uint64 // eq(p,k), uge(p,k); low-bit count for parity(p,k)
}

func mustSameWidth(p, q bv.Poly) {
	if p.Width() != q.Width() {
		panic(ErrWidthMismatch)
	}
}

// Eq builds the constraint p = 0.
func Eq(p bv.Poly) Constraint {
	return Constraint{kind: KindEq, lhs: p}
}

// EqK builds the constraint p = k.
func EqK(p bv.Poly, k uint64) Constraint {
	return Constraint{kind: KindEq, lhs: p, k: k}
}

// Ule builds the constraint p <= q.
func Ule(p, q bv.Poly) Constraint {
	mustSameWidth(p, q)
	return Constraint{kind: KindUle, lhs: p, rhs: q, hasRHS: true}
}

// Ult builds the constraint p < q.
func Ult(p, q bv.Poly) Constraint {
	mustSameWidth(p, q)
	return Constraint{kind: KindUlt, lhs: p, rhs: q, hasRHS: true}
}

// Uge builds the constraint p >= k.
func Uge(p bv.Poly, k uint64) Constraint {
	return Constraint{kind: KindUge, lhs: p, k: k}
}

// MulOvfl builds the constraint umul_ovfl(p,q): p*q overflows mod 2^K,
// i.e. the exact product of p and q (as non-negative integers < 2^K) is
// >= 2^K.
func MulOvfl(p, q bv.Poly) Constraint {
	mustSameWidth(p, q)
	return Constraint{kind: KindMulOvfl, lhs: p, rhs: q, hasRHS: true}
}

// Odd builds the constraint odd(p).
func Odd(p bv.Poly) Constraint { return Constraint{kind: KindOdd, lhs: p} }

// Even builds the constraint even(p).
func Even(p bv.Poly) Constraint { return Constraint{kind: KindEven, lhs: p} }

// Parity builds the constraint parity(p, k): the low k bits of p are zero.
func Parity(p bv.Poly, k uint) Constraint {
	return Constraint{kind: KindParity, lhs: p, k: uint64(k)}
}

// Kind reports the constraint's shape.
func (c Constraint) Kind() Kind { return c.kind }

// Lhs returns the constraint's primary operand.
func (c Constraint) Lhs() bv.Poly { return c.lhs }

// Rhs returns the constraint's secondary operand, if it has one.
func (c Constraint) Rhs() bv.Poly { return c.rhs }

// HasRhs reports whether the constraint carries a second polynomial
// operand (false for eq/uge/parity, which carry a constant instead, and for
// odd/even).
func (c Constraint) HasRhs() bool { return c.hasRHS }

// K returns the constraint's constant operand (for eq(p,k), uge(p,k) and
// parity(p,k)).
func (c Constraint) K() uint64 { return c.k }

// Key is a canonical string identifying c (ignoring polarity), used for
// equality/deduplication in maps and sets, since bv.Poly is not itself
// comparable with ==.
func (c Constraint) Key() string { return c.key() }

// key is a canonical string used for equality/deduplication in maps and
// sets, since bv.Poly is not itself comparable with ==.
func (c Constraint) key() string {
	if c.hasRHS {
		return fmt.Sprintf("%s(%s,%s)", c.kind, c.lhs.String(), c.rhs.String())
	}
	return fmt.Sprintf("%s(%s,%d)", c.kind, c.lhs.String(), c.k)
}

func (c Constraint) String() string {
	switch c.kind {
	case KindEq:
		if c.k != 0 {
			return fmt.Sprintf("%s = %d", c.lhs, c.k)
		}
		return fmt.Sprintf("%s = 0", c.lhs)
	case KindUle:
		return fmt.Sprintf("%s ≤ %s", c.lhs, c.rhs)
	case KindUlt:
		return fmt.Sprintf("%s < %s", c.lhs, c.rhs)
	case KindUge:
		return fmt.Sprintf("%s ≥ %d", c.lhs, c.k)
	case KindMulOvfl:
		return fmt.Sprintf("umul_ovfl(%s,%s)", c.lhs, c.rhs)
	case KindOdd:
		return fmt.Sprintf("odd(%s)", c.lhs)
	case KindEven:
		return fmt.Sprintf("even(%s)", c.lhs)
	case KindParity:
		return fmt.Sprintf("parity(%s,%d)", c.lhs, c.k)
	default:
		return "?"
	}
}

// Eval computes the constraint's boolean value under model, reporting ok
// = false if some operand could not be fully evaluated (try_eval failed).
func (c Constraint) Eval(model map[uint32]uint64) (bool, bool) { return c.eval(model) }

// eval computes the constraint's boolean value under model, reporting ok
// = false if some operand could not be fully evaluated (try_eval failed).
func (c Constraint) eval(model map[uint32]uint64) (bool, bool) {
	w := c.lhs.Width()
	lv, ok := c.lhs.TryEval(model)
	if !ok {
		return false, false
	}
	switch c.kind {
	case KindEq:
		return lv == c.k, true
	case KindUle, KindUlt, KindMulOvfl:
		rv, ok := c.rhs.TryEval(model)
		if !ok {
			return false, false
		}
		switch c.kind {
		case KindUle:
			return lv <= rv, true
		case KindUlt:
			return lv < rv, true
		default: // KindMulOvfl
			return w.MulOverflows(lv, rv), true
		}
	case KindUge:
		return lv >= c.k, true
	case KindOdd:
		return lv&1 == 1, true
	case KindEven:
		return lv&1 == 0, true
	case KindParity:
		if c.k == 0 {
			return true, true
		}
		mask := (uint64(1) << c.k) - 1
		return lv&mask == 0, true
	default:
		return false, false
	}
}

// SignedConstraint is an atomic constraint together with a polarity: Pos
// wraps c unchanged, Neg wraps its negation.
type SignedConstraint struct {
	C   Constraint
	Neg bool
}

// Pos returns the positively-signed form of c.
func Pos(c Constraint) SignedConstraint { return SignedConstraint{C: c} }

// NegOf returns the negatively-signed form of c.
func NegOf(c Constraint) SignedConstraint { return SignedConstraint{C: c, Neg: true} }

// Negate returns the logical negation of sc.
func (sc SignedConstraint) Negate() SignedConstraint {
	return SignedConstraint{C: sc.C, Neg: !sc.Neg}
}

// Key is a canonical string identifying sc, used for dedup in conflict
// sets and trail lookups.
func (sc SignedConstraint) Key() string {
	if sc.Neg {
		return "!" + sc.C.key()
	}
	return sc.C.key()
}

func (sc SignedConstraint) String() string {
	if sc.Neg {
		return "¬(" + sc.C.String() + ")"
	}
	return sc.C.String()
}

// IsCurrentlyTrue reports whether sc evaluates to true under model. It
// returns false (not "unknown") when the constraint cannot be fully
// evaluated, matching the spec's is_currently_true contract: callers that
// need the "is forced" variant also consult bvalue.
func (sc SignedConstraint) IsCurrentlyTrue(model map[uint32]uint64) bool {
	v, ok := sc.C.eval(model)
	return ok && v != sc.Neg
}

// IsCurrentlyFalse reports whether sc evaluates to false under model.
func (sc SignedConstraint) IsCurrentlyFalse(model map[uint32]uint64) bool {
	v, ok := sc.C.eval(model)
	return ok && v == sc.Neg
}
