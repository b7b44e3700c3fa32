package scon

import "github.com/cespare/polysat/bv"

// Inequality is a view of a ule/ult signed constraint as "lhs <= rhs" or
// "lhs < rhs" (Strict). Negating a non-strict <= turns it into a strict >
// with operands swapped, and vice versa for <, exactly as spec.md §3
// describes.
type Inequality struct {
	Lhs, Rhs bv.Poly
	Strict   bool
	// Critical is the original signed constraint this view was extracted
	// from: rules insert ¬Critical into emitted lemmas.
	Critical SignedConstraint
}

// FromULE extracts an Inequality view from a signed ule/ult constraint,
// honoring its polarity. Returns ok=false if sc is not a ule/ult
// constraint.
func FromULE(sc SignedConstraint) (Inequality, bool) {
	switch sc.C.Kind() {
	case KindUle:
		if !sc.Neg {
			return Inequality{Lhs: sc.C.Lhs(), Rhs: sc.C.Rhs(), Strict: false, Critical: sc}, true
		}
		// ¬(lhs <= rhs) == rhs < lhs
		return Inequality{Lhs: sc.C.Rhs(), Rhs: sc.C.Lhs(), Strict: true, Critical: sc}, true
	case KindUlt:
		if !sc.Neg {
			return Inequality{Lhs: sc.C.Lhs(), Rhs: sc.C.Rhs(), Strict: true, Critical: sc}, true
		}
		// ¬(lhs < rhs) == rhs <= lhs
		return Inequality{Lhs: sc.C.Rhs(), Rhs: sc.C.Lhs(), Strict: false, Critical: sc}, true
	default:
		return Inequality{}, false
	}
}

// AsConstraint rebuilds the ule/ult constraint this inequality represents
// (ignoring which constraint it was originally extracted from).
func (i Inequality) AsConstraint() Constraint {
	if i.Strict {
		return Ult(i.Lhs, i.Rhs)
	}
	return Ule(i.Lhs, i.Rhs)
}
