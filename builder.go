package polysat

import (
	"errors"
	"fmt"

	"github.com/cespare/polysat/scon"
	"github.com/cespare/polysat/trail"
)

// ErrNotCurrentlyFalse is the panic value raised when a rule inserts an
// eval literal that does not currently evaluate false -- a violation of
// the lemma invariants in spec.md §3 and therefore a programmer error,
// not a runtime condition callers should recover from.
var ErrNotCurrentlyFalse = errors.New("polysat: lemma literal is not currently false")

// ErrNotTrailFalse is the panic value raised when a rule inserts a
// trail-backed literal whose bvalue is not false.
var ErrNotTrailFalse = errors.New("polysat: lemma literal is not trail-false")

// ErrConsequentNotForcedFalse and ErrConsequentAlreadyTrue guard the
// add_conflict finalization invariant (spec.md §4.5.11): the consequent
// must be forced false and not already bvalue = true.
var (
	ErrConsequentNotForcedFalse = errors.New("polysat: conflict consequent is not forced false")
	ErrConsequentAlreadyTrue    = errors.New("polysat: conflict consequent is already true on the trail")
)

// LemmaBuilder accumulates the disjunction of signed constraints that
// will become a finished clause (spec.md §4.3): insert_eval for literals
// expected to be currently-false in the model, insert for literals that
// must additionally be false on the trail.
type LemmaBuilder struct {
	env  *Env
	lits []scon.SignedConstraint
}

// NewLemmaBuilder returns a builder bound to env, used to validate
// literals as they are inserted.
func NewLemmaBuilder(env *Env) *LemmaBuilder {
	return &LemmaBuilder{env: env}
}

// Reset empties the builder, reusing its backing storage.
func (b *LemmaBuilder) Reset() {
	b.lits = b.lits[:0]
}

// InsertEval appends lit, requiring it currently evaluate false under the
// model (a witness that need not be on the trail). Panics if the
// invariant is violated: a rule that calls InsertEval with a
// currently-true literal has a bug in its preconditions.
func (b *LemmaBuilder) InsertEval(lit scon.SignedConstraint) {
	if !lit.IsCurrentlyFalse(b.env.Trail.Model()) {
		panic(fmt.Errorf("%w: %s", ErrNotCurrentlyFalse, lit))
	}
	b.lits = append(b.lits, lit)
}

// Insert appends lit, requiring bvalue(lit) = false (the stronger,
// trail-backed commitment).
func (b *LemmaBuilder) Insert(lit scon.SignedConstraint) {
	if b.env.Trail.BValue(lit) != trail.False {
		panic(fmt.Errorf("%w: %s", ErrNotTrailFalse, lit))
	}
	b.lits = append(b.lits, lit)
}

// insertConsequent appends the propagated or conflicting consequent
// literal without a falsity check -- it is, by construction, the one
// literal in the clause that is not required to be false.
func (b *LemmaBuilder) insertConsequent(lit scon.SignedConstraint) {
	b.lits = append(b.lits, lit)
}

// insertForced appends lit, accepting either the model-false or the
// trail-false justification -- used for premises whose provenance varies
// by call site (a trail-scanned witness literal is trail-false but may
// not agree with the model; a semantically-confirmed witness is the
// reverse).
func (b *LemmaBuilder) insertForced(lit scon.SignedConstraint) {
	if lit.IsCurrentlyFalse(b.env.Trail.Model()) {
		b.lits = append(b.lits, lit)
		return
	}
	if b.env.Trail.BValue(lit) == trail.False {
		b.lits = append(b.lits, lit)
		return
	}
	panic(fmt.Errorf("%w: %s", ErrNotCurrentlyFalse, lit))
}

// Build returns the finished clause in insertion order.
func (b *LemmaBuilder) Build() trail.Clause {
	out := make(trail.Clause, len(b.lits))
	copy(out, b.lits)
	return out
}

// Propagate finalizes a lemma in propagation mode (spec.md §4.5.11):
// insert ¬critical via insertForced (accepted when it is false under the
// model or false on the trail; it is not required to be false under the
// model), then every consequent literal -- usually one, but
// some rules (ugt_x, mul_bounds) offer several alternative disjuncts --
// and register the clause with conflict under ruleTag. Returns true (a
// lemma was produced).
func (b *LemmaBuilder) Propagate(conflict *trail.Conflict, ruleTag string, critical scon.SignedConstraint, consequents ...scon.SignedConstraint) bool {
	b.insertForced(critical.Negate())
	for _, c := range consequents {
		b.insertConsequent(c)
	}
	conflict.AddLemma(ruleTag, b.Build())
	return true
}

// AddConflict finalizes a lemma in conflict mode (spec.md §4.5.11):
// insert ¬critical1 (and ¬critical2 if distinct), both of which must be
// trail-false, then require the consequent is forced false and not
// already bvalue = true, insert it, and register the clause.
func (b *LemmaBuilder) AddConflict(conflict *trail.Conflict, ruleTag string, critical1 scon.SignedConstraint, critical2 *scon.SignedConstraint, consequent scon.SignedConstraint) bool {
	b.Insert(critical1.Negate())
	if critical2 != nil && critical2.Key() != critical1.Key() {
		b.Insert(critical2.Negate())
	}
	if !b.env.IsForcedFalse(consequent) {
		panic(fmt.Errorf("%w: %s", ErrConsequentNotForcedFalse, consequent))
	}
	if b.env.Trail.BValue(consequent) == trail.True {
		panic(fmt.Errorf("%w: %s", ErrConsequentAlreadyTrue, consequent))
	}
	b.insertConsequent(consequent)
	conflict.AddLemma(ruleTag, b.Build())
	return true
}
