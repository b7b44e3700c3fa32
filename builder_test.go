package polysat

import (
	"testing"

	"github.com/cespare/polysat/bv"
	"github.com/cespare/polysat/scon"
	"github.com/cespare/polysat/trail"
	"github.com/stretchr/testify/assert"
)

func TestLemmaBuilderInsertEvalRequiresCurrentlyFalse(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewVar(bv.NewPVar(1, w))

	tr := trail.New()
	tr.PushDecision(1, 5)
	env := NewEnv(tr, nil)
	b := NewLemmaBuilder(env)

	assert.Panics(t, func() {
		b.InsertEval(scon.Pos(scon.EqK(p, 5))) // currently true, not false
	})

	b.Reset()
	assert.NotPanics(t, func() {
		b.InsertEval(scon.Pos(scon.EqK(p, 4))) // currently false
	})
}

func TestLemmaBuilderInsertRequiresTrailFalse(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewVar(bv.NewPVar(1, w))
	c := scon.Odd(p)

	tr := trail.New()
	tr.PushBoolean(scon.NegOf(c), false)
	env := NewEnv(tr, nil)
	b := NewLemmaBuilder(env)

	// NegOf(c) was asserted true, so c itself (Pos(c)) is trail-false.
	assert.NotPanics(t, func() { b.Insert(scon.Pos(c)) })

	b.Reset()
	assert.Panics(t, func() { b.Insert(scon.NegOf(c)) })
}

func TestLemmaBuilderPropagateBuildsClauseInOrder(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewVar(bv.NewPVar(1, w))
	q := bv.NewVar(bv.NewPVar(2, w))
	critical := scon.Pos(scon.Ule(p, q))

	tr := trail.New()
	tr.PushBoolean(critical, false)
	env := NewEnv(tr, nil)
	b := NewLemmaBuilder(env)

	consequent := scon.Pos(scon.EqK(p, 0))
	ok := b.Propagate(trail.NewConflict(), "test_rule", critical, consequent)
	assert.True(t, ok)
	clause := b.Build()
	assert.Len(t, clause, 2)
	assert.Equal(t, critical.Negate().Key(), clause[0].Key())
	assert.Equal(t, consequent.Key(), clause[1].Key())
}

func TestLemmaBuilderAddConflictRejectsAlreadyTrueConsequent(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewVar(bv.NewPVar(1, w))
	q := bv.NewVar(bv.NewPVar(2, w))
	critical := scon.Pos(scon.Ule(p, q))
	consequent := scon.Pos(scon.EqK(p, 0))

	tr := trail.New()
	tr.PushBoolean(critical, false)   // bvalue(critical) = True, so ¬critical is trail-false
	tr.PushBoolean(consequent, false) // bvalue(consequent) = True
	tr.PushDecision(1, 3)             // p=3: consequent p=0 is semantically false, so forced false

	env := NewEnv(tr, nil)
	b := NewLemmaBuilder(env)

	assert.Panics(t, func() {
		b.AddConflict(trail.NewConflict(), "test_rule", critical, nil, consequent)
	})
}
