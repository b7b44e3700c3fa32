package polysat

import (
	"testing"

	"github.com/cespare/polysat/bv"
	"github.com/cespare/polysat/scon"
	"github.com/cespare/polysat/trail"
	"github.com/stretchr/testify/assert"
)

func TestIsForcedTrueFalse(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewVar(bv.NewPVar(1, w))
	c := scon.Odd(p)

	tr := trail.New()
	tr.PushDecision(1, 3) // odd
	env := NewEnv(tr, nil)

	assert.True(t, env.IsForcedTrue(scon.Pos(c)))
	assert.False(t, env.IsForcedFalse(scon.Pos(c)))

	tr2 := trail.New()
	tr2.PushBoolean(scon.NegOf(c), false)
	env2 := NewEnv(tr2, nil)
	assert.True(t, env2.IsForcedFalse(scon.Pos(c)))
}

func TestIsForcedEqDiseqOdd(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewVar(bv.NewPVar(1, w))

	tr := trail.New()
	tr.PushDecision(1, 5)
	env := NewEnv(tr, nil)

	assert.True(t, env.IsForcedEq(p, 5))
	assert.False(t, env.IsForcedEq(p, 4))

	_, diseq := env.IsForcedDiseq(p, 4)
	assert.True(t, diseq)
	_, diseqSelf := env.IsForcedDiseq(p, 5)
	assert.False(t, diseqSelf)

	_, odd := env.IsForcedOdd(p)
	assert.True(t, odd)
}

func TestIsNonOverflowSemantic(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewVar(bv.NewPVar(1, w))
	y := bv.NewVar(bv.NewPVar(2, w))

	tr := trail.New()
	tr.PushDecision(1, 3)
	tr.PushDecision(2, 2)
	env := NewEnv(tr, nil)

	assert.True(t, env.IsNonOverflow(x, y)) // 3*2=6 < 16

	tr2 := trail.New()
	tr2.PushDecision(1, 5)
	tr2.PushDecision(2, 5)
	env2 := NewEnv(tr2, nil)
	assert.False(t, env2.IsNonOverflow(x, y)) // 25 >= 16
}

func TestIsNonOverflowWitnessFallsBackToTrail(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewVar(bv.NewPVar(1, w))
	y := bv.NewVar(bv.NewPVar(2, w))

	tr := trail.New()
	tr.PushBoolean(scon.NegOf(scon.MulOvfl(x, y)), false)
	env := NewEnv(tr, nil)

	got, ok := env.IsNonOverflowWitness(x, y)
	assert.True(t, ok)
	assert.True(t, got.Neg)
	assert.Equal(t, scon.KindMulOvfl, got.C.Kind())
}

func TestIsNonOverflowWitnessFails(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewVar(bv.NewPVar(1, w))
	y := bv.NewVar(bv.NewPVar(2, w))

	tr := trail.New()
	env := NewEnv(tr, nil)
	_, ok := env.IsNonOverflowWitness(x, y)
	assert.False(t, ok)
	_ = w
}
