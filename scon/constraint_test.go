package scon

import (
	"testing"

	"github.com/cespare/polysat/bv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintEvalUle(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewVar(bv.NewPVar(1, w))
	y := bv.NewVar(bv.NewPVar(2, w))
	c := Ule(x, y)
	model := map[uint32]uint64{1: 2, 2: 5}
	sc := Pos(c)
	assert.True(t, sc.IsCurrentlyTrue(model))
	assert.False(t, sc.IsCurrentlyFalse(model))

	model2 := map[uint32]uint64{1: 9, 2: 5}
	assert.False(t, sc.IsCurrentlyTrue(model2))
	assert.True(t, sc.IsCurrentlyFalse(model2))
}

func TestSignedConstraintNegate(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewVar(bv.NewPVar(1, w))
	sc := Pos(Odd(p))
	assert.False(t, sc.Neg)
	nsc := sc.Negate()
	assert.True(t, nsc.Neg)
	assert.Equal(t, sc.C.key(), nsc.C.key())
}

func TestFromULEHandlesNegation(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewVar(bv.NewPVar(1, w))
	y := bv.NewVar(bv.NewPVar(2, w))
	sc := NegOf(Ule(x, y))

	ineq, ok := FromULE(sc)
	require.True(t, ok)
	assert.True(t, ineq.Strict)
	assert.True(t, ineq.Lhs.Equal(y))
	assert.True(t, ineq.Rhs.Equal(x))
}

func TestFromULERejectsOtherKinds(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewVar(bv.NewPVar(1, w))
	_, ok := FromULE(Pos(Odd(p)))
	assert.False(t, ok)
}

func TestMulOvflEval(t *testing.T) {
	w := bv.Width(4) // mod 16
	x := bv.NewConst(w, 5)
	y := bv.NewConst(w, 4)
	sc := Pos(MulOvfl(x, y)) // 5*4=20 >= 16: overflows
	assert.True(t, sc.IsCurrentlyTrue(nil))
}

func TestParityEval(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewConst(w, 0b1100)
	assert.True(t, Pos(Parity(p, 2)).IsCurrentlyTrue(nil))
	assert.False(t, Pos(Parity(p, 3)).IsCurrentlyTrue(nil))
}
