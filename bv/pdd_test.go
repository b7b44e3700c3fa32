package bv

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolyArithmeticWrapsModulo(t *testing.T) {
	w := Width(4) // mod 16
	x := NewVar(NewPVar(1, w))
	p := x.Mul(NewConst(w, 5)).Add(NewConst(w, 3)) // 5x + 3

	model := map[uint32]uint64{1: 7}
	got, ok := p.TryEval(model)
	require.True(t, ok)
	assert.EqualValues(t, (5*7+3)%16, got)
}

func TestPolyTryEvalMissingVar(t *testing.T) {
	w := Width(4)
	p := NewVar(NewPVar(1, w))
	_, ok := p.TryEval(map[uint32]uint64{2: 1})
	assert.False(t, ok)
}

func TestPolyFactorLinear(t *testing.T) {
	w := Width(5)
	v := NewPVar(1, w)
	y := NewPVar(2, w)
	// p = 3*v + (y + 1)
	p := NewVar(v).MulConst(3).Add(NewVar(y)).Add(NewConst(w, 1))

	a, b, ok := p.Factor(v)
	require.True(t, ok)
	aVal, aok := a.IsVal()
	require.True(t, aok)
	assert.EqualValues(t, 3, aVal)

	model := map[uint32]uint64{2: 9}
	bVal, bok := b.TryEval(model)
	require.True(t, bok)
	assert.EqualValues(t, 10, bVal)
}

func TestPolyFactorRejectsHigherDegree(t *testing.T) {
	w := Width(4)
	v := NewPVar(1, w)
	p := NewVar(v).Mul(NewVar(v)) // v^2
	_, _, ok := p.Factor(v)
	assert.False(t, ok)
}

func TestPolyIsUnary(t *testing.T) {
	w := Width(4)
	v := NewPVar(7, w)
	p := NewVar(v).MulConst(5)
	got, c, ok := p.IsUnary()
	require.True(t, ok)
	assert.Equal(t, v, got)
	assert.EqualValues(t, 5, c)

	// Adding a constant breaks unary-ness.
	p2 := p.Add(NewConst(w, 1))
	_, _, ok2 := p2.IsUnary()
	assert.False(t, ok2)
}

func TestPolyIsValIsOneIsMax(t *testing.T) {
	w := Width(3) // mod 8
	c, ok := NewConst(w, 5).IsVal()
	require.True(t, ok)
	assert.EqualValues(t, 5, c)

	assert.True(t, NewConst(w, 1).IsOne())
	assert.True(t, NewConst(w, 7).IsMax())
	assert.False(t, NewConst(w, 6).IsMax())
}

func TestPolyTryDivExact(t *testing.T) {
	w := Width(5) // mod 32
	p := NewConst(w, 12)
	q, ok := p.TryDiv(3)
	require.True(t, ok)
	val, _ := q.IsVal()
	assert.EqualValues(t, 4, val)
}

func TestPolyTryDivFailsWhenNotDivisible(t *testing.T) {
	w := Width(4) // mod 16
	p := NewConst(w, 6)
	_, ok := p.TryDiv(4) // 6 has only one trailing zero bit, 4 needs two
	assert.False(t, ok)
}

func TestPolyAddMatchesBigIntModReference(t *testing.T) {
	w := Width(5)
	mod := w.TwoToN()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := uint64(rng.Intn(int(mod)))
		b := uint64(rng.Intn(int(mod)))
		got, _ := NewConst(w, a).Add(NewConst(w, b)).IsVal()
		sum := new(big.Int).Add(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
		want := sum.Mod(sum, new(big.Int).SetUint64(mod)).Uint64()
		assert.EqualValues(t, want, got)
	}
}

func TestDegreeAndMulExpandsExponents(t *testing.T) {
	w := Width(4)
	v := NewPVar(1, w)
	p := NewVar(v).Mul(NewVar(v)).Mul(NewVar(v)) // v^3
	assert.Equal(t, 3, p.Degree(v))
}
