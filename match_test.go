package polysat

import (
	"testing"

	"github.com/cespare/polysat/bv"
	"github.com/cespare/polysat/scon"
	"github.com/cespare/polysat/trail"
	"github.com/stretchr/testify/assert"
)

func TestMatchMulX(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	y := bv.NewVar(bv.NewPVar(2, w))
	z := bv.NewVar(bv.NewPVar(3, w))

	c := scon.Ule(y.Mul(x.Poly()), z.Mul(x.Poly()))
	i, ok := scon.FromULE(scon.Pos(c))
	assert.True(t, ok)

	gotY, gotZ, ok := matchMulX(i, x)
	assert.True(t, ok)
	assert.True(t, gotY.Equal(y))
	assert.True(t, gotZ.Equal(z))
}

func TestMatchMulXRejectsAdditiveTerm(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	y := bv.NewVar(bv.NewPVar(2, w))
	z := bv.NewVar(bv.NewPVar(3, w))

	lhs := y.Mul(x.Poly()).Add(bv.NewConst(w, 1))
	c := scon.Ule(lhs, z.Mul(x.Poly()))
	i, _ := scon.FromULE(scon.Pos(c))

	_, _, ok := matchMulX(i, x)
	assert.False(t, ok)
}

func TestMatchYLeAX(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	y := bv.NewVar(bv.NewPVar(2, w))
	a := bv.NewConst(w, 3)

	c := scon.Ule(y, a.Mul(x.Poly()))
	i, _ := scon.FromULE(scon.Pos(c))

	gotY, gotA, ok := matchYLeAX(i, x)
	assert.True(t, ok)
	assert.True(t, gotY.Equal(y))
	assert.True(t, gotA.Equal(a))
}

func TestMatchYLeAXRejectsCoefficientOne(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	y := bv.NewVar(bv.NewPVar(2, w))

	c := scon.Ule(y, x.Poly())
	i, _ := scon.FromULE(scon.Pos(c))

	_, _, ok := matchYLeAX(i, x)
	assert.False(t, ok)
}

func TestMatchAXPlusBLeY(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	a := bv.NewConst(w, 3)
	b := bv.NewConst(w, 5)
	y := bv.NewVar(bv.NewPVar(2, w))

	lhs := a.Mul(x.Poly()).Add(b)
	c := scon.Ule(lhs, y)
	i, _ := scon.FromULE(scon.Pos(c))

	gotA, gotB, gotY, ok := matchAXPlusBLeY(i, x)
	assert.True(t, ok)
	assert.True(t, gotA.Equal(a))
	assert.True(t, gotB.Equal(b))
	assert.True(t, gotY.Equal(y))
}

func TestMatchTangentRequiresNonlinearAndNonconstant(t *testing.T) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	xp := x.Poly()
	sq := xp.Mul(xp)
	y := bv.NewVar(bv.NewPVar(2, w))

	nonlinear, _ := scon.FromULE(scon.Pos(scon.Ule(sq, y)))
	assert.True(t, matchTangent(nonlinear, x))

	linear, _ := scon.FromULE(scon.Pos(scon.Ule(xp, y)))
	assert.False(t, matchTangent(linear, x))

	constLhs, _ := scon.FromULE(scon.Pos(scon.Ule(bv.NewConst(w, 1), sq)))
	assert.False(t, matchTangent(constLhs, x))
}

func TestMatchTrailULEFindsUnresolvedLiteral(t *testing.T) {
	w := bv.Width(4)
	zp := bv.NewVar(bv.NewPVar(3, w))
	yp := bv.NewVar(bv.NewPVar(2, w))

	tr := trail.New()
	tr.PushBoolean(scon.Pos(scon.Ule(zp, yp)), false)

	env := NewEnv(tr, nil)
	got, ok := matchTrailULE(env, zp)
	assert.True(t, ok)
	assert.True(t, got.Rhs.Equal(yp))

	gotRhs, ok := matchTrailULERhs(env, yp)
	assert.True(t, ok)
	assert.True(t, gotRhs.Lhs.Equal(zp))
}

func TestMatchTrailULESkipsResolvedEntries(t *testing.T) {
	w := bv.Width(4)
	zp := bv.NewVar(bv.NewPVar(3, w))
	yp := bv.NewVar(bv.NewPVar(2, w))

	tr := trail.New()
	tr.PushBoolean(scon.Pos(scon.Ule(zp, yp)), true)

	env := NewEnv(tr, nil)
	_, ok := matchTrailULE(env, zp)
	assert.False(t, ok)
}
