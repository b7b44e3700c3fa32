package trail

import (
	"testing"

	"github.com/cespare/polysat/bv"
	"github.com/cespare/polysat/scon"
	"github.com/stretchr/testify/assert"
)

func TestBValueTracksPolarity(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewVar(bv.NewPVar(1, w))
	c := scon.Odd(p)

	tr := New()
	assert.Equal(t, Undef, tr.BValue(scon.Pos(c)))

	tr.PushBoolean(scon.NegOf(c), false)
	assert.Equal(t, False, tr.BValue(scon.Pos(c)))
	assert.Equal(t, True, tr.BValue(scon.NegOf(c)))
}

func TestPushDecisionUpdatesModel(t *testing.T) {
	tr := New()
	tr.PushDecision(1, 7)
	assert.Equal(t, uint64(7), tr.Model()[1])
	assert.Len(t, tr.Entries(), 1)
	assert.False(t, tr.Entries()[0].Boolean)
}

func TestConflictDedupsInsertionOrder(t *testing.T) {
	w := bv.Width(4)
	p := bv.NewVar(bv.NewPVar(1, w))
	c1 := scon.Pos(scon.Odd(p))
	c2 := scon.Pos(scon.Even(p))

	conf := NewConflict()
	conf.Add(c1)
	conf.Add(c2)
	conf.Add(c1) // duplicate, ignored

	got := conf.Constraints()
	assert.Len(t, got, 2)
	assert.Equal(t, c1.Key(), got[0].Key())
	assert.Equal(t, c2.Key(), got[1].Key())
}

func TestAddLemmaRecordsTag(t *testing.T) {
	conf := NewConflict()
	conf.AddLemma("ugt_x", Clause{})
	assert.Equal(t, "ugt_x", conf.Lemmas[0].RuleTag)
}
