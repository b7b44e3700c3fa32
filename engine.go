package polysat

import (
	"fmt"

	"github.com/kr/pretty"

	"github.com/cespare/polysat/bv"
	"github.com/cespare/polysat/scon"
	"github.com/cespare/polysat/trail"
)

// ruleOrder is the fixed dispatch order of spec.md §4.4: try_mul_bounds,
// try_parity, try_factor_equality, try_ugt_x, try_ugt_y, try_ugt_z,
// try_y_l_ax_and_x_l_z, try_tangent. spec.md §4.5's rule catalogue lists
// two further rules, mul_eq_1 and mul_odd, that the §4.4 ordering never
// names explicitly; both match the same "a*x + b <=+ y" shape as
// mul_bounds, so they are tried as siblings immediately after it, before
// falling through to parity.
var ruleOrder = []struct {
	tag string
	try ruleFunc
}{
	{"mul_bounds", tryMulBounds},
	{"mul_eq_1", tryMulEq1},
	{"mul_odd", tryMulOdd},
	{"parity", tryParity},
	{"factor_equality", tryFactorEquality},
	{"ugt_x", tryUgtX},
	{"ugt_y", tryUgtY},
	{"ugt_z", tryUgtZ},
	{"y_l_ax_and_x_l_z", tryYLAXAndXLZ},
	{"tangent", tryTangent},
}

// Engine is the rule-engine driver (C6): given a target variable and a
// conflict, it tries each saturation rule in the fixed order above until
// one fires.
type Engine struct {
	Env     *Env
	builder *LemmaBuilder
	ruleTag string
}

// NewEngine returns an Engine reading from env.
func NewEngine(env *Env) *Engine {
	return &Engine{Env: env, builder: NewLemmaBuilder(env)}
}

// SetRule stashes a human-readable tag to use in place of each rule's own
// name on every lemma emitted until SetRule is called again, for
// provenance or debugging. An empty tag (the default) lets each rule tag
// its own lemmas.
func (e *Engine) SetRule(tag string) { e.ruleTag = tag }

// Perform implements C6.perform(v, conflict): for each constraint in
// conflict, try perform1; stop at the first rule that fires.
func (e *Engine) Perform(v bv.PVar, conflict *trail.Conflict) bool {
	for _, c := range conflict.Constraints() {
		if e.perform1(v, c, conflict) {
			return true
		}
	}
	return false
}

// perform1 is perform(v, c, conflict) from spec.md §4.4.
func (e *Engine) perform1(v bv.PVar, c scon.SignedConstraint, conflict *trail.Conflict) bool {
	switch c.C.Kind() {
	case scon.KindUle, scon.KindUlt:
	default:
		return false
	}
	if c.IsCurrentlyTrue(e.Env.Trail.Model()) {
		return false
	}
	i, ok := scon.FromULE(c)
	if !ok {
		return false
	}
	for _, r := range ruleOrder {
		tag := r.tag
		if e.ruleTag != "" {
			tag = e.ruleTag
		}
		if r.try(e.Env, e.builder, v, i, conflict, tag) {
			return true
		}
	}
	return false
}

// Explain renders v's current model value, trail entries and the
// conflict's literals for debugging, in the style of a pretty.Println
// dump of solver state.
func (e *Engine) Explain(v bv.PVar, conflict *trail.Conflict) string {
	val, ok := e.Env.Trail.Model()[v.ID()]
	return fmt.Sprintf("var=%s value=%v entries=%s conflict=%s",
		v, valueOrUnset(val, ok), pretty.Sprint(e.Env.Trail.Entries()), pretty.Sprint(conflict.Constraints()))
}

func valueOrUnset(val uint64, ok bool) interface{} {
	if !ok {
		return "unset"
	}
	return val
}
