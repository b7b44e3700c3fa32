package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/kr/pretty"

	"github.com/cespare/polysat"
	"github.com/cespare/polysat/bv"
	"github.com/cespare/polysat/scon"
	"github.com/cespare/polysat/trail"
)

// scenario builds one fixed conflict and trail state demonstrating a single
// saturation rule, returning the target variable, the environment, and the
// conflict to run the engine against.
type scenario func() (bv.PVar, *polysat.Env, *trail.Conflict)

var scenarios = map[string]scenario{
	"ugt_x":      ugtXScenario,
	"mul_eq_1":   mulEq1Scenario,
	"parity":     parityScenario,
	"mul_bounds": mulBoundsScenario,
	"tangent":    tangentScenario,
}

func ugtXScenario() (bv.PVar, *polysat.Env, *trail.Conflict) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	y := bv.NewVar(bv.NewPVar(2, w))
	z := bv.NewVar(bv.NewPVar(3, w))

	c := scon.Ule(y.Mul(x.Poly()), z.Mul(x.Poly()))

	tr := trail.New()
	tr.PushBoolean(scon.Pos(c), false)
	tr.PushBoolean(scon.NegOf(scon.MulOvfl(x.Poly(), y)), false)

	conflict := trail.NewConflict()
	conflict.Add(scon.Pos(c))
	return x, polysat.NewEnv(tr, nil), conflict
}

func mulEq1Scenario() (bv.PVar, *polysat.Env, *trail.Conflict) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	a := bv.NewConst(w, 1)
	b := bv.NewConst(w, 15)
	y := bv.NewConst(w, 0)

	c := scon.Ule(a.Mul(x.Poly()).Add(b), y)

	tr := trail.New()
	tr.PushBoolean(scon.Pos(c), false)
	tr.PushBoolean(scon.NegOf(scon.MulOvfl(a, x.Poly())), false)

	conflict := trail.NewConflict()
	conflict.Add(scon.Pos(c))
	return x, polysat.NewEnv(tr, nil), conflict
}

func parityScenario() (bv.PVar, *polysat.Env, *trail.Conflict) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	a := bv.NewConst(w, 3)
	b := bv.NewConst(w, 1)
	y := bv.NewConst(w, 0)

	c := scon.Ule(a.Mul(x.Poly()).Add(b), y)

	tr := trail.New()
	tr.PushDecision(1, 3)
	tr.PushBoolean(scon.Pos(c), false)

	conflict := trail.NewConflict()
	conflict.Add(scon.Pos(c))
	return x, polysat.NewEnv(tr, nil), conflict
}

func mulBoundsScenario() (bv.PVar, *polysat.Env, *trail.Conflict) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	a := bv.NewConst(w, 3)
	b := bv.NewConst(w, 0)
	y := bv.NewConst(w, 0)

	c := scon.Ule(a.Mul(x.Poly()).Add(b), y)

	tr := trail.New()
	tr.PushDecision(1, 5)
	tr.PushBoolean(scon.Pos(c), false)
	tr.PushBoolean(scon.Pos(scon.Ule(x.Poly(), bv.NewConst(w, 2))), false)

	conflict := trail.NewConflict()
	conflict.Add(scon.Pos(c))
	return x, polysat.NewEnv(tr, nil), conflict
}

func tangentScenario() (bv.PVar, *polysat.Env, *trail.Conflict) {
	w := bv.Width(4)
	x := bv.NewPVar(1, w)
	xp := x.Poly()
	sq := xp.Mul(xp)
	y := bv.NewVar(bv.NewPVar(2, w))

	c := scon.Ule(sq, y)

	tr := trail.New()
	tr.PushDecision(1, 3)
	tr.PushDecision(2, 2)
	tr.PushBoolean(scon.Pos(c), false)

	conflict := trail.NewConflict()
	conflict.Add(scon.Pos(c))
	return x, polysat.NewEnv(tr, nil), conflict
}

func main() {
	log.SetFlags(0)
	list := flag.Bool("list", false, "list the built-in scenarios and exit")
	explain := flag.Bool("explain", false, "dump trail and conflict state before running")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `polysat: saturation-rule demonstrations.

Usage:

  polysat [-explain] [scenario ...]

Each scenario name builds a fixed trail and conflict exercising one
saturation rule and reports the lemma the rule engine derives. With no
arguments, every built-in scenario is run.

`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		for _, name := range scenarioNames() {
			fmt.Println(name)
		}
		return
	}

	names := flag.Args()
	if len(names) == 0 {
		names = scenarioNames()
	}

	for _, name := range names {
		build, ok := scenarios[name]
		if !ok {
			log.Fatalf("unknown scenario %q (use -list to see the built-ins)", name)
		}
		x, env, conflict := build()
		eng := polysat.NewEngine(env)
		if *explain {
			fmt.Fprintln(os.Stderr, eng.Explain(x, conflict))
		}
		fired := eng.Perform(x, conflict)
		fmt.Printf("%s: fired=%v lemmas=%d\n", name, fired, len(conflict.Lemmas))
		for _, lemma := range conflict.Lemmas {
			fmt.Printf("  [%s] %s\n", lemma.RuleTag, pretty.Sprint(lemma.Clause))
		}
	}
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
