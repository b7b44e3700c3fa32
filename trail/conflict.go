package trail

import "github.com/cespare/polysat/scon"

// Clause is an ordered disjunction of signed constraints -- a finished
// lemma's literal list.
type Clause []scon.SignedConstraint

// Lemma is a finished clause tagged with the name of the rule that
// produced it, for debugging and for the SAT core's provenance tracking.
type Lemma struct {
	RuleTag string
	Clause  Clause
}

// Conflict is the set-like, insertion-ordered carrier of signed
// constraints driving a conflict, plus the lemmas derived from it. The
// insertion-order-with-dedup behavior mirrors the "seen" map idiom a
// DPLL solver uses to strip duplicate literals out of an input clause.
type Conflict struct {
	order []scon.SignedConstraint
	seen  map[string]bool
	Lemmas []Lemma
}

// NewConflict returns an empty conflict.
func NewConflict() *Conflict {
	return &Conflict{seen: make(map[string]bool)}
}

// Add inserts sc into the conflict if it is not already present.
func (c *Conflict) Add(sc scon.SignedConstraint) {
	key := sc.Key()
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.order = append(c.order, sc)
}

// Constraints returns the conflict's members in insertion order.
func (c *Conflict) Constraints() []scon.SignedConstraint { return c.order }

// AddLemma records a finished lemma tagged with the rule that derived it.
func (c *Conflict) AddLemma(ruleTag string, clause Clause) {
	c.Lemmas = append(c.Lemmas, Lemma{RuleTag: ruleTag, Clause: clause})
}
