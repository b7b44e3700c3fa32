package bv

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// PVar is a dense handle for a polynomial variable of a fixed bit width.
// Like sourceVar in a DPLL solver's variable table, callers are free to
// assign ids however they like; PVar itself does not care whether ids are
// contiguous.
type PVar struct {
	id    uint32
	width Width
}

// NewPVar builds a polynomial variable with the given id and width. The id
// is caller-assigned and must be unique among the variables compared or
// combined in a single Poly.
func NewPVar(id uint32, w Width) PVar {
	w.check()
	return PVar{id: id, width: w}
}

// ID returns the variable's handle value.
func (v PVar) ID() uint32 { return v.id }

// Width returns the variable's bit width K.
func (v PVar) Width() Width { return v.width }

// TwoToN returns 2^K for this variable's width.
func (v PVar) TwoToN() uint64 { return v.width.TwoToN() }

// PowerOf2 returns K for this variable's width.
func (v PVar) PowerOf2() uint { return v.width.PowerOf2() }

// Poly returns the trivial polynomial 1*v (var2pdd).
func (v PVar) Poly() Poly { return NewVar(v) }

func (v PVar) String() string { return fmt.Sprintf("x%d", v.id) }

// varPow is one variable raised to a power within a monomial.
type varPow struct {
	id  uint32
	exp uint32
}

// term is a single monomial of a Poly: a coefficient times a product of
// variable powers. Monomial lists are always kept sorted by id and free
// of zero exponents.
type term struct {
	mono  []varPow
	coeff uint64
}

func monoKey(mono []varPow) string {
	if len(mono) == 0 {
		return ""
	}
	var b strings.Builder
	for i, vp := range mono {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatUint(uint64(vp.id), 10))
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(vp.exp), 10))
	}
	return b.String()
}

// mergeMono multiplies two monomials together, summing exponents for
// shared variables, keeping the result sorted by id.
func mergeMono(a, b []varPow) []varPow {
	out := make([]varPow, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].id < b[j].id:
			out = append(out, a[i])
			i++
		case a[i].id > b[j].id:
			out = append(out, b[j])
			j++
		default:
			out = append(out, varPow{id: a[i].id, exp: a[i].exp + b[j].exp})
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Poly (pdd) is a sparse multivariate polynomial over Z/2^width. Terms are
// stored in a treemap keyed by canonical monomial, the way
// npillmayer/arithm's Polynomial keeps its Terms in a treemap, giving
// deterministic, sorted iteration without a bespoke ordered-map type.
type Poly struct {
	width Width
	terms *treemap.Map // string -> term
}

func newPoly(w Width) Poly {
	w.check()
	return Poly{width: w, terms: treemap.NewWithStringComparator()}
}

// NewConst builds the constant polynomial c, reduced mod 2^w.
func NewConst(w Width, c uint64) Poly {
	p := newPoly(w)
	c = w.mod(c)
	if c != 0 {
		p.terms.Put("", term{coeff: c})
	}
	return p
}

// NewVar builds the polynomial 1*v.
func NewVar(v PVar) Poly {
	p := newPoly(v.width)
	mono := []varPow{{id: v.id, exp: 1}}
	p.terms.Put(monoKey(mono), term{mono: mono, coeff: 1})
	return p
}

// Width returns the polynomial's bit width.
func (p Poly) Width() Width { return p.width }

func (p Poly) clone() Poly {
	np := newPoly(p.width)
	it := p.terms.Iterator()
	for it.Next() {
		np.terms.Put(it.Key(), it.Value())
	}
	return np
}

func (p Poly) addTerm(mono []varPow, coeff uint64) {
	coeff = p.width.mod(coeff)
	key := monoKey(mono)
	existing, found := p.terms.Get(key)
	var total uint64
	if found {
		total = p.width.add(existing.(term).coeff, coeff)
	} else {
		total = coeff
	}
	if total == 0 {
		p.terms.Remove(key)
		return
	}
	p.terms.Put(key, term{mono: mono, coeff: total})
}

// Add returns p + q.
func (p Poly) Add(q Poly) Poly {
	out := p.clone()
	it := q.terms.Iterator()
	for it.Next() {
		t := it.Value().(term)
		out.addTerm(t.mono, t.coeff)
	}
	return out
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly {
	out := p.clone()
	it := q.terms.Iterator()
	for it.Next() {
		t := it.Value().(term)
		out.addTerm(t.mono, p.width.neg(t.coeff))
	}
	return out
}

// Neg returns -p.
func (p Poly) Neg() Poly {
	return NewConst(p.width, 0).Sub(p)
}

// Mul returns p * q.
func (p Poly) Mul(q Poly) Poly {
	out := newPoly(p.width)
	pit := p.terms.Iterator()
	for pit.Next() {
		pt := pit.Value().(term)
		qit := q.terms.Iterator()
		for qit.Next() {
			qt := qit.Value().(term)
			out.addTerm(mergeMono(pt.mono, qt.mono), p.width.mul(pt.coeff, qt.coeff))
		}
	}
	return out
}

// MulConst returns c*p.
func (p Poly) MulConst(c uint64) Poly {
	return p.Mul(NewConst(p.width, c))
}

// Degree returns the degree of p in variable v (0 if v does not appear).
func (p Poly) Degree(v PVar) int {
	deg := 0
	it := p.terms.Iterator()
	for it.Next() {
		t := it.Value().(term)
		for _, vp := range t.mono {
			if vp.id == v.id && int(vp.exp) > deg {
				deg = int(vp.exp)
			}
		}
	}
	return deg
}

// Factor decomposes p = a*v + b when Degree(v) <= 1, returning the
// coefficient polynomial a (not containing v) and remainder b (not
// containing v). ok is false if Degree(v) > 1.
func (p Poly) Factor(v PVar) (a, b Poly, ok bool) {
	if p.Degree(v) > 1 {
		return Poly{}, Poly{}, false
	}
	a, b = newPoly(p.width), newPoly(p.width)
	it := p.terms.Iterator()
	for it.Next() {
		t := it.Value().(term)
		rest := make([]varPow, 0, len(t.mono))
		hasV := false
		for _, vp := range t.mono {
			if vp.id == v.id {
				hasV = true
				continue
			}
			rest = append(rest, vp)
		}
		if hasV {
			a.addTerm(rest, t.coeff)
		} else {
			b.addTerm(rest, t.coeff)
		}
	}
	return a, b, true
}

// TryEval evaluates p under a complete assignment to the variables it
// contains, returning false if any variable is missing from model.
func (p Poly) TryEval(model map[uint32]uint64) (uint64, bool) {
	var sum uint64
	it := p.terms.Iterator()
	for it.Next() {
		t := it.Value().(term)
		val := t.coeff
		for _, vp := range t.mono {
			x, ok := model[vp.id]
			if !ok {
				return 0, false
			}
			for i := uint32(0); i < vp.exp; i++ {
				val = p.width.mul(val, x)
			}
		}
		sum = p.width.add(sum, val)
	}
	return sum, true
}

// IsVal reports whether p is a constant, returning its value.
func (p Poly) IsVal() (uint64, bool) {
	switch p.terms.Size() {
	case 0:
		return 0, true
	case 1:
		t, _ := p.terms.Get("")
		if tt, ok := t.(term); ok && len(tt.mono) == 0 {
			return tt.coeff, true
		}
	}
	return 0, false
}

// IsOne reports whether p is the constant 1.
func (p Poly) IsOne() bool {
	c, ok := p.IsVal()
	return ok && c == 1
}

// IsMax reports whether p is the constant 2^K - 1.
func (p Poly) IsMax() bool {
	c, ok := p.IsVal()
	return ok && c == p.width.Mask()
}

// IsUnary reports whether p = c*x for a single variable x and nonzero
// coefficient c (no other terms, including no constant term).
func (p Poly) IsUnary() (PVar, uint64, bool) {
	if p.terms.Size() != 1 {
		return PVar{}, 0, false
	}
	it := p.terms.Iterator()
	it.Next()
	t := it.Value().(term)
	if len(t.mono) != 1 || t.mono[0].exp != 1 || t.coeff == 0 {
		return PVar{}, 0, false
	}
	return NewPVar(t.mono[0].id, p.width), t.coeff, true
}

// IsVar reports whether p is exactly one variable with coefficient 1.
func (p Poly) IsVar() (PVar, bool) {
	v, c, ok := p.IsUnary()
	if !ok || c != 1 {
		return PVar{}, false
	}
	return v, true
}

// Var returns the single variable appearing in p if IsUnary holds, for
// callers that already know the shape matched (mirrors pdd's p.var()).
func (p Poly) Var() PVar {
	v, _, ok := p.IsUnary()
	if !ok {
		panic("bv: Var called on non-unary polynomial")
	}
	return v
}

// TryDiv divides p by k exactly, if possible: the odd part of k is
// inverted mod 2^K and multiplied in, and the power-of-two part of k must
// evenly divide every coefficient's low bits, or the whole division fails.
func (p Poly) TryDiv(k uint64) (Poly, bool) {
	k = p.width.mod(k)
	if k == 0 {
		return Poly{}, false
	}
	t2 := p.width.trailingZeros64(k)
	odd := k >> t2
	inv, ok := p.width.modInverse(odd)
	if !ok {
		return Poly{}, false
	}
	out := newPoly(p.width)
	it := p.terms.Iterator()
	for it.Next() {
		t := it.Value().(term)
		if t2 > 0 && p.width.trailingZeros64(t.coeff) < t2 {
			return Poly{}, false
		}
		c := t.coeff
		if t2 > 0 {
			c >>= t2
		}
		c = p.width.mul(c, inv)
		out.addTerm(t.mono, c)
	}
	return out, true
}

// Equal reports structural (post-normalization) equality of p and q.
func (p Poly) Equal(q Poly) bool {
	if p.width != q.width {
		return false
	}
	if p.terms.Size() != q.terms.Size() {
		return false
	}
	return p.equalTerms(q)
}

func (p Poly) equalTerms(q Poly) bool {
	it := p.terms.Iterator()
	for it.Next() {
		t := it.Value().(term)
		qv, ok := q.terms.Get(it.Key())
		if !ok {
			return false
		}
		qt := qv.(term)
		if qt.coeff != t.coeff || len(qt.mono) != len(t.mono) {
			return false
		}
		for i := range t.mono {
			if t.mono[i] != qt.mono[i] {
				return false
			}
		}
	}
	return true
}

func sortedKeys(m *treemap.Map) []string {
	ks := make([]string, 0, m.Size())
	it := m.Iterator()
	for it.Next() {
		ks = append(ks, it.Key().(string))
	}
	sort.Strings(ks)
	return ks
}

// String renders p using generic x<id> variable names.
func (p Poly) String() string {
	if p.terms.Size() == 0 {
		return "0"
	}
	var b strings.Builder
	first := true
	for _, k := range sortedKeys(p.terms) {
		tv, _ := p.terms.Get(k)
		t := tv.(term)
		if !first {
			b.WriteString(" + ")
		}
		first = false
		if len(t.mono) == 0 {
			fmt.Fprintf(&b, "%d", t.coeff)
			continue
		}
		if t.coeff != 1 {
			fmt.Fprintf(&b, "%d*", t.coeff)
		}
		for i, vp := range t.mono {
			if i > 0 {
				b.WriteByte('*')
			}
			fmt.Fprintf(&b, "x%d", vp.id)
			if vp.exp != 1 {
				fmt.Fprintf(&b, "^%d", vp.exp)
			}
		}
	}
	return b.String()
}
