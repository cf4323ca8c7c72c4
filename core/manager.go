// Package core implements the PMRES/MaxRes core relaxation step: given
// a conflict (a subset of assumption literals returned UNSAT by the
// oracle), compute its cost, decrement the weights of the soft clauses
// it implicates, and rewrite it into fresh hard and soft clauses so the
// optimum cost decreases by exactly the core's weight. See spec §4.4.
package core

import (
	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/oracle"
	"github.com/samber/lo"
)

// Manager applies the PMRES transformation against a formula store and
// an oracle. It carries no state of its own; every call is a pure
// function of its arguments, mirroring the formula store's role as the
// sole owner of mutable search state (spec §9).
type Manager struct {
	// Unweighted forces Cost to always report 1, per spec §4.4: "for
	// an unweighted formula, cost = 1".
	Unweighted bool
}

// Cost returns the cost of a core: 1 for an unweighted formula, else the
// minimum weight among the soft clauses the conflict's literals guard.
func (m *Manager) Cost(f *formula.Formula, conflict []oracle.Lit) uint64 {
	if m.Unweighted {
		return 1
	}
	weights := lo.Map(conflict, func(l oracle.Lit, _ int) uint64 {
		return f.Soft[f.CoreMapping[l]].Weight
	})
	return lo.Min(weights)
}

// Relax decrements the weight of every soft clause the conflict
// implicates by weight, hardens any clause this drives to weight 0, and
// emits the PMRES rewrite of the core into fresh hard/soft clauses of
// the same weight. coreGuidedOnly selects the full bidirectional
// encoding plus the core-as-hard-clause fallback (spec §4.4.1); when
// false (hybrid modes 1/2) only the forward direction is emitted.
func (m *Manager) Relax(f *formula.Formula, o oracle.Oracle, conflict []oracle.Lit, weight uint64, coreGuidedOnly bool) {
	for _, l := range conflict {
		idx := f.CoreMapping[l]
		s := &f.Soft[idx]
		s.Weight -= weight
		if s.Weight == 0 {
			f.Harden(idx)
		}
	}
	m.pmres(f, o, conflict, weight, coreGuidedOnly)
}

// pmres implements §4.4.1. b0..bn-1 are the core literals. n-1 fresh
// d-variables d0..dn-2 are introduced; di <-> (bi+1 ∨ di+1), with dn-1
// treated as false so the last equivalence degenerates to
// dn-2 <-> bn-1. For each i a fresh assumption a, the hard clause
// ¬bi ∨ ¬di ∨ a and the unit soft clause ¬a are appended with the
// shared weight.
func (m *Manager) pmres(f *formula.Formula, o oracle.Oracle, core []oracle.Lit, weight uint64, coreGuidedOnly bool) {
	n := len(core)
	if n < 2 {
		return // a unit core has nothing left to relax into
	}

	d := make([]oracle.Lit, n-1)
	for i := range d {
		d[i] = f.NewLiteral()
		o.ReserveVars(f.NVars())
	}

	next := func(i int) oracle.Lit {
		if i == n-1 {
			return oracle.Lit(0) // treated as false; see below
		}
		return d[i]
	}

	for i := 0; i < n-1; i++ {
		di := d[i]
		bNext := core[i+1]
		dNext := next(i + 1)

		// forward direction: (b_{i+1} ∨ d_{i+1}) -> d_i, i.e. clauses
		// ¬b_{i+1} ∨ d_i and ¬d_{i+1} ∨ d_i. When i == n-2, d_{i+1} is
		// false, so only the first clause is meaningful.
		addHard(f, o, []oracle.Lit{bNext.Negation(), di})
		if i < n-2 {
			addHard(f, o, []oracle.Lit{dNext.Negation(), di})
		}

		if coreGuidedOnly {
			// reverse direction: d_i -> (b_{i+1} ∨ d_{i+1})
			if i < n-2 {
				addHard(f, o, []oracle.Lit{di.Negation(), bNext, dNext})
			} else {
				addHard(f, o, []oracle.Lit{di.Negation(), bNext})
			}
		}
	}

	if coreGuidedOnly {
		addHard(f, o, append([]oracle.Lit(nil), core...))
	}

	for i := 0; i < n-1; i++ {
		bi := core[i]
		di := d[i]
		a := f.NewLiteral()
		o.ReserveVars(f.NVars())

		// ¬bi ∨ ¬di ∨ a, so ¬a -> (¬bi ∨ ¬di)
		addHard(f, o, []oracle.Lit{bi.Negation(), di.Negation(), a})

		idx := f.AppendSoft(formula.SoftClause{
			Body:       []oracle.Lit{a.Negation()},
			Weight:     weight,
			Assumption: a,
		})
		f.RegisterCoreMapping(a, idx)
	}
}

func addHard(f *formula.Formula, o oracle.Oracle, lits []oracle.Lit) {
	f.AddHardClause(lits)
	o.AddClause(lits)
}
