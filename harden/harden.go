// Package harden implements the hardener: once the gap between the
// upper and lower bound shrinks enough, soft clauses that can no longer
// affect the optimum are promoted to permanent hard clauses so the
// oracle stops spending assumptions on them. See spec §4.6.
package harden

import (
	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/oracle"
)

// Hardener tracks MaxWNotHardened, the largest weight seen among softs
// that were not hardened on the last pass, used by the driver to decide
// when to trigger the next pass (spec §4.7: "if ub_cost - lb_cost <
// max_w_not_hardened, run Hardener").
type Hardener struct {
	MaxWNotHardened uint64
}

// New returns a hardener that always triggers on the first check.
func New() *Hardener {
	return &Hardener{MaxWNotHardened: ^uint64(0)}
}

// ShouldRun reports whether the gap has shrunk past the threshold that
// makes another hardening pass worthwhile.
func (h *Hardener) ShouldRun(gap uint64) bool {
	return gap < h.MaxWNotHardened
}

// Run promotes every active unit soft clause whose weight exceeds gap,
// or whose weight equals gap and is satisfied by bestModel, to a hard
// clause. lazy (spec: "lazy = ¬delete_before_lin ∧ ¬varyingres") skips
// mirroring the promotion into the formula store's hard-clause list,
// only pushing it to the oracle; a lazy configuration never rebuilds the
// oracle from the formula store, so the oracle's copy is the one the
// search relies on. Run returns the number of clauses hardened in this
// pass.
func (h *Hardener) Run(f *formula.Formula, o oracle.Oracle, gap uint64, bestModel []bool, lazy bool) int {
	h.MaxWNotHardened = 0
	hardened := 0
	for i := range f.Soft {
		s := &f.Soft[i]
		if s.Hardened() || len(s.Body) != 1 {
			continue
		}
		satisfied := literalTrueInModel(s.Body[0], bestModel)
		if s.Weight > gap || (s.Weight == gap && satisfied) {
			unit := []oracle.Lit{s.Body[0]}
			o.AddClause(unit)
			if !lazy {
				f.AddHardClause(unit)
			}
			f.Harden(i)
			hardened++
			continue
		}
		if s.Weight > h.MaxWNotHardened {
			h.MaxWNotHardened = s.Weight
		}
	}
	return hardened
}

// literalTrueInModel reports whether l is true under model, bounds-
// checking rather than asserting (spec §9 open question: the source
// asserts this rather than bounds-checking; we choose the well-defined
// failure of "false" for an out-of-range variable).
func literalTrueInModel(l oracle.Lit, model []bool) bool {
	v := int(l.Var())
	if v < 0 || v >= len(model) {
		return false
	}
	if model[v] {
		return l.IsPositive()
	}
	return !l.IsPositive()
}
