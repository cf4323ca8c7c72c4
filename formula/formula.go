// Package formula owns the problem being optimised: variables, hard
// clauses, soft clauses with their weights and assumption literals, and
// the bookkeeping (core mapping, sum of weights, bounds) that the search
// driver mutates as it runs. See spec §3 and §4.1.
package formula

import (
	"github.com/crillab/pmres/oracle"
)

// HardWeight is the sentinel weight marking a clause as hard rather than
// soft when the two are represented uniformly by callers (e.g. a WCNF
// parser that has not yet split the input).
const HardWeight = ^uint64(0)

// ProblemType distinguishes uniform-weight (cardinality-shaped) formulas
// from genuinely weighted ones; it drives the PB-vs-cardinality encoder
// choice in the linear phase (spec §4.8).
type ProblemType int

const (
	Unweighted ProblemType = iota
	Weighted
)

// SoftClause is a soft clause after standardisation: its Body always has
// length 1 once the formula has been standardised, and that single
// literal (Body[0]) is what a caller passes to the oracle as the
// assumption asserting "this clause is satisfied at no cost". Assumption
// instead holds the identifier the oracle's returned conflict reports
// back (the negation of Body[0]); CoreMapping is keyed on Assumption, not
// on Body[0], matching the failed-assumption convention Oracle.Conflict
// documents. Weight 0 marks a hardened or subsumed clause.
type SoftClause struct {
	Body       []oracle.Lit
	Weight     uint64
	Assumption oracle.Lit // meaningless once Weight == 0
}

const noAssumption = oracle.Lit(0)

func (s *SoftClause) Hardened() bool { return s.Weight == 0 }

// Formula is the mutable store described in spec §3/§4.1. It is owned
// exclusively by one search driver instance for the lifetime of a single
// top-level search call.
type Formula struct {
	nVars int

	Hard [][]oracle.Lit
	Soft []SoftClause

	// CoreMapping maps an assumption literal to the index of the soft
	// clause it guards. Populated at standardisation and whenever the
	// core manager relaxes a core into fresh soft clauses.
	CoreMapping map[oracle.Lit]int

	SumWeights uint64
	MaxWeight  uint64 // the working stratum threshold, mutated during search
	ProblemType ProblemType

	standardised bool
}

// New returns an empty formula with the given initial variable count.
func New(nVars int) *Formula {
	return &Formula{
		nVars:       nVars,
		CoreMapping: make(map[oracle.Lit]int),
	}
}

func (f *Formula) NVars() int { return f.nVars }

// AddVar allocates a fresh variable and returns it.
func (f *Formula) AddVar() oracle.Var {
	v := oracle.Var(f.nVars)
	f.nVars++
	return v
}

// NewLiteral allocates a fresh variable and returns its positive literal.
func (f *Formula) NewLiteral() oracle.Lit { return f.AddVar().Lit() }

// AddHardClause appends a hard clause verbatim; no deduplication is
// performed (spec §4.1: "no implicit deduplication").
func (f *Formula) AddHardClause(lits []oracle.Lit) {
	cl := append([]oracle.Lit(nil), lits...)
	f.Hard = append(f.Hard, cl)
}

// AddSoftClause appends a soft clause with the given weight and body.
// The clause is not yet standardised: Assumption is left unset until
// Standardize runs. Reports a fatal error (per spec §7.2) if weight is
// the hard-weight sentinel.
func (f *Formula) AddSoftClause(weight uint64, lits []oracle.Lit) {
	if weight == HardWeight {
		panic("formula: soft clause weight collides with hard-weight sentinel")
	}
	body := append([]oracle.Lit(nil), lits...)
	f.Soft = append(f.Soft, SoftClause{Body: body, Weight: weight})
	f.SumWeights += weight
}

func (f *Formula) NSoft() int { return len(f.Soft) }
func (f *Formula) NHard() int { return len(f.Hard) }

func (f *Formula) GetSoft(i int) *SoftClause { return &f.Soft[i] }
func (f *Formula) GetHard(i int) []oracle.Lit { return f.Hard[i] }

func (f *Formula) SetMaxWeight(w uint64)          { f.MaxWeight = w }
func (f *Formula) SetProblemType(t ProblemType)   { f.ProblemType = t }

// Standardize rewrites every original soft clause C into a fresh unit
// soft clause: introduce a fresh literal ℓ, push (C ∨ ℓ) to the hard
// clauses, and keep ¬ℓ as the new unit soft body with assumption literal
// ℓ (spec §3 Lifecycle). Idempotent: a clause whose body is already a
// single literal and already carries an assumption is left untouched.
func (f *Formula) Standardize() {
	if f.standardised {
		return
	}
	for i := range f.Soft {
		s := &f.Soft[i]
		if s.Weight == 0 {
			continue
		}
		if len(s.Body) == 1 && s.Assumption != noAssumption {
			continue
		}
		l := f.NewLiteral()
		clause := append(append([]oracle.Lit(nil), s.Body...), l)
		f.AddHardClause(clause)
		s.Body = []oracle.Lit{l.Negation()}
		s.Assumption = l
		f.CoreMapping[l] = i
	}
	f.standardised = true
}

// RegisterCoreMapping records that assumption literal a guards soft
// clause index i; used by the core manager when PMRES relaxation
// appends fresh soft clauses.
func (f *Formula) RegisterCoreMapping(a oracle.Lit, i int) {
	f.CoreMapping[a] = i
}

// AppendSoft appends a fully-formed soft clause (already unit, already
// carrying its assumption literal) and registers its core mapping. Used
// by the core manager, which builds the SoftClause itself.
func (f *Formula) AppendSoft(s SoftClause) int {
	idx := len(f.Soft)
	f.Soft = append(f.Soft, s)
	f.SumWeights += s.Weight
	if s.Assumption != noAssumption {
		f.CoreMapping[s.Assumption] = idx
	}
	return idx
}

// Harden zeroes a soft clause's weight and clears its assumption,
// marking it hardened (spec invariant 5).
func (f *Formula) Harden(i int) {
	s := &f.Soft[i]
	s.Weight = 0
	s.Assumption = noAssumption
}
