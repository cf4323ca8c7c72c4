// Package cnf reads plain DIMACS CNF files (all-hard clauses, no
// weights) into a formula.Formula, for callers that only need to run a
// satisfiability check rather than an optimisation.
package cnf

import (
	"fmt"
	"io"

	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/oracle"
	"github.com/rhartert/dimacs"
)

// Parse reads a DIMACS CNF stream into a fresh formula whose clauses are
// all hard.
func Parse(r io.Reader) (*formula.Formula, error) {
	b := &builder{}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, fmt.Errorf("cnf: %w", err)
	}
	if b.f == nil {
		return nil, fmt.Errorf("cnf: empty input, no problem line found")
	}
	return b.f, nil
}

type builder struct {
	f *formula.Formula
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("cnf: problem type %q is not supported, only plain cnf (pseudo-boolean and cardinality inputs are rejected)", problem)
	}
	b.f = formula.New(nVars)
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	if b.f == nil {
		return fmt.Errorf("cnf: clause before problem line")
	}
	lits := make([]oracle.Lit, len(tmpClause))
	for i, v := range tmpClause {
		lits[i] = oracle.IntToLit(v)
	}
	b.f.AddHardClause(lits)
	return nil
}

func (b *builder) Comment(_ string) error { return nil }
