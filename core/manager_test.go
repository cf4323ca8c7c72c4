package core

import (
	"testing"

	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/oracle"
	"github.com/stretchr/testify/assert"
)

func buildTriangleCore(t *testing.T) (*formula.Formula, oracle.Oracle, []oracle.Lit) {
	t.Helper()
	f := formula.New(0)
	x1 := f.NewLiteral()
	x2 := f.NewLiteral()
	x3 := f.NewLiteral()
	f.AddHardClause([]oracle.Lit{x1.Negation(), x2.Negation()})
	f.AddHardClause([]oracle.Lit{x2.Negation(), x3.Negation()})
	f.AddHardClause([]oracle.Lit{x1.Negation(), x3.Negation()})
	f.AddSoftClause(1, []oracle.Lit{x1})
	f.AddSoftClause(1, []oracle.Lit{x2})
	f.AddSoftClause(1, []oracle.Lit{x3})
	f.Standardize()

	o := oracle.NewSolver(f.NVars())
	for i := 0; i < f.NHard(); i++ {
		o.AddClause(f.GetHard(i))
	}
	assumptions := make([]oracle.Lit, f.NSoft())
	for i := range assumptions {
		assumptions[i] = f.Soft[i].Body[0]
	}
	status := o.Solve(assumptions)
	assert.Equal(t, oracle.StatusUnsat, status)
	return f, o, o.Conflict()
}

func TestCostUnweightedIsOne(t *testing.T) {
	f, _, conflict := buildTriangleCore(t)
	m := &Manager{Unweighted: true}
	assert.Equal(t, uint64(1), m.Cost(f, conflict))
	_ = f
}

func TestCostWeightedIsMinimum(t *testing.T) {
	f := formula.New(0)
	x1 := f.NewLiteral()
	x2 := f.NewLiteral()
	f.AddSoftClause(3, []oracle.Lit{x1})
	f.AddSoftClause(7, []oracle.Lit{x2})
	f.Standardize()

	m := &Manager{}
	conflict := []oracle.Lit{f.Soft[0].Assumption, f.Soft[1].Assumption}
	assert.Equal(t, uint64(3), m.Cost(f, conflict))
}

func TestRelaxHardensExhaustedSoftsAndAddsFreshOnes(t *testing.T) {
	f, o, conflict := buildTriangleCore(t)
	nSoftBefore := f.NSoft()

	m := &Manager{Unweighted: true}
	cost := m.Cost(f, conflict)
	m.Relax(f, o, conflict, cost, true)

	assert.Greater(t, f.NSoft(), nSoftBefore)
	for _, l := range conflict {
		idx := f.CoreMapping[l]
		assert.True(t, f.Soft[idx].Hardened())
	}
	// n-1 fresh soft clauses were appended for a core of size n
	assert.Equal(t, nSoftBefore+len(conflict)-1, f.NSoft())
}

func TestRelaxPreservesSatisfiability(t *testing.T) {
	f, o, conflict := buildTriangleCore(t)
	m := &Manager{Unweighted: true}
	cost := m.Cost(f, conflict)
	m.Relax(f, o, conflict, cost, true)

	remaining := func() []oracle.Lit {
		var assumptions []oracle.Lit
		for i := range f.Soft {
			if !f.Soft[i].Hardened() {
				assumptions = append(assumptions, f.Soft[i].Body[0])
			}
		}
		return assumptions
	}

	// the hard clauses allow at most one of x1, x2, x3, so the optimum
	// cost is 2: relaxing the first core leaves a second one among the
	// remaining assumptions.
	status := o.Solve(remaining())
	assert.Equal(t, oracle.StatusUnsat, status)
	second := o.Conflict()
	m.Relax(f, o, second, m.Cost(f, second), true)

	// after relaxing both cores, the remaining assumptions (fresh soft
	// clauses plus any never-hardened originals) are jointly satisfiable
	// together with the hard clauses.
	status = o.Solve(remaining())
	assert.Equal(t, oracle.StatusSat, status)
}
