package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lit(i int) Lit { return IntToLit(i) }

func TestSolveSatisfiable(t *testing.T) {
	s := NewSolver(2)
	assert.True(t, s.AddClause([]Lit{lit(1), lit(2)}))
	assert.True(t, s.AddClause([]Lit{lit(-1), lit(2)}))
	assert.Equal(t, StatusSat, s.Solve(nil))
	m := s.Model()
	assert.True(t, m[1])
}

func TestSolveUnsatHard(t *testing.T) {
	s := NewSolver(1)
	assert.True(t, s.AddClause([]Lit{lit(1)}))
	assert.False(t, s.AddClause([]Lit{lit(-1)}))
	assert.Equal(t, StatusUnsat, s.Solve(nil))
}

func TestSolveUnderAssumptionsReturnsCore(t *testing.T) {
	s := NewSolver(2)
	v1 := IntToVar(1)
	v2 := IntToVar(2)
	assert.True(t, s.AddClause([]Lit{v1.Lit().Negation(), v2.Lit().Negation()})) // (¬x1 ∨ ¬x2)

	a1 := v1.Lit()
	a2 := v2.Lit()
	status := s.Solve([]Lit{a1, a2})
	assert.Equal(t, StatusUnsat, status)
	core := s.Conflict()
	assert.NotEmpty(t, core)
	// conflict literals are the negation of the failed assumptions, in
	// the MiniSat failed-assumption-vector convention.
	for _, l := range core {
		assert.True(t, l == a1.Negation() || l == a2.Negation())
	}
}

func TestSolveThenResolveAgain(t *testing.T) {
	s := NewSolver(1)
	v1 := IntToVar(1)
	assert.Equal(t, StatusSat, s.Solve([]Lit{v1.Lit()}))
	assert.True(t, s.Model()[0])
	assert.Equal(t, StatusSat, s.Solve([]Lit{v1.Lit().Negation()}))
	assert.False(t, s.Model()[0])
}

func TestNewVarGrowsCapacity(t *testing.T) {
	s := NewSolver(0)
	v := s.NewVar()
	assert.Equal(t, 1, s.NVars())
	assert.True(t, s.AddClause([]Lit{v.Lit()}))
	assert.Equal(t, StatusSat, s.Solve(nil))
}
