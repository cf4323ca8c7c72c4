package encoder

import (
	"testing"

	"github.com/crillab/pmres/oracle"
	"github.com/stretchr/testify/assert"
)

func TestEncodeCardinalityBoundsCount(t *testing.T) {
	o := oracle.NewSolver(3)
	lits := []oracle.Lit{
		oracle.IntToVar(0).Lit(),
		oracle.IntToVar(1).Lit(),
		oracle.IntToVar(2).Lit(),
	}
	e := NewSeqCounterEncoder()
	e.EncodeCardinality(o, lits, 1) // at most one of the three true

	assert.Equal(t, oracle.StatusSat, o.Solve(nil))

	// forcing all three true must be unsat under the ≤1 encoding
	status := o.Solve(lits)
	assert.Equal(t, oracle.StatusUnsat, status)
}

func TestEncodePBWeightedBound(t *testing.T) {
	o := oracle.NewSolver(2)
	lits := []oracle.Lit{oracle.IntToVar(0).Lit(), oracle.IntToVar(1).Lit()}
	coeffs := []int64{3, 5}
	e := NewSeqCounterEncoder()
	e.EncodePB(o, lits, coeffs, 4) // 3*x0 + 5*x1 <= 4 => x1 must be false

	status := o.Solve([]oracle.Lit{lits[1]})
	assert.Equal(t, oracle.StatusUnsat, status)
}

func TestUpdatePBTightensBound(t *testing.T) {
	o := oracle.NewSolver(2)
	lits := []oracle.Lit{oracle.IntToVar(0).Lit(), oracle.IntToVar(1).Lit()}
	coeffs := []int64{1, 1}
	e := NewSeqCounterEncoder()
	e.EncodePB(o, lits, coeffs, 2) // both may be true

	assert.Equal(t, oracle.StatusSat, o.Solve(lits))

	e.UpdatePB(o, 1) // now at most one may be true
	assert.Equal(t, oracle.StatusUnsat, o.Solve(lits))
}

func TestUpdatePBAssumptionsDoesNotMutatePermanentClauses(t *testing.T) {
	o := oracle.NewSolver(2)
	lits := []oracle.Lit{oracle.IntToVar(0).Lit(), oracle.IntToVar(1).Lit()}
	coeffs := []int64{1, 1}
	e := NewSeqCounterEncoder()
	e.EncodePB(o, lits, coeffs, 2)

	tighten := e.UpdatePBAssumptions(1)
	assert.NotEmpty(t, tighten)

	withAssumption := append(append([]oracle.Lit{}, lits...), tighten...)
	assert.Equal(t, oracle.StatusUnsat, o.Solve(withAssumption))

	// without the assumption the original, looser bound still holds
	assert.Equal(t, oracle.StatusSat, o.Solve(lits))
}

func TestHasEncodingFlags(t *testing.T) {
	o := oracle.NewSolver(1)
	lits := []oracle.Lit{oracle.IntToVar(0).Lit()}
	e := NewSeqCounterEncoder()
	assert.False(t, e.HasPBEncoding())
	assert.False(t, e.HasCardEncoding())

	e.EncodeCardinality(o, lits, 1)
	assert.True(t, e.HasCardEncoding())
	assert.False(t, e.HasPBEncoding())

	e.EncodePB(o, lits, []int64{1}, 1)
	assert.True(t, e.HasPBEncoding())
	assert.False(t, e.HasCardEncoding())

	e.Destroy()
	assert.False(t, e.HasPBEncoding())
	assert.False(t, e.HasCardEncoding())
}
