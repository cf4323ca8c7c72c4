package harden

import (
	"testing"

	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/oracle"
	"github.com/stretchr/testify/assert"
)

func TestRunHardensWeightAboveGap(t *testing.T) {
	f := formula.New(0)
	x1 := f.NewLiteral()
	f.AddSoftClause(10, []oracle.Lit{x1})
	f.Standardize()

	o := oracle.NewSolver(f.NVars())
	for i := 0; i < f.NHard(); i++ {
		o.AddClause(f.GetHard(i))
	}

	h := New()
	n := h.Run(f, o, 3, []bool{true, true}, false)

	assert.Equal(t, 1, n)
	assert.True(t, f.Soft[0].Hardened())
}

func TestRunSkipsWeightBelowGapEvenWhenSatisfied(t *testing.T) {
	f := formula.New(0)
	x1 := f.NewLiteral()
	f.AddSoftClause(3, []oracle.Lit{x1})
	f.Standardize()

	o := oracle.NewSolver(f.NVars())
	for i := 0; i < f.NHard(); i++ {
		o.AddClause(f.GetHard(i))
	}

	h := New()
	n := h.Run(f, o, 10, []bool{false, false}, false)

	assert.Equal(t, 0, n)
	assert.False(t, f.Soft[0].Hardened())
	assert.Equal(t, uint64(3), h.MaxWNotHardened)
}

func TestLazyDoesNotMirrorIntoFormulaStore(t *testing.T) {
	f := formula.New(0)
	x1 := f.NewLiteral()
	f.AddSoftClause(10, []oracle.Lit{x1})
	f.Standardize()
	nHardBefore := f.NHard()

	o := oracle.NewSolver(f.NVars())
	for i := 0; i < nHardBefore; i++ {
		o.AddClause(f.GetHard(i))
	}

	h := New()
	h.Run(f, o, 0, nil, true)

	assert.Equal(t, nHardBefore, f.NHard())
	assert.True(t, f.Soft[0].Hardened())
}

func TestShouldRun(t *testing.T) {
	h := New()
	assert.True(t, h.ShouldRun(100))
	h.MaxWNotHardened = 5
	assert.True(t, h.ShouldRun(4))
	assert.False(t, h.ShouldRun(5))
}
