package strat

import (
	"testing"

	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/oracle"
	"github.com/stretchr/testify/assert"
)

func addSoftWeights(f *formula.Formula, weights ...uint64) {
	for _, w := range weights {
		l := f.NewLiteral()
		f.AddSoftClause(w, []oracle.Lit{l})
	}
	f.Standardize()
}

func TestFindNextWeightSkipsTies(t *testing.T) {
	f := formula.New(0)
	addSoftWeights(f, 10, 10, 5, 1)
	c := New(2)
	c.MaxWeight = 10
	assert.Equal(t, uint64(5), c.FindNextWeight(f))
}

func TestFindNextWeightBottomsOutAtOne(t *testing.T) {
	f := formula.New(0)
	addSoftWeights(f, 3)
	c := New(2)
	c.MaxWeight = 3
	assert.Equal(t, uint64(1), c.FindNextWeight(f))
}

// TestDiversifyStopsAtTen mirrors spec §8 scenario 6: weights
// {100,100,50,50,50,10,10,10,10,10}. The driver has already advanced to
// the weight-50 stratum (5 clauses) via plain Normal stepping before
// diversify is invoked; diversify's first call tests that stratum as-is
// (5 is not > the previous 5, so it doesn't stop there) then steps down
// to weight 10, where all ten clauses now qualify.
func TestDiversifyStopsAtTen(t *testing.T) {
	f := formula.New(0)
	addSoftWeights(f, 100, 100, 50, 50, 50, 10, 10, 10, 10, 10)
	c := New(2)
	c.MaxWeight = 50

	nb := c.FindNextWeightDiversity(f, 5)

	assert.Equal(t, uint64(10), c.MaxWeight)
	assert.Equal(t, 10, nb)
}

func TestInitVaryingResolutionPicksPowerOfFactor(t *testing.T) {
	f := formula.New(0)
	addSoftWeights(f, 100, 1)
	c := New(2)
	c.InitVaryingResolution(f)
	// largest power of 2 not exceeding 100 is 64
	assert.LessOrEqual(t, c.MaxWeight, uint64(64))
	assert.GreaterOrEqual(t, c.MaxWeight, uint64(1))
}

func TestUpdateDivisionFactorLinearStopsWhenCountChanges(t *testing.T) {
	f := formula.New(0)
	addSoftWeights(f, 8, 8, 2)
	c := New(2)
	c.MaxWeight = 8
	c.UpdateDivisionFactorLinear(f, 2) // 2 clauses currently at weight 8
	assert.Equal(t, uint64(4), c.MaxWeight)
}

func TestDistinctWeights(t *testing.T) {
	f := formula.New(0)
	addSoftWeights(f, 5, 5, 3)
	got := DistinctWeights(f, 1)
	assert.ElementsMatch(t, []uint64{5, 3}, got)
}
