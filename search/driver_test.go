package search

import (
	"testing"

	"github.com/crillab/pmres/encoder"
	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/oracle"
	"github.com/crillab/pmres/strat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// x1, x2, x3 are the three symbolic variables spec §8's scenarios are
// stated over, allocated in order at the start of each test formula.
func threeVars(f *formula.Formula) (x1, x2, x3 oracle.Var) {
	return f.AddVar(), f.AddVar(), f.AddVar()
}

func runSearch(t *testing.T, f *formula.Formula, cfg Config) Result {
	t.Helper()
	o := oracle.NewSolver(f.NVars())
	enc := encoder.NewSeqCounterEncoder()
	return Search(f, o, enc, cfg, nil)
}

func TestScenario1UnweightedUnsatisfiableHards(t *testing.T) {
	f := formula.New(0)
	x1, _, _ := threeVars(f)
	f.AddHardClause([]oracle.Lit{x1.Lit()})
	f.AddHardClause([]oracle.Lit{x1.Lit().Negation()})

	res := runSearch(t, f, DefaultConfig())
	assert.Equal(t, StatusUnsatisfiable, res.Status)
}

func TestScenario2SingleSoft(t *testing.T) {
	f := formula.New(0)
	x1, _, _ := threeVars(f)
	f.AddSoftClause(5, []oracle.Lit{x1.Lit()})

	res := runSearch(t, f, DefaultConfig())
	require.Equal(t, StatusOptimum, res.Status)
	assert.EqualValues(t, 0, res.Cost)
	require.True(t, len(res.Model) > int(x1))
	assert.True(t, res.Model[x1])
}

func TestScenario3ConflictingUnitSoftsUniformWeight(t *testing.T) {
	f := formula.New(0)
	x1, _, _ := threeVars(f)
	f.AddSoftClause(1, []oracle.Lit{x1.Lit()})
	f.AddSoftClause(1, []oracle.Lit{x1.Lit().Negation()})

	res := runSearch(t, f, DefaultConfig())
	require.Equal(t, StatusOptimum, res.Status)
	assert.EqualValues(t, 1, res.Cost)
}

func TestScenario4WeightedChoice(t *testing.T) {
	f := formula.New(0)
	x1, _, _ := threeVars(f)
	f.AddSoftClause(3, []oracle.Lit{x1.Lit()})
	f.AddSoftClause(5, []oracle.Lit{x1.Lit().Negation()})

	res := runSearch(t, f, DefaultConfig())
	require.Equal(t, StatusOptimum, res.Status)
	assert.EqualValues(t, 3, res.Cost)
	require.True(t, len(res.Model) > int(x1))
	assert.False(t, res.Model[x1])
}

func TestScenario5ThreeWayCore(t *testing.T) {
	f := formula.New(0)
	x1, x2, x3 := threeVars(f)
	f.AddHardClause([]oracle.Lit{x1.Lit().Negation(), x2.Lit().Negation()})
	f.AddHardClause([]oracle.Lit{x2.Lit().Negation(), x3.Lit().Negation()})
	f.AddHardClause([]oracle.Lit{x1.Lit().Negation(), x3.Lit().Negation()})
	f.AddSoftClause(1, []oracle.Lit{x1.Lit()})
	f.AddSoftClause(1, []oracle.Lit{x2.Lit()})
	f.AddSoftClause(1, []oracle.Lit{x3.Lit()})

	res := runSearch(t, f, DefaultConfig())
	require.Equal(t, StatusOptimum, res.Status)
	assert.EqualValues(t, 1, res.Cost)
}

// TestScenario6DiversifyThreshold builds ten softs with weights
// {100,100,50,50,50,10,10,10,10,10} over contradictory unit literals of a
// single variable, forcing every model to violate at least one soft in
// each weight class beyond the first, for a total optimum cost of 10 (one
// of the weight-10 softs pays, spec §8 scenario 6).
func TestScenario6DiversifyThreshold(t *testing.T) {
	f := formula.New(0)
	// The two weight-100 and three weight-50 softs each sit on their own
	// fresh variable with no opposing clause, so all five are free to be
	// satisfied at once. The five weight-10 softs share one variable,
	// four asserting it and one asserting its negation, forcing exactly
	// one of them to be paid: the only way to reach an optimum below
	// cost 10 would be to break one of the unconflicted softs instead,
	// which never pays off.
	weights100 := []uint64{100, 100}
	for _, w := range weights100 {
		v := f.AddVar()
		f.AddSoftClause(w, []oracle.Lit{v.Lit()})
	}
	weights50 := []uint64{50, 50, 50}
	for _, w := range weights50 {
		v := f.AddVar()
		f.AddSoftClause(w, []oracle.Lit{v.Lit()})
	}
	x := f.AddVar()
	for i := 0; i < 5; i++ {
		lit := x.Lit()
		if i == 4 {
			lit = lit.Negation()
		}
		f.AddSoftClause(10, []oracle.Lit{lit})
	}

	cfg := DefaultConfig()
	cfg.WeightStrategy = strat.Diversify
	res := runSearch(t, f, cfg)
	require.Equal(t, StatusOptimum, res.Status)
	assert.EqualValues(t, 10, res.Cost)
}
