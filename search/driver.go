// Package search implements the top-level state machine that
// orchestrates the core-guided and linear-search phases of the solver:
// Setup, CoreGuided, LinearPrep, LinearLoop, Terminated (spec §4.7).
package search

import (
	"fmt"
	"time"

	"github.com/crillab/pmres/core"
	"github.com/crillab/pmres/encoder"
	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/harden"
	"github.com/crillab/pmres/oracle"
	"github.com/crillab/pmres/strat"
)

// Driver owns every mutable piece of search state for one top-level
// Search call: the formula store, the oracle, the encoder, the core
// manager, the stratification controller and the hardener. None of it
// survives past Search returning (spec §9: "constructed once per
// top-level search call, destroyed on return").
type Driver struct {
	f   *formula.Formula
	o   oracle.Oracle
	enc encoder.Encoder

	coreMgr  *core.Manager
	stratCtl *strat.Controller
	hardener *harden.Hardener

	cfg    Config
	bounds formula.Bounds

	bestModel     []bool
	nbCurrentSoft int

	shouldUpdate bool   // new hard clauses pushed to f since the last oracle rebuild
	clausesAdded int    // high-water mark of f.Hard pushed to o
	currentRHS   uint64 // current PB/cardinality bound, in the current stratum's reduced units

	startTime time.Time
	onImprove func(Result) // optional streaming hook, see Search

	// Log, when non-nil, receives verbosity-gated diagnostic lines
	// prefixed the way the surrounding CLI expects ("c ...").
	Log func(format string, args ...interface{})
}

func (d *Driver) log(format string, args ...interface{}) {
	if d.Log != nil {
		d.Log(format, args...)
	}
}

// Search runs the full state machine to completion. results, when
// non-nil, receives every improving Result (an "o <cost>" line) before
// the final Result is returned and the channel closed; passing nil
// disables streaming.
func Search(f *formula.Formula, o oracle.Oracle, enc encoder.Encoder, cfg Config, results chan<- Result) Result {
	f.Standardize()
	d := &Driver{
		f:        f,
		o:        o,
		enc:      enc,
		coreMgr:  &core.Manager{Unweighted: f.ProblemType == formula.Unweighted},
		stratCtl: strat.New(cfg.VarresFactor),
		hardener: harden.New(),
		cfg:      cfg,
	}
	if results != nil {
		defer close(results)
		d.onImprove = func(r Result) { results <- r }
	}
	res := d.run()
	return res
}

func (d *Driver) run() Result {
	d.startTime = time.Now()

	res, ok := d.setup()
	if !ok {
		return res
	}

	switch d.cfg.Lins {
	case OnlyLinearSearch:
		return d.linearPrep()
	case WeightSearch:
		return d.coreGuidedForever()
	case CoreGuidedLinearSearch:
		return d.coreGuidedThenLinear()
	default:
		return Result{Status: StatusError, Err: fmt.Errorf("search: unknown lins mode %d", d.cfg.Lins)}
	}
}

// setup pushes the hard clauses to the oracle, seeds polarity hints from
// the soft clauses, and runs the initial unsat check (spec §4.7 Setup).
func (d *Driver) setup() (Result, bool) {
	d.o.ReserveVars(d.f.NVars())
	for i := 0; i < d.f.NHard(); i++ {
		d.o.AddClause(d.f.GetHard(i))
	}
	d.clausesAdded = d.f.NHard()

	for i := range d.f.Soft {
		l := d.f.Soft[i].Body[0]
		d.o.SetPolarity(l.Var(), l.IsPositive())
	}

	status := d.o.Solve(nil)
	if status == oracle.StatusUnsat {
		return Result{Status: StatusUnsatisfiable}, false
	}
	model := d.o.Model()
	cost := costOfModel(d.f, model)
	d.bestModel = model
	d.bounds.LowerUB(cost)
	d.emitImprovement()

	d.initStratification()
	return Result{}, true
}

func (d *Driver) initStratification() {
	if d.cfg.VaryingResCG {
		d.stratCtl.InitVaryingResolution(d.f)
		return
	}
	// Prime max_weight above every soft weight so the first Normal step
	// lands on the true maximum (spec §4.5's Normal is defined in terms
	// of "strictly less than the current max_weight").
	var max uint64
	for i := range d.f.Soft {
		if d.f.Soft[i].Weight > max {
			max = d.f.Soft[i].Weight
		}
	}
	d.stratCtl.MaxWeight = max + 1
	d.stratCtl.AdvanceNormal(d.f)
}

// activeAssumptions returns the assumption literals for every active
// soft clause whose weight qualifies at the current stratum threshold
// (spec invariant 7: weight >= max_weight, equivalently weight /
// max_weight > 0 for a positive integer divisor).
func (d *Driver) activeAssumptions() []oracle.Lit {
	var lits []oracle.Lit
	for i := range d.f.Soft {
		s := &d.f.Soft[i]
		if s.Hardened() || s.Weight < d.stratCtl.MaxWeight {
			continue
		}
		lits = append(lits, s.Body[0])
	}
	return lits
}

func (d *Driver) nActiveSoft() int {
	n := 0
	for i := range d.f.Soft {
		if !d.f.Soft[i].Hardened() {
			n++
		}
	}
	return n
}

func costOfModel(f *formula.Formula, model []bool) uint64 {
	var cost uint64
	for i := range f.Soft {
		s := &f.Soft[i]
		if s.Hardened() {
			continue
		}
		if !literalTrueInModel(s.Body[0], model) {
			cost += s.Weight
		}
	}
	return cost
}

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

func (d *Driver) emitImprovement() {
	if d.onImprove != nil {
		d.onImprove(Result{Status: StatusOptimum, Cost: d.bounds.UBCost, Model: d.bestModel})
	}
}

// rebuildOracle discards the oracle and reconstructs it from the
// formula store's current hard clauses (spec §5: "replacing the oracle
// frees the previous oracle before constructing the new one").
func (d *Driver) rebuildOracle(newOracle oracle.Oracle) {
	newOracle.ReserveVars(d.f.NVars())
	for i := 0; i < d.f.NHard(); i++ {
		newOracle.AddClause(d.f.GetHard(i))
	}
	d.o = newOracle
	d.clausesAdded = d.f.NHard()
	d.shouldUpdate = false
}

// updateSolver pushes any hard clauses added since the last high-water
// mark without discarding the oracle's learned state (spec §5).
func (d *Driver) updateSolver() {
	d.o.ReserveVars(d.f.NVars())
	for i := d.clausesAdded; i < d.f.NHard(); i++ {
		d.o.AddClause(d.f.GetHard(i))
	}
	d.clausesAdded = d.f.NHard()
	d.shouldUpdate = false
}
