package search

import (
	"time"

	"github.com/crillab/pmres/oracle"
	"github.com/crillab/pmres/strat"
)

// coreGuidedRound runs the inner UNSAT-relax loop of spec §4.7's
// CoreGuided state for the current stratum: it keeps calling the oracle
// and relaxing cores until either a model is found, the oracle is
// interrupted by its time budget, or an empty core proves the whole
// stratum unsatisfiable (a hard-clause contradiction, which is always
// fatal since hard clauses are never relaxed).
func (d *Driver) coreGuidedRound() (oracle.Status, []bool) {
	for {
		assumptions := d.activeAssumptions()

		if d.cfg.TimeLimitCores >= 0 {
			remaining := d.cfg.TimeLimitCores - time.Since(d.startTime).Seconds()
			if remaining <= 0 {
				return oracle.StatusUnknown, nil
			}
			d.o.SetTimeBudget(remaining)
		} else {
			d.o.BudgetOff()
		}

		status := d.o.Solve(assumptions)
		switch status {
		case oracle.StatusSat:
			return oracle.StatusSat, d.o.Model()
		case oracle.StatusUnknown:
			return oracle.StatusUnknown, nil
		case oracle.StatusUnsat:
			conflict := d.o.Conflict()
			if len(conflict) == 0 {
				// the hard clauses alone are already unsatisfiable;
				// Setup's initial check should have caught this.
				panic("search: hard clauses became unsatisfiable mid-search")
			}
			cost := d.coreMgr.Cost(d.f, conflict)
			d.bounds.RaiseLB(cost)
			coreGuidedOnly := d.cfg.Lins == WeightSearch
			d.coreMgr.Relax(d.f, d.o, conflict, cost, coreGuidedOnly)
			d.shouldUpdate = true
			d.log("c lb %d cost %d core size %d", d.bounds.LBCost, cost, len(conflict))
		}
	}
}

// afterSatRound applies the bookkeeping shared by every CoreGuided SAT
// exit (spec §4.7): update the bound, check the two optimum shortcuts,
// run the hardener if the gap justifies it, and report whether the
// caller should keep iterating within the core-guided phase.
func (d *Driver) afterSatRound(model []bool, stratumSize int) (Result, bool, bool) {
	cost := d.bounds.LBCost + costOfModel(d.f, model)
	if d.bounds.LowerUB(cost) {
		d.bestModel = model
		d.emitImprovement()
	}
	if d.bounds.Optimum() {
		return d.finalResult(StatusOptimum), false, false
	}
	if stratumSize == d.nActiveSoft() && cost == d.bounds.LBCost {
		return d.finalResult(StatusOptimum), false, false
	}
	if d.hardener.ShouldRun(d.bounds.Gap()) {
		d.hardener.Run(d.f, d.o, d.bounds.Gap(), d.bestModel, d.cfg.lazyHardening())
	}
	atWeightOne := d.stratCtl.MaxWeight <= 1
	d.advanceStratum(stratumSize)
	return Result{}, true, atWeightOne
}

// advanceStratum bumps the stratification controller to the next
// working weight and pushes any pending hard clauses to the oracle,
// honouring the relax_before_strat ordering toggle (spec §4.7, §6).
func (d *Driver) advanceStratum(nbCurrentSoft int) {
	rebuildFirst := func() {
		if !d.shouldUpdate {
			return
		}
		d.updateSolver()
	}
	advance := func() {
		switch {
		case d.cfg.VaryingResCG:
			d.stratCtl.AdvanceVaryingResolution(d.f, nbCurrentSoft)
		case d.cfg.WeightStrategy == strat.Diversify:
			d.stratCtl.FindNextWeightDiversity(d.f, nbCurrentSoft)
		default:
			d.stratCtl.AdvanceNormal(d.f)
		}
	}
	if d.cfg.RelaxBeforeStrat {
		rebuildFirst()
		advance()
	} else {
		advance()
		rebuildFirst()
	}
}

func (d *Driver) finalResult(status Status) Result {
	return Result{Status: status, Cost: d.bounds.UBCost, Model: d.bestModel}
}

// coreGuidedForever implements lins=0 (weightSearch): stay in
// CoreGuided until OPTIMUM.
func (d *Driver) coreGuidedForever() Result {
	for {
		status, model := d.coreGuidedRound()
		if status == oracle.StatusUnknown {
			return Result{Status: StatusUnknown}
		}
		nb := len(d.activeAssumptions())
		res, keepGoing, _ := d.afterSatRound(model, nb)
		if !keepGoing {
			return res
		}
	}
}

// coreGuidedThenLinear implements lins=1 (hybrid): run CoreGuided until
// OPTIMUM, an UNKNOWN interruption, or the stratum bottoms out at
// max_weight == 1, then hand off to LinearPrep.
func (d *Driver) coreGuidedThenLinear() Result {
	for {
		status, model := d.coreGuidedRound()
		if status == oracle.StatusUnknown {
			return d.linearPrep()
		}
		nb := len(d.activeAssumptions())
		res, keepGoing, wasAtWeightOne := d.afterSatRound(model, nb)
		if !keepGoing {
			return res
		}
		if wasAtWeightOne {
			return d.linearPrep()
		}
	}
}
