package search

import (
	"github.com/crillab/pmres/formula"
	"github.com/crillab/pmres/oracle"
)

// linearPrep implements spec §4.7's LinearPrep: turn off the time
// budget, warm-start the oracle's phase saving from the best model
// found so far, optionally reset the oracle, initialise the
// varying-resolution division factor for the linear phase, and build
// the residual-objective PB constraint.
func (d *Driver) linearPrep() Result {
	if d.bounds.Optimum() {
		return d.finalResult(StatusOptimum)
	}

	d.o.BudgetOff()
	d.o.SetUserPhase(d.bestModel)
	d.o.SetSolutionBasedPhaseSaving(true)

	if d.cfg.DeleteBeforeLin {
		d.rebuildOracle(oracle.NewSolver(d.f.NVars()))
		d.o.SetUserPhase(d.bestModel)
		d.o.SetSolutionBasedPhaseSaving(true)
	} else if d.shouldUpdate {
		d.updateSolver()
	}

	if d.cfg.VaryingRes {
		d.stratCtl.InitVaryingResolution(d.f)
	} else {
		d.stratCtl.MaxWeight = 1
	}

	d.buildPBConstraint((d.bounds.UBCost - 1) / d.stratCtl.MaxWeight)
	return d.linearLoop()
}

// buildPBConstraint implements spec §4.8 initializePBConstraint: gather
// the reduced (weight/max_weight) objective over every active soft
// clause, pick a cardinality or weighted PB encoding depending on
// whether the reduced coefficients are uniform, and (re)build it from
// scratch against the oracle.
func (d *Driver) buildPBConstraint(rhs uint64) {
	var lits []oracle.Lit
	var coeffs []int64
	uniform := true
	haveFirst := false
	var first int64

	for i := range d.f.Soft {
		s := &d.f.Soft[i]
		if s.Hardened() {
			continue
		}
		reduced := int64(s.Weight / d.stratCtl.MaxWeight)
		if reduced <= 0 {
			continue
		}
		lits = append(lits, s.Assumption)
		coeffs = append(coeffs, reduced)
		if !haveFirst {
			first, haveFirst = reduced, true
		} else if reduced != first {
			uniform = false
		}
	}
	d.nbCurrentSoft = len(lits)

	// incremental_varres forces the weighted encoding regardless of
	// whether the reduced coefficients happen to be uniform (spec §9
	// open question, resolved here in favour of respecting the flag
	// literally even when it has no visible effect on a uniform input).
	if d.cfg.IncrementalVarres {
		uniform = false
	}

	if uniform {
		d.f.SetProblemType(formula.Unweighted)
	} else {
		d.f.SetProblemType(formula.Weighted)
	}

	d.enc.Destroy()
	if uniform {
		d.enc.EncodeCardinality(d.o, lits, int64(rhs))
	} else {
		d.enc.EncodePB(d.o, lits, coeffs, int64(rhs))
	}
	d.currentRHS = rhs
	d.setCardVars(d.f.NVars())
}

// setCardVars feeds the saved best-model assignments for original
// variables as assumptions to a throwaway solve, letting solution-based
// phase saving propagate sensible initial phases onto the encoder's
// freshly introduced auxiliary variables (spec §4.8 step 5). The result
// is discarded: the tightened PB constraint usually makes the old best
// model itself infeasible, which is expected and harmless here.
func (d *Driver) setCardVars(bound int) {
	if len(d.bestModel) == 0 {
		return
	}
	assume := make([]oracle.Lit, 0, bound)
	for v := 0; v < bound && v < len(d.bestModel); v++ {
		assume = append(assume, oracle.Var(v).SignedLit(!d.bestModel[v]))
	}
	d.o.Solve(assume)
}

// tightenPB narrows the PB/cardinality bound to rhs, either by mutating
// the permanent encoding or, in incremental_varres mode, leaving the
// permanent clauses untouched and relying on UpdatePBAssumptions each
// round instead.
func (d *Driver) tightenPB(rhs uint64) {
	d.currentRHS = rhs
	if d.cfg.IncrementalVarres {
		return
	}
	if d.f.ProblemType == formula.Unweighted {
		d.enc.UpdateCardinality(d.o, int64(rhs))
	} else {
		d.enc.UpdatePB(d.o, int64(rhs))
	}
}

func (d *Driver) reducedCostOfModel(model []bool) uint64 {
	var reduced uint64
	for i := range d.f.Soft {
		s := &d.f.Soft[i]
		if s.Hardened() {
			continue
		}
		if !literalTrueInModel(s.Body[0], model) {
			reduced += s.Weight / d.stratCtl.MaxWeight
		}
	}
	return reduced
}

// advanceLinearResolution divides the varying-resolution factor again
// once the current PB resolution has stalled (spec §4.7 LinearLoop,
// "reduced == 0, max_weight > 1" branch) and rebuilds the PB constraint
// at the new, finer resolution.
func (d *Driver) advanceLinearResolution() {
	if d.cfg.DeleteBeforeLin {
		d.rebuildOracle(oracle.NewSolver(d.f.NVars()))
		d.o.SetUserPhase(d.bestModel)
		d.o.SetSolutionBasedPhaseSaving(true)
	}
	d.stratCtl.UpdateDivisionFactorLinear(d.f, d.nbCurrentSoft)
	d.buildPBConstraint((d.bounds.UBCost - 1) / d.stratCtl.MaxWeight)
}

// proveOptimalAtBestModel raises the lower bound to meet the upper
// bound: reached when the linear phase can no longer find, nor rule
// out finer improvement at the finest resolution, which for a PB
// bound-tightening search means the current best model is optimal.
func (d *Driver) proveOptimalAtBestModel() Result {
	d.bounds.RaiseLB(d.bounds.UBCost - d.bounds.LBCost)
	return d.finalResult(StatusOptimum)
}

// linearLoop implements spec §4.7's LinearLoop.
func (d *Driver) linearLoop() Result {
	for {
		var assumptions []oracle.Lit
		if d.cfg.IncrementalVarres {
			assumptions = d.enc.UpdatePBAssumptions(int64(d.currentRHS))
		}

		status := d.o.Solve(assumptions)
		switch status {
		case oracle.StatusUnknown:
			return Result{Status: StatusUnknown}

		case oracle.StatusSat:
			model := d.o.Model()
			cost := d.bounds.LBCost + costOfModel(d.f, model)
			if d.bounds.LowerUB(cost) {
				d.bestModel = model
				d.emitImprovement()
			}
			if d.bounds.Optimum() {
				return d.finalResult(StatusOptimum)
			}
			reduced := d.reducedCostOfModel(model)
			if reduced > 0 {
				d.tightenPB(reduced - 1)
				continue
			}
			if d.stratCtl.MaxWeight <= 1 {
				return d.proveOptimalAtBestModel()
			}
			d.advanceLinearResolution()

		case oracle.StatusUnsat:
			if d.stratCtl.MaxWeight <= 1 {
				return d.proveOptimalAtBestModel()
			}
			d.advanceLinearResolution()
		}
	}
}
