// Package strat implements the stratification controller: it chooses
// the working weight threshold that the search driver stratifies
// assumptions by, in one of three modes (normal, diversify,
// varying-resolution). See spec §4.5.
package strat

import (
	"github.com/crillab/pmres/formula"
	"github.com/samber/lo"
)

// Alpha is the clause/distinct-weight ratio diversify and
// varying-resolution both target (spec §4.5).
const Alpha = 1.25

type WeightStrategy int

const (
	// None forces Normal behaviour (spec §6: "none forces normal").
	None WeightStrategy = iota
	Normal
	Diversify
)

// Controller holds the current stratum threshold and the configuration
// that governs how it advances. It carries no reference to the search
// driver; every method takes the formula it operates against explicitly.
type Controller struct {
	MaxWeight    uint64
	VarresFactor uint64

	firstDiversifyCall bool
}

// New returns a controller ready for the first call to any of its
// advance methods, with varresFactor as the varying-resolution divisor
// (must be ≥ 2).
func New(varresFactor uint64) *Controller {
	return &Controller{VarresFactor: varresFactor, firstDiversifyCall: true}
}

// FindNextWeight returns the greatest soft weight strictly less than
// the current MaxWeight, or 1 if no active soft clause qualifies.
func (c *Controller) FindNextWeight(f *formula.Formula) uint64 {
	found := false
	var best uint64
	for i := range f.Soft {
		s := &f.Soft[i]
		if s.Hardened() {
			continue
		}
		if s.Weight < c.MaxWeight && (!found || s.Weight > best) {
			best = s.Weight
			found = true
		}
	}
	if !found {
		return 1
	}
	return best
}

// AdvanceNormal implements the "normal" mode of §4.5.
func (c *Controller) AdvanceNormal(f *formula.Formula) {
	c.MaxWeight = c.FindNextWeight(f)
}

// activeWeightsAtOrAbove collects the weights of active soft clauses at
// or above threshold, using samber/lo to dedupe for the ratio test.
func activeWeightsAtOrAbove(f *formula.Formula, threshold uint64) []uint64 {
	var weights []uint64
	for i := range f.Soft {
		s := &f.Soft[i]
		if s.Hardened() || s.Weight < threshold {
			continue
		}
		weights = append(weights, s.Weight)
	}
	return weights
}

func nActiveSoft(f *formula.Formula) int {
	n := 0
	for i := range f.Soft {
		if !f.Soft[i].Hardened() {
			n++
		}
	}
	return n
}

// FindNextWeightDiversity advances MaxWeight by repeated Normal steps
// until either every active soft clause falls in the current stratum,
// or the clause/distinct-weight ratio exceeds Alpha and the resulting
// clause count strictly exceeds nbCurrentSoft. The very first call
// across the controller's lifetime skips the initial step, testing the
// controller's starting MaxWeight before stepping down (spec §4.5).
func (c *Controller) FindNextWeightDiversity(f *formula.Formula, nbCurrentSoft int) int {
	skip := c.firstDiversifyCall
	c.firstDiversifyCall = false

	for {
		if !skip {
			c.AdvanceNormal(f)
		}
		skip = false

		weights := activeWeightsAtOrAbove(f, c.MaxWeight)
		clauses := len(weights)
		nRealSoft := nActiveSoft(f)
		if clauses == nRealSoft {
			return clauses
		}
		distinct := len(lo.Uniq(weights))
		if distinct > 0 {
			ratio := float64(clauses) / float64(distinct)
			if ratio > Alpha && clauses > nbCurrentSoft {
				return clauses
			}
		}
		if c.MaxWeight <= 1 {
			return clauses
		}
	}
}

func maxSoftWeight(f *formula.Formula) uint64 {
	var m uint64
	for i := range f.Soft {
		if f.Soft[i].Weight > m {
			m = f.Soft[i].Weight
		}
	}
	return m
}

// enoughAboveVarres applies the same Alpha ratio test as diversify, but
// counting by weight/MaxWeight > 0 rather than weight >= MaxWeight
// directly (they coincide for integer division against a positive
// divisor, so the same helper serves both).
func (c *Controller) enoughAboveVarres(f *formula.Formula, nbCurrentSoft int) (int, bool) {
	weights := activeWeightsAtOrAbove(f, c.MaxWeight)
	clauses := len(weights)
	nRealSoft := nActiveSoft(f)
	if clauses == nRealSoft {
		return clauses, true
	}
	distinct := len(lo.Uniq(weights))
	if distinct == 0 {
		return clauses, false
	}
	ratio := float64(clauses) / float64(distinct)
	return clauses, ratio > Alpha && clauses > nbCurrentSoft
}

// InitVaryingResolution sets MaxWeight to the largest power of
// VarresFactor not exceeding the largest soft weight in the formula,
// then divides down until the Alpha predicate holds (spec §4.5).
func (c *Controller) InitVaryingResolution(f *formula.Formula) {
	maxW := maxSoftWeight(f)
	p := uint64(1)
	for c.VarresFactor > 1 && p*c.VarresFactor <= maxW {
		p *= c.VarresFactor
	}
	c.MaxWeight = p

	for {
		if _, ok := c.enoughAboveVarres(f, 0); ok || c.MaxWeight <= 1 {
			return
		}
		c.MaxWeight /= c.VarresFactor
	}
}

// AdvanceVaryingResolution divides MaxWeight by VarresFactor, repeating
// while the Alpha predicate still fails, used by the core-guided
// varying-resolution mode once a stratum is exhausted.
func (c *Controller) AdvanceVaryingResolution(f *formula.Formula, nbCurrentSoft int) {
	for c.MaxWeight > 1 {
		c.MaxWeight /= c.VarresFactor
		if _, ok := c.enoughAboveVarres(f, nbCurrentSoft); ok {
			return
		}
	}
}

// UpdateDivisionFactorLinear implements the linear-phase varying
// resolution advance: keep dividing while the count of soft clauses at
// weight ≥ next stays equal to nbCurrentSoft and next > 1 (spec §4.5).
func (c *Controller) UpdateDivisionFactorLinear(f *formula.Formula, nbCurrentSoft int) {
	for {
		next := c.MaxWeight / c.VarresFactor
		if next <= 1 {
			break
		}
		if len(activeWeightsAtOrAbove(f, next)) != nbCurrentSoft {
			break
		}
		c.MaxWeight = next
	}
	if c.MaxWeight < 1 {
		c.MaxWeight = 1
	}
}

// DistinctWeights returns the distinct active soft-clause weights at or
// above threshold, ordered as samber/lo.Uniq encounters them.
func DistinctWeights(f *formula.Formula, threshold uint64) []uint64 {
	return lo.Uniq(activeWeightsAtOrAbove(f, threshold))
}
