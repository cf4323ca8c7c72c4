package search

import "github.com/crillab/pmres/strat"

// LinsMode selects one of the three top-level search strategies (spec
// §4.7 "Strategy selector").
type LinsMode int

const (
	// WeightSearch stays in the core-guided phase forever, until OPTIMUM.
	WeightSearch LinsMode = iota
	// CoreGuidedLinearSearch runs core-guided first, then switches to
	// linear search once it stalls or the stratum bottoms out.
	CoreGuidedLinearSearch
	// OnlyLinearSearch skips core-guided entirely.
	OnlyLinearSearch
)

// Config collects every option in spec §6.
type Config struct {
	WeightStrategy   strat.WeightStrategy
	Lins             LinsMode
	VaryingResCG     bool
	VaryingRes       bool
	VarresFactor     uint64
	TimeLimitCores   float64 // seconds; -1 = no limit
	RelaxBeforeStrat bool
	IncrementalVarres bool
	DeleteBeforeLin  bool
	PBEnc            string // encoder selection; currently only "seqcounter" is wired
	Verbosity        int
}

// DefaultConfig mirrors the defaults a competition MaxSAT solver in this
// family ships with: hybrid core-guided/linear search, plain
// stratification, no varying resolution.
func DefaultConfig() Config {
	return Config{
		WeightStrategy:    strat.Normal,
		Lins:              CoreGuidedLinearSearch,
		VaryingResCG:      false,
		VaryingRes:        false,
		VarresFactor:      2,
		TimeLimitCores:    -1,
		RelaxBeforeStrat:  true,
		IncrementalVarres: false,
		DeleteBeforeLin:   true,
		PBEnc:             "seqcounter",
		Verbosity:         0,
	}
}

// lazyHardening reports whether the hardener should skip mirroring
// promotions into the formula store's permanent hard-clause list (spec
// §4.6: "lazy = ¬delete_before_lin ∧ ¬varyingres").
func (c Config) lazyHardening() bool {
	return !c.DeleteBeforeLin && !c.VaryingRes
}
