// Package config loads solver options from a raw key/value map (as
// parsed from CLI flags or a JSON options file) into a search.Config,
// layered over search.DefaultConfig() so an omitted key keeps its
// default. Grounded on the raw-map-to-struct decoding idiom in
// limaJavier-timetabling's model input loader.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/crillab/pmres/search"
	"github.com/crillab/pmres/strat"
)

// rawConfig mirrors search.Config field-for-field but with the loosely
// typed values a flag parser or a JSON file naturally produces; mapstructure
// bridges the two so the caller doesn't have to hand-write the type
// coercions.
type rawConfig struct {
	WeightStrategy    string  `mapstructure:"weight_strategy"`
	Lins              int     `mapstructure:"lins"`
	VaryingResCG      bool    `mapstructure:"varyingres_cg"`
	VaryingRes        bool    `mapstructure:"varyingres"`
	VarresFactor      uint64  `mapstructure:"varres_factor"`
	TimeLimitCores    float64 `mapstructure:"time_limit_cores"`
	RelaxBeforeStrat  bool    `mapstructure:"relax_before_strat"`
	IncrementalVarres bool    `mapstructure:"incremental_varres"`
	DeleteBeforeLin   bool    `mapstructure:"delete_before_lin"`
	PBEnc             string  `mapstructure:"pb_enc"`
	Verbosity         int     `mapstructure:"verbosity"`
}

// Load decodes opts over search.DefaultConfig(), returning an error if a
// key names a field of the wrong type or weight_strategy names an
// unknown strategy.
func Load(opts map[string]interface{}) (search.Config, error) {
	def := search.DefaultConfig()
	raw := rawConfig{
		WeightStrategy:    weightStrategyName(def.WeightStrategy),
		Lins:              int(def.Lins),
		VaryingResCG:      def.VaryingResCG,
		VaryingRes:        def.VaryingRes,
		VarresFactor:      def.VarresFactor,
		TimeLimitCores:    def.TimeLimitCores,
		RelaxBeforeStrat:  def.RelaxBeforeStrat,
		IncrementalVarres: def.IncrementalVarres,
		DeleteBeforeLin:   def.DeleteBeforeLin,
		PBEnc:             def.PBEnc,
		Verbosity:         def.Verbosity,
	}
	if err := mapstructure.Decode(opts, &raw); err != nil {
		return search.Config{}, fmt.Errorf("config: %w", err)
	}

	strategy, err := parseWeightStrategy(raw.WeightStrategy)
	if err != nil {
		return search.Config{}, err
	}
	lins := search.LinsMode(raw.Lins)
	if lins < search.WeightSearch || lins > search.OnlyLinearSearch {
		return search.Config{}, fmt.Errorf("config: lins %d out of range", raw.Lins)
	}

	return search.Config{
		WeightStrategy:    strategy,
		Lins:              lins,
		VaryingResCG:      raw.VaryingResCG,
		VaryingRes:        raw.VaryingRes,
		VarresFactor:      raw.VarresFactor,
		TimeLimitCores:    raw.TimeLimitCores,
		RelaxBeforeStrat:  raw.RelaxBeforeStrat,
		IncrementalVarres: raw.IncrementalVarres,
		DeleteBeforeLin:   raw.DeleteBeforeLin,
		PBEnc:             raw.PBEnc,
		Verbosity:         raw.Verbosity,
	}, nil
}

func weightStrategyName(s strat.WeightStrategy) string {
	switch s {
	case strat.None:
		return "none"
	case strat.Diversify:
		return "diversify"
	default:
		return "normal"
	}
}

func parseWeightStrategy(name string) (strat.WeightStrategy, error) {
	switch name {
	case "none":
		return strat.None, nil
	case "normal", "":
		return strat.Normal, nil
	case "diversify":
		return strat.Diversify, nil
	default:
		return 0, fmt.Errorf("config: unknown weight_strategy %q", name)
	}
}
