package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/pmres/search"
	"github.com/crillab/pmres/strat"
)

func TestLoadDefaultsWhenOptsEmpty(t *testing.T) {
	got, err := Load(nil)
	require.NoError(t, err)
	if diff := cmp.Diff(search.DefaultConfig(), got); diff != "" {
		t.Errorf("Load(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverridesNamedFields(t *testing.T) {
	got, err := Load(map[string]interface{}{
		"weight_strategy": "diversify",
		"lins":            2,
		"verbosity":       3,
	})
	require.NoError(t, err)
	assert.Equal(t, strat.Diversify, got.WeightStrategy)
	assert.Equal(t, search.OnlyLinearSearch, got.Lins)
	assert.Equal(t, 3, got.Verbosity)
	// Untouched fields keep the default.
	assert.Equal(t, search.DefaultConfig().VarresFactor, got.VarresFactor)
}

func TestLoadRejectsUnknownWeightStrategy(t *testing.T) {
	_, err := Load(map[string]interface{}{"weight_strategy": "bogus"})
	assert.Error(t, err)
}

func TestLoadRejectsOutOfRangeLins(t *testing.T) {
	_, err := Load(map[string]interface{}{"lins": 7})
	assert.Error(t, err)
}
