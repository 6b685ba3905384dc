package eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terramesh/terramesh/climate"
)

func TestHarness_BaselineIsDeterministic(t *testing.T) {
	h := New()

	base, err := h.Baseline("coastal_city_01")
	require.NoError(t, err)

	// Cheapest intervention per sector (EV_SUBSIDY, INDUSTRIAL_EFFICIENCY,
	// BUILDING_RETROFIT) at low scale on a 15.0 Mt baseline.
	require.Len(t, base.Scenario.Actions, 3)
	for _, action := range base.Scenario.Actions {
		assert.Equal(t, climate.ScaleLow, action.Scale)
	}
	assert.InDelta(t, 11.0, base.Projection.ReductionPercent, 1e-6)
	assert.InDelta(t, 265_000_000, base.Projection.TotalCost, 1e-3)
	assert.InDelta(t, -8.0, base.Score, 1e-6)
}

func TestHarness_BaselineUnknownRegion(t *testing.T) {
	_, err := New().Baseline("atlantis")
	assert.Error(t, err)
}

func TestHarness_RunComparesPipelineAgainstBaseline(t *testing.T) {
	outcome, err := New().Run(context.Background(), SampleCases())
	require.NoError(t, err)

	require.Len(t, outcome.Results, 2)
	assert.Equal(t, 2, outcome.Summary.NumCases)
	assert.Equal(t, outcome.Summary.NumCases,
		outcome.Summary.AgenticWins+outcome.Summary.BaselineWins+outcome.Summary.Ties)

	for _, r := range outcome.Results {
		assert.NotEmpty(t, r.Case.Name)
		assert.Positive(t, r.Baseline.Projection.ReductionPercent)
		assert.Equal(t, r.AgenticScore > r.Baseline.Score, r.AgenticBetter)
	}
}

func TestHarness_RunEmptyCaseList(t *testing.T) {
	outcome, err := New().Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, outcome.Summary)
	assert.Empty(t, outcome.Results)
}
