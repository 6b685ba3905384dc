package terramesh

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/core"
)

func TestPlan_EndToEnd(t *testing.T) {
	mesh := New()

	result, err := mesh.Plan(context.Background(),
		"Design a 10-year plan to reduce CO2 emissions by 40% in coastal_city_01 with minimal job loss.",
		"coastal_city_01")
	require.NoError(t, err)

	assert.Contains(t, result.Report.Title, "Coastal City")
	assert.False(t, result.Report.NoViablePlan)
	assert.Greater(t, result.Report.Metrics.NumScenarios, 0)
	assert.NotEmpty(t, result.Report.Best.Scenario.ID)
	assert.Empty(t, result.Dispatch.Faults)

	// The report is also persisted in the store.
	saved, err := mesh.Report(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, result.Report.Title, saved.Title)

	// Session lifecycle reached completed.
	state, err := mesh.Session(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, state.Status)

	// The run landed in long-term memory.
	patterns, err := mesh.Patterns()
	require.NoError(t, err)
	assert.Equal(t, 1, patterns.NumSessions)
	assert.InDelta(t, result.Report.Best.Score, patterns.BestScore, 1e-9)
}

func TestPlan_RankedScenariosAreScoredDescending(t *testing.T) {
	mesh := New()

	result, err := mesh.Plan(context.Background(),
		"Reduce CO2 emissions by 30% over 10 years", "industrial_region_02")
	require.NoError(t, err)

	ranked := result.Report.Metrics
	require.Greater(t, ranked.NumScenarios, 1)
	assert.GreaterOrEqual(t, ranked.MaxScore, ranked.MeanScore)
	assert.GreaterOrEqual(t, ranked.MeanScore, ranked.MinScore)
}

func TestPlan_NoViableScenariosStillCompletes(t *testing.T) {
	// A region whose emissions sit entirely outside the catalog sectors
	// leaves the fan-out stage with nothing to propose.
	atlas, err := climate.ParseAtlas(strings.NewReader(
		"region_id,name,population,current_emissions_mtco2,transport_share,industry_share,buildings_share\n" +
			"agrarian_region_03,Agrarian Region,400000,5.0,0.0,0.0,0.0\n"))
	require.NoError(t, err)

	mesh := New(func(o *Options) {
		o.Atlas = atlas
	})

	result, err := mesh.Plan(context.Background(),
		"Reduce emissions by 30%", "agrarian_region_03")
	require.NoError(t, err)

	assert.True(t, result.Report.NoViablePlan)
	assert.Empty(t, result.Dispatch.Faults)

	state, err := mesh.Session(result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, state.Status)

	// A run without a best scenario must not be remembered, or it would
	// pull the cross-run averages toward zero.
	patterns, err := mesh.Patterns()
	require.NoError(t, err)
	assert.Equal(t, 0, patterns.NumSessions)
}

func TestPlan_UnknownRegionFailsSession(t *testing.T) {
	mesh := New()

	sessionID, err := mesh.StartSession("Reduce emissions", "atlantis")
	require.NoError(t, err)

	result, err := mesh.RunSession(context.Background(), sessionID)
	require.Error(t, err)
	require.NotEmpty(t, result.Dispatch.Faults)

	state, stateErr := mesh.Session(sessionID)
	require.NoError(t, stateErr)
	assert.Equal(t, core.StatusFailed, state.Status)
}

func TestStartSession_ValidatesInput(t *testing.T) {
	mesh := New()

	_, err := mesh.StartSession("", "coastal_city_01")
	assert.ErrorIs(t, err, core.ErrMissingField)

	_, err = mesh.StartSession("goal", "")
	assert.ErrorIs(t, err, core.ErrMissingField)
}

func TestRunSession_UnknownSession(t *testing.T) {
	mesh := New()
	_, err := mesh.RunSession(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestPlan_SessionsAreIsolatedOnOneMesh(t *testing.T) {
	mesh := New()

	first, err := mesh.Plan(context.Background(),
		"Reduce CO2 emissions by 40%", "coastal_city_01")
	require.NoError(t, err)
	second, err := mesh.Plan(context.Background(),
		"Reduce CO2 emissions by 20%", "industrial_region_02")
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Contains(t, first.Report.Title, "Coastal City")
	assert.Contains(t, second.Report.Title, "Industrial Region")

	patterns, err := mesh.Patterns()
	require.NoError(t, err)
	assert.Equal(t, 2, patterns.NumSessions)
}
