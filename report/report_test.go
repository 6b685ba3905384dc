package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/evaluation"
	"github.com/terramesh/terramesh/policy"
)

func sampleSummary() evaluation.Summary {
	scenario := climate.Scenario{ID: "S1", Actions: []climate.Action{
		{InterventionID: "EV_SUBSIDY", Scale: climate.ScaleHigh},
	}}
	proj := climate.Projection{
		BaselineEmissions:  15,
		ProjectedEmissions: 10,
		ReductionPercent:   33.3,
		TotalCost:          150_000_000,
		JobsChangePercent:  -0.3,
	}
	best := evaluation.ScoredScenario{Score: 33.3, Scenario: scenario, Projection: proj}
	return evaluation.Summary{
		Best: best,
		Outcome: evaluation.Outcome{
			Policy:     policy.Policy{RegionID: "coastal_city_01", HorizonYears: 10},
			Region:     climate.Region{ID: "coastal_city_01", Name: "Coastal City"},
			Scenario:   scenario,
			Projection: proj,
		},
		Ranked:  []evaluation.ScoredScenario{best},
		Metrics: evaluation.Metrics{NumScenarios: 1, MeanScore: 33.3, MaxScore: 33.3, MinScore: 33.3},
	}
}

func TestRender(t *testing.T) {
	r := Render(sampleSummary())

	assert.Equal(t, "Sustainability Plan for Coastal City", r.Title)
	assert.Contains(t, r.ExecutiveSummary, "33.3%")
	assert.Contains(t, r.ExecutiveSummary, "10 years")
	assert.Contains(t, r.Body, "Intervention EV_SUBSIDY at high scale")
	assert.Contains(t, r.Body, "S1: 33.3% reduction")
	assert.False(t, r.NoViablePlan)
	assert.Equal(t, "S1", r.Best.Scenario.ID)
}

func TestRender_FallsBackToRegionID(t *testing.T) {
	summary := sampleSummary()
	summary.Outcome.Region.Name = ""

	r := Render(summary)
	assert.Equal(t, "Sustainability Plan for coastal_city_01", r.Title)
}

func TestRenderNoWork(t *testing.T) {
	r := RenderNoWork("coastal_city_01", "all interventions excluded by constraints")

	assert.True(t, r.NoViablePlan)
	assert.Contains(t, r.ExecutiveSummary, "coastal_city_01")
	assert.Contains(t, r.ExecutiveSummary, "excluded by constraints")
}

func TestInMemoryStore(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	r := Render(sampleSummary())
	require.NoError(t, store.Save("sess-1", r))

	got, err := store.Load("sess-1")
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestFileStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	r := Render(sampleSummary())
	require.NoError(t, store.Save("sess-1", r))

	assert.FileExists(t, filepath.Join(dir, "sess-1_report.json"))

	got, err := store.Load("sess-1")
	require.NoError(t, err)
	assert.Equal(t, r.Title, got.Title)
	assert.Equal(t, r.Best, got.Best)

	_, err = store.Load("sess-2")
	assert.ErrorIs(t, err, ErrNotFound)
}
