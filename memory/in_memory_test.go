package memory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []RunSummary {
	return []RunSummary{
		{SessionID: "s1", RegionID: "coastal_city_01", CO2ReductionPercent: 20, TotalCostUSD: 100, Score: 15},
		{SessionID: "s2", RegionID: "coastal_city_01", CO2ReductionPercent: 40, TotalCostUSD: 300, Score: 35},
		{SessionID: "s3", RegionID: "industrial_region_02", CO2ReductionPercent: 30, TotalCostUSD: 200, Score: 25},
	}
}

func TestInMemoryStore_RecentAndPatterns(t *testing.T) {
	store := NewInMemoryStore()
	for _, s := range sampleRuns() {
		require.NoError(t, store.Append(s))
	}

	recent, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "s2", recent[0].SessionID)
	assert.Equal(t, "s3", recent[1].SessionID)

	all, err := store.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	patterns, err := store.Patterns()
	require.NoError(t, err)
	assert.Equal(t, 3, patterns.NumSessions)
	assert.InDelta(t, 30, patterns.AvgCO2ReductionPercent, 1e-9)
	assert.InDelta(t, 200, patterns.AvgTotalCostUSD, 1e-9)
	assert.InDelta(t, 35, patterns.BestScore, 1e-9)
}

func TestInMemoryStore_EmptyPatterns(t *testing.T) {
	patterns, err := NewInMemoryStore().Patterns()
	require.NoError(t, err)
	assert.Equal(t, Patterns{}, patterns)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory", "long_term.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	for _, s := range sampleRuns() {
		require.NoError(t, store.Append(s))
	}

	// A fresh store over the same file sees the persisted summaries.
	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	recent, err := reopened.Recent(10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	patterns, err := reopened.Patterns()
	require.NoError(t, err)
	assert.Equal(t, 3, patterns.NumSessions)
	assert.InDelta(t, 35, patterns.BestScore, 1e-9)
}
