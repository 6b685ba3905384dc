package evaluation

import (
	"fmt"
	"sort"

	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/policy"
)

// Outcome is one simulated scenario as accumulated by the barrier.
type Outcome struct {
	Policy     policy.Policy      `json:"policy"`
	Region     climate.Region     `json:"region"`
	Scenario   climate.Scenario   `json:"scenario"`
	Projection climate.Projection `json:"simulation"`
}

// ScoredScenario pairs a scenario outcome with its fitness score.
type ScoredScenario struct {
	Score      float64            `json:"score"`
	Scenario   climate.Scenario   `json:"scenario"`
	Projection climate.Projection `json:"simulation"`
}

// Metrics are summary statistics over the whole batch: score extrema/mean
// plus the domain aggregates reported to planners.
type Metrics struct {
	NumScenarios           int     `json:"num_scenarios"`
	MeanScore              float64 `json:"mean_score"`
	MaxScore               float64 `json:"max_score"`
	MinScore               float64 `json:"min_score"`
	AvgCO2ReductionPercent float64 `json:"avg_co2_reduction_percent"`
	MaxCO2ReductionPercent float64 `json:"max_co2_reduction_percent"`
	AvgTotalCostUSD        float64 `json:"avg_total_cost_usd"`
	MinTotalCostUSD        float64 `json:"min_total_cost_usd"`
}

// Summary is the single aggregate emitted when a session's barrier fires.
type Summary struct {
	Best    ScoredScenario   `json:"best_scenario"`
	Outcome Outcome          `json:"best_outcome"` // full record behind Best
	Ranked  []ScoredScenario `json:"ranked_scenarios"`
	Metrics Metrics          `json:"metrics"`
}

// Evaluate reduces an accumulated batch to one Summary. It is a pure
// function of the batch contents: scoring, ranking (stable, so equal scores
// keep first-seen order) and statistics do not depend on arrival order
// beyond that tie-break.
func Evaluate(outcomes []Outcome, w Weights) (Summary, error) {
	if len(outcomes) == 0 {
		return Summary{}, fmt.Errorf("evaluation: cannot evaluate empty batch")
	}

	type scored struct {
		score   float64
		outcome Outcome
	}
	batch := make([]scored, len(outcomes))
	for i, outcome := range outcomes {
		batch[i] = scored{score: Score(outcome.Policy, outcome.Projection, w), outcome: outcome}
	}
	sort.SliceStable(batch, func(i, j int) bool { return batch[i].score > batch[j].score })

	ranked := make([]ScoredScenario, len(batch))
	metrics := Metrics{
		NumScenarios:           len(batch),
		MaxScore:               batch[0].score,
		MinScore:               batch[len(batch)-1].score,
		MinTotalCostUSD:        batch[0].outcome.Projection.TotalCost,
		MaxCO2ReductionPercent: batch[0].outcome.Projection.ReductionPercent,
	}
	for i, entry := range batch {
		ranked[i] = ScoredScenario{
			Score:      entry.score,
			Scenario:   entry.outcome.Scenario,
			Projection: entry.outcome.Projection,
		}
		metrics.MeanScore += entry.score / float64(len(batch))
		metrics.AvgCO2ReductionPercent += entry.outcome.Projection.ReductionPercent / float64(len(batch))
		metrics.AvgTotalCostUSD += entry.outcome.Projection.TotalCost / float64(len(batch))
		if entry.outcome.Projection.ReductionPercent > metrics.MaxCO2ReductionPercent {
			metrics.MaxCO2ReductionPercent = entry.outcome.Projection.ReductionPercent
		}
		if entry.outcome.Projection.TotalCost < metrics.MinTotalCostUSD {
			metrics.MinTotalCostUSD = entry.outcome.Projection.TotalCost
		}
	}

	return Summary{
		Best:    ranked[0],
		Outcome: batch[0].outcome,
		Ranked:  ranked,
		Metrics: metrics,
	}, nil
}
