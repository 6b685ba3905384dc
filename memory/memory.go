package memory

// RunSummary is the compact record kept for one completed session.
type RunSummary struct {
	SessionID           string  `json:"session_id"`
	RegionID            string  `json:"region_id"`
	CO2ReductionPercent float64 `json:"co2_reduction_percent"`
	TotalCostUSD        float64 `json:"total_cost_usd"`
	Score               float64 `json:"score"`
}

// Patterns is the aggregate view over all remembered runs.
type Patterns struct {
	NumSessions            int     `json:"num_sessions"`
	AvgCO2ReductionPercent float64 `json:"avg_co2_reduction_percent"`
	AvgTotalCostUSD        float64 `json:"avg_total_cost_usd"`
	BestScore              float64 `json:"best_score"`
}

// Store accumulates run summaries across sessions.
type Store interface {
	Append(summary RunSummary) error
	Recent(limit int) ([]RunSummary, error)
	Patterns() (Patterns, error)
}

// aggregate computes Patterns over a summary slice.
func aggregate(summaries []RunSummary) Patterns {
	if len(summaries) == 0 {
		return Patterns{}
	}
	p := Patterns{NumSessions: len(summaries), BestScore: summaries[0].Score}
	for _, s := range summaries {
		p.AvgCO2ReductionPercent += s.CO2ReductionPercent / float64(len(summaries))
		p.AvgTotalCostUSD += s.TotalCostUSD / float64(len(summaries))
		if s.Score > p.BestScore {
			p.BestScore = s.Score
		}
	}
	return p
}

// tail returns the last limit elements (all when limit <= 0 or exceeds length).
func tail(summaries []RunSummary, limit int) []RunSummary {
	if limit <= 0 || limit >= len(summaries) {
		limit = len(summaries)
	}
	out := make([]RunSummary, limit)
	copy(out, summaries[len(summaries)-limit:])
	return out
}
