// Package policy turns a free-form sustainability goal into the structured
// policy objective consumed by the downstream pipeline stages. The default
// parser is a deterministic rule-based extractor; an LLM-backed parser can
// be plugged in via the model.Completer abstraction.
package policy

import "strings"

// Targets are the numeric objectives a plan is scored against.
type Targets struct {
	CO2ReductionPercent float64 `json:"co2_reduction_percent"`
	JobLossMaxPercent   float64 `json:"job_loss_max_percent"`
	BudgetLimitUSD      float64 `json:"budget_limit_usd"`
}

// Policy is the structured form of a planning goal.
type Policy struct {
	RegionID     string   `json:"region_id"`
	HorizonYears int      `json:"time_horizon_years"`
	Targets      Targets  `json:"targets"`
	Constraints  []string `json:"constraints"`
	RawText      string   `json:"raw_text"`
}

// Forbids reports whether any "no <term>" constraint matches the given
// subject, e.g. an intervention id or name. Matching is case-insensitive
// and by substring, so "no transit" forbids "Public Transit Expansion".
func (p Policy) Forbids(subject string) bool {
	subject = strings.ToLower(subject)
	for _, c := range p.Constraints {
		term, ok := strings.CutPrefix(c, "no ")
		if !ok {
			continue
		}
		if strings.Contains(subject, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
