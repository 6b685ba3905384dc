package policy

import (
	"context"
	"fmt"
	"strings"
)

// Parser extracts a structured Policy from free-form goal text.
type Parser interface {
	Parse(ctx context.Context, goalText, regionID string) (Policy, error)
}

// Default objective values applied when the goal text does not specify them.
const (
	DefaultHorizonYears        = 10
	DefaultCO2ReductionPercent = 30
	DefaultJobLossMaxPercent   = 5
	DefaultBudgetLimitUSD      = 500_000_000
)

// HeuristicParser is a deterministic rule-based extractor. It recognizes
// time horizons ("10-year", "15 year"), reduction targets ("40%",
// "40 percent") and a small set of constraint phrases.
type HeuristicParser struct{}

// NewHeuristicParser constructs the default rule-based parser.
func NewHeuristicParser() *HeuristicParser { return &HeuristicParser{} }

// Parse implements Parser.
func (p *HeuristicParser) Parse(_ context.Context, goalText, regionID string) (Policy, error) {
	if regionID == "" {
		return Policy{}, fmt.Errorf("policy: region id is required")
	}

	pol := Policy{
		RegionID:     regionID,
		HorizonYears: DefaultHorizonYears,
		Targets: Targets{
			CO2ReductionPercent: DefaultCO2ReductionPercent,
			JobLossMaxPercent:   DefaultJobLossMaxPercent,
			BudgetLimitUSD:      DefaultBudgetLimitUSD,
		},
		Constraints: []string{},
		RawText:     goalText,
	}

	text := strings.ToLower(goalText)

	for _, years := range []int{5, 10, 15, 20} {
		if strings.Contains(text, fmt.Sprintf("%d-year", years)) || strings.Contains(text, fmt.Sprintf("%d year", years)) {
			pol.HorizonYears = years
			break
		}
	}

	for _, pct := range []int{20, 30, 40, 50, 60} {
		if strings.Contains(text, fmt.Sprintf("%d%%", pct)) || strings.Contains(text, fmt.Sprintf("%d percent", pct)) {
			pol.Targets.CO2ReductionPercent = float64(pct)
			break
		}
	}

	for _, constraint := range []string{"no nuclear", "protect wetlands"} {
		if strings.Contains(text, constraint) {
			pol.Constraints = append(pol.Constraints, constraint)
		}
	}

	return pol, nil
}
