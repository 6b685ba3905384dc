package evaluation

import (
	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/policy"
)

// Weights tune the scoring function. Reduction rewards hitting the CO2
// target, BudgetOvershoot penalizes relative spending above the budget
// limit, JobsPenalty penalizes job losses beyond the allowed percentage.
type Weights struct {
	Reduction       float64
	BudgetOvershoot float64
	JobsPenalty     float64
}

// DefaultWeights are the hand-tuned production weights.
var DefaultWeights = Weights{Reduction: 1.0, BudgetOvershoot: 50.0, JobsPenalty: 10.0}

// Score rates a simulated projection against the policy objectives.
//
//	score = wR*reductionScore - wB*budgetOvershoot - wJ*jobsPenalty
//
// where reductionScore is the achieved reduction minus the shortfall to the
// target (overachieving is not additionally rewarded beyond the raw
// reduction), budgetOvershoot is the relative cost above the budget limit
// (0 when the limit is absent, i.e. non-positive), and jobsPenalty is the
// job loss exceeding the allowed maximum.
func Score(pol policy.Policy, proj climate.Projection, w Weights) float64 {
	reduction := proj.ReductionPercent
	shortfall := pol.Targets.CO2ReductionPercent - reduction
	if shortfall < 0 {
		shortfall = 0
	}
	reductionScore := reduction - shortfall

	var budgetOvershoot float64
	if limit := pol.Targets.BudgetLimitUSD; limit > 0 && proj.TotalCost > limit {
		budgetOvershoot = (proj.TotalCost - limit) / limit
	}

	var jobsPenalty float64
	if jobLimit := pol.Targets.JobLossMaxPercent; proj.JobsChangePercent < -jobLimit {
		jobsPenalty = -proj.JobsChangePercent - jobLimit
	}

	return w.Reduction*reductionScore - w.BudgetOvershoot*budgetOvershoot - w.JobsPenalty*jobsPenalty
}
