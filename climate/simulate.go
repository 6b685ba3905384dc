package climate

import "fmt"

// Projection is the simulated outcome of applying a scenario to a region.
type Projection struct {
	BaselineEmissions  float64 `json:"baseline_emissions"`
	ProjectedEmissions float64 `json:"projected_emissions_mtco2"`
	ReductionPercent   float64 `json:"co2_reduction_percent"`
	TotalCost          float64 `json:"total_cost_usd"`
	JobsChangePercent  float64 `json:"estimated_jobs_change_percent"`
}

// Simulate projects emissions, cost and job impact for a scenario against a
// region. Every action must reference a cataloged intervention and carry a
// known scale; violations are errors, not skipped actions, so a scenario is
// either fully simulated or rejected.
func Simulate(region Region, scenario Scenario, catalog *Catalog) (Projection, error) {
	baseline := region.BaselineEmissions
	if baseline <= 0 {
		return Projection{}, fmt.Errorf("climate: region %q has non-positive baseline emissions %v", region.ID, baseline)
	}

	var totalReduction, totalCost, jobsImpact float64
	for _, action := range scenario.Actions {
		iv, ok := catalog.Get(action.InterventionID)
		if !ok {
			return Projection{}, fmt.Errorf("climate: scenario %q references unknown intervention %q", scenario.ID, action.InterventionID)
		}
		factor, err := action.Scale.Factor()
		if err != nil {
			return Projection{}, fmt.Errorf("climate: scenario %q action %q: %w", scenario.ID, action.InterventionID, err)
		}

		totalReduction += iv.ReductionPerUnit * factor * baseline / 100.0
		totalCost += iv.CostPerUnit * factor
		jobsImpact += iv.JobImpactPerUnit * factor
	}

	projected := baseline - totalReduction
	if projected < 0 {
		projected = 0
	}

	return Projection{
		BaselineEmissions:  baseline,
		ProjectedEmissions: projected,
		ReductionPercent:   (baseline - projected) / baseline * 100.0,
		TotalCost:          totalCost,
		JobsChangePercent:  jobsImpact,
	}, nil
}
