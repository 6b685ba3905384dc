package report

import (
	"fmt"
	"strings"

	"github.com/terramesh/terramesh/evaluation"
)

// Report is the final, human-readable artifact of a planning session.
type Report struct {
	Title            string                    `json:"title"`
	ExecutiveSummary string                    `json:"executive_summary"`
	Body             string                    `json:"body"`
	Best             evaluation.ScoredScenario `json:"best_scenario"`
	Metrics          evaluation.Metrics        `json:"metrics"`
	NoViablePlan     bool                      `json:"no_viable_plan,omitempty"`
}

// Render turns an evaluation summary into a structured report.
func Render(summary evaluation.Summary) Report {
	pol := summary.Outcome.Policy
	region := summary.Outcome.Region
	proj := summary.Best.Projection

	regionName := region.Name
	if regionName == "" {
		regionName = pol.RegionID
	}

	title := fmt.Sprintf("Sustainability Plan for %s", regionName)

	executive := fmt.Sprintf(
		"This plan reduces CO2 emissions by %.1f%% over %d years for region %s. "+
			"The projected total cost is $%.0f, with an estimated jobs impact of %.1f%%.",
		proj.ReductionPercent, pol.HorizonYears, regionName, proj.TotalCost, proj.JobsChangePercent,
	)

	var b strings.Builder
	b.WriteString(executive)
	b.WriteString("\n\nKey Actions:\n")
	for _, action := range summary.Outcome.Scenario.Actions {
		fmt.Fprintf(&b, "- Intervention %s at %s scale\n", action.InterventionID, action.Scale)
	}
	b.WriteString("\nAdditional Scenarios Evaluated:\n")
	for _, entry := range summary.Ranked {
		fmt.Fprintf(&b, "- %s: %.1f%% reduction, cost $%.0f\n",
			entry.Scenario.ID, entry.Projection.ReductionPercent, entry.Projection.TotalCost)
	}

	return Report{
		Title:            title,
		ExecutiveSummary: executive,
		Body:             b.String(),
		Best:             summary.Best,
		Metrics:          summary.Metrics,
	}
}

// RenderNoWork produces the terminal report for a session whose scenario
// generation yielded no viable intervention portfolio. Emitting a report on
// this path keeps the one-terminal-report-per-session contract intact.
func RenderNoWork(regionID, reason string) Report {
	title := fmt.Sprintf("Sustainability Plan for %s", regionID)
	executive := fmt.Sprintf("No viable intervention portfolio could be generated for region %s: %s", regionID, reason)
	return Report{
		Title:            title,
		ExecutiveSummary: executive,
		Body:             executive,
		NoViablePlan:     true,
	}
}
