package eval

import (
	"context"
	"fmt"
	"sort"

	"github.com/terramesh/terramesh"
	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/evaluation"
	"github.com/terramesh/terramesh/logging"
	"github.com/terramesh/terramesh/policy"
)

// Case is one evaluation input: a free-form goal applied to a region.
type Case struct {
	Name     string `json:"name"`
	RegionID string `json:"region_id"`
	Goal     string `json:"goal"`
}

// SampleCases returns the default evaluation set over the embedded sample
// regions.
func SampleCases() []Case {
	return []Case{
		{
			Name:     "Dense Coastal City Aggressive Target",
			RegionID: "coastal_city_01",
			Goal: "Reduce CO2 emissions by 50% in 10 years for coastal_city_01 " +
				"while limiting job losses to 3%.",
		},
		{
			Name:     "Industrial Region Moderate Target",
			RegionID: "industrial_region_02",
			Goal: "Reduce CO2 emissions by 25% in 5 years for industrial_region_02 " +
				"with minimal budget and no major job losses.",
		},
	}
}

// BaselineResult is the scored static heuristic for one region.
type BaselineResult struct {
	Score      float64            `json:"score"`
	Scenario   climate.Scenario   `json:"scenario"`
	Projection climate.Projection `json:"simulation"`
}

// Result compares one pipeline run against the baseline heuristic.
type Result struct {
	Case          Case           `json:"case"`
	Baseline      BaselineResult `json:"baseline"`
	AgenticScore  float64        `json:"agentic_score"`
	AgenticBetter bool           `json:"agentic_better"`
}

// Summary counts wins across all evaluated cases.
type Summary struct {
	NumCases     int `json:"num_cases"`
	AgenticWins  int `json:"agentic_wins"`
	BaselineWins int `json:"baseline_wins"`
	Ties         int `json:"ties"`
}

// Outcome bundles per-case results with their summary.
type Outcome struct {
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// Options configure a Harness.
type Options struct {
	// Atlas supplies region baselines. Defaults to the embedded samples.
	Atlas *climate.Atlas

	// Catalog supplies the intervention catalog. Defaults to the embedded
	// samples.
	Catalog *climate.Catalog

	// Weights tune scoring for both sides of the comparison.
	Weights evaluation.Weights

	// StepLimit and MaxScenarios override the pipeline defaults when
	// positive.
	StepLimit    int
	MaxScenarios int

	// Mesh, when set, is used as-is and the options above only affect the
	// baseline side.
	Mesh *terramesh.TerraMesh

	Logger logging.Logger
}

// Harness runs the baseline heuristic and the full pipeline side by side.
type Harness struct {
	mesh    *terramesh.TerraMesh
	atlas   *climate.Atlas
	catalog *climate.Catalog
	weights evaluation.Weights
	logger  *logging.MeshLogger
}

// New builds a Harness. Unset options fall back to the embedded sample data
// and a pipeline with default settings.
func New(optFns ...func(o *Options)) *Harness {
	opts := Options{
		Atlas:   climate.DefaultAtlas(),
		Catalog: climate.DefaultCatalog(),
		Weights: evaluation.DefaultWeights,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Mesh == nil {
		opts.Mesh = terramesh.New(func(o *terramesh.Options) {
			o.Atlas = opts.Atlas
			o.Catalog = opts.Catalog
			o.Weights = opts.Weights
			o.Logger = opts.Logger
			if opts.StepLimit > 0 {
				o.StepLimit = opts.StepLimit
			}
			if opts.MaxScenarios > 0 {
				o.MaxScenarios = opts.MaxScenarios
			}
		})
	}

	return &Harness{
		mesh:    opts.Mesh,
		atlas:   opts.Atlas,
		catalog: opts.Catalog,
		weights: opts.Weights,
		logger:  logging.NewMeshLogger(opts.Logger).WithComponent("eval"),
	}
}

// Run evaluates every case: the baseline heuristic on one side, a full
// pipeline session on the other. A run that ends with no viable plan scores
// zero on the agentic side.
func (h *Harness) Run(ctx context.Context, cases []Case) (Outcome, error) {
	outcome := Outcome{Results: make([]Result, 0, len(cases))}

	for _, c := range cases {
		h.logger.Info("evaluating case", "name", c.Name, "region_id", c.RegionID)

		base, err := h.Baseline(c.RegionID)
		if err != nil {
			return Outcome{}, fmt.Errorf("eval: baseline for %s: %w", c.RegionID, err)
		}

		run, err := h.mesh.Plan(ctx, c.Goal, c.RegionID)
		if err != nil {
			return Outcome{}, fmt.Errorf("eval: case %q: %w", c.Name, err)
		}
		var agentic float64
		if !run.Report.NoViablePlan {
			agentic = run.Report.Best.Score
		}

		outcome.Results = append(outcome.Results, Result{
			Case:          c,
			Baseline:      base,
			AgenticScore:  agentic,
			AgenticBetter: agentic > base.Score,
		})
	}

	outcome.Summary = summarize(outcome.Results)
	return outcome, nil
}

// Baseline builds and scores the static heuristic for a region: the
// cheapest intervention per sector, deployed at low scale and scored
// against a fixed moderate objective. It ignores constraints and sector
// shares on purpose; it is the plan a non-planner would pick.
func (h *Harness) Baseline(regionID string) (BaselineResult, error) {
	region, err := h.atlas.Region(regionID)
	if err != nil {
		return BaselineResult{}, err
	}

	cheapest := map[string]climate.Intervention{}
	for _, id := range h.catalog.IDs() {
		iv, _ := h.catalog.Get(id)
		if cur, ok := cheapest[iv.Sector]; !ok || iv.CostPerUnit < cur.CostPerUnit {
			cheapest[iv.Sector] = iv
		}
	}

	sectors := make([]string, 0, len(cheapest))
	for sector := range cheapest {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	scenario := climate.Scenario{ID: "BASELINE"}
	for _, sector := range sectors {
		scenario.Actions = append(scenario.Actions, climate.Action{
			InterventionID: cheapest[sector].ID,
			Scale:          climate.ScaleLow,
		})
	}

	proj, err := climate.Simulate(region, scenario, h.catalog)
	if err != nil {
		return BaselineResult{}, err
	}

	return BaselineResult{
		Score:      evaluation.Score(referencePolicy(regionID), proj, h.weights),
		Scenario:   scenario,
		Projection: proj,
	}, nil
}

// referencePolicy is the fixed moderate objective the baseline is scored
// against, independent of the case's goal text.
func referencePolicy(regionID string) policy.Policy {
	return policy.Policy{
		RegionID:     regionID,
		HorizonYears: 10,
		Targets: policy.Targets{
			CO2ReductionPercent: 30,
			JobLossMaxPercent:   5,
			BudgetLimitUSD:      500_000_000,
		},
	}
}

func summarize(results []Result) Summary {
	s := Summary{NumCases: len(results)}
	for _, r := range results {
		switch {
		case r.AgenticScore > r.Baseline.Score:
			s.AgenticWins++
		case r.Baseline.Score > r.AgenticScore:
			s.BaselineWins++
		default:
			s.Ties++
		}
	}
	return s
}
