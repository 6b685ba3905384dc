package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/core"
	"github.com/terramesh/terramesh/logging"
	"github.com/terramesh/terramesh/model"
	"github.com/terramesh/terramesh/policy"
)

const scenarioSystemPrompt = `You are a climate intervention planner. ` +
	`Given a region baseline, an intervention catalog and policy targets, propose ` +
	`intervention portfolios as a JSON array. Each element must have the shape ` +
	`{"scenario_id": "S1", "actions": [{"id": "<catalog id>", "scale": "low|medium|high"}]}. ` +
	`Respond with the JSON array only.`

// ScenarioAgentOptions configures a ScenarioAgent.
type ScenarioAgentOptions struct {
	// Completer, when set, proposes portfolios via an LLM. Invalid or
	// failed proposals fall back to the deterministic generator.
	Completer model.Completer

	// MaxScenarios caps the fan-out width. Defaults to 6.
	MaxScenarios int

	Logger logging.Logger
}

// ScenarioAgent is the fan-out stage: for each region context it computes K
// candidate portfolios, declares the count to the evaluation stage and emits
// K independently simulatable scenario envelopes. When no portfolio can be
// generated it short-circuits with an explicit no-work signal to the report
// stage; the barrier is never told to expect zero results.
type ScenarioAgent struct {
	BaseAgent
	catalog      *climate.Catalog
	completer    model.Completer
	maxScenarios int
}

// NewScenarioAgent constructs the fan-out stage. A nil catalog falls back
// to the embedded sample catalog.
func NewScenarioAgent(catalog *climate.Catalog, optFns ...func(o *ScenarioAgentOptions)) *ScenarioAgent {
	opts := ScenarioAgentOptions{
		MaxScenarios: 6,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if catalog == nil {
		catalog = climate.DefaultCatalog()
	}

	return &ScenarioAgent{
		BaseAgent:    NewBaseAgent(NameScenario, opts.Logger),
		catalog:      catalog,
		completer:    opts.Completer,
		maxScenarios: opts.MaxScenarios,
	}
}

// Handle implements core.Agent.
func (a *ScenarioAgent) Handle(ctx context.Context, env core.Envelope, out core.Outbox) error {
	p, ok := env.Payload.(core.RegionContextPayload)
	if !ok {
		return a.unexpected(env)
	}

	logger := a.Logger(env.SessionID)
	scenarios := a.propose(ctx, p.Policy, p.Region, logger)
	if len(scenarios) > a.maxScenarios {
		scenarios = scenarios[:a.maxScenarios]
	}

	if len(scenarios) == 0 {
		logger.Warn("no viable scenarios generated", "region_id", p.Region.ID)
		out.Send(core.New(a.Name(), NameReport, env.SessionID, core.NoWorkPayload{
			RegionID: p.Region.ID,
			Reason:   "no applicable interventions for the region under the given constraints",
		}))
		return nil
	}

	logger.Info("fanning out scenarios", "count", len(scenarios))

	// Count first, then the scenarios. The join side tolerates any
	// interleaving, so this ordering is a convention, not a requirement.
	out.Send(core.New(a.Name(), NameEvaluation, env.SessionID, core.ScenarioCountPayload{
		Count: len(scenarios),
	}))
	for _, sc := range scenarios {
		out.Send(core.New(a.Name(), NameSimulation, env.SessionID, core.ScenarioPayload{
			Policy:   p.Policy,
			Region:   p.Region,
			Scenario: sc,
		}))
	}
	return nil
}

// propose asks the completer for portfolios when one is configured, falling
// back to the deterministic generator on failure or invalid output.
func (a *ScenarioAgent) propose(ctx context.Context, pol policy.Policy, region climate.Region, logger *logging.MeshLogger) []climate.Scenario {
	if a.completer != nil {
		scenarios, err := a.proposeWithModel(ctx, pol, region)
		if err == nil {
			return scenarios
		}
		logger.Warn("model proposal failed, using deterministic generator", "error", err)
	}
	return a.generate(pol, region)
}

func (a *ScenarioAgent) proposeWithModel(ctx context.Context, pol policy.Policy, region climate.Region) ([]climate.Scenario, error) {
	prompt := fmt.Sprintf(
		"Region %s (baseline %.1f MtCO2/year, sectors transport=%.2f industry=%.2f buildings=%.2f).\n"+
			"Catalog ids: %s.\n"+
			"Targets: %.0f%% CO2 reduction over %d years, budget $%.0f, constraints %v.\n"+
			"Propose up to %d portfolios.",
		region.ID, region.BaselineEmissions,
		region.Sectors.Transport, region.Sectors.Industry, region.Sectors.Buildings,
		strings.Join(a.catalog.IDs(), ", "),
		pol.Targets.CO2ReductionPercent, pol.HorizonYears, pol.Targets.BudgetLimitUSD, pol.Constraints,
		a.maxScenarios,
	)

	raw, err := a.completer.Complete(ctx, scenarioSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return a.decodeScenarios(raw)
}

// decodeScenarios parses a model response into scenarios, tolerating code
// fences around the JSON array. Every action must reference a known catalog
// id and a valid scale; anything else rejects the whole proposal.
func (a *ScenarioAgent) decodeScenarios(raw string) ([]climate.Scenario, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in model response")
	}

	var scenarios []climate.Scenario
	if err := json.Unmarshal([]byte(raw[start:end+1]), &scenarios); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}

	for i, sc := range scenarios {
		if sc.ID == "" {
			return nil, fmt.Errorf("scenario %d has no id", i)
		}
		if len(sc.Actions) == 0 {
			return nil, fmt.Errorf("scenario %s has no actions", sc.ID)
		}
		for _, action := range sc.Actions {
			if _, ok := a.catalog.Get(action.InterventionID); !ok {
				return nil, fmt.Errorf("scenario %s references unknown intervention %s", sc.ID, action.InterventionID)
			}
			if _, err := action.Scale.Factor(); err != nil {
				return nil, fmt.Errorf("scenario %s: %w", sc.ID, err)
			}
		}
	}
	return scenarios, nil
}

// generate builds portfolios deterministically: one single-intervention
// scenario per applicable catalog entry, plus one combined portfolio of the
// two strongest reducers. Catalog iteration is sorted, so identical inputs
// always produce identical fan-outs.
func (a *ScenarioAgent) generate(pol policy.Policy, region climate.Region) []climate.Scenario {
	applicable := a.applicable(pol, region)
	if len(applicable) == 0 {
		return nil
	}

	// Ambitious targets push single-intervention portfolios to high scale.
	scale := climate.ScaleMedium
	if pol.Targets.CO2ReductionPercent >= 40 {
		scale = climate.ScaleHigh
	}

	var scenarios []climate.Scenario
	for _, iv := range applicable {
		scenarios = append(scenarios, climate.Scenario{
			ID:      fmt.Sprintf("S%d", len(scenarios)+1),
			Actions: []climate.Action{{InterventionID: iv.ID, Scale: scale}},
		})
	}

	if len(applicable) >= 2 {
		top := topReducers(applicable, region, 2)
		actions := make([]climate.Action, len(top))
		for i, iv := range top {
			actions[i] = climate.Action{InterventionID: iv.ID, Scale: climate.ScaleMedium}
		}
		scenarios = append(scenarios, climate.Scenario{
			ID:      fmt.Sprintf("S%d", len(scenarios)+1),
			Actions: actions,
		})
	}
	return scenarios
}

// applicable filters the catalog to interventions whose sector carries any
// of the region's emissions and which the policy constraints do not forbid.
func (a *ScenarioAgent) applicable(pol policy.Policy, region climate.Region) []climate.Intervention {
	var out []climate.Intervention
	for _, id := range a.catalog.IDs() {
		iv, _ := a.catalog.Get(id)
		if region.Sectors.Share(iv.Sector) <= 0 {
			continue
		}
		if pol.Forbids(iv.ID) || pol.Forbids(iv.Name) {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// topReducers returns the n interventions with the highest effective
// reduction (per-unit reduction weighted by the region's sector share),
// preserving catalog order among ties.
func topReducers(ivs []climate.Intervention, region climate.Region, n int) []climate.Intervention {
	ranked := make([]climate.Intervention, len(ivs))
	copy(ranked, ivs)
	sort.SliceStable(ranked, func(i, j int) bool {
		ei := ranked[i].ReductionPerUnit * region.Sectors.Share(ranked[i].Sector)
		ej := ranked[j].ReductionPerUnit * region.Sectors.Share(ranked[j].Sector)
		return ei > ej
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
