package agent

import (
	"context"
	"fmt"

	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/core"
	"github.com/terramesh/terramesh/evaluation"
	"github.com/terramesh/terramesh/logging"
)

// SimulationAgent projects emissions, cost and jobs impact for one scenario
// and forwards the outcome to the evaluation stage.
type SimulationAgent struct {
	BaseAgent
	catalog *climate.Catalog
}

// NewSimulationAgent constructs the simulation stage. A nil catalog falls
// back to the embedded sample catalog.
func NewSimulationAgent(catalog *climate.Catalog, logger logging.Logger) *SimulationAgent {
	if catalog == nil {
		catalog = climate.DefaultCatalog()
	}
	return &SimulationAgent{
		BaseAgent: NewBaseAgent(NameSimulation, logger),
		catalog:   catalog,
	}
}

// Handle implements core.Agent.
func (a *SimulationAgent) Handle(_ context.Context, env core.Envelope, out core.Outbox) error {
	p, ok := env.Payload.(core.ScenarioPayload)
	if !ok {
		return a.unexpected(env)
	}

	projection, err := climate.Simulate(p.Region, p.Scenario, a.catalog)
	if err != nil {
		return fmt.Errorf("simulate scenario %s: %w", p.Scenario.ID, err)
	}

	a.Logger(env.SessionID).Info("simulated scenario",
		"scenario_id", p.Scenario.ID,
		"reduction_percent", projection.ReductionPercent,
		"total_cost_usd", projection.TotalCost)

	out.Send(core.New(a.Name(), NameEvaluation, env.SessionID, core.SimResultPayload{
		Outcome: evaluation.Outcome{
			Policy:     p.Policy,
			Region:     p.Region,
			Scenario:   p.Scenario,
			Projection: projection,
		},
	}))
	return nil
}
