package agent

import (
	"context"
	"fmt"

	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/core"
	"github.com/terramesh/terramesh/logging"
)

// DataAgent resolves the region baseline for a policy and forwards the pair
// to the scenario stage.
type DataAgent struct {
	BaseAgent
	atlas *climate.Atlas
}

// NewDataAgent constructs the data-lookup stage. A nil atlas falls back to
// the embedded sample atlas.
func NewDataAgent(atlas *climate.Atlas, logger logging.Logger) *DataAgent {
	if atlas == nil {
		atlas = climate.DefaultAtlas()
	}
	return &DataAgent{
		BaseAgent: NewBaseAgent(NameData, logger),
		atlas:     atlas,
	}
}

// Handle implements core.Agent.
func (a *DataAgent) Handle(_ context.Context, env core.Envelope, out core.Outbox) error {
	p, ok := env.Payload.(core.PolicyPayload)
	if !ok {
		return a.unexpected(env)
	}

	region, err := a.atlas.Region(p.Policy.RegionID)
	if err != nil {
		return fmt.Errorf("load region: %w", err)
	}

	a.Logger(env.SessionID).Info("loaded region baseline",
		"region_id", region.ID,
		"baseline_mtco2", region.BaselineEmissions)

	out.Send(core.New(a.Name(), NameScenario, env.SessionID, core.RegionContextPayload{
		Policy: p.Policy,
		Region: region,
	}))
	return nil
}
