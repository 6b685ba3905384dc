package agent

import (
	"context"
	"fmt"

	"github.com/terramesh/terramesh/core"
	"github.com/terramesh/terramesh/logging"
	"github.com/terramesh/terramesh/policy"
)

// PolicyAgent structures free-form goal text into a policy objective and
// forwards it to the data stage.
type PolicyAgent struct {
	BaseAgent
	parser policy.Parser
}

// NewPolicyAgent constructs the goal-interpretation stage. A nil parser
// falls back to the deterministic heuristic parser.
func NewPolicyAgent(parser policy.Parser, logger logging.Logger) *PolicyAgent {
	if parser == nil {
		parser = policy.NewHeuristicParser()
	}
	return &PolicyAgent{
		BaseAgent: NewBaseAgent(NamePolicy, logger),
		parser:    parser,
	}
}

// Handle implements core.Agent.
func (a *PolicyAgent) Handle(ctx context.Context, env core.Envelope, out core.Outbox) error {
	p, ok := env.Payload.(core.GoalPayload)
	if !ok {
		return a.unexpected(env)
	}

	pol, err := a.parser.Parse(ctx, p.Text, p.RegionID)
	if err != nil {
		return fmt.Errorf("parse goal: %w", err)
	}

	a.Logger(env.SessionID).Info("parsed goal into policy",
		"region_id", pol.RegionID,
		"horizon_years", pol.HorizonYears,
		"co2_target_percent", pol.Targets.CO2ReductionPercent)

	out.Send(core.New(a.Name(), NameData, env.SessionID, core.PolicyPayload{Policy: pol}))
	return nil
}
