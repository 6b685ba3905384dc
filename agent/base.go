package agent

import (
	"github.com/terramesh/terramesh/core"
	"github.com/terramesh/terramesh/logging"
)

// Well-known agent names. Envelopes are addressed to these, so renaming one
// breaks routing for every sender.
const (
	NameOrchestrator = "Orchestrator"
	NamePolicy       = "PolicyAgent"
	NameData         = "DataAgent"
	NameScenario     = "ScenarioAgent"
	NameSimulation   = "SimulationAgent"
	NameEvaluation   = "EvaluationAgent"
	NameReport       = "ReportAgent"
)

// BaseAgent bundles the identity and logging plumbing shared by all stage
// agents. Embed it and provide Handle to satisfy core.Agent.
type BaseAgent struct {
	name   string
	logger *logging.MeshLogger
}

// NewBaseAgent constructs the shared base for a named stage. A nil logger
// falls back to the no-op logger.
func NewBaseAgent(name string, logger logging.Logger) BaseAgent {
	return BaseAgent{
		name:   name,
		logger: logging.NewMeshLogger(logger).WithComponent(name),
	}
}

// Name returns the stable address other stages send to.
func (b *BaseAgent) Name() string { return b.name }

// Logger returns the agent's component-scoped logger bound to a session.
func (b *BaseAgent) Logger(sessionID string) *logging.MeshLogger {
	return b.logger.WithSession(sessionID)
}

// unexpected builds the contained fault for a payload kind outside the
// agent's contract.
func (b *BaseAgent) unexpected(env core.Envelope) error {
	return &core.UnexpectedPayloadError{Agent: b.name, Kind: env.Kind}
}
