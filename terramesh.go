// Package terramesh provides a high-level façade over the dispatch bus and
// the pipeline stage agents for multi-stage climate policy planning. Most
// applications interact with this package by:
//  1. Creating a TerraMesh via New() (optionally overriding default
//     in-memory stores, the embedded sample data or the goal parser)
//  2. Starting a session with a free-form goal
//  3. Running the session to completion and reading the final report
//
// The façade delegates dispatch to bus.Bus while keeping setup and usage
// ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply durable stores and a
// structured logger.
package terramesh

import (
	"context"
	"fmt"
	"time"

	"github.com/terramesh/terramesh/agent"
	"github.com/terramesh/terramesh/bus"
	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/core"
	"github.com/terramesh/terramesh/evaluation"
	"github.com/terramesh/terramesh/logging"
	"github.com/terramesh/terramesh/memory"
	"github.com/terramesh/terramesh/model"
	"github.com/terramesh/terramesh/policy"
	"github.com/terramesh/terramesh/report"
	"github.com/terramesh/terramesh/session"
)

// DefaultStepLimit bounds one session run. Generous for the current
// pipeline depth; a run that exhausts it has almost certainly wedged.
const DefaultStepLimit = 200

// Options configures a TerraMesh instance.
type Options struct {
	// Atlas supplies region baselines. Defaults to the embedded samples.
	Atlas *climate.Atlas

	// Catalog supplies the intervention catalog. Defaults to the embedded
	// samples.
	Catalog *climate.Catalog

	// Parser structures goal text into a policy. Defaults to the
	// deterministic heuristic parser.
	Parser policy.Parser

	// Completer, when set, lets the scenario stage propose portfolios via
	// an LLM instead of the deterministic generator.
	Completer model.Completer

	// Weights tune scenario scoring. Defaults to evaluation.DefaultWeights.
	Weights evaluation.Weights

	// MaxScenarios caps the fan-out width per session.
	MaxScenarios int

	// StepLimit bounds the dispatch loop of one session run.
	StepLimit int

	// Stores (default to in-memory implementations if not provided)
	SessionStore core.SessionStore
	ReportStore  report.Store
	MemoryStore  memory.Store

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// RunResult is the outcome of one completed session run.
type RunResult struct {
	SessionID string
	Report    report.Report
	Dispatch  bus.Report
}

// TerraMesh is the high-level façade aggregating the bus, the stage agents
// and the backing stores.
type TerraMesh struct {
	opts         Options
	bus          *bus.Bus
	orchestrator *agent.Orchestrator
	sessions     core.SessionStore
	reports      report.Store
	memory       memory.Store
	logger       *logging.MeshLogger
}

// New creates a TerraMesh instance with optional overrides. Any unset store
// is initialized with an in-memory implementation and unset domain data
// falls back to the embedded samples.
func New(optFns ...func(o *Options)) *TerraMesh {
	opts := Options{
		Atlas:        climate.DefaultAtlas(),
		Catalog:      climate.DefaultCatalog(),
		Parser:       policy.NewHeuristicParser(),
		Weights:      evaluation.DefaultWeights,
		MaxScenarios: 6,
		StepLimit:    DefaultStepLimit,
		SessionStore: session.NewInMemoryStore(),
		ReportStore:  report.NewInMemoryStore(),
		MemoryStore:  memory.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	b := bus.New(func(o *bus.Options) {
		o.Logger = opts.Logger
	})

	orchestrator := agent.NewOrchestrator(opts.Logger)
	b.Register(orchestrator)
	b.Register(agent.NewPolicyAgent(opts.Parser, opts.Logger))
	b.Register(agent.NewDataAgent(opts.Atlas, opts.Logger))
	b.Register(agent.NewScenarioAgent(opts.Catalog, func(o *agent.ScenarioAgentOptions) {
		o.Completer = opts.Completer
		o.MaxScenarios = opts.MaxScenarios
		o.Logger = opts.Logger
	}))
	b.Register(agent.NewSimulationAgent(opts.Catalog, opts.Logger))
	b.Register(agent.NewEvaluationAgent(func(o *agent.EvaluationAgentOptions) {
		o.Weights = opts.Weights
		o.Logger = opts.Logger
	}))
	b.Register(agent.NewReportAgent(opts.ReportStore, opts.Logger))

	return &TerraMesh{
		opts:         opts,
		bus:          b,
		orchestrator: orchestrator,
		sessions:     opts.SessionStore,
		reports:      opts.ReportStore,
		memory:       opts.MemoryStore,
		logger:       logging.NewMeshLogger(opts.Logger).WithComponent("terramesh"),
	}
}

// StartSession records a new planning session and returns its id. The
// session is created but not yet dispatched; call RunSession to execute it.
func (m *TerraMesh) StartSession(goalText, regionID string) (string, error) {
	if goalText == "" {
		return "", fmt.Errorf("terramesh: goal text is required: %w", core.ErrMissingField)
	}
	if regionID == "" {
		return "", fmt.Errorf("terramesh: region id is required: %w", core.ErrMissingField)
	}

	now := time.Now().UTC()
	state := core.SessionState{
		ID:       core.NewID(),
		GoalText: goalText,
		RegionID: regionID,
		Status:   core.StatusCreated,
		Created:  now,
		Updated:  now,
	}
	if err := m.sessions.Put(state); err != nil {
		return "", fmt.Errorf("terramesh: create session: %w", err)
	}

	m.logger.WithSession(state.ID).Info("session created", "region_id", regionID)
	return state.ID, nil
}

// RunSession seeds the start envelope for an existing session and drives
// the dispatch loop until the session's work is drained. On success the
// final report is returned and the run is remembered in long-term memory.
func (m *TerraMesh) RunSession(ctx context.Context, sessionID string) (RunResult, error) {
	state, err := m.sessions.Get(sessionID)
	if err != nil {
		return RunResult{}, fmt.Errorf("terramesh: load session: %w", err)
	}
	if err := m.sessions.SetStatus(sessionID, core.StatusRunning); err != nil {
		return RunResult{}, fmt.Errorf("terramesh: mark session running: %w", err)
	}

	m.bus.Send(core.New("User", agent.NameOrchestrator, sessionID, core.StartPayload{
		GoalText: state.GoalText,
		RegionID: state.RegionID,
	}))

	dispatch, err := m.bus.Run(ctx, sessionID, m.opts.StepLimit)
	if err != nil {
		m.failSession(sessionID)
		return RunResult{SessionID: sessionID, Dispatch: dispatch}, fmt.Errorf("terramesh: run session: %w", err)
	}

	final, ok := m.orchestrator.Report(sessionID)
	if !ok {
		m.failSession(sessionID)
		return RunResult{SessionID: sessionID, Dispatch: dispatch},
			fmt.Errorf("terramesh: session %s produced no report (%d faults)", sessionID, len(dispatch.Faults))
	}

	if err := m.sessions.SetStatus(sessionID, core.StatusCompleted); err != nil {
		return RunResult{}, fmt.Errorf("terramesh: mark session completed: %w", err)
	}

	// Runs without a best scenario carry no signal worth remembering and
	// would drag the aggregated averages toward zero.
	if !final.NoViablePlan {
		if err := m.memory.Append(memory.RunSummary{
			SessionID:           sessionID,
			RegionID:            state.RegionID,
			CO2ReductionPercent: final.Best.Projection.ReductionPercent,
			TotalCostUSD:        final.Best.Projection.TotalCost,
			Score:               final.Best.Score,
		}); err != nil {
			m.logger.WithSession(sessionID).Warn("failed to append run memory", "error", err)
		}
	}

	m.logger.WithSession(sessionID).Info("session completed",
		"steps", dispatch.Steps, "faults", len(dispatch.Faults))

	return RunResult{SessionID: sessionID, Report: final, Dispatch: dispatch}, nil
}

// Plan is the one-call convenience wrapper: it creates a session for the
// goal and runs it to completion.
func (m *TerraMesh) Plan(ctx context.Context, goalText, regionID string) (RunResult, error) {
	sessionID, err := m.StartSession(goalText, regionID)
	if err != nil {
		return RunResult{}, err
	}
	return m.RunSession(ctx, sessionID)
}

// Session returns the stored state for a session.
func (m *TerraMesh) Session(sessionID string) (core.SessionState, error) {
	return m.sessions.Get(sessionID)
}

// Report returns the persisted report for a session.
func (m *TerraMesh) Report(sessionID string) (report.Report, error) {
	return m.reports.Load(sessionID)
}

// Patterns aggregates long-term memory across all remembered runs.
func (m *TerraMesh) Patterns() (memory.Patterns, error) {
	return m.memory.Patterns()
}

func (m *TerraMesh) failSession(sessionID string) {
	if err := m.sessions.SetStatus(sessionID, core.StatusFailed); err != nil {
		m.logger.WithSession(sessionID).Warn("failed to mark session failed", "error", err)
	}
}
