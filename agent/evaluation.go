package agent

import (
	"context"
	"fmt"

	"github.com/terramesh/terramesh/core"
	"github.com/terramesh/terramesh/evaluation"
	"github.com/terramesh/terramesh/logging"
)

// EvaluationAgent is the fan-in stage. It accumulates simulation outcomes
// per session behind a counting barrier and, exactly once per session when
// the declared count is met, reduces the batch to a single summary for the
// report stage. Count and result envelopes may arrive in any interleaving.
type EvaluationAgent struct {
	BaseAgent
	barrier *evaluation.Barrier[evaluation.Outcome]
	weights evaluation.Weights
}

// EvaluationAgentOptions configures an EvaluationAgent.
type EvaluationAgentOptions struct {
	// Weights tune the scenario scoring function. Defaults to
	// evaluation.DefaultWeights.
	Weights evaluation.Weights

	Logger logging.Logger
}

// NewEvaluationAgent constructs the fan-in stage.
func NewEvaluationAgent(optFns ...func(o *EvaluationAgentOptions)) *EvaluationAgent {
	opts := EvaluationAgentOptions{
		Weights: evaluation.DefaultWeights,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &EvaluationAgent{
		BaseAgent: NewBaseAgent(NameEvaluation, opts.Logger),
		barrier:   evaluation.NewBarrier[evaluation.Outcome](),
		weights:   opts.Weights,
	}
}

// Handle implements core.Agent.
func (a *EvaluationAgent) Handle(_ context.Context, env core.Envelope, out core.Outbox) error {
	switch p := env.Payload.(type) {
	case core.ScenarioCountPayload:
		batch, fired, err := a.barrier.UpsertCount(env.SessionID, p.Count)
		if err != nil {
			return fmt.Errorf("record expected count: %w", err)
		}
		a.Logger(env.SessionID).Info("expecting results", "count", p.Count)
		if fired {
			return a.emitSummary(env.SessionID, batch, out)
		}
		return nil

	case core.SimResultPayload:
		batch, fired, err := a.barrier.Append(env.SessionID, p.Outcome)
		if err != nil {
			return fmt.Errorf("record result: %w", err)
		}
		have, expected, known := a.barrier.Pending(env.SessionID)
		if fired {
			a.Logger(env.SessionID).Info("all results arrived, evaluating", "count", len(batch))
			return a.emitSummary(env.SessionID, batch, out)
		}
		if known {
			a.Logger(env.SessionID).Debug("result accumulated", "have", have, "expected", expected)
		} else {
			a.Logger(env.SessionID).Debug("result accumulated before count arrived", "have", have)
		}
		return nil

	default:
		return a.unexpected(env)
	}
}

func (a *EvaluationAgent) emitSummary(sessionID string, batch []evaluation.Outcome, out core.Outbox) error {
	summary, err := evaluation.Evaluate(batch, a.weights)
	if err != nil {
		return fmt.Errorf("evaluate batch: %w", err)
	}

	a.Logger(sessionID).Info("selected best scenario",
		"scenario_id", summary.Best.Scenario.ID,
		"score", summary.Best.Score)

	out.Send(core.New(a.Name(), NameReport, sessionID, core.EvalSummaryPayload{Summary: summary}))
	return nil
}
