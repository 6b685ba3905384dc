package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/evaluation"
	"github.com/terramesh/terramesh/policy"
	"github.com/terramesh/terramesh/report"
)

// Kind tags the semantic contract of an envelope's payload. The set is
// closed: each Kind corresponds to exactly one Payload type below.
type Kind string

const (
	// KindStart triggers a new pipeline run for a session.
	KindStart Kind = "START"
	// KindGoal carries the raw goal text to the policy stage.
	KindGoal Kind = "GOAL"
	// KindPolicy carries the structured policy to the data stage.
	KindPolicy Kind = "POLICY"
	// KindRegionContext pairs the policy with the resolved region baseline.
	KindRegionContext Kind = "REGION_CONTEXT"
	// KindScenarioCount declares how many scenarios the fan-out produced.
	KindScenarioCount Kind = "SCENARIO_COUNT"
	// KindScenario carries one independently simulatable scenario.
	KindScenario Kind = "SCENARIO"
	// KindSimResult carries one simulated scenario outcome to the fan-in.
	KindSimResult Kind = "SIM_RESULT"
	// KindEvalSummary carries the aggregate of a fired barrier.
	KindEvalSummary Kind = "EVAL_SUMMARY"
	// KindNoWork signals that scenario generation short-circuited.
	KindNoWork Kind = "NO_WORK"
	// KindReportReady is the terminal envelope of a session.
	KindReportReady Kind = "REPORT_READY"
)

// Payload is the closed sum of envelope payloads. Concrete payload types
// implement Kind, enabling exhaustive type switches in stage agents.
type Payload interface {
	Kind() Kind
}

// StartPayload kicks off a session.
type StartPayload struct {
	GoalText string `json:"goal_text"`
	RegionID string `json:"region_id"`
}

// Kind implements Payload.
func (StartPayload) Kind() Kind { return KindStart }

// GoalPayload hands the goal text to the policy stage.
type GoalPayload struct {
	Text     string `json:"text"`
	RegionID string `json:"region_id"`
}

// Kind implements Payload.
func (GoalPayload) Kind() Kind { return KindGoal }

// PolicyPayload hands the structured policy to the data stage.
type PolicyPayload struct {
	Policy policy.Policy `json:"policy"`
}

// Kind implements Payload.
func (PolicyPayload) Kind() Kind { return KindPolicy }

// RegionContextPayload pairs the policy with its resolved region.
type RegionContextPayload struct {
	Policy policy.Policy  `json:"policy"`
	Region climate.Region `json:"region"`
}

// Kind implements Payload.
func (RegionContextPayload) Kind() Kind { return KindRegionContext }

// ScenarioCountPayload declares the expected fan-in count for a session.
type ScenarioCountPayload struct {
	Count int `json:"count"`
}

// Kind implements Payload.
func (ScenarioCountPayload) Kind() Kind { return KindScenarioCount }

// ScenarioPayload carries one scenario plus the context needed to simulate it.
type ScenarioPayload struct {
	Policy   policy.Policy    `json:"policy"`
	Region   climate.Region   `json:"region"`
	Scenario climate.Scenario `json:"scenario"`
}

// Kind implements Payload.
func (ScenarioPayload) Kind() Kind { return KindScenario }

// SimResultPayload carries one simulated outcome to the evaluation stage.
type SimResultPayload struct {
	Outcome evaluation.Outcome `json:"outcome"`
}

// Kind implements Payload.
func (SimResultPayload) Kind() Kind { return KindSimResult }

// EvalSummaryPayload carries the aggregate emitted when a barrier fires.
type EvalSummaryPayload struct {
	Summary evaluation.Summary `json:"summary"`
}

// Kind implements Payload.
func (EvalSummaryPayload) Kind() Kind { return KindEvalSummary }

// NoWorkPayload is the explicit short-circuit signal emitted when the
// fan-out stage produced zero scenarios; it replaces the eventual summary
// so the barrier is never starved waiting for results that cannot come.
type NoWorkPayload struct {
	RegionID string `json:"region_id"`
	Reason   string `json:"reason"`
}

// Kind implements Payload.
func (NoWorkPayload) Kind() Kind { return KindNoWork }

// ReportReadyPayload is the terminal payload delivered back to the
// orchestration entry point, exactly once per session.
type ReportReadyPayload struct {
	Report report.Report `json:"report"`
}

// Kind implements Payload.
func (ReportReadyPayload) Kind() Kind { return KindReportReady }

// Envelope is the unit of communication between stages. Immutable after
// construction; the timestamp is informative and never used for ordering.
type Envelope struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Kind      Kind      `json:"type"`
	Payload   Payload   `json:"payload"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// New constructs an envelope for the given session; the Kind is derived
// from the payload so the two can never disagree.
func New(sender, receiver, sessionID string, payload Payload) Envelope {
	return Envelope{
		ID:        NewID(),
		Sender:    sender,
		Receiver:  receiver,
		Kind:      payload.Kind(),
		Payload:   payload,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}
}

// NewID generates a new unique identifier for envelopes and sessions.
func NewID() string { return uuid.NewString() }
