package agent

import (
	"context"
	"sync"

	"github.com/terramesh/terramesh/core"
	"github.com/terramesh/terramesh/logging"
	"github.com/terramesh/terramesh/report"
)

// Orchestrator is the entry and exit point of a session. On START it hands
// the goal to the policy stage; on REPORT_READY it records the final report
// so callers can retrieve it after the run loop drains.
type Orchestrator struct {
	BaseAgent

	mu      sync.Mutex
	reports map[string]report.Report
}

// NewOrchestrator constructs the orchestration stage.
func NewOrchestrator(logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		BaseAgent: NewBaseAgent(NameOrchestrator, logger),
		reports:   make(map[string]report.Report),
	}
}

// Handle implements core.Agent.
func (a *Orchestrator) Handle(_ context.Context, env core.Envelope, out core.Outbox) error {
	switch p := env.Payload.(type) {
	case core.StartPayload:
		a.Logger(env.SessionID).Info("starting session", "region_id", p.RegionID)
		out.Send(core.New(a.Name(), NamePolicy, env.SessionID, core.GoalPayload{
			Text:     p.GoalText,
			RegionID: p.RegionID,
		}))
		return nil
	case core.ReportReadyPayload:
		a.mu.Lock()
		a.reports[env.SessionID] = p.Report
		a.mu.Unlock()
		a.Logger(env.SessionID).Info("received final report", "title", p.Report.Title)
		return nil
	default:
		return a.unexpected(env)
	}
}

// Report returns the final report recorded for a session, if any.
func (a *Orchestrator) Report(sessionID string) (report.Report, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.reports[sessionID]
	return r, ok
}
