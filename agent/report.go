package agent

import (
	"context"
	"fmt"

	"github.com/terramesh/terramesh/core"
	"github.com/terramesh/terramesh/logging"
	"github.com/terramesh/terramesh/report"
)

// ReportAgent is the terminal stage: it renders the evaluation summary (or
// the no-work signal) into a report, persists it and notifies the
// orchestrator. Exactly one REPORT_READY envelope leaves this stage per
// session, on either path.
type ReportAgent struct {
	BaseAgent
	store report.Store
}

// NewReportAgent constructs the reporting stage. A nil store falls back to
// an in-memory store.
func NewReportAgent(store report.Store, logger logging.Logger) *ReportAgent {
	if store == nil {
		store = report.NewInMemoryStore()
	}
	return &ReportAgent{
		BaseAgent: NewBaseAgent(NameReport, logger),
		store:     store,
	}
}

// Handle implements core.Agent.
func (a *ReportAgent) Handle(_ context.Context, env core.Envelope, out core.Outbox) error {
	var rendered report.Report

	switch p := env.Payload.(type) {
	case core.EvalSummaryPayload:
		rendered = report.Render(p.Summary)
	case core.NoWorkPayload:
		a.Logger(env.SessionID).Warn("rendering no-work report", "region_id", p.RegionID, "reason", p.Reason)
		rendered = report.RenderNoWork(p.RegionID, p.Reason)
	default:
		return a.unexpected(env)
	}

	if err := a.store.Save(env.SessionID, rendered); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	a.Logger(env.SessionID).Info("saved report", "title", rendered.Title)

	out.Send(core.New(a.Name(), NameOrchestrator, env.SessionID, core.ReportReadyPayload{
		Report: rendered,
	}))
	return nil
}
