// Package agent implements the pipeline stages of TerraMesh. Each stage is
// a core.Agent keyed by a well-known name: the Orchestrator seeds and closes
// a session, PolicyAgent structures the goal, DataAgent resolves the region
// baseline, ScenarioAgent fans out intervention portfolios, SimulationAgent
// projects each portfolio, EvaluationAgent joins the results behind a
// counting barrier, and ReportAgent renders and persists the final plan.
//
// Agents communicate only through envelopes handed to them by the dispatch
// kernel; none of them holds a reference to another agent.
package agent
