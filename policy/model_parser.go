package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/terramesh/terramesh/logging"
	"github.com/terramesh/terramesh/model"
)

const parserSystemPrompt = `You convert sustainability planning goals into a JSON policy.
Respond with a single JSON object with fields: time_horizon_years (int),
co2_reduction_percent (number), job_loss_max_percent (number),
budget_limit_usd (number), constraints (array of strings). No prose.`

// modelPolicy is the JSON shape requested from the model.
type modelPolicy struct {
	HorizonYears        int      `json:"time_horizon_years"`
	CO2ReductionPercent float64  `json:"co2_reduction_percent"`
	JobLossMaxPercent   float64  `json:"job_loss_max_percent"`
	BudgetLimitUSD      float64  `json:"budget_limit_usd"`
	Constraints         []string `json:"constraints"`
}

// ModelParser extracts policies with a language model, falling back to the
// heuristic parser when the model call or its output fails. The fallback
// keeps the pipeline deterministic and runnable without provider credentials.
type ModelParser struct {
	completer model.Completer
	fallback  Parser
	logger    logging.Logger
}

// ModelParserOptions configures a ModelParser.
type ModelParserOptions struct {
	// Fallback handles parses the model cannot. Defaults to HeuristicParser.
	Fallback Parser
	// Logger records fallback decisions. Defaults to NoOpLogger.
	Logger logging.Logger
}

// NewModelParser constructs an LLM-backed parser over the given completer.
func NewModelParser(completer model.Completer, optFns ...func(o *ModelParserOptions)) *ModelParser {
	opts := ModelParserOptions{
		Fallback: NewHeuristicParser(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ModelParser{completer: completer, fallback: opts.Fallback, logger: opts.Logger}
}

// Parse implements Parser.
func (p *ModelParser) Parse(ctx context.Context, goalText, regionID string) (Policy, error) {
	if regionID == "" {
		return Policy{}, fmt.Errorf("policy: region id is required")
	}

	raw, err := p.completer.Complete(ctx, parserSystemPrompt, goalText)
	if err != nil {
		p.logger.Warn("model parse failed, using heuristic fallback", "provider", p.completer.Info().Provider, "error", err)
		return p.fallback.Parse(ctx, goalText, regionID)
	}

	parsed, err := decodeModelPolicy(raw)
	if err != nil {
		p.logger.Warn("model output rejected, using heuristic fallback", "provider", p.completer.Info().Provider, "error", err)
		return p.fallback.Parse(ctx, goalText, regionID)
	}

	pol := Policy{
		RegionID:     regionID,
		HorizonYears: parsed.HorizonYears,
		Targets: Targets{
			CO2ReductionPercent: parsed.CO2ReductionPercent,
			JobLossMaxPercent:   parsed.JobLossMaxPercent,
			BudgetLimitUSD:      parsed.BudgetLimitUSD,
		},
		Constraints: parsed.Constraints,
		RawText:     goalText,
	}
	if pol.Constraints == nil {
		pol.Constraints = []string{}
	}
	if pol.HorizonYears <= 0 {
		pol.HorizonYears = DefaultHorizonYears
	}
	if pol.Targets.CO2ReductionPercent <= 0 {
		pol.Targets.CO2ReductionPercent = DefaultCO2ReductionPercent
	}
	if pol.Targets.JobLossMaxPercent <= 0 {
		pol.Targets.JobLossMaxPercent = DefaultJobLossMaxPercent
	}
	if pol.Targets.BudgetLimitUSD <= 0 {
		pol.Targets.BudgetLimitUSD = DefaultBudgetLimitUSD
	}
	return pol, nil
}

// decodeModelPolicy tolerates markdown code fences around the JSON object.
func decodeModelPolicy(raw string) (modelPolicy, error) {
	text := strings.TrimSpace(raw)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	var parsed modelPolicy
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return modelPolicy{}, fmt.Errorf("policy: decode model output: %w", err)
	}
	return parsed, nil
}
