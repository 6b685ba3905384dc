package climate

import "fmt"

// Scale labels the deployment intensity of a scenario action.
type Scale string

const (
	// ScaleLow deploys an intervention at half intensity.
	ScaleLow Scale = "low"
	// ScaleMedium deploys an intervention at nominal intensity.
	ScaleMedium Scale = "medium"
	// ScaleHigh deploys an intervention at one-and-a-half intensity.
	ScaleHigh Scale = "high"
)

// Factor returns the multiplier applied to an intervention's per-unit
// coefficients at this scale.
func (s Scale) Factor() (float64, error) {
	switch s {
	case ScaleLow:
		return 0.5, nil
	case ScaleMedium:
		return 1.0, nil
	case ScaleHigh:
		return 1.5, nil
	default:
		return 0, fmt.Errorf("climate: unknown scale %q", string(s))
	}
}

// Action is one intervention deployment inside a scenario.
type Action struct {
	InterventionID string `json:"id"`
	Scale          Scale  `json:"scale"`
}

// Scenario is a portfolio of intervention actions evaluated as a unit.
type Scenario struct {
	ID      string   `json:"scenario_id"`
	Actions []Action `json:"actions"`
}
