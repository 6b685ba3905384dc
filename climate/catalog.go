package climate

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// Intervention describes one entry of the intervention catalog with its
// per-unit effect coefficients.
type Intervention struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Sector           string  `json:"sector"`
	ReductionPerUnit float64 `json:"base_reduction_percent_per_unit"`
	CostPerUnit      float64 `json:"base_cost_usd_per_unit"`
	JobImpactPerUnit float64 `json:"job_impact_percent_per_unit"`
}

// Catalog maps intervention id to its record.
type Catalog struct {
	interventions map[string]Intervention
}

// Get returns the intervention for the given id.
func (c *Catalog) Get(id string) (Intervention, bool) {
	iv, ok := c.interventions[id]
	return iv, ok
}

// IDs returns all intervention ids in sorted order. Scenario generation
// iterates this so runs are deterministic.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.interventions))
	for id := range c.interventions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.interventions) }

// ParseCatalog reads an interventions CSV (header row required) into a Catalog.
// Required columns: id, name, sector, base_reduction_percent_per_unit,
// base_cost_usd_per_unit, job_impact_percent_per_unit.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("climate: read interventions: %w", err)
	}

	catalog := &Catalog{interventions: make(map[string]Intervention, len(rows))}
	for i, row := range rows {
		iv, err := parseInterventionRow(row)
		if err != nil {
			return nil, fmt.Errorf("climate: interventions row %d: %w", i+1, err)
		}
		catalog.interventions[iv.ID] = iv
	}
	return catalog, nil
}

// LoadCatalog reads the interventions CSV at path.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("climate: open interventions file: %w", err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// DefaultCatalog returns the embedded sample intervention catalog.
func DefaultCatalog() *Catalog {
	f, err := sampleData.Open("data/interventions.csv")
	if err != nil {
		panic(fmt.Sprintf("climate: embedded interventions missing: %v", err))
	}
	defer f.Close()
	catalog, err := ParseCatalog(f)
	if err != nil {
		panic(fmt.Sprintf("climate: embedded interventions invalid: %v", err))
	}
	return catalog
}

func parseInterventionRow(row map[string]string) (Intervention, error) {
	id := row["id"]
	if id == "" {
		return Intervention{}, fmt.Errorf("missing id")
	}
	reduction, err := floatField(row, "base_reduction_percent_per_unit")
	if err != nil {
		return Intervention{}, err
	}
	cost, err := floatField(row, "base_cost_usd_per_unit")
	if err != nil {
		return Intervention{}, err
	}
	jobs, err := floatField(row, "job_impact_percent_per_unit")
	if err != nil {
		return Intervention{}, err
	}
	return Intervention{
		ID:               id,
		Name:             row["name"],
		Sector:           row["sector"],
		ReductionPerUnit: reduction,
		CostPerUnit:      cost,
		JobImpactPerUnit: jobs,
	}, nil
}
