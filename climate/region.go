package climate

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

//go:embed data/regions.csv data/interventions.csv
var sampleData embed.FS

// SectorShares describes how a region's emissions split across sectors.
// Shares are fractions of the baseline and normally sum to ~1.0.
type SectorShares struct {
	Transport float64 `json:"transport"`
	Industry  float64 `json:"industry"`
	Buildings float64 `json:"buildings"`
}

// Share returns the fraction attributed to the named sector, or 0 for an
// unknown sector name.
func (s SectorShares) Share(sector string) float64 {
	switch sector {
	case "transport":
		return s.Transport
	case "industry":
		return s.Industry
	case "buildings":
		return s.Buildings
	default:
		return 0
	}
}

// Region is the baseline record for one planning region.
type Region struct {
	ID                string       `json:"region_id"`
	Name              string       `json:"name"`
	Population        int          `json:"population"`
	BaselineEmissions float64      `json:"current_emissions_mtco2"` // megatonnes CO2 per year
	Sectors           SectorShares `json:"sector_breakdown"`
}

// Atlas is the set of known regions keyed by region id.
type Atlas struct {
	regions map[string]Region
}

// RegionNotFoundError reports a lookup of an unknown region id and lists
// the available ids to aid diagnosis.
type RegionNotFoundError struct {
	ID        string
	Available []string
}

func (e *RegionNotFoundError) Error() string {
	return fmt.Sprintf("climate: region %q not found (available: %v)", e.ID, e.Available)
}

// Region returns the record for the given id.
func (a *Atlas) Region(id string) (Region, error) {
	r, ok := a.regions[id]
	if !ok {
		ids := make([]string, 0, len(a.regions))
		for k := range a.regions {
			ids = append(ids, k)
		}
		sort.Strings(ids)
		return Region{}, &RegionNotFoundError{ID: id, Available: ids}
	}
	return r, nil
}

// Len returns the number of regions in the atlas.
func (a *Atlas) Len() int { return len(a.regions) }

// ParseAtlas reads a regions CSV (header row required) into an Atlas.
// Required columns: region_id, name, population, current_emissions_mtco2,
// transport_share, industry_share, buildings_share.
func ParseAtlas(r io.Reader) (*Atlas, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, fmt.Errorf("climate: read regions: %w", err)
	}

	atlas := &Atlas{regions: make(map[string]Region, len(rows))}
	for i, row := range rows {
		region, err := parseRegionRow(row)
		if err != nil {
			return nil, fmt.Errorf("climate: regions row %d: %w", i+1, err)
		}
		atlas.regions[region.ID] = region
	}
	return atlas, nil
}

// LoadAtlas reads the regions CSV at path.
func LoadAtlas(path string) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("climate: open regions file: %w", err)
	}
	defer f.Close()
	return ParseAtlas(f)
}

// DefaultAtlas returns the embedded sample regions, letting the system run
// end-to-end without any external data setup.
func DefaultAtlas() *Atlas {
	f, err := sampleData.Open("data/regions.csv")
	if err != nil {
		panic(fmt.Sprintf("climate: embedded regions missing: %v", err))
	}
	defer f.Close()
	atlas, err := ParseAtlas(f)
	if err != nil {
		panic(fmt.Sprintf("climate: embedded regions invalid: %v", err))
	}
	return atlas
}

func parseRegionRow(row map[string]string) (Region, error) {
	id := row["region_id"]
	if id == "" {
		return Region{}, fmt.Errorf("missing region_id")
	}

	population, err := intField(row, "population")
	if err != nil {
		return Region{}, err
	}
	baseline, err := floatField(row, "current_emissions_mtco2")
	if err != nil {
		return Region{}, err
	}
	if baseline <= 0 {
		return Region{}, fmt.Errorf("region %q: baseline emissions must be positive, got %v", id, baseline)
	}
	transport, err := floatField(row, "transport_share")
	if err != nil {
		return Region{}, err
	}
	industry, err := floatField(row, "industry_share")
	if err != nil {
		return Region{}, err
	}
	buildings, err := floatField(row, "buildings_share")
	if err != nil {
		return Region{}, err
	}

	return Region{
		ID:                id,
		Name:              row["name"],
		Population:        population,
		BaselineEmissions: baseline,
		Sectors:           SectorShares{Transport: transport, Industry: industry, Buildings: buildings},
	}, nil
}

// readCSV reads a header-prefixed CSV into one map per record.
func readCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func floatField(row map[string]string, name string) (float64, error) {
	raw, ok := row[name]
	if !ok || raw == "" {
		return 0, fmt.Errorf("missing field %q", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: invalid number %q", name, raw)
	}
	return v, nil
}

func intField(row map[string]string, name string) (int, error) {
	raw, ok := row[name]
	if !ok || raw == "" {
		return 0, fmt.Errorf("missing field %q", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("field %q: invalid integer %q", name, raw)
	}
	return v, nil
}
