// Command terramesh-eval benchmarks the multi-agent planner against a
// static baseline heuristic over a JSON case list and writes the per-case
// comparison plus a win/loss summary to a results file. A missing case
// file is seeded with the built-in samples.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/config"
	"github.com/terramesh/terramesh/eval"
	"github.com/terramesh/terramesh/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "terramesh-eval:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		casesPath   string
		resultsPath string
		configPath  string
	)

	pflag.StringVar(&casesPath, "cases", "eval_cases.json", "path to the JSON case list (seeded with samples when missing)")
	pflag.StringVar(&resultsPath, "results", "eval_results.json", "path the JSON results are written to")
	pflag.StringVar(&configPath, "config", "", "path to a TOML config file")
	pflag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.NewSlogLogger(logging.ParseLogLevel(cfg.Log.Level), cfg.Log.Format, false)

	cases, err := loadCases(casesPath)
	if err != nil {
		return err
	}
	for i := range cases {
		if cases[i].RegionID == "" {
			cases[i].RegionID = cfg.DefaultRegion
		}
	}

	harness, err := buildHarness(cfg, logger)
	if err != nil {
		return err
	}

	outcome, err := harness.Run(context.Background(), cases)
	if err != nil {
		return err
	}

	if err := writeJSON(resultsPath, outcome); err != nil {
		return err
	}
	logger.Info("saved evaluation results", "path", resultsPath)

	fmt.Println("=== Evaluation Summary ===")
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome.Summary)
}

func buildHarness(cfg config.Config, logger logging.Logger) (*eval.Harness, error) {
	var optErr error
	harness := eval.New(func(o *eval.Options) {
		o.Logger = logger
		o.StepLimit = cfg.StepLimit
		o.MaxScenarios = cfg.MaxScenarios

		if cfg.Data.RegionsPath != "" {
			atlas, err := climate.LoadAtlas(cfg.Data.RegionsPath)
			if err != nil {
				optErr = err
				return
			}
			o.Atlas = atlas
		}
		if cfg.Data.InterventionsPath != "" {
			catalog, err := climate.LoadCatalog(cfg.Data.InterventionsPath)
			if err != nil {
				optErr = err
				return
			}
			o.Catalog = catalog
		}
	})
	if optErr != nil {
		return nil, optErr
	}
	return harness, nil
}

// loadCases reads the case list, seeding the file with the samples when it
// does not exist yet.
func loadCases(path string) ([]eval.Case, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cases := eval.SampleCases()
		if err := writeJSON(path, cases); err != nil {
			return nil, fmt.Errorf("seed %s: %w", path, err)
		}
		fmt.Fprintln(os.Stderr, "terramesh-eval: created sample case list at", path)
		return cases, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cases []eval.Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("no cases in %s", path)
	}
	return cases, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
