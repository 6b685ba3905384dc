// Command terramesh runs one end-to-end climate planning session from the
// command line and prints the resulting report.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/pflag"

	"github.com/terramesh/terramesh"
	"github.com/terramesh/terramesh/climate"
	"github.com/terramesh/terramesh/config"
	"github.com/terramesh/terramesh/logging"
	"github.com/terramesh/terramesh/memory"
	"github.com/terramesh/terramesh/model"
	"github.com/terramesh/terramesh/model/anthropic"
	"github.com/terramesh/terramesh/model/openai"
	"github.com/terramesh/terramesh/policy"
	"github.com/terramesh/terramesh/report"
	"github.com/terramesh/terramesh/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "terramesh:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		goal       string
		region     string
		configPath string
		maxSteps   int
		logLevel   string
	)

	pflag.StringVar(&goal, "goal",
		"Design a 10-year plan to reduce CO2 emissions by 40% in coastal_city_01 with minimal job loss.",
		"natural language sustainability goal")
	pflag.StringVar(&region, "region", "", "region id to apply the goal to (defaults to the configured region)")
	pflag.StringVar(&configPath, "config", "", "path to a TOML config file")
	pflag.IntVar(&maxSteps, "max-steps", 0, "override the dispatch step limit")
	pflag.StringVar(&logLevel, "log-level", "", "override the log level (debug, info, warn, error)")
	pflag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if maxSteps > 0 {
		cfg.StepLimit = maxSteps
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if region == "" {
		region = cfg.DefaultRegion
	}

	logger := logging.NewSlogLogger(logging.ParseLogLevel(cfg.Log.Level), cfg.Log.Format, false)

	mesh, err := buildMesh(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := mesh.Plan(ctx, goal, region)
	if err != nil {
		return err
	}

	printReport(result)

	patterns, err := mesh.Patterns()
	if err == nil && patterns.NumSessions > 1 {
		fmt.Printf("Across %d remembered sessions: avg reduction %.1f%%, best score %.2f\n",
			patterns.NumSessions, patterns.AvgCO2ReductionPercent, patterns.BestScore)
	}
	return nil
}

// buildMesh assembles a TerraMesh instance from the effective configuration.
func buildMesh(cfg config.Config, logger logging.Logger) (*terramesh.TerraMesh, error) {
	var optErr error
	mesh := terramesh.New(func(o *terramesh.Options) {
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

		if cfg.Storage.ReportsDir != "" {
			store, err := report.NewFileStore(cfg.Storage.ReportsDir)
			if err != nil {
				optErr = err
				return
			}
			o.ReportStore = store
		}
		if cfg.Storage.SessionsDir != "" {
			store, err := session.NewFileStore(cfg.Storage.SessionsDir)
			if err != nil {
				optErr = err
				return
			}
			o.SessionStore = store
		}
		if cfg.Storage.MemoryPath != "" {
			store, err := memory.NewFileStore(cfg.Storage.MemoryPath)
			if err != nil {
				optErr = err
				return
			}
			o.MemoryStore = store
		}

		if completer := buildCompleter(cfg.Model); completer != nil {
			o.Completer = completer
			o.Parser = policy.NewModelParser(completer, func(po *policy.ModelParserOptions) {
				po.Logger = logger
			})
		}
	})
	if optErr != nil {
		return nil, optErr
	}
	return mesh, nil
}

func buildCompleter(cfg config.ModelConfig) model.Completer {
	switch cfg.Provider {
	case "openai":
		return openai.NewCompleter(func(o *openai.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.APIKey = cfg.APIKey
		})
	case "anthropic":
		return anthropic.NewCompleter(func(o *anthropic.Options) {
			if cfg.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Name)
			}
			o.APIKey = cfg.APIKey
		})
	default:
		return nil
	}
}

func printReport(result terramesh.RunResult) {
	sep := "================================================================================"
	fmt.Println(sep)
	fmt.Println(result.Report.Title)
	fmt.Println(sep)
	fmt.Println(result.Report.ExecutiveSummary)
	if !result.Report.NoViablePlan {
		fmt.Printf("\nBest Scenario Score: %.2f\n", result.Report.Best.Score)
		fmt.Printf("CO2 Reduction (%%): %.2f\n", result.Report.Best.Projection.ReductionPercent)
		fmt.Printf("Total Cost (USD): %.0f\n", result.Report.Best.Projection.TotalCost)
	}
	fmt.Println(sep)
}
