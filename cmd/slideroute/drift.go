package main

import (
	"flag"
	"fmt"

	"github.com/dusk-indust/slideroute/internal/audit"
	"github.com/dusk-indust/slideroute/internal/config"
	"github.com/dusk-indust/slideroute/internal/contract"
	"github.com/dusk-indust/slideroute/internal/export"
)

// runDrift generates a drift report comparing the compiled contract against
// runtime mapping tables. Without -runtime the contract is checked against
// its own compile-time tables, which must always come out clean.
func runDrift(args []string) error {
	fs := flag.NewFlagSet("drift", flag.ContinueOnError)
	templatePath := fs.String("template", "", "template source JSON file")
	configPath := fs.String("config", "", "deck config file (defaults to slideroute.yml in the current directory)")
	runtimePath := fs.String("runtime", "", "runtime mapping tables YAML file")
	out := fs.String("out", "", "write the report JSON to a file instead of stdout")
	failOnDrift := fs.Bool("fail-on-drift", false, "exit non-zero when drift is detected")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *templatePath == "" {
		return fmt.Errorf("drift: -template is required")
	}

	cfg, err := loadDeckConfig(*configPath)
	if err != nil {
		return err
	}
	src, err := config.LoadTemplate(*templatePath)
	if err != nil {
		return err
	}

	var runtime *contract.MappingConfig
	if *runtimePath != "" {
		runtime, err = config.LoadRuntimeMappings(*runtimePath)
		if err != nil {
			return err
		}
	}

	report := audit.GenerateDriftReport(audit.ReportInput{
		Source:   src,
		Mappings: &cfg.Mappings,
		Runtime:  runtime,
	})

	if *out != "" {
		if err := export.WriteJSON(*out, report); err != nil {
			return err
		}
	} else if err := printJSON(report); err != nil {
		return err
	}

	if report.Error != "" {
		return fmt.Errorf("drift: contract failed to compile: %s", report.Error)
	}
	if *failOnDrift && report.DriftDetected {
		return fmt.Errorf("drift: %d issue(s) detected", report.Summary.TotalIssues)
	}
	return nil
}
