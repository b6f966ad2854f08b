package main

import (
	"flag"
	"fmt"

	"github.com/dusk-indust/slideroute/internal/audit"
	"github.com/dusk-indust/slideroute/internal/config"
)

// runDoctor runs the contract health check and prints a pass/fail table.
func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	templatePath := fs.String("template", "", "template source JSON file")
	configPath := fs.String("config", "", "deck config file (defaults to slideroute.yml in the current directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *templatePath == "" {
		return fmt.Errorf("doctor: -template is required")
	}

	cfg, err := loadDeckConfig(*configPath)
	if err != nil {
		return err
	}
	src, err := config.LoadTemplate(*templatePath)
	if err != nil {
		return err
	}

	result := audit.Doctor(audit.DoctorInput{Source: src, Mappings: &cfg.Mappings})

	fmt.Printf("Contract: %d pattern(s), %d block(s)\n\n", result.PatternCount, result.BlockCount)
	for _, check := range result.Checks {
		label := "ok"
		if !check.Passed {
			label = "FAIL"
		}
		fmt.Printf("  %-28s [%s]\n", check.Name, label)
		if check.Detail != "" {
			fmt.Printf("      %s\n", check.Detail)
		}
	}
	fmt.Println()

	if !result.Healthy {
		return fmt.Errorf("doctor: contract is unhealthy")
	}
	fmt.Println("All checks passed.")
	return nil
}
