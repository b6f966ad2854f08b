package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/slideroute/internal/audit"
	"github.com/dusk-indust/slideroute/internal/config"
	"github.com/dusk-indust/slideroute/internal/contract"
	"github.com/dusk-indust/slideroute/internal/export"
)

// runSparse measures the content supplied for each contracted block and
// flags empty or thin entries. The content file is a JSON object mapping
// block keys to their content values.
func runSparse(args []string) error {
	fs := flag.NewFlagSet("sparse", flag.ContinueOnError)
	templatePath := fs.String("template", "", "template source JSON file")
	configPath := fs.String("config", "", "deck config file (defaults to slideroute.yml in the current directory)")
	contentPath := fs.String("content", "", "JSON file mapping block keys to content")
	out := fs.String("out", "", "write the report JSON to a file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *templatePath == "" {
		return fmt.Errorf("sparse: -template is required")
	}
	if *contentPath == "" {
		return fmt.Errorf("sparse: -content is required")
	}

	cfg, err := loadDeckConfig(*configPath)
	if err != nil {
		return err
	}
	src, err := config.LoadTemplate(*templatePath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(*contentPath)
	if err != nil {
		return fmt.Errorf("sparse: reading %s: %w", *contentPath, err)
	}
	var content map[string]any
	if err := json.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("sparse: parsing %s: %w", *contentPath, err)
	}

	compiled, err := contract.Compile(src, &cfg.Mappings)
	if err != nil {
		return fmt.Errorf("sparse: %w", err)
	}

	report := audit.CheckSparseContent(compiled.Blocks, content)

	if *out != "" {
		return export.WriteJSON(*out, report)
	}
	return printJSON(report)
}
