package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/slideroute/internal/audit"
	"github.com/dusk-indust/slideroute/internal/config"
	"github.com/dusk-indust/slideroute/internal/export"
)

// auditResult pairs one template path with its coverage report.
type auditResult struct {
	Template string                `json:"template"`
	Report   *audit.CoverageReport `json:"report"`
}

// runAudit compiles each template against the shared mapping config and
// reports which built blocks the contract covers. Templates are audited in
// parallel; the first read failure cancels the remaining ones.
func runAudit(args []string) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	configPath := fs.String("config", "", "deck config file (defaults to slideroute.yml in the current directory)")
	built := fs.String("built", "", "comma-separated block keys the pipeline built")
	out := fs.String("out", "", "write the report JSON to a file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	templates := fs.Args()
	if len(templates) == 0 {
		return fmt.Errorf("audit: at least one template path is required")
	}

	cfg, err := loadDeckConfig(*configPath)
	if err != nil {
		return err
	}

	builtBlocks := splitList(*built)
	if len(builtBlocks) == 0 {
		// Default to every block the mapping tables declare.
		for key := range cfg.Mappings.BlockPatterns {
			builtBlocks = append(builtBlocks, key)
		}
	}

	results := make([]auditResult, len(templates))
	g, gctx := errgroup.WithContext(context.Background())

	for i, path := range templates {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			src, err := config.LoadTemplate(path)
			if err != nil {
				return err // cancels the remaining audits
			}
			results[i] = auditResult{
				Template: path,
				Report: audit.Coverage(audit.CoverageInput{
					Source:      src,
					Mappings:    &cfg.Mappings,
					BuiltBlocks: builtBlocks,
				}),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if *out != "" {
		return export.WriteJSON(*out, results)
	}
	return printJSON(results)
}

// loadDeckConfig resolves the mapping config from an explicit path or the
// working directory.
func loadDeckConfig(path string) (*config.DeckConfig, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(".")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
