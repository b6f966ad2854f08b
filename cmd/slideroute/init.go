package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dusk-indust/slideroute/internal/skilldata"
)

// runInit writes the starter deck config and sample template into the
// target directory. Existing files are kept unless -force is given.
func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	dir := fs.String("dir", ".", "target directory")
	force := fs.Bool("force", false, "overwrite existing files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	abs, err := filepath.Abs(*dir)
	if err != nil {
		return fmt.Errorf("resolving target directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", abs, err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{"slideroute.yml", skilldata.StarterConfig},
		{"deck_template.json", skilldata.SampleTemplate},
	}

	for _, f := range files {
		dest := filepath.Join(abs, f.name)
		if !*force {
			if _, err := os.Stat(dest); err == nil {
				fmt.Printf("  skipped %s (exists, use -force to overwrite)\n", f.name)
				continue
			}
		}
		if err := os.WriteFile(dest, f.data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		fmt.Printf("  created %s\n", f.name)
	}

	fmt.Println("\nStarter config written. Edit slideroute.yml to point at your template source.")
	return nil
}
