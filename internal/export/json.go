// Package export writes JSON-serializable routing reports and metrics
// snapshots to disk for operations tooling.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dusk-indust/slideroute/internal/routing"
)

// MetricsExport is the diagnostics snapshot of one routing session.
type MetricsExport struct {
	ExportedAt       string                  `json:"exportedAt"`
	Metrics          routing.Metrics         `json:"metrics"`
	AvgFallbackDepth float64                 `json:"avgFallbackDepth"`
	Failures         []routing.FailureRecord `json:"failures"`
}

// BuildMetricsExport snapshots a session's metrics and failure ledger.
func BuildMetricsExport(session *routing.Session) *MetricsExport {
	metrics, failures := session.Snapshot()
	if failures == nil {
		failures = []routing.FailureRecord{}
	}
	return &MetricsExport{
		ExportedAt:       time.Now().UTC().Format(time.RFC3339),
		Metrics:          metrics,
		AvgFallbackDepth: metrics.AvgFallbackDepth(),
		Failures:         failures,
	}
}

// WriteJSON marshals v with indentation and writes it to path, creating
// parent directories as needed.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshaling %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	return nil
}
