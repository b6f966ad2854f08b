// Package audit provides the reporting tools that watch the routing
// contract: coverage of in-use blocks, content sparsity, drift between the
// compiled contract and the runtime mapping tables, and a consolidated
// health check. Every tool degrades to a structured error field instead of
// failing, because these checks run unattended in CI and ops contexts.
package audit

import (
	"sort"

	"github.com/dusk-indust/slideroute/internal/contract"
)

// CoverageInput names the inputs of one coverage audit.
type CoverageInput struct {
	Source      *contract.TemplateSource
	Mappings    *contract.MappingConfig
	BuiltBlocks []string
}

// CoveredBlock annotates one in-use block with its contract attributes.
type CoveredBlock struct {
	BlockKey         string            `json:"blockKey"`
	PatternKey       string            `json:"patternKey"`
	PrimarySlide     int               `json:"primarySlideId"`
	RequiredGeometry contract.Geometry `json:"requiredGeometry"`
}

// CoverageReport is the JSON-serializable result of one coverage audit.
type CoverageReport struct {
	Error           string         `json:"error,omitempty"`
	CoveragePercent float64        `json:"coveragePercent"`
	CoveredBlocks   []CoveredBlock `json:"coveredBlocks"`
	UncoveredBlocks []string       `json:"uncoveredBlocks,omitempty"`
	TotalBlocks     int            `json:"totalBlocks"`
}

// Coverage classifies each in-use block as covered or uncovered by the
// compiled contract. An empty built-block list yields 0%, not a degenerate
// 100%. Compile failures land in the Error field.
func Coverage(in CoverageInput) *CoverageReport {
	report := &CoverageReport{CoveredBlocks: []CoveredBlock{}}

	compiled, err := contract.Compile(in.Source, in.Mappings)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	report.TotalBlocks = len(in.BuiltBlocks)
	for _, key := range in.BuiltBlocks {
		bc, ok := compiled.Blocks[key]
		if !ok {
			report.UncoveredBlocks = append(report.UncoveredBlocks, key)
			continue
		}
		report.CoveredBlocks = append(report.CoveredBlocks, CoveredBlock{
			BlockKey:         key,
			PatternKey:       bc.PatternKey,
			PrimarySlide:     bc.PrimarySlide,
			RequiredGeometry: bc.RequiredGeometry,
		})
	}

	if report.TotalBlocks > 0 {
		report.CoveragePercent = float64(len(report.CoveredBlocks)) / float64(report.TotalBlocks) * 100
	}
	return report
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
