package audit

import (
	"fmt"
	"sort"

	"github.com/dusk-indust/slideroute/internal/contract"
)

// Drift issue kinds and severities.
const (
	IssuePatternMismatch = "pattern_mismatch"
	IssueSlideMismatch   = "slide_mismatch"
	IssueUncontracted    = "uncontracted_block"

	SeverityError   = "error"
	SeverityWarning = "warning"
)

// DriftIssue is one discrepancy between the compiled contract and the
// runtime mapping tables.
type DriftIssue struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	BlockKey string `json:"blockKey"`
	Declared string `json:"declared,omitempty"`
	Runtime  string `json:"runtime,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// DriftResult is the JSON-serializable outcome of one drift check.
type DriftResult struct {
	Detected bool         `json:"driftDetected"`
	Issues   []DriftIssue `json:"issues"`
}

// Drift compares compiled contracts against the four runtime mapping tables.
// A nil runtime compares against the very tables used at compile time and
// must report zero drift; that self-consistency is the regression gate.
func Drift(compiled *contract.Compiled, runtime *contract.MappingConfig) *DriftResult {
	if runtime == nil {
		runtime = compiled.Mappings()
	}
	result := &DriftResult{Issues: []DriftIssue{}}

	for _, key := range sortedKeys(compiled.Blocks) {
		bc := compiled.Blocks[key]
		if rp, ok := runtime.BlockPatterns[key]; ok && rp != bc.PatternKey {
			result.Issues = append(result.Issues, DriftIssue{
				Kind:     IssuePatternMismatch,
				Severity: SeverityError,
				BlockKey: key,
				Declared: bc.PatternKey,
				Runtime:  rp,
			})
		}
		if rs, ok := runtime.BlockSlides[key]; ok && rs != bc.PrimarySlide {
			result.Issues = append(result.Issues, DriftIssue{
				Kind:     IssueSlideMismatch,
				Severity: SeverityError,
				BlockKey: key,
				Declared: fmt.Sprintf("%d", bc.PrimarySlide),
				Runtime:  fmt.Sprintf("%d", rs),
			})
		}
	}

	for _, key := range runtimeBlockKeys(runtime) {
		if _, ok := compiled.Blocks[key]; !ok {
			result.Issues = append(result.Issues, DriftIssue{
				Kind:     IssueUncontracted,
				Severity: SeverityWarning,
				BlockKey: key,
				Detail:   "block referenced by runtime tables has no compiled contract",
			})
		}
	}

	result.Detected = len(result.Issues) > 0
	return result
}

// runtimeBlockKeys returns the sorted union of every block key the four
// runtime tables reference.
func runtimeBlockKeys(cfg *contract.MappingConfig) []string {
	set := make(map[string]struct{})
	for key := range cfg.BlockPatterns {
		set[key] = struct{}{}
	}
	for key := range cfg.BlockSlides {
		set[key] = struct{}{}
	}
	for _, key := range cfg.TableContextKeys {
		set[key] = struct{}{}
	}
	for _, key := range cfg.ChartContextKeys {
		set[key] = struct{}{}
	}

	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
