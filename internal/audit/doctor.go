package audit

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/slideroute/internal/contract"
)

// DoctorInput names the inputs of one health check.
type DoctorInput struct {
	Source   *contract.TemplateSource
	Mappings *contract.MappingConfig
}

// CheckResult is the outcome of one named health check.
type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// DoctorResult is the single pass/fail summary of a routing contract.
type DoctorResult struct {
	Healthy      bool          `json:"healthy"`
	PatternCount int           `json:"patternCount"`
	BlockCount   int           `json:"blockCount"`
	Checks       []CheckResult `json:"checks"`
}

// Doctor runs a single pass/fail health check over the routing contract:
// compile, fallback chain integrity, slide catalog presence, and drift
// self-consistency. A compile failure fails the whole check outright.
func Doctor(in DoctorInput) *DoctorResult {
	result := &DoctorResult{Checks: []CheckResult{}}

	compiled, err := contract.Compile(in.Source, in.Mappings)
	if err != nil {
		result.Checks = append(result.Checks, CheckResult{
			Name: "compile", Passed: false, Detail: err.Error(),
		})
		return result
	}
	result.Checks = append(result.Checks, CheckResult{
		Name: "compile", Passed: true,
		Detail: fmt.Sprintf("version %s, signature %s", compiled.Version, compiled.Signature),
	})
	result.PatternCount = len(compiled.Patterns)
	result.BlockCount = len(compiled.Blocks)

	result.Checks = append(result.Checks, checkChains(compiled))
	result.Checks = append(result.Checks, checkCatalog(compiled))

	selfDrift := Drift(compiled, nil)
	drift := CheckResult{Name: "drift_self_consistency", Passed: !selfDrift.Detected}
	if selfDrift.Detected {
		drift.Detail = fmt.Sprintf("%d issue(s) against own compile tables", len(selfDrift.Issues))
	}
	result.Checks = append(result.Checks, drift)

	result.Healthy = true
	for _, check := range result.Checks {
		if !check.Passed {
			result.Healthy = false
			break
		}
	}
	return result
}

// checkChains verifies every fallback chain is duplicate-free and starts at
// the block's declared primary slide when one exists.
func checkChains(compiled *contract.Compiled) CheckResult {
	var problems []string
	for _, key := range sortedKeys(compiled.Blocks) {
		bc := compiled.Blocks[key]
		seen := make(map[int]struct{}, len(bc.FallbackChain))
		for _, entry := range bc.FallbackChain {
			if _, dup := seen[entry.SlideNumber]; dup {
				problems = append(problems, fmt.Sprintf("%s: slide %d repeated", key, entry.SlideNumber))
			}
			seen[entry.SlideNumber] = struct{}{}
		}
		if bc.PrimarySlide != 0 {
			if len(bc.FallbackChain) == 0 || bc.FallbackChain[0].SlideNumber != bc.PrimarySlide {
				problems = append(problems, fmt.Sprintf("%s: chain does not start at primary %d", key, bc.PrimarySlide))
			}
		}
	}
	check := CheckResult{Name: "fallback_chains", Passed: len(problems) == 0}
	if len(problems) > 0 {
		check.Detail = strings.Join(problems, "; ")
	}
	return check
}

// checkCatalog verifies every declared primary slide exists in the slide
// catalog.
func checkCatalog(compiled *contract.Compiled) CheckResult {
	src := compiled.Source()
	var missing []string
	for _, key := range sortedKeys(compiled.Blocks) {
		bc := compiled.Blocks[key]
		if bc.PrimarySlide == 0 {
			continue
		}
		if _, ok := src.Slides[bc.PrimarySlide]; !ok {
			missing = append(missing, fmt.Sprintf("%s: primary slide %d not in catalog", key, bc.PrimarySlide))
		}
	}
	check := CheckResult{Name: "slide_catalog", Passed: len(missing) == 0}
	if len(missing) > 0 {
		check.Detail = strings.Join(missing, "; ")
	}
	return check
}
