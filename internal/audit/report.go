package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/dusk-indust/slideroute/internal/contract"
)

// ReportTypeDrift tags consolidated drift reports.
const ReportTypeDrift = "contract_drift"

// ReportInput names the inputs of one consolidated drift report.
type ReportInput struct {
	Source   *contract.TemplateSource
	Mappings *contract.MappingConfig
	// Runtime optionally supplies the tables actually used at render
	// time; nil compares against the compile-time tables.
	Runtime *contract.MappingConfig
}

// ReportSummary aggregates the headline figures of a drift report.
type ReportSummary struct {
	TotalBlocks     int     `json:"totalBlocks"`
	TotalIssues     int     `json:"totalIssues"`
	ErrorCount      int     `json:"errorCount"`
	CoveragePercent float64 `json:"coveragePercent"`
}

// BlockSummaryEntry summarizes one contracted block and its issue count.
type BlockSummaryEntry struct {
	BlockKey         string            `json:"blockKey"`
	PatternKey       string            `json:"patternKey"`
	PrimarySlide     int               `json:"primarySlideId"`
	RequiredGeometry contract.Geometry `json:"requiredGeometry"`
	IssueCount       int               `json:"issueCount"`
}

// DriftReport is the consolidated, JSON-serializable report for operations
// tooling.
type DriftReport struct {
	ReportID          string              `json:"reportId"`
	ReportType        string              `json:"reportType"`
	GeneratedAt       string              `json:"generatedAt"`
	ContractVersion   string              `json:"contractVersion,omitempty"`
	ContractSignature string              `json:"contractSignature,omitempty"`
	DriftDetected     bool                `json:"driftDetected"`
	Summary           ReportSummary       `json:"summary"`
	BlockSummary      []BlockSummaryEntry `json:"blockSummary"`
	AllIssues         []DriftIssue        `json:"allIssues"`
	Error             string              `json:"error,omitempty"`
}

// GenerateDriftReport wraps compile, drift, and coverage into one report.
// Malformed input degrades to the Error field rather than failing, so the
// report generator can run unattended.
func GenerateDriftReport(in ReportInput) *DriftReport {
	report := &DriftReport{
		ReportID:     uuid.NewString(),
		ReportType:   ReportTypeDrift,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		BlockSummary: []BlockSummaryEntry{},
		AllIssues:    []DriftIssue{},
	}

	compiled, err := contract.Compile(in.Source, in.Mappings)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.ContractVersion = compiled.Version
	report.ContractSignature = compiled.Signature

	drift := Drift(compiled, in.Runtime)
	report.DriftDetected = drift.Detected
	report.AllIssues = drift.Issues

	runtime := in.Runtime
	if runtime == nil {
		runtime = compiled.Mappings()
	}
	coverage := Coverage(CoverageInput{
		Source:      in.Source,
		Mappings:    in.Mappings,
		BuiltBlocks: runtimeBlockKeys(runtime),
	})

	issuesByBlock := make(map[string]int, len(drift.Issues))
	errorCount := 0
	for _, issue := range drift.Issues {
		issuesByBlock[issue.BlockKey]++
		if issue.Severity == SeverityError {
			errorCount++
		}
	}

	for _, key := range sortedKeys(compiled.Blocks) {
		bc := compiled.Blocks[key]
		report.BlockSummary = append(report.BlockSummary, BlockSummaryEntry{
			BlockKey:         key,
			PatternKey:       bc.PatternKey,
			PrimarySlide:     bc.PrimarySlide,
			RequiredGeometry: bc.RequiredGeometry,
			IssueCount:       issuesByBlock[key],
		})
	}

	report.Summary = ReportSummary{
		TotalBlocks:     len(compiled.Blocks),
		TotalIssues:     len(drift.Issues),
		ErrorCount:      errorCount,
		CoveragePercent: coverage.CoveragePercent,
	}
	return report
}
