package mcptools

// --- MCP tool types for the diagnostics server mode (serve-mcp) ---
// These tools let operations tooling and coding agents query routing health
// with structured calls instead of shelling out to the CLI.

// AuditCoverageInput is the input for the audit_coverage tool.
type AuditCoverageInput struct {
	BuiltBlocks []string `json:"builtBlocks" jsonschema:"block keys the pipeline actually built"`
}

// AuditCoverageOutput is the result of the audit_coverage tool.
type AuditCoverageOutput struct {
	CoveragePercent float64        `json:"coveragePercent"`
	TotalBlocks     int            `json:"totalBlocks"`
	CoveredBlocks   []CoveredBlock `json:"coveredBlocks"`
	UncoveredBlocks []string       `json:"uncoveredBlocks,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// CoveredBlock annotates one covered block.
type CoveredBlock struct {
	BlockKey         string `json:"blockKey"`
	PatternKey       string `json:"patternKey"`
	PrimarySlide     int    `json:"primarySlideId"`
	RequiredGeometry string `json:"requiredGeometry"`
}

// CheckDriftInput is the input for the check_drift tool. Leaving every field
// empty compares the contract against its own compile-time tables.
type CheckDriftInput struct {
	BlockPatterns    map[string]string `json:"blockPatterns,omitempty" jsonschema:"runtime block-to-pattern table"`
	BlockSlides      map[string]int    `json:"blockSlides,omitempty" jsonschema:"runtime block-to-slide table"`
	TableContextKeys []string          `json:"tableContextKeys,omitempty" jsonschema:"runtime table context key set"`
	ChartContextKeys []string          `json:"chartContextKeys,omitempty" jsonschema:"runtime chart context key set"`
}

// CheckDriftOutput is the result of the check_drift tool.
type CheckDriftOutput struct {
	ReportID          string       `json:"reportId"`
	ContractVersion   string       `json:"contractVersion,omitempty"`
	ContractSignature string       `json:"contractSignature,omitempty"`
	DriftDetected     bool         `json:"driftDetected"`
	TotalIssues       int          `json:"totalIssues"`
	ErrorCount        int          `json:"errorCount"`
	CoveragePercent   float64      `json:"coveragePercent"`
	Issues            []DriftIssue `json:"issues"`
	Error             string       `json:"error,omitempty"`
}

// DriftIssue mirrors one drift discrepancy.
type DriftIssue struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	BlockKey string `json:"blockKey"`
	Declared string `json:"declared,omitempty"`
	Runtime  string `json:"runtime,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// RunDoctorInput is the input for the run_doctor tool.
type RunDoctorInput struct{}

// RunDoctorOutput is the result of the run_doctor tool.
type RunDoctorOutput struct {
	Healthy      bool          `json:"healthy"`
	PatternCount int           `json:"patternCount"`
	BlockCount   int           `json:"blockCount"`
	Checks       []DoctorCheck `json:"checks"`
}

// DoctorCheck is one named health-check outcome.
type DoctorCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// CheckSparsityInput is the input for the check_sparsity tool.
type CheckSparsityInput struct {
	Content map[string]any `json:"content" jsonschema:"block key to content value map"`
}

// CheckSparsityOutput is the result of the check_sparsity tool.
type CheckSparsityOutput struct {
	Threshold int            `json:"threshold"`
	Sparse    []SparseBlock  `json:"sparse"`
	Adequate  []string       `json:"adequate"`
	Skipped   []SkippedBlock `json:"skipped"`
}

// SparseBlock flags one under-sized block.
type SparseBlock struct {
	BlockKey string `json:"blockKey"`
	Length   int    `json:"length"`
	Severity string `json:"severity"`
}

// SkippedBlock records one unmeasurable block.
type SkippedBlock struct {
	BlockKey string `json:"blockKey"`
	Reason   string `json:"reason"`
}

// ResolveBlockInput is the input for the resolve_block tool.
type ResolveBlockInput struct {
	BlockKey string `json:"blockKey" jsonschema:"logical content block to place"`
	Slide    int    `json:"slide,omitempty" jsonschema:"optional slide number override"`
	Pattern  string `json:"pattern,omitempty" jsonschema:"optional pattern name override"`
	Strict   bool   `json:"strict,omitempty" jsonschema:"fail on primary mismatch instead of walking the fallback chain"`
}

// ResolveBlockOutput is the result of the resolve_block tool.
type ResolveBlockOutput struct {
	Status      string            `json:"status"` // "resolved" or "failed"
	SlideNumber int               `json:"slideNumber,omitempty"`
	Geometry    string            `json:"geometry,omitempty"`
	Recovered   bool              `json:"recovered"`
	FromSlide   int               `json:"fromSlide,omitempty"`
	ToSlide     int               `json:"toSlide,omitempty"`
	ReasonCode  string            `json:"reasonCode,omitempty"`
	Provenance  []ProvenanceEntry `json:"provenance,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// ProvenanceEntry mirrors one attempted candidate slide.
type ProvenanceEntry struct {
	Step        int    `json:"step"`
	SlideNumber int    `json:"slideNumber"`
	Source      string `json:"source"`
	Outcome     string `json:"outcome"`
	Code        string `json:"code,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

// GetMetricsInput is the input for the get_metrics tool.
type GetMetricsInput struct{}

// GetMetricsOutput is the session metrics snapshot.
type GetMetricsOutput struct {
	TotalChecks      int             `json:"totalChecks"`
	Passes           int             `json:"passes"`
	Recoveries       int             `json:"recoveries"`
	HardFailures     int             `json:"hardFailures"`
	MaxFallbackDepth int             `json:"maxFallbackDepth"`
	AvgFallbackDepth float64         `json:"avgFallbackDepth"`
	Failures         []FailureRecord `json:"failures"`
}

// FailureRecord mirrors one failure ledger entry.
type FailureRecord struct {
	BlockKey    string `json:"blockKey"`
	Code        string `json:"code"`
	TargetSlide int    `json:"targetSlide"`
	Geometry    string `json:"geometry"`
	At          string `json:"at"`
}
