// Package mcptools exposes the routing audit and resolution operations as
// MCP tools so that diagnostics clients can call them over a structured
// protocol.
package mcptools

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/dusk-indust/slideroute/internal/audit"
	"github.com/dusk-indust/slideroute/internal/contract"
	"github.com/dusk-indust/slideroute/internal/routing"
)

// DiagnosticsService handles MCP tool calls for the diagnostics server mode.
// It wraps one enforcer and its session, plus the inputs needed to recompile
// for audit tools. Tool handlers return structured failures in the output
// rather than errors, because the server must keep answering unattended.
type DiagnosticsService struct {
	source   *contract.TemplateSource
	mappings *contract.MappingConfig
	enforcer *routing.Enforcer
	log      *zap.Logger
}

// ServiceOption configures a DiagnosticsService.
type ServiceOption func(*DiagnosticsService)

// WithLogger installs a structured logger on the service.
func WithLogger(log *zap.Logger) ServiceOption {
	return func(s *DiagnosticsService) { s.log = log }
}

// NewDiagnosticsService creates a DiagnosticsService over a compiled
// contract and the enforcer routing against it.
func NewDiagnosticsService(enforcer *routing.Enforcer, opts ...ServiceOption) *DiagnosticsService {
	compiled := enforcer.Contract()
	s := &DiagnosticsService{
		source:   compiled.Source(),
		mappings: compiled.Mappings(),
		enforcer: enforcer,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuditCoverage classifies the given built blocks against the contract.
func (s *DiagnosticsService) AuditCoverage(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input AuditCoverageInput,
) (*mcp.CallToolResult, AuditCoverageOutput, error) {
	report := audit.Coverage(audit.CoverageInput{
		Source:      s.source,
		Mappings:    s.mappings,
		BuiltBlocks: input.BuiltBlocks,
	})

	out := AuditCoverageOutput{
		CoveragePercent: report.CoveragePercent,
		TotalBlocks:     report.TotalBlocks,
		CoveredBlocks:   []CoveredBlock{},
		UncoveredBlocks: report.UncoveredBlocks,
		Error:           report.Error,
	}
	for _, cb := range report.CoveredBlocks {
		out.CoveredBlocks = append(out.CoveredBlocks, CoveredBlock{
			BlockKey:         cb.BlockKey,
			PatternKey:       cb.PatternKey,
			PrimarySlide:     cb.PrimarySlide,
			RequiredGeometry: string(cb.RequiredGeometry),
		})
	}
	return nil, out, nil
}

// CheckDrift compares the contract against runtime mapping tables.
func (s *DiagnosticsService) CheckDrift(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CheckDriftInput,
) (*mcp.CallToolResult, CheckDriftOutput, error) {
	var runtime *contract.MappingConfig
	if len(input.BlockPatterns) > 0 || len(input.BlockSlides) > 0 ||
		len(input.TableContextKeys) > 0 || len(input.ChartContextKeys) > 0 {
		runtime = &contract.MappingConfig{
			BlockPatterns:    input.BlockPatterns,
			BlockSlides:      input.BlockSlides,
			TableContextKeys: input.TableContextKeys,
			ChartContextKeys: input.ChartContextKeys,
		}
	}

	report := audit.GenerateDriftReport(audit.ReportInput{
		Source:   s.source,
		Mappings: s.mappings,
		Runtime:  runtime,
	})

	out := CheckDriftOutput{
		ReportID:          report.ReportID,
		ContractVersion:   report.ContractVersion,
		ContractSignature: report.ContractSignature,
		DriftDetected:     report.DriftDetected,
		TotalIssues:       report.Summary.TotalIssues,
		ErrorCount:        report.Summary.ErrorCount,
		CoveragePercent:   report.Summary.CoveragePercent,
		Issues:            []DriftIssue{},
		Error:             report.Error,
	}
	for _, issue := range report.AllIssues {
		out.Issues = append(out.Issues, DriftIssue{
			Kind:     issue.Kind,
			Severity: issue.Severity,
			BlockKey: issue.BlockKey,
			Declared: issue.Declared,
			Runtime:  issue.Runtime,
			Detail:   issue.Detail,
		})
	}
	return nil, out, nil
}

// RunDoctor runs the single pass/fail contract health check.
func (s *DiagnosticsService) RunDoctor(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ RunDoctorInput,
) (*mcp.CallToolResult, RunDoctorOutput, error) {
	result := audit.Doctor(audit.DoctorInput{Source: s.source, Mappings: s.mappings})

	out := RunDoctorOutput{
		Healthy:      result.Healthy,
		PatternCount: result.PatternCount,
		BlockCount:   result.BlockCount,
		Checks:       []DoctorCheck{},
	}
	for _, check := range result.Checks {
		out.Checks = append(out.Checks, DoctorCheck{
			Name: check.Name, Passed: check.Passed, Detail: check.Detail,
		})
	}
	return nil, out, nil
}

// CheckSparsity flags under-sized content for contracted blocks.
func (s *DiagnosticsService) CheckSparsity(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CheckSparsityInput,
) (*mcp.CallToolResult, CheckSparsityOutput, error) {
	report := audit.CheckSparseContent(s.enforcer.Contract().Blocks, input.Content)

	out := CheckSparsityOutput{
		Threshold: report.Threshold,
		Sparse:    []SparseBlock{},
		Adequate:  []string{},
		Skipped:   []SkippedBlock{},
	}
	for _, entry := range report.Sparse {
		out.Sparse = append(out.Sparse, SparseBlock{
			BlockKey: entry.BlockKey, Length: entry.Length, Severity: entry.Severity,
		})
	}
	for _, entry := range report.Adequate {
		out.Adequate = append(out.Adequate, entry.BlockKey)
	}
	for _, entry := range report.Skipped {
		out.Skipped = append(out.Skipped, SkippedBlock{BlockKey: entry.BlockKey, Reason: entry.Reason})
	}
	return nil, out, nil
}

// ResolveBlock routes one block to a slide, lenient or strict.
func (s *DiagnosticsService) ResolveBlock(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ResolveBlockInput,
) (*mcp.CallToolResult, ResolveBlockOutput, error) {
	req := routing.Request{
		BlockKey:         input.BlockKey,
		TableContextKeys: s.mappings.TableContextKeys,
		ChartContextKeys: s.mappings.ChartContextKeys,
		Selection:        selectionFrom(input),
	}

	var (
		res *routing.Resolution
		err error
	)
	if input.Strict {
		res, err = s.enforcer.EnforceStrict(req)
	} else {
		res, err = s.enforcer.Enforce(req)
	}
	if err != nil {
		out := ResolveBlockOutput{Status: "failed", Message: err.Error()}
		var rerr *routing.RouteError
		if errors.As(err, &rerr) {
			out.ReasonCode = string(rerr.Code)
			out.Provenance = provenanceFrom(rerr.Provenance)
		}
		s.log.Debug("resolve_block failed", zap.String("block", input.BlockKey), zap.Error(err))
		return nil, out, nil
	}

	return nil, ResolveBlockOutput{
		Status:      "resolved",
		SlideNumber: res.SlideNumber,
		Geometry:    string(res.Geometry),
		Recovered:   res.Recovered,
		FromSlide:   res.FromSlide,
		ToSlide:     res.ToSlide,
		ReasonCode:  string(res.ReasonCode),
		Provenance:  provenanceFrom(res.Provenance),
	}, nil
}

// GetMetrics snapshots the session counters and failure ledger.
func (s *DiagnosticsService) GetMetrics(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GetMetricsInput,
) (*mcp.CallToolResult, GetMetricsOutput, error) {
	metrics, failures := s.enforcer.Session().Snapshot()

	out := GetMetricsOutput{
		TotalChecks:      metrics.TotalChecks,
		Passes:           metrics.Passes,
		Recoveries:       metrics.Recoveries,
		HardFailures:     metrics.HardFailures,
		MaxFallbackDepth: metrics.MaxFallbackDepth,
		AvgFallbackDepth: metrics.AvgFallbackDepth(),
		Failures:         []FailureRecord{},
	}
	for _, f := range failures {
		out.Failures = append(out.Failures, FailureRecord{
			BlockKey:    f.BlockKey,
			Code:        string(f.Code),
			TargetSlide: f.TargetSlide,
			Geometry:    string(f.Geometry),
			At:          f.At.Format(time.RFC3339),
		})
	}
	return nil, out, nil
}

// selectionFrom maps the optional override fields to a Selection variant.
func selectionFrom(input ResolveBlockInput) routing.Selection {
	switch {
	case input.Pattern != "" && input.Slide != 0:
		return routing.PatternSlideSelection{Pattern: input.Pattern, Slide: input.Slide}
	case input.Pattern != "":
		return routing.PatternSelection{Pattern: input.Pattern}
	case input.Slide != 0:
		return routing.SlideSelection{Slide: input.Slide}
	default:
		return nil
	}
}

func provenanceFrom(entries []routing.ProvenanceEntry) []ProvenanceEntry {
	out := make([]ProvenanceEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, ProvenanceEntry{
			Step:        e.Step,
			SlideNumber: e.SlideNumber,
			Source:      e.Source,
			Outcome:     e.Outcome,
			Code:        string(e.Code),
			Mode:        e.Mode,
		})
	}
	return out
}
