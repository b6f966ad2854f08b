package mcptools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/slideroute/internal/contract"
	"github.com/dusk-indust/slideroute/internal/routing"
)

func testSource() *contract.TemplateSource {
	return &contract.TemplateSource{
		Version: "2.3",
		Patterns: map[string]contract.Pattern{
			"regulatory_table": {
				ID:             "regulatory_table",
				TemplateSlides: []int{6, 7, 8, 9, 10, 12},
				Elements: contract.Elements{
					Table: &contract.TableElement{Rows: 8, Columns: 4},
				},
			},
			"market_chart": {
				ID:             "market_chart",
				TemplateSlides: []int{15, 16},
				Elements: contract.Elements{
					Charts: []contract.ChartElement{{Name: "trend", Kind: "line"}},
				},
			},
			"executive_summary": {
				ID:             "executive_summary",
				TemplateSlides: []int{1, 2, 3},
				Elements: contract.Elements{
					Panels: []contract.PanelElement{{Name: "body"}},
				},
			},
		},
		Slides: map[int]contract.SlideGeometry{
			1:  {},
			2:  {},
			3:  {},
			6:  {Table: &contract.TableRegion{Rows: 8, Columns: 4}},
			7:  {Table: &contract.TableRegion{Rows: 8, Columns: 4}},
			8:  {Table: &contract.TableRegion{Rows: 6, Columns: 3}},
			9:  {},
			10: {Table: &contract.TableRegion{Rows: 8, Columns: 4}},
			12: {Table: &contract.TableRegion{Rows: 10, Columns: 5}},
			15: {Charts: []contract.ChartRegion{{Name: "trend", Kind: "line"}}},
			16: {Charts: []contract.ChartRegion{{Kind: "bar"}, {Kind: "pie"}}},
		},
	}
}

func testMappings() *contract.MappingConfig {
	return &contract.MappingConfig{
		BlockPatterns: map[string]string{
			"foundationalActs": "regulatory_table",
			"marketOutlook":    "market_chart",
			"execIntro":        "executive_summary",
		},
		BlockSlides: map[string]int{
			"foundationalActs": 7,
			"marketOutlook":    15,
			"execIntro":        1,
		},
		TableContextKeys: []string{"foundationalActs"},
		ChartContextKeys: []string{"marketOutlook"},
	}
}

func newTestService(t *testing.T) *DiagnosticsService {
	t.Helper()
	src := testSource()
	compiled, err := contract.Compile(src, testMappings())
	require.NoError(t, err)
	enforcer := routing.NewEnforcer(compiled, routing.NewSession(src))
	return NewDiagnosticsService(enforcer)
}

func TestAuditCoverageTool(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.AuditCoverage(context.Background(), nil, AuditCoverageInput{
		BuiltBlocks: []string{"foundationalActs", "marketOutlook", "ghostBlock"},
	})
	require.NoError(t, err)

	assert.Empty(t, out.Error)
	assert.Len(t, out.CoveredBlocks, 2)
	assert.Equal(t, []string{"ghostBlock"}, out.UncoveredBlocks)
	assert.InDelta(t, 66.7, out.CoveragePercent, 0.1)
	assert.Equal(t, 3, out.TotalBlocks)
}

func TestCheckDriftTool_SelfConsistent(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.CheckDrift(context.Background(), nil, CheckDriftInput{})
	require.NoError(t, err)

	assert.Empty(t, out.Error)
	assert.False(t, out.DriftDetected)
	assert.Zero(t, out.TotalIssues)
	assert.NotEmpty(t, out.ReportID)
	assert.NotEmpty(t, out.ContractSignature)
}

func TestCheckDriftTool_RuntimeMismatch(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.CheckDrift(context.Background(), nil, CheckDriftInput{
		BlockPatterns: map[string]string{
			"foundationalActs": "market_chart",
			"marketOutlook":    "market_chart",
			"execIntro":        "executive_summary",
		},
		BlockSlides: map[string]int{
			"foundationalActs": 7,
			"marketOutlook":    15,
			"execIntro":        1,
		},
	})
	require.NoError(t, err)

	assert.True(t, out.DriftDetected)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "pattern_mismatch", out.Issues[0].Kind)
	assert.Equal(t, "foundationalActs", out.Issues[0].BlockKey)
	assert.Equal(t, 1, out.ErrorCount)
}

func TestRunDoctorTool(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.RunDoctor(context.Background(), nil, RunDoctorInput{})
	require.NoError(t, err)

	assert.True(t, out.Healthy)
	assert.Equal(t, 3, out.PatternCount)
	assert.Equal(t, 3, out.BlockCount)
	require.NotEmpty(t, out.Checks)
	for _, check := range out.Checks {
		assert.True(t, check.Passed, check.Name)
	}
}

func TestCheckSparsityTool(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.CheckSparsity(context.Background(), nil, CheckSparsityInput{
		Content: map[string]any{
			"foundationalActs": "short",
			"marketOutlook":    "a paragraph of market commentary long enough to clear the threshold comfortably",
		},
	})
	require.NoError(t, err)

	require.Len(t, out.Sparse, 1)
	assert.Equal(t, "foundationalActs", out.Sparse[0].BlockKey)
	assert.Equal(t, "thin", out.Sparse[0].Severity)
	assert.Equal(t, []string{"marketOutlook"}, out.Adequate)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, "execIntro", out.Skipped[0].BlockKey)
}

func TestResolveBlockTool_Resolved(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.ResolveBlock(context.Background(), nil, ResolveBlockInput{
		BlockKey: "foundationalActs",
	})
	require.NoError(t, err)

	assert.Equal(t, "resolved", out.Status)
	assert.Equal(t, 7, out.SlideNumber)
	assert.Equal(t, "table", out.Geometry)
	assert.False(t, out.Recovered)
}

func TestResolveBlockTool_RecoversFromOverride(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.ResolveBlock(context.Background(), nil, ResolveBlockInput{
		BlockKey: "foundationalActs",
		Slide:    1,
	})
	require.NoError(t, err)

	assert.Equal(t, "resolved", out.Status)
	assert.True(t, out.Recovered)
	assert.Equal(t, 1, out.FromSlide)
	assert.NotZero(t, out.ToSlide)
	assert.Equal(t, "RGE001", out.ReasonCode)
}

func TestResolveBlockTool_StrictFailureIsStructured(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.ResolveBlock(context.Background(), nil, ResolveBlockInput{
		BlockKey: "foundationalActs",
		Slide:    1,
		Strict:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "failed", out.Status)
	assert.Equal(t, "RGE004", out.ReasonCode)
	assert.NotEmpty(t, out.Message)
	assert.NotEmpty(t, out.Provenance)
}

func TestResolveBlockTool_UnknownBlock(t *testing.T) {
	svc := newTestService(t)

	_, out, err := svc.ResolveBlock(context.Background(), nil, ResolveBlockInput{
		BlockKey: "neverDeclared",
	})
	require.NoError(t, err)

	assert.Equal(t, "failed", out.Status)
	assert.Equal(t, "RGE005", out.ReasonCode)
}

func TestGetMetricsTool(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.ResolveBlock(context.Background(), nil, ResolveBlockInput{BlockKey: "foundationalActs"})
	require.NoError(t, err)
	_, _, err = svc.ResolveBlock(context.Background(), nil, ResolveBlockInput{BlockKey: "foundationalActs", Slide: 1})
	require.NoError(t, err)

	_, out, err := svc.GetMetrics(context.Background(), nil, GetMetricsInput{})
	require.NoError(t, err)

	assert.Equal(t, 2, out.TotalChecks)
	assert.Equal(t, 1, out.Passes)
	assert.Equal(t, 1, out.Recoveries)
	assert.Empty(t, out.Failures)
}

func TestNewDiagnosticsMCPServer(t *testing.T) {
	svc := newTestService(t)
	server := NewDiagnosticsMCPServer(svc)
	require.NotNil(t, server)
}
