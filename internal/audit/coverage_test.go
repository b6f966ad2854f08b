package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverage_AllCovered(t *testing.T) {
	report := Coverage(CoverageInput{
		Source:      auditSource(),
		Mappings:    auditMappings(),
		BuiltBlocks: []string{"foundationalActs", "marketOutlook", "execIntro"},
	})

	assert.Empty(t, report.Error)
	assert.Equal(t, 3, report.TotalBlocks)
	assert.InDelta(t, 100.0, report.CoveragePercent, 1e-9)
	require.Len(t, report.CoveredBlocks, 3)
	assert.Empty(t, report.UncoveredBlocks)

	acts := report.CoveredBlocks[0]
	assert.Equal(t, "foundationalActs", acts.BlockKey)
	assert.Equal(t, "regulatory_table", acts.PatternKey)
	assert.Equal(t, 7, acts.PrimarySlide)
}

func TestCoverage_EmptyBuiltBlocksIsZeroPercent(t *testing.T) {
	report := Coverage(CoverageInput{
		Source:      auditSource(),
		Mappings:    auditMappings(),
		BuiltBlocks: nil,
	})

	assert.Zero(t, report.TotalBlocks)
	assert.Zero(t, report.CoveragePercent)
	assert.Empty(t, report.CoveredBlocks)
}

func TestCoverage_UnknownBlocksUncovered(t *testing.T) {
	report := Coverage(CoverageInput{
		Source:   auditSource(),
		Mappings: auditMappings(),
		BuiltBlocks: []string{
			"foundationalActs", "marketOutlook", "execIntro",
			"mysteryBlock", "anotherGhost",
		},
	})

	assert.ElementsMatch(t, []string{"mysteryBlock", "anotherGhost"}, report.UncoveredBlocks)
	assert.Less(t, report.CoveragePercent, 100.0)
	assert.InDelta(t, 60.0, report.CoveragePercent, 1e-9)
}

func TestCoverage_CompileFailureNeverPanics(t *testing.T) {
	report := Coverage(CoverageInput{
		Source:      nil,
		Mappings:    auditMappings(),
		BuiltBlocks: []string{"foundationalActs"},
	})

	assert.NotEmpty(t, report.Error)
	assert.Zero(t, report.CoveragePercent)
	assert.Empty(t, report.CoveredBlocks)
}
