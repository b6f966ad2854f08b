package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dusk-indust/slideroute/internal/contract"
)

func TestRouteError_DefaultCode(t *testing.T) {
	err := newRouteError(&RouteError{
		BlockKey:         "foundationalActs",
		TargetSlide:      7,
		ExpectedGeometry: contract.GeometryTable,
		ActualGeometry:   "text",
	})

	assert.Equal(t, CodeChainExhausted, err.Code)
	assert.NotNil(t, err.Provenance)
	assert.Empty(t, err.Provenance)
}

func TestRouteError_MessageNamesCode(t *testing.T) {
	tests := []struct {
		code Code
	}{
		{CodeNoTable},
		{CodeNoChart},
		{CodeChainExhausted},
		{CodeStrictMismatch},
		{CodeUnknownBlock},
		{CodeNoLayout},
	}
	for _, tt := range tests {
		err := newRouteError(&RouteError{
			Code:             tt.code,
			BlockKey:         "b",
			ExpectedGeometry: contract.GeometryChart,
			ActualGeometry:   "text",
		})
		assert.Contains(t, err.Error(), string(tt.code))
	}
}

func TestSatisfies(t *testing.T) {
	withTable := &SlideLayout{SlideNumber: 7, Table: &contract.TableRegion{Rows: 2, Columns: 2}}
	withChart := &SlideLayout{SlideNumber: 15, Charts: []contract.ChartRegion{{Kind: "line"}}}
	bare := &SlideLayout{SlideNumber: 1}
	var absent *SlideLayout

	assert.True(t, withTable.Satisfies(contract.GeometryTable))
	assert.False(t, withChart.Satisfies(contract.GeometryTable))
	assert.False(t, bare.Satisfies(contract.GeometryTable))
	assert.False(t, absent.Satisfies(contract.GeometryTable))

	assert.True(t, withChart.Satisfies(contract.GeometryChart))
	assert.False(t, withTable.Satisfies(contract.GeometryChart))
	assert.False(t, absent.Satisfies(contract.GeometryChart))

	// Text is universal, even for an absent layout.
	assert.True(t, withTable.Satisfies(contract.GeometryText))
	assert.True(t, bare.Satisfies(contract.GeometryText))
	assert.True(t, absent.Satisfies(contract.GeometryText))
}
