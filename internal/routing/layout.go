package routing

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/slideroute/internal/contract"
)

// SlideLayout is the derived geometry view of one concrete slide: whether it
// offers a table region and which chart regions it carries. Free text needs
// neither.
type SlideLayout struct {
	SlideNumber int                    `json:"slideNumber"`
	Table       *contract.TableRegion  `json:"table,omitempty"`
	Charts      []contract.ChartRegion `json:"charts,omitempty"`
}

// Satisfies reports whether the layout supports the required geometry. Text
// is universal and satisfied by any layout, including an absent one, so the
// nil receiver is valid.
func (l *SlideLayout) Satisfies(geom contract.Geometry) bool {
	switch geom {
	case contract.GeometryTable:
		return l != nil && l.Table != nil
	case contract.GeometryChart:
		return l != nil && len(l.Charts) > 0
	default:
		return true
	}
}

// failureCode maps an unsatisfied geometry check to its RGE code.
func failureCode(geom contract.Geometry, layout *SlideLayout) Code {
	if layout == nil {
		return CodeNoLayout
	}
	if geom == contract.GeometryChart {
		return CodeNoChart
	}
	return CodeNoTable
}

// describeLayout summarizes what a layout actually offers, for error text.
func describeLayout(l *SlideLayout) string {
	if l == nil {
		return "none"
	}
	var parts []string
	if l.Table != nil {
		parts = append(parts, "table")
	}
	if n := len(l.Charts); n > 0 {
		parts = append(parts, fmt.Sprintf("chart x%d", n))
	}
	parts = append(parts, "text")
	return strings.Join(parts, "+")
}
