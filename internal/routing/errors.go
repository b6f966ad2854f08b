// Package routing resolves content blocks to concrete slides at render time,
// walking deterministic fallback chains in lenient mode or failing loudly in
// strict mode, and accumulating session-wide metrics along the way.
package routing

import (
	"fmt"

	"github.com/dusk-indust/slideroute/internal/contract"
)

// Code identifies one geometry resolution failure. The enumeration is closed
// and frozen; external triage tooling pattern-matches on these values.
type Code string

const (
	// CodeNoTable: no table geometry found at the point of failure.
	CodeNoTable Code = "RGE001"
	// CodeNoChart: no chart geometry found at the point of failure.
	CodeNoChart Code = "RGE002"
	// CodeChainExhausted: fallback chain exhausted without a satisfying
	// slide. Also the default code when unspecified.
	CodeChainExhausted Code = "RGE003"
	// CodeStrictMismatch: strict-mode primary mismatch.
	CodeStrictMismatch Code = "RGE004"
	// CodeUnknownBlock: block key unknown to the registry.
	CodeUnknownBlock Code = "RGE005"
	// CodeNoLayout: requested slide has no extractable layout.
	CodeNoLayout Code = "RGE006"
)

// RouteError is the single typed error raised by the enforcer. It carries the
// full provenance trail so the caller gets a complete causal chain, not a
// bare message.
type RouteError struct {
	Code             Code              `json:"code"`
	BlockKey         string            `json:"blockKey"`
	TargetSlide      int               `json:"targetSlide"`
	ExpectedGeometry contract.Geometry `json:"expectedGeometry"`
	ActualGeometry   string            `json:"actualGeometry"`
	Provenance       []ProvenanceEntry `json:"provenance"`
}

// newRouteError fills in the defaults: an unspecified code resolves to
// RGE003 and provenance is never nil.
func newRouteError(e *RouteError) *RouteError {
	if e.Code == "" {
		e.Code = CodeChainExhausted
	}
	if e.Provenance == nil {
		e.Provenance = []ProvenanceEntry{}
	}
	return e
}

// Error always names the resolved code.
func (e *RouteError) Error() string {
	return fmt.Sprintf("%s: block %q: expected %s geometry on slide %d, found %s",
		e.Code, e.BlockKey, e.ExpectedGeometry, e.TargetSlide, e.ActualGeometry)
}
