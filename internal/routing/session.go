package routing

import (
	"sync"
	"time"

	"github.com/dusk-indust/slideroute/internal/contract"
)

// Metrics are the accumulated routing counters for one session. They grow
// across calls and reset only via Session.Reset.
type Metrics struct {
	TotalChecks      int `json:"totalChecks"`
	Passes           int `json:"passes"`
	Recoveries       int `json:"recoveries"`
	HardFailures     int `json:"hardFailures"`
	FallbackDepthSum int `json:"fallbackDepthSum"`
	MaxFallbackDepth int `json:"maxFallbackDepth"`
}

// AvgFallbackDepth is the running fallback depth averaged over all checks.
// Direct passes contribute depth zero.
func (m Metrics) AvgFallbackDepth() float64 {
	if m.TotalChecks == 0 {
		return 0
	}
	return float64(m.FallbackDepthSum) / float64(m.TotalChecks)
}

// FailureRecord is one entry in the session's failure ledger.
type FailureRecord struct {
	BlockKey    string            `json:"blockKey"`
	Code        Code              `json:"code"`
	TargetSlide int               `json:"targetSlide"`
	Geometry    contract.Geometry `json:"geometry"`
	At          time.Time         `json:"at"`
}

// Session owns the mutable state of one routing run: metrics, the failure
// ledger, and the memoized slide layout cache. State that was process-wide in
// earlier designs is explicit here so concurrent pipelines can each hold
// their own Session instead of sharing ambient globals. A mutex guards the
// state so one session can also back the MCP diagnostics server.
type Session struct {
	mu      sync.Mutex
	source  *contract.TemplateSource
	layouts map[int]*SlideLayout
	metrics Metrics
	ledger  []FailureRecord
}

// NewSession creates a session over the given template source. The source
// seeds the lazily memoized layout cache.
func NewSession(src *contract.TemplateSource) *Session {
	return &Session{
		source:  src,
		layouts: make(map[int]*SlideLayout),
	}
}

// Layout returns the memoized layout for a slide, deriving it from the slide
// catalog on first use. Unknown slide numbers yield nil; the miss is
// memoized too.
func (s *Session) Layout(slideNumber int) *SlideLayout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layoutLocked(slideNumber)
}

func (s *Session) layoutLocked(slideNumber int) *SlideLayout {
	if layout, ok := s.layouts[slideNumber]; ok {
		return layout
	}
	if s.source == nil {
		return nil
	}
	geom, ok := s.source.Slides[slideNumber]
	if !ok {
		s.layouts[slideNumber] = nil
		return nil
	}
	layout := &SlideLayout{
		SlideNumber: slideNumber,
		Table:       geom.Table,
		Charts:      geom.Charts,
	}
	s.layouts[slideNumber] = layout
	return layout
}

// Reset clears the metrics and the failure ledger and invalidates the layout
// cache.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = Metrics{}
	s.ledger = nil
	s.layouts = make(map[int]*SlideLayout)
}

// Snapshot returns a copy of the metrics and failure ledger, suitable for a
// diagnostics endpoint.
func (s *Session) Snapshot() (Metrics, []FailureRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	failures := append([]FailureRecord(nil), s.ledger...)
	return s.metrics, failures
}

func (s *Session) recordPass(depth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.TotalChecks++
	s.metrics.Passes++
	s.addDepthLocked(depth)
}

func (s *Session) recordRecovery(depth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.TotalChecks++
	s.metrics.Recoveries++
	s.addDepthLocked(depth)
}

func (s *Session) recordFailure(depth int, rec FailureRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.TotalChecks++
	s.metrics.HardFailures++
	s.addDepthLocked(depth)
	s.ledger = append(s.ledger, rec)
}

func (s *Session) addDepthLocked(depth int) {
	s.metrics.FallbackDepthSum += depth
	if depth > s.metrics.MaxFallbackDepth {
		s.metrics.MaxFallbackDepth = depth
	}
}
