package routing

import (
	"time"

	"go.uber.org/zap"

	"github.com/dusk-indust/slideroute/internal/contract"
)

// Selection overrides the declared primary slide for one enforcement call.
// It is a closed union with exactly three variants: SlideSelection,
// PatternSelection, and PatternSlideSelection. The enforcer resolves it by
// exhaustive type switch.
type Selection interface {
	isSelection()
}

// SlideSelection requests a specific slide number.
type SlideSelection struct {
	Slide int
}

// PatternSelection requests the named pattern's primary slide, i.e. the
// first slide the pattern declares.
type PatternSelection struct {
	Pattern string
}

// PatternSlideSelection requests an explicit pattern and slide pair.
type PatternSlideSelection struct {
	Pattern string
	Slide   int
}

func (SlideSelection) isSelection()        {}
func (PatternSelection) isSelection()      {}
func (PatternSlideSelection) isSelection() {}

// Request is the input of one enforcement call. The zero value is valid: it
// resolves to text geometry, which any layout satisfies, so enforcing it
// never fails.
type Request struct {
	BlockKey         string
	TableContextKeys []string
	ChartContextKeys []string
	Selection        Selection
}

// Provenance outcomes.
const (
	OutcomePass = "pass"
	OutcomeFail = "fail"
)

// ProvenanceEntry records one candidate slide attempted during a resolution.
type ProvenanceEntry struct {
	Step        int    `json:"step"`
	SlideNumber int    `json:"slideNumber"`
	Source      string `json:"source"`
	Outcome     string `json:"outcome"`
	Code        Code   `json:"code,omitempty"`
	Mode        string `json:"mode,omitempty"`
}

// Resolution is the ephemeral output of one routing decision.
type Resolution struct {
	BlockKey       string            `json:"blockKey"`
	Geometry       contract.Geometry `json:"geometry"`
	RequestedSlide int               `json:"requestedSlide"`
	SlideNumber    int               `json:"slideNumber"`
	Recovered      bool              `json:"recovered"`
	FromSlide      int               `json:"fromSlide,omitempty"`
	ToSlide        int               `json:"toSlide,omitempty"`
	ReasonCode     Code              `json:"reasonCode,omitempty"`
	Provenance     []ProvenanceEntry `json:"provenance"`
	Layout         *SlideLayout      `json:"-"`
}

// Enforcer resolves blocks to slides against a compiled contract, recording
// provenance and updating the session metrics on every call.
type Enforcer struct {
	compiled *contract.Compiled
	session  *Session
	log      *zap.Logger
}

// Option configures an Enforcer.
type Option func(*Enforcer)

// WithLogger installs a structured logger; the default is a no-op logger so
// library use stays silent.
func WithLogger(log *zap.Logger) Option {
	return func(e *Enforcer) { e.log = log }
}

// NewEnforcer creates an Enforcer over a compiled contract and a session.
func NewEnforcer(compiled *contract.Compiled, session *Session, opts ...Option) *Enforcer {
	e := &Enforcer{
		compiled: compiled,
		session:  session,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Session returns the enforcer's session for diagnostics snapshots.
func (e *Enforcer) Session() *Session { return e.session }

// Contract returns the compiled contract the enforcer routes against.
func (e *Enforcer) Contract() *contract.Compiled { return e.compiled }

// Enforce resolves a block to a slide in lenient mode. If the requested
// slide's layout satisfies the required geometry it returns immediately;
// otherwise it walks the fallback chain, skipping the slide already tried,
// until a candidate satisfies the geometry or the chain is exhausted, which
// raises RGE003 carrying the full provenance.
func (e *Enforcer) Enforce(req Request) (*Resolution, error) {
	geom := e.requestGeometry(req)

	if rerr := e.checkBlockKnown(req, geom); rerr != nil {
		return nil, rerr
	}
	requested, rerr := e.resolveRequested(req, geom)
	if rerr != nil {
		e.session.recordFailure(0, failureRecordFor(rerr))
		return nil, rerr
	}

	layout := e.session.Layout(requested)
	if layout.Satisfies(geom) {
		res := &Resolution{
			BlockKey:       req.BlockKey,
			Geometry:       geom,
			RequestedSlide: requested,
			SlideNumber:    requested,
			Layout:         layout,
			Provenance: []ProvenanceEntry{
				{Step: 0, SlideNumber: requested, Source: contract.SourcePrimary, Outcome: OutcomePass},
			},
		}
		e.session.recordPass(0)
		return res, nil
	}

	primaryCode := failureCode(geom, layout)
	provenance := []ProvenanceEntry{
		{Step: 0, SlideNumber: requested, Source: contract.SourcePrimary, Outcome: OutcomeFail, Code: primaryCode},
	}

	depth := 0
	step := 1
	for _, entry := range e.chainFor(req.BlockKey, geom) {
		if entry.SlideNumber == requested {
			continue
		}
		depth++
		candidate := e.session.Layout(entry.SlideNumber)
		if candidate.Satisfies(geom) {
			provenance = append(provenance, ProvenanceEntry{
				Step: step, SlideNumber: entry.SlideNumber, Source: entry.Source, Outcome: OutcomePass,
			})
			e.session.recordRecovery(depth)
			e.log.Debug("fallback recovery",
				zap.String("block", req.BlockKey),
				zap.String("geometry", string(geom)),
				zap.Int("fromSlide", requested),
				zap.Int("toSlide", entry.SlideNumber),
				zap.Int("depth", depth))
			return &Resolution{
				BlockKey:       req.BlockKey,
				Geometry:       geom,
				RequestedSlide: requested,
				SlideNumber:    entry.SlideNumber,
				Recovered:      true,
				FromSlide:      requested,
				ToSlide:        entry.SlideNumber,
				ReasonCode:     primaryCode,
				Provenance:     provenance,
				Layout:         candidate,
			}, nil
		}
		provenance = append(provenance, ProvenanceEntry{
			Step: step, SlideNumber: entry.SlideNumber, Source: entry.Source,
			Outcome: OutcomeFail, Code: failureCode(geom, candidate),
		})
		step++
	}

	rerr = newRouteError(&RouteError{
		Code:             CodeChainExhausted,
		BlockKey:         req.BlockKey,
		TargetSlide:      requested,
		ExpectedGeometry: geom,
		ActualGeometry:   describeLayout(layout),
		Provenance:       provenance,
	})
	e.session.recordFailure(depth, failureRecordFor(rerr))
	e.log.Warn("fallback chain exhausted",
		zap.String("block", req.BlockKey),
		zap.String("geometry", string(geom)),
		zap.Int("requestedSlide", requested),
		zap.Int("candidatesTried", depth))
	return nil, rerr
}

// EnforceStrict resolves a block with the same geometry rules as Enforce but
// never walks the fallback chain: any primary mismatch raises RGE004. The
// early, loud signal suits release gating.
func (e *Enforcer) EnforceStrict(req Request) (*Resolution, error) {
	geom := e.requestGeometry(req)

	if rerr := e.checkBlockKnown(req, geom); rerr != nil {
		return nil, rerr
	}
	requested, rerr := e.resolveRequested(req, geom)
	if rerr != nil {
		e.session.recordFailure(0, failureRecordFor(rerr))
		return nil, rerr
	}

	layout := e.session.Layout(requested)
	if layout.Satisfies(geom) {
		res := &Resolution{
			BlockKey:       req.BlockKey,
			Geometry:       geom,
			RequestedSlide: requested,
			SlideNumber:    requested,
			Layout:         layout,
			Provenance: []ProvenanceEntry{
				{Step: 0, SlideNumber: requested, Source: contract.SourcePrimary, Outcome: OutcomePass, Mode: "strict"},
			},
		}
		e.session.recordPass(0)
		return res, nil
	}

	rerr = newRouteError(&RouteError{
		Code:             CodeStrictMismatch,
		BlockKey:         req.BlockKey,
		TargetSlide:      requested,
		ExpectedGeometry: geom,
		ActualGeometry:   describeLayout(layout),
		Provenance: []ProvenanceEntry{
			{Step: 0, SlideNumber: requested, Source: contract.SourcePrimary,
				Outcome: OutcomeFail, Code: failureCode(geom, layout), Mode: "strict"},
		},
	})
	e.session.recordFailure(0, failureRecordFor(rerr))
	return nil, rerr
}

// DeterministicFallback returns the first fallback-chain entry whose slide
// differs from the block's primary. Nil for unknown keys or when no such
// entry exists. Stable across calls while the layout cache is unchanged.
func (e *Enforcer) DeterministicFallback(blockKey string) *contract.ChainEntry {
	bc, ok := e.compiled.Blocks[blockKey]
	if !ok {
		return nil
	}
	for _, entry := range bc.FallbackChain {
		if entry.SlideNumber != bc.PrimarySlide {
			out := entry
			return &out
		}
	}
	return nil
}

// SlideLayout returns the session-cached layout for a slide, nil when the
// slide is unknown to the catalog.
func (e *Enforcer) SlideLayout(slideNumber int) *SlideLayout {
	return e.session.Layout(slideNumber)
}

// requestGeometry derives the required geometry from per-call context key
// membership. Absence from both sets means text. Table membership wins when
// both sets claim the key, mirroring compile-time precedence (the compiler
// rejects such configs outright).
func (e *Enforcer) requestGeometry(req Request) contract.Geometry {
	for _, key := range req.TableContextKeys {
		if key == req.BlockKey && req.BlockKey != "" {
			return contract.GeometryTable
		}
	}
	for _, key := range req.ChartContextKeys {
		if key == req.BlockKey && req.BlockKey != "" {
			return contract.GeometryChart
		}
	}
	return contract.GeometryText
}

// checkBlockKnown raises RGE005 for a non-empty block key absent from the
// registry. The empty key stays valid so a zero Request never fails.
func (e *Enforcer) checkBlockKnown(req Request, geom contract.Geometry) *RouteError {
	if req.BlockKey == "" {
		return nil
	}
	if _, ok := e.compiled.Blocks[req.BlockKey]; ok {
		return nil
	}
	rerr := newRouteError(&RouteError{
		Code:             CodeUnknownBlock,
		BlockKey:         req.BlockKey,
		ExpectedGeometry: geom,
		ActualGeometry:   "none",
	})
	e.session.recordFailure(0, failureRecordFor(rerr))
	return rerr
}

// resolveRequested determines the slide to try first: the declared primary,
// unless the selection overrides it.
func (e *Enforcer) resolveRequested(req Request, geom contract.Geometry) (int, *RouteError) {
	switch sel := req.Selection.(type) {
	case nil:
		if bc, ok := e.compiled.Blocks[req.BlockKey]; ok {
			return bc.PrimarySlide, nil
		}
		return 0, nil
	case SlideSelection:
		return sel.Slide, nil
	case PatternSelection:
		return e.patternPrimary(sel.Pattern, req.BlockKey, geom)
	case PatternSlideSelection:
		return sel.Slide, nil
	default:
		// The union is closed; a foreign implementation cannot resolve
		// to any slide.
		return 0, newRouteError(&RouteError{
			Code:             CodeNoLayout,
			BlockKey:         req.BlockKey,
			ExpectedGeometry: geom,
			ActualGeometry:   "none",
		})
	}
}

// patternPrimary resolves a pattern-name selection to that pattern's primary
// slide, i.e. its first declared template slide.
func (e *Enforcer) patternPrimary(patternKey, blockKey string, geom contract.Geometry) (int, *RouteError) {
	pc, ok := e.compiled.Patterns[patternKey]
	if !ok || len(pc.TemplateSlides) == 0 {
		return 0, newRouteError(&RouteError{
			Code:             CodeNoLayout,
			BlockKey:         blockKey,
			ExpectedGeometry: geom,
			ActualGeometry:   "none",
		})
	}
	return pc.TemplateSlides[0], nil
}

// chainFor picks the precompiled chain when the call-time geometry matches
// the contract, rebuilding it with the same pure function otherwise.
func (e *Enforcer) chainFor(blockKey string, geom contract.Geometry) []contract.ChainEntry {
	if bc, ok := e.compiled.Blocks[blockKey]; ok && bc.RequiredGeometry == geom {
		return bc.FallbackChain
	}
	return contract.FallbackChain(e.compiled.Source(), e.compiled.Mappings(), blockKey, geom)
}

func failureRecordFor(rerr *RouteError) FailureRecord {
	return FailureRecord{
		BlockKey:    rerr.BlockKey,
		Code:        rerr.Code,
		TargetSlide: rerr.TargetSlide,
		Geometry:    rerr.ExpectedGeometry,
		At:          time.Now().UTC(),
	}
}
