// Package contract compiles a raw template description and the static routing
// tables into the immutable routing contract consumed by the enforcer and the
// audit tooling.
package contract

// Geometry is the structural shape a slide layout must support.
type Geometry string

const (
	GeometryTable Geometry = "table"
	GeometryChart Geometry = "chart"

	// GeometryText is universal: every layout satisfies it, including an
	// absent one.
	GeometryText Geometry = "text"
)

// Fallback chain entry sources.
const (
	SourcePrimary     = "primary"
	SourceSamePattern = "same-pattern"

	crossPatternPrefix = "cross-pattern:"
)

// CrossPatternSource tags a chain entry borrowed from another pattern.
func CrossPatternSource(patternKey string) string {
	return crossPatternPrefix + patternKey
}

// TemplateSource is the raw template description produced by the external
// geometry-extraction collaborator: the pattern map plus the slide catalog.
// The compiler validates only its top-level shape.
type TemplateSource struct {
	Version  string                `json:"version,omitempty"`
	Patterns map[string]Pattern    `json:"patterns"`
	Slides   map[int]SlideGeometry `json:"slides,omitempty"`
}

// Pattern is a reusable slide archetype: an ordered list of template slides
// plus the named geometry elements any slide of the pattern must offer.
type Pattern struct {
	ID             string   `json:"id"`
	Description    string   `json:"description,omitempty"`
	TemplateSlides []int    `json:"templateSlides"`
	Elements       Elements `json:"elements"`
}

// Elements names the geometry regions declared by a pattern.
type Elements struct {
	Table  *TableElement  `json:"table,omitempty"`
	Charts []ChartElement `json:"charts,omitempty"`
	Panels []PanelElement `json:"panels,omitempty"`
}

// TableElement declares a table region with its dimensions.
type TableElement struct {
	Name    string `json:"name,omitempty"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// ChartElement declares one chart region.
type ChartElement struct {
	Name string `json:"name,omitempty"`
	Kind string `json:"kind,omitempty"`
}

// PanelElement declares a free-text panel region.
type PanelElement struct {
	Name string `json:"name"`
}

// SlideGeometry is the extracted geometry of one concrete slide in the
// catalog: an optional table region and zero or more chart regions.
type SlideGeometry struct {
	Table  *TableRegion  `json:"table,omitempty"`
	Charts []ChartRegion `json:"charts,omitempty"`
}

// TableRegion is a concrete table shape on a slide.
type TableRegion struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// ChartRegion is a concrete chart shape on a slide.
type ChartRegion struct {
	Name string `json:"name,omitempty"`
	Kind string `json:"kind,omitempty"`
}

// MappingConfig carries the four static routing tables owned by the calling
// pipeline: block to pattern, block to primary slide, and the two context key
// sets that force table or chart geometry. The engine never mutates it.
type MappingConfig struct {
	BlockPatterns    map[string]string `yaml:"blockPatterns" json:"blockPatterns"`
	BlockSlides      map[string]int    `yaml:"blockSlides" json:"blockSlides"`
	TableContextKeys []string          `yaml:"tableContextKeys" json:"tableContextKeys"`
	ChartContextKeys []string          `yaml:"chartContextKeys" json:"chartContextKeys"`
}

// TableDimensions is the declared size of a pattern's table element.
type TableDimensions struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// ChainEntry is one candidate in a fallback chain.
type ChainEntry struct {
	SlideNumber int    `json:"slideNumber"`
	Source      string `json:"source"`
}

// BlockContract is the compiled routing rule for one logical content block.
// Immutable once compiled.
type BlockContract struct {
	BlockKey         string           `json:"blockKey"`
	PatternKey       string           `json:"patternKey"`
	PrimarySlide     int              `json:"primarySlideId"`
	RequiredGeometry Geometry         `json:"requiredGeometry"`
	TableDimensions  *TableDimensions `json:"tableDimensions,omitempty"`
	FallbackChain    []ChainEntry     `json:"fallbackChain"`
}

// PatternContract exposes the geometry regions any slide of a pattern must
// offer, plus a summary geometry type.
type PatternContract struct {
	PatternKey      string           `json:"patternKey"`
	GeometryType    Geometry         `json:"geometryType"`
	Regions         []string         `json:"regions"`
	TemplateSlides  []int            `json:"templateSlides"`
	TableDimensions *TableDimensions `json:"tableDimensions,omitempty"`
}

// Compiled is the output of one compile call: the two lookup tables plus the
// version/signature pair. Immutable afterward.
type Compiled struct {
	Version   string                      `json:"version"`
	Signature string                      `json:"signature"`
	Blocks    map[string]*BlockContract   `json:"blockContracts"`
	Patterns  map[string]*PatternContract `json:"patternContracts"`

	source   *TemplateSource
	mappings *MappingConfig
}

// Source returns the template source the contract was compiled from.
func (c *Compiled) Source() *TemplateSource { return c.source }

// Mappings returns the static routing tables used at compile time.
func (c *Compiled) Mappings() *MappingConfig { return c.mappings }
