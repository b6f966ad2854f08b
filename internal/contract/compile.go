package contract

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// defaultVersion is used when the template source declares no version.
const defaultVersion = "1.0"

// ParseSource validates the top-level shape of raw template data and decodes
// it. The input must be a JSON object carrying a patterns key; anything else
// is a contract error, never a warning, because every downstream component
// assumes a well-formed contract.
func ParseSource(data []byte) (*TemplateSource, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("contract: template source is not an object: %w", err)
	}
	if _, ok := top["patterns"]; !ok {
		return nil, fmt.Errorf("contract: template source missing required patterns key")
	}
	var src TemplateSource
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("contract: decoding template source: %w", err)
	}
	return &src, nil
}

// Compile produces the block and pattern contract tables from a template
// source and the static routing tables. Pure: no side effects, identical
// inputs always produce an identical contract, including the signature.
//
// A block key present in both context sets is a configuration error and
// rejected outright rather than silently resolved.
func Compile(src *TemplateSource, cfg *MappingConfig) (*Compiled, error) {
	if src == nil {
		return nil, fmt.Errorf("contract: template source is nil")
	}
	if src.Patterns == nil {
		return nil, fmt.Errorf("contract: template source missing required patterns key")
	}
	if cfg == nil {
		return nil, fmt.Errorf("contract: mapping config is nil")
	}
	if overlap := contextOverlap(cfg); len(overlap) > 0 {
		return nil, fmt.Errorf("contract: block keys in both table and chart context sets: %s",
			strings.Join(overlap, ", "))
	}

	compiled := &Compiled{
		Version:  src.Version,
		Blocks:   make(map[string]*BlockContract, len(cfg.BlockPatterns)),
		Patterns: make(map[string]*PatternContract, len(src.Patterns)),
		source:   src,
		mappings: cfg,
	}
	if compiled.Version == "" {
		compiled.Version = defaultVersion
	}

	for _, key := range sortedKeys(src.Patterns) {
		compiled.Patterns[key] = compilePattern(key, src.Patterns[key])
	}

	tableKeys := toSet(cfg.TableContextKeys)
	chartKeys := toSet(cfg.ChartContextKeys)

	for _, blockKey := range sortedKeys(cfg.BlockPatterns) {
		patternKey := cfg.BlockPatterns[blockKey]
		pattern, ok := src.Patterns[patternKey]
		if !ok {
			// Stale mapping rows get no contract and surface as
			// uncovered blocks in audits.
			continue
		}

		geom := requiredGeometry(blockKey, patternKey, tableKeys, chartKeys)
		bc := &BlockContract{
			BlockKey:         blockKey,
			PatternKey:       patternKey,
			PrimarySlide:     cfg.BlockSlides[blockKey],
			RequiredGeometry: geom,
		}
		if t := pattern.Elements.Table; t != nil {
			bc.TableDimensions = &TableDimensions{Rows: t.Rows, Columns: t.Columns}
		}
		bc.FallbackChain = FallbackChain(src, cfg, blockKey, geom)
		compiled.Blocks[blockKey] = bc
	}

	sig, err := signature(src, cfg)
	if err != nil {
		return nil, err
	}
	compiled.Signature = sig

	return compiled, nil
}

// requiredGeometry derives a block's geometry requirement. Context set
// membership is more specific than pattern-name inference and wins.
func requiredGeometry(blockKey, patternKey string, tableKeys, chartKeys map[string]struct{}) Geometry {
	if _, ok := tableKeys[blockKey]; ok {
		return GeometryTable
	}
	if _, ok := chartKeys[blockKey]; ok {
		return GeometryChart
	}
	return InferGeometry(patternKey)
}

// InferGeometry derives a geometry requirement from a pattern name.
// Table, comparison, and case-study flavoured names require a table; chart
// flavoured names require a chart; anything unrecognized is free text.
func InferGeometry(patternKey string) Geometry {
	name := strings.ToLower(patternKey)
	switch {
	case strings.Contains(name, "table"),
		strings.Contains(name, "comparison"),
		strings.Contains(name, "case"):
		return GeometryTable
	case strings.Contains(name, "chart"):
		return GeometryChart
	default:
		return GeometryText
	}
}

func compilePattern(key string, p Pattern) *PatternContract {
	pc := &PatternContract{
		PatternKey:     key,
		GeometryType:   summaryGeometry(p),
		TemplateSlides: append([]int(nil), p.TemplateSlides...),
		Regions:        []string{},
	}
	if t := p.Elements.Table; t != nil {
		pc.Regions = append(pc.Regions, "table")
		pc.TableDimensions = &TableDimensions{Rows: t.Rows, Columns: t.Columns}
	}
	for _, c := range p.Elements.Charts {
		region := "chart"
		if c.Name != "" {
			region = "chart:" + c.Name
		}
		pc.Regions = append(pc.Regions, region)
	}
	for _, panel := range p.Elements.Panels {
		pc.Regions = append(pc.Regions, "panel:"+panel.Name)
	}
	return pc
}

// summaryGeometry reduces a pattern's declared elements to one geometry type.
func summaryGeometry(p Pattern) Geometry {
	switch {
	case p.Elements.Table != nil:
		return GeometryTable
	case len(p.Elements.Charts) > 0:
		return GeometryChart
	default:
		return GeometryText
	}
}

// signature hashes the canonical form of the patterns and routing tables so
// that contract drift is detectable across pipeline runs. Context key sets
// are sorted first so declaration order does not change the signature.
func signature(src *TemplateSource, cfg *MappingConfig) (string, error) {
	canonical := struct {
		Patterns map[string]Pattern `json:"patterns"`
		Mappings MappingConfig      `json:"mappings"`
	}{
		Patterns: src.Patterns,
		Mappings: MappingConfig{
			BlockPatterns:    cfg.BlockPatterns,
			BlockSlides:      cfg.BlockSlides,
			TableContextKeys: sortedCopy(cfg.TableContextKeys),
			ChartContextKeys: sortedCopy(cfg.ChartContextKeys),
		},
	}

	data, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("contract: computing signature: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16], nil
}

// contextOverlap returns block keys present in both context sets, sorted.
func contextOverlap(cfg *MappingConfig) []string {
	tables := toSet(cfg.TableContextKeys)
	var overlap []string
	for _, key := range cfg.ChartContextKeys {
		if _, ok := tables[key]; ok {
			overlap = append(overlap, key)
		}
	}
	sort.Strings(overlap)
	return overlap
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func sortedCopy(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
