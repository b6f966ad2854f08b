package contract

import "sort"

// FallbackChain builds the deterministic ordered candidate list for a block
// and geometry requirement. Pure: identical arguments always produce a
// structurally identical chain.
//
// Ordering: the declared primary slide first (included even when it does not
// satisfy the geometry; satisfaction is the enforcer's concern), then the
// remaining slides of the block's own pattern in template declaration order,
// then slides of other patterns whose summary geometry type matches the
// requirement, sorted ascending by slide number so the result does not depend
// on pattern declaration order. No slide number appears twice.
func FallbackChain(src *TemplateSource, cfg *MappingConfig, blockKey string, geom Geometry) []ChainEntry {
	var chain []ChainEntry
	seen := make(map[int]struct{})

	add := func(slide int, source string) {
		if _, dup := seen[slide]; dup {
			return
		}
		seen[slide] = struct{}{}
		chain = append(chain, ChainEntry{SlideNumber: slide, Source: source})
	}

	if primary, ok := cfg.BlockSlides[blockKey]; ok {
		add(primary, SourcePrimary)
	}

	ownPattern := cfg.BlockPatterns[blockKey]
	if p, ok := src.Patterns[ownPattern]; ok {
		for _, slide := range p.TemplateSlides {
			add(slide, SourceSamePattern)
		}
	}

	type candidate struct {
		slide   int
		pattern string
	}
	var candidates []candidate
	for _, key := range sortedKeys(src.Patterns) {
		if key == ownPattern {
			continue
		}
		if !patternMatches(src.Patterns[key], geom) {
			continue
		}
		for _, slide := range src.Patterns[key].TemplateSlides {
			candidates = append(candidates, candidate{slide: slide, pattern: key})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].slide < candidates[j].slide
	})
	for _, c := range candidates {
		add(c.slide, CrossPatternSource(c.pattern))
	}

	return chain
}

// patternMatches reports whether a pattern can host the required geometry.
// Text is universal, so a text requirement matches every pattern and may pull
// in the whole deck.
func patternMatches(p Pattern, geom Geometry) bool {
	if geom == GeometryText {
		return true
	}
	return summaryGeometry(p) == geom
}
