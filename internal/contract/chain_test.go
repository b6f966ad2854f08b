package contract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackChain_PrimaryFirstNoDuplicates(t *testing.T) {
	src := testSource()
	cfg := testMappings()

	for blockKey := range cfg.BlockPatterns {
		for _, geom := range []Geometry{GeometryTable, GeometryChart, GeometryText} {
			chain := FallbackChain(src, cfg, blockKey, geom)

			if primary, ok := cfg.BlockSlides[blockKey]; ok {
				require.NotEmpty(t, chain, "block %s geom %s", blockKey, geom)
				assert.Equal(t, primary, chain[0].SlideNumber)
				assert.Equal(t, SourcePrimary, chain[0].Source)
			}

			seen := make(map[int]bool)
			for _, entry := range chain {
				assert.False(t, seen[entry.SlideNumber],
					"block %s geom %s: slide %d repeated", blockKey, geom, entry.SlideNumber)
				seen[entry.SlideNumber] = true
			}
		}
	}
}

func TestFallbackChain_SamePatternDeclarationOrder(t *testing.T) {
	chain := FallbackChain(testSource(), testMappings(), "foundationalActs", GeometryTable)

	// Primary 7, then the pattern's remaining slides as declared.
	want := []ChainEntry{
		{SlideNumber: 7, Source: SourcePrimary},
		{SlideNumber: 6, Source: SourceSamePattern},
		{SlideNumber: 8, Source: SourceSamePattern},
		{SlideNumber: 9, Source: SourceSamePattern},
		{SlideNumber: 10, Source: SourceSamePattern},
		{SlideNumber: 12, Source: SourceSamePattern},
	}
	assert.Equal(t, want, chain, "table requirement has no cross-pattern donors in this deck")
}

func TestFallbackChain_CrossPatternAscendingSlideOrder(t *testing.T) {
	src := testSource()
	cfg := testMappings()

	// A second chart-bearing pattern with slides interleaved around
	// market_chart's; cross-pattern candidates must come out ascending by
	// slide number regardless of pattern declaration order.
	src.Patterns["zz_extra_charts"] = Pattern{
		ID:             "zz_extra_charts",
		TemplateSlides: []int{20, 14},
		Elements:       Elements{Charts: []ChartElement{{Kind: "bar"}}},
	}

	chain := FallbackChain(src, cfg, "marketOutlook", GeometryChart)
	want := []ChainEntry{
		{SlideNumber: 15, Source: SourcePrimary},
		{SlideNumber: 16, Source: SourceSamePattern},
		{SlideNumber: 14, Source: CrossPatternSource("zz_extra_charts")},
		{SlideNumber: 20, Source: CrossPatternSource("zz_extra_charts")},
	}
	assert.Equal(t, want, chain)
}

func TestFallbackChain_TextPullsWholeDeck(t *testing.T) {
	src := testSource()
	cfg := testMappings()

	chain := FallbackChain(src, cfg, "execIntro", GeometryText)

	// Text is universal, so every pattern contributes.
	slides := make(map[int]bool)
	for _, entry := range chain {
		slides[entry.SlideNumber] = true
	}
	for slide := range src.Slides {
		assert.True(t, slides[slide], "slide %d missing from text chain", slide)
	}
}

func TestFallbackChain_Deterministic(t *testing.T) {
	src := testSource()
	cfg := testMappings()

	a := FallbackChain(src, cfg, "foundationalActs", GeometryTable)
	b := FallbackChain(src, cfg, "foundationalActs", GeometryTable)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("chain not deterministic (-first +second):\n%s", diff)
	}

	c := FallbackChain(src, cfg, "execIntro", GeometryText)
	d := FallbackChain(src, cfg, "execIntro", GeometryText)
	if diff := cmp.Diff(c, d); diff != "" {
		t.Fatalf("text chain not deterministic (-first +second):\n%s", diff)
	}
}

func TestFallbackChain_UnknownBlock(t *testing.T) {
	// No primary and no pattern: only cross-pattern candidates remain.
	chain := FallbackChain(testSource(), testMappings(), "nobody", GeometryChart)
	require.NotEmpty(t, chain)
	for _, entry := range chain {
		assert.Contains(t, entry.Source, "cross-pattern:")
	}
}
