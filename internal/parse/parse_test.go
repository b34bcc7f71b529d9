// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

func TestSourcesEnvelope(t *testing.T) {
	text := `{"sources": [
		{"id": "s1", "title": "Deep Learning for Protein Folding", "authors": ["Chen, L."],
		 "year": 2023, "journal": "Nature Methods", "doi": "10.1038/xyz",
		 "citation_count": 412, "relevance_score": 0.95},
		{"title": "A Second Paper", "doi": "10.1000/2", "year": 2021}
	], "total_results": 2}`

	res := Sources(text, 0)
	require.False(t, res.Degraded)
	require.Len(t, res.Value.Sources, 2)

	first := res.Value.Sources[0]
	assert.Equal(t, "s1", first.ID)
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, 412, first.CitationCount)
	assert.InDelta(t, 0.95, first.RelevanceScore, 1e-9)

	// Missing ID falls back to the DOI.
	second := res.Value.Sources[1]
	assert.Equal(t, "10.1000/2", second.ID)
	assert.Equal(t, 2021, second.Year)
	assert.Equal(t, 2, res.Value.TotalResults)
}

func TestSourcesBareArrayInCodeFence(t *testing.T) {
	text := "Here are the results:\n```json\n" +
		`[{"title": "Fenced Paper", "year": 2020}]` + "\n```\nLet me know if you need more."

	res := Sources(text, 0)
	require.Len(t, res.Value.Sources, 1)
	assert.Equal(t, "Fenced Paper", res.Value.Sources[0].Title)
}

func TestSourcesMaxResultsCap(t *testing.T) {
	text := `{"sources": [{"title": "A"}, {"title": "B"}, {"title": "C"}]}`
	res := Sources(text, 2)
	assert.Len(t, res.Value.Sources, 2)
	assert.Equal(t, 2, res.Value.TotalResults)
}

func TestSourcesSkipsUntitled(t *testing.T) {
	text := `{"sources": [{"title": ""}, {"title": "  Kept  "}]}`
	res := Sources(text, 0)
	require.Len(t, res.Value.Sources, 1)
	assert.Equal(t, "Kept", res.Value.Sources[0].Title)
}

func TestSourcesProseFallback(t *testing.T) {
	text := `I found a few relevant papers:

1. "Climate Feedback Loops in Arctic Systems" (2022)
2. "Permafrost Thaw and Carbon Release" (2021)

These cover the main strands of the literature.`

	res := Sources(text, 0)
	assert.True(t, res.Degraded)
	assert.NotEmpty(t, res.Value.Sources, "title-like lines should be recovered from prose")
}

func TestSourcesEmptyInput(t *testing.T) {
	res := Sources("", 10)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Value.Sources)
	assert.Equal(t, 0, res.Value.TotalResults)
}

func TestSourcesRelevanceClamped(t *testing.T) {
	text := `{"sources": [{"title": "X", "relevance_score": 7.5}]}`
	res := Sources(text, 0)
	require.Len(t, res.Value.Sources, 1)
	assert.Equal(t, 1.0, res.Value.Sources[0].RelevanceScore)
}

func TestSynthesisJSON(t *testing.T) {
	text := `{"executive_summary": "The field is converging.",
		"key_findings": ["Finding one", " Finding two "],
		"themes": [{"theme": "Replication", "description": "More of it.", "supporting_sources": 3, "confidence": 0.7}],
		"recommendations": ["Do more studies"],
		"confidence": 0.9}`

	res := Synthesis(text, "does it converge?")
	require.False(t, res.Degraded)
	assert.Equal(t, "The field is converging.", res.Value.Summary)
	assert.Equal(t, []string{"Finding one", "Finding two"}, res.Value.KeyFindings)
	require.Len(t, res.Value.Themes, 1)
	assert.Equal(t, 3, res.Value.Themes[0].SupportingSources)
	assert.InDelta(t, 0.9, res.Value.Confidence, 1e-9)
}

func TestSynthesisAltSummaryKey(t *testing.T) {
	res := Synthesis(`{"summary": "Alt key works.", "key_findings": []}`, "q")
	assert.False(t, res.Degraded)
	assert.Equal(t, "Alt key works.", res.Value.Summary)
}

func TestSynthesisProseFallback(t *testing.T) {
	text := `The reviewed studies broadly agree on the mechanism.

- Dosage effects are consistent across trials
- Long-term outcomes remain unmeasured`

	res := Synthesis(text, "q")
	assert.True(t, res.Degraded)
	assert.Equal(t, "The reviewed studies broadly agree on the mechanism.", res.Value.Summary)
	assert.Equal(t, []string{
		"Dosage effects are consistent across trials",
		"Long-term outcomes remain unmeasured",
	}, res.Value.KeyFindings)
}

func TestSynthesisEmptyInput(t *testing.T) {
	res := Synthesis("", "q")
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Value.Summary)
}

func TestCitationsJSON(t *testing.T) {
	text := `{"citation_style": "apa",
		"bibliography": ["Chen, L. (2023). Title. Journal."],
		"in_text_citations": ["(Chen, 2023)"],
		"total_sources": 1}`

	res := Citations(text, types.StyleAPA, 1)
	require.False(t, res.Degraded)
	assert.Equal(t, types.StyleAPA, res.Value.Style)
	assert.Len(t, res.Value.Bibliography, 1)
	assert.Equal(t, 1, res.Value.TotalSources)
}

func TestCitationsNumberedFallback(t *testing.T) {
	text := `References:

1. Smith, J. (2020). First paper. Journal A.
2. Brown, A. (2021). Second paper. Journal B.`

	res := Citations(text, types.StyleIEEE, 2)
	assert.True(t, res.Degraded)
	assert.Len(t, res.Value.Bibliography, 2)
	assert.Equal(t, types.StyleIEEE, res.Value.Style)
}

func TestCitationsEmptyKeepsExpectedCount(t *testing.T) {
	res := Citations("no citations here, sorry", types.StyleMLA, 4)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Value.Bibliography)
	assert.Equal(t, 4, res.Value.TotalSources)
}

func TestGapsJSON(t *testing.T) {
	text := `{"research_area": "soil science",
		"identified_gaps": [
			{"gap": "Few field trials", "description": "Mostly lab work.", "priority": "HIGH", "potential_impact": "Unknown transfer."},
			{"gap": "Short horizons", "importance": "low"}
		],
		"suggested_methodologies": ["Field experiments"],
		"confidence": 0.8}`

	res := Gaps(text, "fallback area")
	require.False(t, res.Degraded)
	assert.Equal(t, "soil science", res.Value.ResearchArea)
	require.Len(t, res.Value.Gaps, 2)
	assert.Equal(t, types.PriorityHigh, res.Value.Gaps[0].Priority)
	assert.Equal(t, types.PriorityLow, res.Value.Gaps[1].Priority, "importance is accepted as a priority alias")
}

func TestGapsUnknownPriorityDefaultsMedium(t *testing.T) {
	text := `{"identified_gaps": [{"gap": "Something", "priority": "urgent!!"}]}`
	res := Gaps(text, "area")
	require.Len(t, res.Value.Gaps, 1)
	assert.Equal(t, types.PriorityMedium, res.Value.Gaps[0].Priority)
}

func TestGapsBulletFallback(t *testing.T) {
	text := `Key gaps in the area:

- No standardized outcome measures
- Sparse non-Western samples`

	res := Gaps(text, "psychology")
	assert.True(t, res.Degraded)
	assert.Equal(t, "psychology", res.Value.ResearchArea)
	require.Len(t, res.Value.Gaps, 2)
	assert.Equal(t, types.PriorityMedium, res.Value.Gaps[0].Priority)
}

func TestParsersSurviveGarbageInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"invalid utf-8 prefix", "\xff\xfe\xfd{\"sources\": [\x80]}"},
		{"invalid utf-8 inside json", "{\"summary\": \"\x80\x81\"}"},
		{"mixed scripts", "研究結果: {\"sources\": [{\"title\": \"タイトル\"}]} وملاحظات أخرى"},
		{"truncated mid-string", `{"sources": [{"title": "cut off`},
		{"control characters", "\x00\x01\x02 results \x7f"},
		{"only brackets", "[[[{{{]]]}}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit := Sources(tt.in, 10)
			assert.LessOrEqual(t, len(lit.Value.Sources), 10)
			for _, s := range lit.Value.Sources {
				assert.NotEmpty(t, s.Title, "parsed sources always carry a title")
			}

			syn := Synthesis(tt.in, "question")
			assert.GreaterOrEqual(t, syn.Value.Confidence, 0.0)
			assert.LessOrEqual(t, syn.Value.Confidence, 1.0)

			cit := Citations(tt.in, types.StyleAPA, 3)
			assert.Equal(t, types.StyleAPA, cit.Value.Style)

			gaps := Gaps(tt.in, "area")
			assert.Equal(t, "area", gaps.Value.ResearchArea)
		})
	}
}

func TestExtractJSONBalancing(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"object in prose", `Sure: {"a": {"b": 2}} done.`, `{"a": {"b": 2}}`},
		{"braces inside strings", `{"a": "puz{zle}"}`, `{"a": "puz{zle}"}`},
		{"unterminated", `{"a": 1`, ""},
		{"no json", "just words", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}
