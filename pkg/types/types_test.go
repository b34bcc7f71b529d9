// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceMerge(t *testing.T) {
	s := Source{
		ID:             "10.1/a",
		Title:          "Original Title",
		Year:           2020,
		CitationCount:  10,
		RelevanceScore: 0.5,
	}
	s.Merge(Source{
		Title:          "Other Title",
		Authors:        []string{"Lee, K."},
		Abstract:       "Filled in.",
		Journal:        "Journal B",
		CitationCount:  25,
		RelevanceScore: 0.3,
	})

	assert.Equal(t, "Original Title", s.Title, "non-empty fields are never overwritten")
	assert.Equal(t, []string{"Lee, K."}, s.Authors)
	assert.Equal(t, "Filled in.", s.Abstract)
	assert.Equal(t, "Journal B", s.Journal)
	assert.Equal(t, 25, s.CitationCount, "citation count keeps the higher value")
	assert.Equal(t, 0.5, s.RelevanceScore, "relevance keeps the higher value")
}

func TestValidStyle(t *testing.T) {
	for _, s := range []CitationStyle{StyleAPA, StyleMLA, StyleChicago, StyleHarvard, StyleIEEE, StyleVancouver, StyleBibTeX} {
		assert.True(t, ValidStyle(s), string(s))
	}
	assert.False(t, ValidStyle(""))
	assert.False(t, ValidStyle("APA"), "styles are lowercase identifiers")
}

func TestDateRangeIsZero(t *testing.T) {
	assert.True(t, DateRange{}.IsZero())
	assert.False(t, DateRange{From: time.Now()}.IsZero())
	assert.False(t, DateRange{To: time.Now()}.IsZero())
}

func TestQueryArea(t *testing.T) {
	q := Query{Question: "why do cats purr?"}
	assert.Equal(t, "why do cats purr?", q.Area())

	q.ResearchArea = "feline biology"
	assert.Equal(t, "feline biology", q.Area())
}

func TestConfigNormalize(t *testing.T) {
	cfg := DefaultConfig()

	got := cfg.Normalize(Query{Question: "q"})
	assert.Equal(t, cfg.Defaults.MaxResults, got.MaxResults)
	assert.Equal(t, StyleAPA, got.CitationStyle)
	assert.Equal(t, SynthesisComprehensive, got.SynthesisType)
	assert.Equal(t, DepthDetailed, got.AnalysisDepth)

	explicit := Query{
		Question:      "q",
		MaxResults:    5,
		CitationStyle: StyleIEEE,
		SynthesisType: SynthesisConcise,
		AnalysisDepth: DepthOverview,
	}
	got = cfg.Normalize(explicit)
	assert.Equal(t, explicit, got, "explicit values pass through untouched")

	invalid := cfg.Normalize(Query{Question: "q", CitationStyle: "fancy"})
	assert.Equal(t, StyleAPA, invalid.CitationStyle, "unknown styles fall back to the default")
}

func TestWorkspaceDocumentClone(t *testing.T) {
	doc := &WorkspaceDocument{
		ID: "ws-1",
		Stages: map[Stage]StageData{
			StageSearch: {
				Sources:   []Source{{ID: "10.1/a", Title: "Paper"}},
				Synthesis: &SynthesisResult{Summary: "original"},
				Extra:     map[string]string{"k": "v"},
			},
		},
	}

	clone := doc.Clone()
	require.NotNil(t, clone)

	clone.Stages[StageSearch].Sources[0] = Source{Title: "tampered"}
	clone.Stages[StageSearch].Synthesis.Summary = "tampered"
	clone.Stages[StageSearch].Extra["k"] = "tampered"
	clone.Stages[StageShip] = StageData{Query: "new stage"}

	orig := doc.Stages[StageSearch]
	assert.Equal(t, "Paper", orig.Sources[0].Title)
	assert.Equal(t, "original", orig.Synthesis.Summary)
	assert.Equal(t, "v", orig.Extra["k"])
	assert.NotContains(t, doc.Stages, StageShip)

	var nilDoc *WorkspaceDocument
	assert.Nil(t, nilDoc.Clone())
}
