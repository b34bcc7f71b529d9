// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Source is one literature item produced by the literature-search agent.
// Sources are never mutated after creation, only enriched via Merge.
type Source struct {
	// ID is the canonical identifier (DOI if available, else a backend ID).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Year is the publication year.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Journal is the publication venue.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// DOI is the digital object identifier.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL links to the paper landing page.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// CitationCount is the number of citing works, when known.
	CitationCount int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`

	// RelevanceScore is a value between 0.0 and 1.0 relative to the query.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// Merge fills empty fields of s from other and keeps the higher relevance
// score. Existing non-empty fields are never overwritten.
func (s *Source) Merge(other Source) {
	if s.Title == "" && other.Title != "" {
		s.Title = other.Title
	}
	if len(s.Authors) == 0 && len(other.Authors) > 0 {
		s.Authors = other.Authors
	}
	if s.Abstract == "" && other.Abstract != "" {
		s.Abstract = other.Abstract
	}
	if s.Year == 0 && other.Year != 0 {
		s.Year = other.Year
	}
	if s.Journal == "" && other.Journal != "" {
		s.Journal = other.Journal
	}
	if s.DOI == "" && other.DOI != "" {
		s.DOI = other.DOI
	}
	if s.URL == "" && other.URL != "" {
		s.URL = other.URL
	}
	if other.CitationCount > s.CitationCount {
		s.CitationCount = other.CitationCount
	}
	if other.RelevanceScore > s.RelevanceScore {
		s.RelevanceScore = other.RelevanceScore
	}
}

// LiteratureResult holds the literature-search agent output.
type LiteratureResult struct {
	Sources      []Source          `json:"sources" yaml:"sources"`
	TotalResults int               `json:"total_results" yaml:"total_results"`
	Metadata     map[string]string `json:"search_metadata,omitempty" yaml:"search_metadata,omitempty"`
}

// Theme is one recurring theme identified across sources.
type Theme struct {
	Theme             string  `json:"theme" yaml:"theme"`
	Description       string  `json:"description" yaml:"description"`
	SupportingSources int     `json:"supporting_sources" yaml:"supporting_sources"`
	Confidence        float64 `json:"confidence" yaml:"confidence"`
}

// SynthesisResult holds the synthesis agent output.
type SynthesisResult struct {
	Summary         string   `json:"executive_summary" yaml:"executive_summary"`
	KeyFindings     []string `json:"key_findings" yaml:"key_findings"`
	Themes          []Theme  `json:"themes" yaml:"themes"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
	Confidence      float64  `json:"confidence" yaml:"confidence"`
}

// CitationBundle holds the citation-formatting agent output.
type CitationBundle struct {
	Style        CitationStyle `json:"citation_style" yaml:"citation_style"`
	Bibliography []string      `json:"bibliography" yaml:"bibliography"`
	InText       []string      `json:"in_text_citations" yaml:"in_text_citations"`
	TotalSources int           `json:"total_sources" yaml:"total_sources"`
	Notes        []string      `json:"formatting_notes,omitempty" yaml:"formatting_notes,omitempty"`
}

// GapPriority ranks how pressing an identified research gap is.
type GapPriority string

const (
	PriorityHigh   GapPriority = "high"
	PriorityMedium GapPriority = "medium"
	PriorityLow    GapPriority = "low"
)

// Gap is one identified research gap.
type Gap struct {
	Gap         string      `json:"gap" yaml:"gap"`
	Description string      `json:"description" yaml:"description"`
	Priority    GapPriority `json:"priority" yaml:"priority"`
	Impact      string      `json:"potential_impact,omitempty" yaml:"potential_impact,omitempty"`
}

// GapAnalysis holds the gap-analysis agent output.
type GapAnalysis struct {
	ResearchArea      string   `json:"research_area" yaml:"research_area"`
	Gaps              []Gap    `json:"identified_gaps" yaml:"identified_gaps"`
	Methodologies     []string `json:"suggested_methodologies" yaml:"suggested_methodologies"`
	Collaborations    []string `json:"collaboration_opportunities" yaml:"collaboration_opportunities"`
	FundingPriorities []string `json:"funding_priorities,omitempty" yaml:"funding_priorities,omitempty"`
	Confidence        float64  `json:"confidence" yaml:"confidence"`
}

// QueryStatus is the terminal state of a composite query.
type QueryStatus string

const (
	StatusCompleted QueryStatus = "completed"
	StatusFailed    QueryStatus = "failed"
)

// ResultMetadata records how a QueryResult was produced.
type ResultMetadata struct {
	// ProcessedAt is when aggregation finished.
	ProcessedAt time.Time `json:"processed_at" yaml:"processed_at"`

	// AgentsUsed lists the agent roles that ran for this result.
	AgentsUsed []string `json:"agents_used" yaml:"agents_used"`

	// TotalSources is the number of literature sources retrieved.
	TotalSources int `json:"total_sources" yaml:"total_sources"`

	// Cached is true when the result was served from the cache. It is the
	// only field the cache layer sets after construction.
	Cached bool `json:"cached" yaml:"cached"`

	// Duration is the wall-clock processing time.
	Duration time.Duration `json:"processing_time" yaml:"processing_time"`

	// Strategy names the execution strategy that produced the result.
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// QueryResult aggregates the four agent outputs for one query. It is
// read-only after creation except for Metadata.Cached.
type QueryResult struct {
	QueryID    string           `json:"query_id" yaml:"query_id"`
	Status     QueryStatus      `json:"status" yaml:"status"`
	Error      string           `json:"error,omitempty" yaml:"error,omitempty"`
	Literature LiteratureResult `json:"literature" yaml:"literature"`
	Synthesis  SynthesisResult  `json:"synthesis" yaml:"synthesis"`
	Citations  CitationBundle   `json:"citations" yaml:"citations"`
	Gaps       GapAnalysis      `json:"gaps" yaml:"gaps"`
	Metadata   ResultMetadata   `json:"metadata" yaml:"metadata"`
}
