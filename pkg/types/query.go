// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scholar-engine
// orchestration layer: research queries, agent results, workspace documents,
// and configuration.
package types

import "time"

// CitationStyle identifies a bibliographic citation format.
type CitationStyle string

const (
	StyleAPA       CitationStyle = "apa"
	StyleMLA       CitationStyle = "mla"
	StyleChicago   CitationStyle = "chicago"
	StyleHarvard   CitationStyle = "harvard"
	StyleIEEE      CitationStyle = "ieee"
	StyleVancouver CitationStyle = "vancouver"
	StyleBibTeX    CitationStyle = "bibtex"
)

// ValidStyle reports whether s is a recognized citation style.
func ValidStyle(s CitationStyle) bool {
	switch s {
	case StyleAPA, StyleMLA, StyleChicago, StyleHarvard, StyleIEEE, StyleVancouver, StyleBibTeX:
		return true
	}
	return false
}

// SynthesisType selects how deep the synthesis agent goes.
type SynthesisType string

const (
	SynthesisConcise       SynthesisType = "concise"
	SynthesisStandard      SynthesisType = "standard"
	SynthesisComprehensive SynthesisType = "comprehensive"
)

// AnalysisDepth selects how deep the gap-analysis agent goes.
type AnalysisDepth string

const (
	DepthOverview AnalysisDepth = "overview"
	DepthDetailed AnalysisDepth = "detailed"
)

// DateRange restricts literature search to a publication window. A zero
// bound leaves that side open.
type DateRange struct {
	From time.Time `json:"from,omitempty" yaml:"from,omitempty"`
	To   time.Time `json:"to,omitempty" yaml:"to,omitempty"`
}

// IsZero reports whether both bounds are unset.
func (d DateRange) IsZero() bool {
	return d.From.IsZero() && d.To.IsZero()
}

// Query is a user's research question plus parameters. It is immutable once
// submitted. Cache identity is the tuple (Question, ResearchArea, MaxResults,
// CitationStyle, SynthesisType, AnalysisDepth); QueryID, UserID, and
// SubmittedAt are request metadata and do not affect identity.
type Query struct {
	// QueryID is a caller-supplied or generated identifier for this request.
	QueryID string `json:"query_id,omitempty" yaml:"query_id,omitempty"`

	// Question is the natural-language research question.
	Question string `json:"question" yaml:"question"`

	// ResearchArea narrows gap analysis to a field (e.g. "Educational
	// Psychology"). Falls back to Question when empty.
	ResearchArea string `json:"research_area,omitempty" yaml:"research_area,omitempty"`

	// MaxResults caps the number of literature sources returned.
	MaxResults int `json:"max_results,omitempty" yaml:"max_results,omitempty"`

	// DateRange restricts literature search by publication date.
	DateRange DateRange `json:"date_range,omitempty" yaml:"date_range,omitempty"`

	// CitationStyle selects the bibliography format.
	CitationStyle CitationStyle `json:"citation_style,omitempty" yaml:"citation_style,omitempty"`

	// SynthesisType selects synthesis depth.
	SynthesisType SynthesisType `json:"synthesis_type,omitempty" yaml:"synthesis_type,omitempty"`

	// AnalysisDepth selects gap-analysis depth.
	AnalysisDepth AnalysisDepth `json:"analysis_depth,omitempty" yaml:"analysis_depth,omitempty"`

	// UserID identifies the requesting user.
	UserID string `json:"user_id,omitempty" yaml:"user_id,omitempty"`

	// SubmittedAt records when the caller built the query.
	SubmittedAt time.Time `json:"submitted_at,omitempty" yaml:"submitted_at,omitempty"`
}

// Area returns the research area, falling back to the question when the
// caller did not set one.
func (q Query) Area() string {
	if q.ResearchArea != "" {
		return q.ResearchArea
	}
	return q.Question
}
