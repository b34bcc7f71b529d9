// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agents orchestrates research queries across four agent roles
// (literature search, synthesis, citation formatting, gap analysis). Each
// role is fulfilled by whichever execution strategy is first able to serve
// it: a language-model substitute, a remote orchestration backend, the
// direct research API, or deterministic fixture data as the universal
// fallback.
package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Agent role names, used in errors, logs, and result metadata.
const (
	AgentLiterature = "literature_search"
	AgentSynthesis  = "synthesis"
	AgentCitations  = "citation_formatting"
	AgentGaps       = "gap_analysis"
)

// SearchOptions tunes a literature search call.
type SearchOptions struct {
	MaxResults       int
	IncludeAbstracts bool
	DateRange        types.DateRange
}

// SynthesisOptions tunes a synthesis call.
type SynthesisOptions struct {
	SynthesisType types.SynthesisType
	CitationStyle types.CitationStyle
}

// GapOptions tunes a gap-analysis call.
type GapOptions struct {
	AnalysisDepth types.AnalysisDepth
}

// Strategy is one concrete execution backend able to fulfill all four agent
// operations. Strategies are tried in precedence order; a failure from one
// falls through to the next and never reaches the caller.
type Strategy interface {
	Name() string

	// Available reports whether the strategy can currently serve calls.
	// Implementations may probe health endpoints; they must not panic.
	Available(ctx context.Context) bool

	SearchLiterature(ctx context.Context, query string, opts SearchOptions) (types.LiteratureResult, error)
	SynthesizeResearch(ctx context.Context, sources []types.Source, question string, opts SynthesisOptions) (types.SynthesisResult, error)
	FormatCitations(ctx context.Context, sources []types.Source, style types.CitationStyle) (types.CitationBundle, error)
	AnalyzeGaps(ctx context.Context, area string, sources []types.Source, opts GapOptions) (types.GapAnalysis, error)
}

// ErrStrategyUnavailable marks a strategy that declined to serve a call
// (disabled, missing credential, failed health check). It triggers
// fallthrough and is never surfaced.
var ErrStrategyUnavailable = errors.New("strategy unavailable")

// AgentError reports that every configured strategy failed a single agent's
// call. With the fixture strategy in the list this cannot happen in a
// correctly wired client.
type AgentError struct {
	Agent string
	Cause error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %s: all strategies failed: %v", e.Agent, e.Cause)
}

func (e *AgentError) Unwrap() error { return e.Cause }
