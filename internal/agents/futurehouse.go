// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/internal/httputil"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// FutureHouseStrategy calls the research API directly, one path per agent
// role, with bearer-token auth. Responses are structured JSON; no free-text
// parsing is involved.
type FutureHouseStrategy struct {
	cfg    types.FutureHouseConfig
	http   types.HTTPConfig
	client *http.Client
	logger *zap.Logger
}

// NewFutureHouseStrategy builds the direct-API strategy.
func NewFutureHouseStrategy(cfg types.FutureHouseConfig, httpCfg types.HTTPConfig, client *http.Client, logger *zap.Logger) *FutureHouseStrategy {
	if client == nil {
		client = &http.Client{Timeout: httpCfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FutureHouseStrategy{cfg: cfg, http: httpCfg, client: client, logger: logger}
}

// Name returns the strategy identifier.
func (s *FutureHouseStrategy) Name() string { return "futurehouse" }

// Available reports whether the strategy is enabled and credentialed. No
// network probe: the API has no health endpoint, so the first call decides.
func (s *FutureHouseStrategy) Available(context.Context) bool {
	return s.cfg.Enabled && s.cfg.BaseURL != "" && s.cfg.APIKey != ""
}

// post sends a JSON body to path and decodes the response into out. Rate
// limits are retried with backoff.
func (s *FutureHouseStrategy) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.http.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.client, req, 0, s.logger)
	if err != nil {
		return fmt.Errorf("research API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("research API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding research API response: %w", err)
	}
	return nil
}

type fhSource struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Abstract      string   `json:"abstract"`
	Year          int      `json:"year"`
	Journal       string   `json:"journal"`
	DOI           string   `json:"doi"`
	URL           string   `json:"url"`
	CitationCount int      `json:"citation_count"`
	Relevance     float64  `json:"relevance_score"`
}

func (f fhSource) toSource() types.Source {
	src := types.Source{
		ID:             f.ID,
		Title:          f.Title,
		Authors:        f.Authors,
		Abstract:       f.Abstract,
		Year:           f.Year,
		Journal:        f.Journal,
		DOI:            f.DOI,
		URL:            f.URL,
		CitationCount:  f.CitationCount,
		RelevanceScore: f.Relevance,
	}
	if src.ID == "" {
		src.ID = src.DOI
	}
	return src
}

// SearchLiterature calls the concise-search agent.
func (s *FutureHouseStrategy) SearchLiterature(ctx context.Context, query string, opts SearchOptions) (types.LiteratureResult, error) {
	body := map[string]any{
		"query":             query,
		"max_results":       opts.MaxResults,
		"include_abstracts": opts.IncludeAbstracts,
		"fields":            []string{"title", "authors", "abstract", "doi", "year"},
	}
	if !opts.DateRange.IsZero() {
		body["date_range"] = opts.DateRange
	}

	var resp struct {
		Sources        []fhSource        `json:"sources"`
		TotalResults   int               `json:"total_results"`
		SearchMetadata map[string]string `json:"search_metadata"`
	}
	if err := s.post(ctx, "/agents/crow/search", body, &resp); err != nil {
		return types.LiteratureResult{}, err
	}

	out := types.LiteratureResult{
		TotalResults: resp.TotalResults,
		Metadata:     resp.SearchMetadata,
	}
	for _, f := range resp.Sources {
		out.Sources = append(out.Sources, f.toSource())
	}
	if out.TotalResults == 0 {
		out.TotalResults = len(out.Sources)
	}
	return out, nil
}

// SynthesizeResearch calls the deep-search agent.
func (s *FutureHouseStrategy) SynthesizeResearch(ctx context.Context, sources []types.Source, question string, opts SynthesisOptions) (types.SynthesisResult, error) {
	var resp struct {
		Synthesis struct {
			ExecutiveSummary string        `json:"executive_summary"`
			KeyFindings      []string      `json:"key_findings"`
			Themes           []types.Theme `json:"themes"`
			Recommendations  []string      `json:"recommendations"`
		} `json:"synthesis"`
		ConfidenceScore float64 `json:"confidence_score"`
	}
	err := s.post(ctx, "/agents/falcon/synthesize", map[string]any{
		"sources":           sources,
		"research_question": question,
		"synthesis_type":    opts.SynthesisType,
		"citation_style":    opts.CitationStyle,
		"include_gaps":      true,
	}, &resp)
	if err != nil {
		return types.SynthesisResult{}, err
	}

	return types.SynthesisResult{
		Summary:         resp.Synthesis.ExecutiveSummary,
		KeyFindings:     resp.Synthesis.KeyFindings,
		Themes:          resp.Synthesis.Themes,
		Recommendations: resp.Synthesis.Recommendations,
		Confidence:      resp.ConfidenceScore,
	}, nil
}

// FormatCitations calls the precedent-search agent's formatter.
func (s *FutureHouseStrategy) FormatCitations(ctx context.Context, sources []types.Source, style types.CitationStyle) (types.CitationBundle, error) {
	var resp struct {
		CitationStyle   string   `json:"citation_style"`
		Bibliography    []string `json:"bibliography"`
		InTextCitations []string `json:"in_text_citations"`
		TotalSources    int      `json:"total_sources"`
		FormattingNotes []string `json:"formatting_notes"`
	}
	err := s.post(ctx, "/agents/owl/format", map[string]any{
		"sources":              sources,
		"citation_style":       style,
		"include_bibliography": true,
		"sort_alphabetically":  true,
	}, &resp)
	if err != nil {
		return types.CitationBundle{}, err
	}

	out := types.CitationBundle{
		Style:        style,
		Bibliography: resp.Bibliography,
		InText:       resp.InTextCitations,
		TotalSources: resp.TotalSources,
		Notes:        resp.FormattingNotes,
	}
	if out.TotalSources == 0 {
		out.TotalSources = len(sources)
	}
	return out, nil
}

// AnalyzeGaps calls the gap-analysis agent.
func (s *FutureHouseStrategy) AnalyzeGaps(ctx context.Context, area string, sources []types.Source, opts GapOptions) (types.GapAnalysis, error) {
	var resp struct {
		ResearchArea string `json:"research_area"`
		Analysis     struct {
			IdentifiedGaps             []types.Gap `json:"identified_gaps"`
			SuggestedMethodologies     []string    `json:"suggested_methodologies"`
			CollaborationOpportunities []string    `json:"collaboration_opportunities"`
			FundingPriorities          []string    `json:"funding_priorities"`
		} `json:"analysis"`
		ConfidenceScore float64 `json:"confidence_score"`
	}
	err := s.post(ctx, "/agents/phoenix/analyze", map[string]any{
		"research_area":           area,
		"existing_literature":     sources,
		"analysis_depth":          opts.AnalysisDepth,
		"suggest_methodologies":   true,
		"identify_collaborations": true,
	}, &resp)
	if err != nil {
		return types.GapAnalysis{}, err
	}

	out := types.GapAnalysis{
		ResearchArea:      resp.ResearchArea,
		Gaps:              resp.Analysis.IdentifiedGaps,
		Methodologies:     resp.Analysis.SuggestedMethodologies,
		Collaborations:    resp.Analysis.CollaborationOpportunities,
		FundingPriorities: resp.Analysis.FundingPriorities,
		Confidence:        resp.ConfidenceScore,
	}
	if out.ResearchArea == "" {
		out.ResearchArea = area
	}
	return out, nil
}
