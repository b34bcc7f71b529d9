// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/internal/parse"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// LLMStrategy substitutes a general-purpose chat model for the research
// agents. It exists for development and testing with a real model but
// without the research API: each agent role becomes a prompt, and the
// completion is normalized through the parse package. Takes precedence over
// the other live strategies when its key is configured.
type LLMStrategy struct {
	cfg    types.OpenAIConfig
	client *openai.Client
	logger *zap.Logger
}

// NewLLMStrategy builds the language-model substitute strategy.
func NewLLMStrategy(cfg types.OpenAIConfig, logger *zap.Logger) *LLMStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &LLMStrategy{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger,
	}
}

// Name returns the strategy identifier.
func (l *LLMStrategy) Name() string { return "llm" }

// Available reports whether a credential is configured.
func (l *LLMStrategy) Available(context.Context) bool { return l.cfg.APIKey != "" }

const llmSystemPrompt = "You are a research assistant. Respond with a single JSON object matching the schema in the user message. No prose outside the JSON."

// complete runs one chat completion and returns the raw text.
func (l *LLMStrategy) complete(ctx context.Context, prompt string) (string, error) {
	model := l.cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   l.cfg.MaxTokens,
		Temperature: l.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llmSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// sourcesJSON renders sources compactly for inclusion in a prompt.
func sourcesJSON(sources []types.Source) string {
	type slim struct {
		Title   string   `json:"title"`
		Authors []string `json:"authors"`
		Year    int      `json:"year"`
		Journal string   `json:"journal,omitempty"`
		DOI     string   `json:"doi,omitempty"`
	}
	slims := make([]slim, 0, len(sources))
	for _, s := range sources {
		slims = append(slims, slim{Title: s.Title, Authors: s.Authors, Year: s.Year, Journal: s.Journal, DOI: s.DOI})
	}
	b, err := json.Marshal(slims)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// SearchLiterature asks the model for plausible literature and parses it.
func (l *LLMStrategy) SearchLiterature(ctx context.Context, query string, opts SearchOptions) (types.LiteratureResult, error) {
	prompt := fmt.Sprintf(`Find up to %d published papers relevant to the research question below. Prefer well-cited, real publications.

Research question: %s

Respond with: {"sources": [{"id", "title", "authors", "abstract", "year", "journal", "doi", "url", "citation_count", "relevance_score"}]}`,
		opts.MaxResults, query)

	text, err := l.complete(ctx, prompt)
	if err != nil {
		return types.LiteratureResult{}, err
	}

	parsed := parse.Sources(text, opts.MaxResults)
	if parsed.Degraded {
		l.logger.Info("model literature output degraded", zap.Strings("notes", parsed.Notes))
	}
	if len(parsed.Value.Sources) == 0 {
		return types.LiteratureResult{}, fmt.Errorf("model returned no usable sources")
	}
	return parsed.Value, nil
}

// SynthesizeResearch asks the model to synthesize the given sources.
func (l *LLMStrategy) SynthesizeResearch(ctx context.Context, sources []types.Source, question string, opts SynthesisOptions) (types.SynthesisResult, error) {
	prompt := fmt.Sprintf(`Synthesize the literature below for the research question. Depth: %s.

Research question: %s
Sources: %s

Respond with: {"executive_summary", "key_findings": [], "themes": [{"theme", "description", "supporting_sources", "confidence"}], "recommendations": [], "confidence"}`,
		opts.SynthesisType, question, sourcesJSON(sources))

	text, err := l.complete(ctx, prompt)
	if err != nil {
		return types.SynthesisResult{}, err
	}

	parsed := parse.Synthesis(text, question)
	if parsed.Degraded {
		l.logger.Info("model synthesis output degraded", zap.Strings("notes", parsed.Notes))
	}
	return parsed.Value, nil
}

// FormatCitations asks the model for a bibliography in the given style.
func (l *LLMStrategy) FormatCitations(ctx context.Context, sources []types.Source, style types.CitationStyle) (types.CitationBundle, error) {
	prompt := fmt.Sprintf(`Format the sources below as %s citations, sorted alphabetically by first author.

Sources: %s

Respond with: {"citation_style": %q, "bibliography": [], "in_text_citations": [], "total_sources", "formatting_notes": []}`,
		strings.ToUpper(string(style)), sourcesJSON(sources), style)

	text, err := l.complete(ctx, prompt)
	if err != nil {
		return types.CitationBundle{}, err
	}

	parsed := parse.Citations(text, style, len(sources))
	if parsed.Degraded {
		l.logger.Info("model citation output degraded", zap.Strings("notes", parsed.Notes))
	}
	return parsed.Value, nil
}

// AnalyzeGaps asks the model for research gaps in the area.
func (l *LLMStrategy) AnalyzeGaps(ctx context.Context, area string, sources []types.Source, opts GapOptions) (types.GapAnalysis, error) {
	prompt := fmt.Sprintf(`Identify research gaps in the area below given the existing literature. Depth: %s.

Research area: %s
Existing literature: %s

Respond with: {"research_area", "identified_gaps": [{"gap", "description", "priority", "potential_impact"}], "suggested_methodologies": [], "collaboration_opportunities": [], "funding_priorities": [], "confidence"}`,
		opts.AnalysisDepth, area, sourcesJSON(sources))

	text, err := l.complete(ctx, prompt)
	if err != nil {
		return types.GapAnalysis{}, err
	}

	parsed := parse.Gaps(text, area)
	if parsed.Degraded {
		l.logger.Info("model gap output degraded", zap.Strings("notes", parsed.Notes))
	}
	return parsed.Value, nil
}
