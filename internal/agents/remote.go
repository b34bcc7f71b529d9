// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/internal/parse"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Backend agent identifiers, as the orchestration service names its roles.
const (
	remoteAgentSearch    = "CROW"
	remoteAgentSynthesis = "FALCON"
	remoteAgentCitations = "OWL"
	remoteAgentGaps      = "PHOENIX"
)

// RemoteStrategy delegates agent calls to the remote orchestration backend:
// POST {base}/api/research with {query, agent, options}. Availability is a
// GET {base}/health probe. The backend's data payload is free-form; it is
// normalized through the parse package.
type RemoteStrategy struct {
	cfg    types.BackendConfig
	http   types.HTTPConfig
	client *http.Client
	logger *zap.Logger
}

// NewRemoteStrategy builds the backend-delegation strategy.
func NewRemoteStrategy(cfg types.BackendConfig, httpCfg types.HTTPConfig, client *http.Client, logger *zap.Logger) *RemoteStrategy {
	if client == nil {
		client = &http.Client{Timeout: httpCfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteStrategy{cfg: cfg, http: httpCfg, client: client, logger: logger}
}

// Name returns the strategy identifier.
func (r *RemoteStrategy) Name() string { return "backend" }

// healthResponse is the backend's GET /health payload.
type healthResponse struct {
	Status                string `json:"status"`
	Version               string `json:"version"`
	FutureHouseAvailable  bool   `json:"futurehouse_available"`
	FutureHouseConfigured bool   `json:"futurehouse_configured"`
}

// Available probes the backend health endpoint. Any transport error, non-200
// status, or unhealthy body reports false; failures here trigger fallthrough,
// never surface.
func (r *RemoteStrategy) Available(ctx context.Context) bool {
	if !r.cfg.Enabled || r.cfg.BaseURL == "" {
		return false
	}

	timeout := r.cfg.HealthTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", r.http.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("backend health check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	var h healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return false
	}
	return h.Status == "healthy" || h.Status == "ok"
}

// researchRequest is the backend's POST /api/research body.
type researchRequest struct {
	Query   string         `json:"query"`
	Agent   string         `json:"agent"`
	Options map[string]any `json:"options"`
}

// researchResponse is the backend's POST /api/research payload. Data is kept
// raw; its shape depends on the agent and backend mode.
type researchResponse struct {
	Success   bool            `json:"success"`
	Agent     string          `json:"agent"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
	Error     string          `json:"error,omitempty"`
}

func (r *RemoteStrategy) call(ctx context.Context, agent, query string, options map[string]any) (string, error) {
	body, err := json.Marshal(researchRequest{Query: query, Agent: agent, Options: options})
	if err != nil {
		return "", fmt.Errorf("encoding backend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/api/research", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", r.http.UserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend returned HTTP %d", resp.StatusCode)
	}

	var rr researchResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", fmt.Errorf("decoding backend response: %w", err)
	}
	if !rr.Success {
		return "", fmt.Errorf("backend reported failure: %s", rr.Error)
	}
	return string(rr.Data), nil
}

// SearchLiterature delegates to the backend's search agent.
func (r *RemoteStrategy) SearchLiterature(ctx context.Context, query string, opts SearchOptions) (types.LiteratureResult, error) {
	options := map[string]any{
		"max_results":       opts.MaxResults,
		"include_abstracts": opts.IncludeAbstracts,
	}
	if !opts.DateRange.IsZero() {
		options["date_range"] = opts.DateRange
	}

	data, err := r.call(ctx, remoteAgentSearch, query, options)
	if err != nil {
		return types.LiteratureResult{}, err
	}

	parsed := parse.Sources(data, opts.MaxResults)
	if parsed.Degraded {
		r.logger.Info("backend literature payload degraded", zap.Strings("notes", parsed.Notes))
	}
	return parsed.Value, nil
}

// SynthesizeResearch delegates to the backend's synthesis agent.
func (r *RemoteStrategy) SynthesizeResearch(ctx context.Context, sources []types.Source, question string, opts SynthesisOptions) (types.SynthesisResult, error) {
	data, err := r.call(ctx, remoteAgentSynthesis, question, map[string]any{
		"sources":        sources,
		"synthesis_type": opts.SynthesisType,
		"citation_style": opts.CitationStyle,
	})
	if err != nil {
		return types.SynthesisResult{}, err
	}

	parsed := parse.Synthesis(data, question)
	if parsed.Degraded {
		r.logger.Info("backend synthesis payload degraded", zap.Strings("notes", parsed.Notes))
	}
	return parsed.Value, nil
}

// FormatCitations delegates to the backend's citation agent.
func (r *RemoteStrategy) FormatCitations(ctx context.Context, sources []types.Source, style types.CitationStyle) (types.CitationBundle, error) {
	data, err := r.call(ctx, remoteAgentCitations, "", map[string]any{
		"sources":        sources,
		"citation_style": style,
	})
	if err != nil {
		return types.CitationBundle{}, err
	}

	parsed := parse.Citations(data, style, len(sources))
	if parsed.Degraded {
		r.logger.Info("backend citation payload degraded", zap.Strings("notes", parsed.Notes))
	}
	return parsed.Value, nil
}

// AnalyzeGaps delegates to the backend's gap-analysis agent.
func (r *RemoteStrategy) AnalyzeGaps(ctx context.Context, area string, sources []types.Source, opts GapOptions) (types.GapAnalysis, error) {
	data, err := r.call(ctx, remoteAgentGaps, area, map[string]any{
		"existing_literature": sources,
		"analysis_depth":      opts.AnalysisDepth,
	})
	if err != nil {
		return types.GapAnalysis{}, err
	}

	parsed := parse.Gaps(data, area)
	if parsed.Degraded {
		r.logger.Info("backend gap payload degraded", zap.Strings("notes", parsed.Notes))
	}
	return parsed.Value, nil
}
