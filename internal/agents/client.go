// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/scholar-engine/internal/cache"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Client coordinates the four research agents across the configured
// execution strategies. Construct one per process with NewClient and pass
// it by reference; there is no package-level instance.
type Client struct {
	cfg        types.Config
	strategies []Strategy
	cache      *cache.Cache
	group      singleflight.Group
	logger     *zap.Logger
	now        func() time.Time
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithClock substitutes the time source, for deterministic tests.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// WithCache substitutes the result cache.
func WithCache(cc *cache.Cache) ClientOption {
	return func(c *Client) { c.cache = cc }
}

// WithStrategies overrides the strategy list. Order is precedence; the last
// entry should be infallible or ProcessQuery may report failure.
func WithStrategies(ss ...Strategy) ClientOption {
	return func(c *Client) { c.strategies = ss }
}

// WithHTTPClient substitutes the HTTP client shared by the default network
// strategies. Ignored when WithStrategies supplies the list.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a Client from cfg. The default strategy order is the
// documented precedence: language-model substitute when its key is set,
// remote backend when enabled, direct research API when enabled, fixtures
// last as the guaranteed fallback.
func NewClient(cfg types.Config, opts ...ClientOption) *Client {
	c := &Client{
		cfg:    cfg,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = cache.New(cfg.Cache.TTL, cache.WithLogger(c.logger), cache.WithClock(c.now))
	}
	if c.strategies == nil {
		c.strategies = defaultStrategies(cfg, c.httpClient, c.logger)
	}
	return c
}

func defaultStrategies(cfg types.Config, hc *http.Client, logger *zap.Logger) []Strategy {
	var ss []Strategy
	if cfg.Strategies.OpenAI.APIKey != "" {
		ss = append(ss, NewLLMStrategy(cfg.Strategies.OpenAI, logger))
	}
	if cfg.Strategies.Backend.Enabled {
		ss = append(ss, NewRemoteStrategy(cfg.Strategies.Backend, cfg.HTTP, hc, logger))
	}
	if cfg.Strategies.FutureHouse.Enabled {
		ss = append(ss, NewFutureHouseStrategy(cfg.Strategies.FutureHouse, cfg.HTTP, hc, logger))
	}
	return append(ss, NewFixtureStrategy())
}

// runAgent tries each strategy in precedence order for one agent call.
// Unavailable strategies are skipped; failures are logged and the next
// strategy is tried. Only when every strategy fails does the caller see an
// AgentError.
func runAgent[T any](ctx context.Context, c *Client, agent string, call func(context.Context, Strategy) (T, error)) (T, string, error) {
	var zero T
	var lastErr error

	for _, s := range c.strategies {
		if !s.Available(ctx) {
			c.logger.Debug("strategy unavailable",
				zap.String("strategy", s.Name()), zap.String("agent", agent))
			if lastErr == nil {
				lastErr = ErrStrategyUnavailable
			}
			continue
		}

		callCtx := ctx
		var cancel context.CancelFunc
		if c.cfg.HTTP.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, c.cfg.HTTP.Timeout)
		}
		v, err := call(callCtx, s)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			lastErr = err
			c.logger.Warn("strategy call failed, falling through",
				zap.String("strategy", s.Name()), zap.String("agent", agent), zap.Error(err))
			continue
		}
		return v, s.Name(), nil
	}

	return zero, "", &AgentError{Agent: agent, Cause: lastErr}
}

// SearchLiterature runs the literature-search agent on its own, for callers
// that need a partial pipeline.
func (c *Client) SearchLiterature(ctx context.Context, query string, opts SearchOptions) (types.LiteratureResult, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = c.cfg.Defaults.MaxResults
	}
	v, _, err := runAgent(ctx, c, AgentLiterature, func(ctx context.Context, s Strategy) (types.LiteratureResult, error) {
		return s.SearchLiterature(ctx, query, opts)
	})
	return v, err
}

// SynthesizeResearch runs the synthesis agent on its own.
func (c *Client) SynthesizeResearch(ctx context.Context, sources []types.Source, question string, opts SynthesisOptions) (types.SynthesisResult, error) {
	v, _, err := runAgent(ctx, c, AgentSynthesis, func(ctx context.Context, s Strategy) (types.SynthesisResult, error) {
		return s.SynthesizeResearch(ctx, sources, question, opts)
	})
	return v, err
}

// FormatCitations runs the citation-formatting agent on its own.
func (c *Client) FormatCitations(ctx context.Context, sources []types.Source, style types.CitationStyle) (types.CitationBundle, error) {
	if !types.ValidStyle(style) {
		style = c.cfg.Defaults.CitationStyle
	}
	v, _, err := runAgent(ctx, c, AgentCitations, func(ctx context.Context, s Strategy) (types.CitationBundle, error) {
		return s.FormatCitations(ctx, sources, style)
	})
	return v, err
}

// AnalyzeGaps runs the gap-analysis agent on its own.
func (c *Client) AnalyzeGaps(ctx context.Context, area string, sources []types.Source, opts GapOptions) (types.GapAnalysis, error) {
	v, _, err := runAgent(ctx, c, AgentGaps, func(ctx context.Context, s Strategy) (types.GapAnalysis, error) {
		return s.AnalyzeGaps(ctx, area, sources, opts)
	})
	return v, err
}

// InvalidateQuery drops any cached result for q.
func (c *Client) InvalidateQuery(q types.Query) {
	c.cache.Invalidate(cache.Fingerprint(c.cfg.Normalize(q)))
}

// ProcessQuery runs the composite pipeline for q: literature search first,
// then synthesis, citation formatting, and gap analysis fanned out in
// parallel over the retrieved sources. Identical queries are deduplicated
// two ways: completed results come from the cache with Metadata.Cached set,
// and concurrent in-flight duplicates collapse onto a single execution.
//
// Failures never surface as returned errors. A failed fan-out agent leaves
// its slot at the typed zero value and the result stays completed; only
// total literature-search failure (impossible while the fixture strategy is
// wired) yields Status failed with Error set.
func (c *Client) ProcessQuery(ctx context.Context, q types.Query) *types.QueryResult {
	q = c.cfg.Normalize(q)
	if q.QueryID == "" {
		q.QueryID = uuid.NewString()
	}

	fp := cache.Fingerprint(q)
	if hit, ok := c.cache.Get(fp); ok {
		return hit
	}

	var executed bool
	v, _, _ := c.group.Do(fp, func() (any, error) {
		executed = true
		return c.execute(ctx, q, fp), nil
	})
	result := v.(*types.QueryResult)

	if !executed && result.Status == types.StatusCompleted {
		// Joined an in-flight execution: same result, marked as shared.
		// Failed results stay unmarked; they are never served from cache.
		out := *result
		out.Metadata.Cached = true
		return &out
	}
	return result
}

func (c *Client) execute(ctx context.Context, q types.Query, fp string) *types.QueryResult {
	start := c.now()

	if c.cfg.HTTP.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.HTTP.QueryTimeout)
		defer cancel()
	}

	result := &types.QueryResult{
		QueryID: q.QueryID,
		Status:  types.StatusCompleted,
	}

	// Literature search runs first and alone; the fan-out depends on it.
	lit, strategyName, err := runAgent(ctx, c, AgentLiterature, func(ctx context.Context, s Strategy) (types.LiteratureResult, error) {
		return s.SearchLiterature(ctx, q.Question, SearchOptions{
			MaxResults:       q.MaxResults,
			IncludeAbstracts: true,
			DateRange:        q.DateRange,
		})
	})
	if err != nil {
		c.logger.Error("literature search failed on every strategy", zap.Error(err))
		result.Status = types.StatusFailed
		result.Error = err.Error()
		result.Metadata = types.ResultMetadata{
			ProcessedAt: c.now(),
			Duration:    c.now().Sub(start),
		}
		// Failed results are not cached so a fresh call retries.
		return result
	}

	result.Literature = lit
	agentsUsed := []string{AgentLiterature}
	var agentsMu sync.Mutex

	// Fan out the three source-dependent agents; each failure degrades to
	// the typed zero value instead of failing the query.
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		v, _, err := runAgent(ctx, c, AgentSynthesis, func(ctx context.Context, s Strategy) (types.SynthesisResult, error) {
			return s.SynthesizeResearch(ctx, lit.Sources, q.Question, SynthesisOptions{
				SynthesisType: q.SynthesisType,
				CitationStyle: q.CitationStyle,
			})
		})
		if err != nil {
			c.logger.Warn("synthesis degraded to empty result", zap.Error(err))
			return
		}
		result.Synthesis = v
		agentsMu.Lock()
		agentsUsed = append(agentsUsed, AgentSynthesis)
		agentsMu.Unlock()
	}()

	go func() {
		defer wg.Done()
		v, _, err := runAgent(ctx, c, AgentCitations, func(ctx context.Context, s Strategy) (types.CitationBundle, error) {
			return s.FormatCitations(ctx, lit.Sources, q.CitationStyle)
		})
		if err != nil {
			c.logger.Warn("citation formatting degraded to empty result", zap.Error(err))
			return
		}
		result.Citations = v
		agentsMu.Lock()
		agentsUsed = append(agentsUsed, AgentCitations)
		agentsMu.Unlock()
	}()

	go func() {
		defer wg.Done()
		v, _, err := runAgent(ctx, c, AgentGaps, func(ctx context.Context, s Strategy) (types.GapAnalysis, error) {
			return s.AnalyzeGaps(ctx, q.Area(), lit.Sources, GapOptions{AnalysisDepth: q.AnalysisDepth})
		})
		if err != nil {
			c.logger.Warn("gap analysis degraded to empty result", zap.Error(err))
			return
		}
		result.Gaps = v
		agentsMu.Lock()
		agentsUsed = append(agentsUsed, AgentGaps)
		agentsMu.Unlock()
	}()

	wg.Wait()

	result.Metadata = types.ResultMetadata{
		ProcessedAt:  c.now(),
		AgentsUsed:   agentsUsed,
		TotalSources: len(lit.Sources),
		Duration:     c.now().Sub(start),
		Strategy:     strategyName,
	}

	c.cache.Put(fp, result)
	c.logger.Info("query processed",
		zap.String("query_id", q.QueryID),
		zap.String("strategy", strategyName),
		zap.Int("sources", len(lit.Sources)),
		zap.Duration("duration", result.Metadata.Duration))
	return result
}
