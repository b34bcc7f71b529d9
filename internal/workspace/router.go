// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Router distributes query results into workspace documents, one stage at a
// time. Updates merge: routing into a stage never disturbs the other stages,
// and within a stage empty incoming fields leave the existing value in place.
type Router struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterLogger attaches a logger.
func WithRouterLogger(l *zap.Logger) RouterOption {
	return func(r *Router) { r.logger = l }
}

// WithRouterClock substitutes the time source, for deterministic tests.
func WithRouterClock(now func() time.Time) RouterOption {
	return func(r *Router) { r.now = now }
}

// NewRouter builds a Router over the given store.
func NewRouter(store Store, opts ...RouterOption) *Router {
	r := &Router{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// stageDataFor projects the slice of result that belongs to stage. The
// query stage carries the question, search the sources, citation the
// bundle, and think the synthesis plus gaps. Ship and unknown stages get
// nothing by default; callers populate those through Extra.
func stageDataFor(result *types.QueryResult, q types.Query, stage types.Stage) types.StageData {
	var data types.StageData
	switch stage {
	case types.StageQuery:
		data.Query = q.Question
		data.Area = q.Area()
	case types.StageSearch:
		data.Sources = result.Literature.Sources
	case types.StageCitation:
		if result.Citations.TotalSources > 0 || len(result.Citations.Bibliography) > 0 {
			c := result.Citations
			data.Citations = &c
		}
	case types.StageThink:
		if result.Synthesis.Summary != "" || len(result.Synthesis.KeyFindings) > 0 {
			s := result.Synthesis
			data.Synthesis = &s
		}
		if result.Gaps.ResearchArea != "" || len(result.Gaps.Gaps) > 0 {
			g := result.Gaps
			data.Gaps = &g
		}
	}
	return data
}

// mergeStage overlays incoming onto existing field by field. Non-empty
// incoming values win; empty ones preserve what is already there.
func mergeStage(existing, incoming types.StageData, now time.Time) types.StageData {
	out := existing
	if incoming.Query != "" {
		out.Query = incoming.Query
	}
	if incoming.Area != "" {
		out.Area = incoming.Area
	}
	if len(incoming.Sources) > 0 {
		out.Sources = incoming.Sources
	}
	if incoming.Citations != nil {
		out.Citations = incoming.Citations
	}
	if incoming.Synthesis != nil {
		out.Synthesis = incoming.Synthesis
	}
	if incoming.Gaps != nil {
		out.Gaps = incoming.Gaps
	}
	for k, v := range incoming.Extra {
		if out.Extra == nil {
			out.Extra = make(map[string]string)
		}
		out.Extra[k] = v
	}
	out.UpdatedAt = now
	return out
}

// loadOrCreate returns the document for workspaceID, creating a fresh one
// with empty stages when none exists yet. The second return reports whether
// the document is new and must be inserted rather than updated.
func (r *Router) loadOrCreate(ctx context.Context, workspaceID string) (*types.WorkspaceDocument, bool, error) {
	doc, err := r.store.Get(ctx, workspaceID)
	if err == nil {
		if doc.Stages == nil {
			doc.Stages = make(map[types.Stage]types.StageData)
		}
		return doc, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, fmt.Errorf("loading workspace %s: %w", workspaceID, err)
	}

	now := r.now()
	r.logger.Debug("creating workspace on first route", zap.String("workspace_id", workspaceID))
	return &types.WorkspaceDocument{
		ID:        workspaceID,
		Stages:    make(map[types.Stage]types.StageData),
		CreatedAt: now,
	}, true, nil
}

func (r *Router) save(ctx context.Context, doc *types.WorkspaceDocument, created bool) error {
	if created {
		if err := r.store.Create(ctx, doc); err != nil {
			return fmt.Errorf("creating workspace %s: %w", doc.ID, err)
		}
		return nil
	}
	if err := r.store.Update(ctx, doc); err != nil {
		return fmt.Errorf("saving workspace %s: %w", doc.ID, err)
	}
	return nil
}

// Route merges the stage-relevant slice of result into the workspace
// document's entry for stage and marks it current. The document's other
// stages are untouched. An unknown workspaceID creates a fresh document.
func (r *Router) Route(ctx context.Context, workspaceID string, stage types.Stage, q types.Query, result *types.QueryResult) (*types.WorkspaceDocument, error) {
	doc, created, err := r.loadOrCreate(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	now := r.now()
	doc.Stages[stage] = mergeStage(doc.Stages[stage], stageDataFor(result, q, stage), now)
	doc.CurrentStage = stage
	doc.LastUpdated = now

	if err := r.save(ctx, doc, created); err != nil {
		return nil, err
	}
	r.logger.Debug("routed result into workspace",
		zap.String("workspace_id", workspaceID),
		zap.String("stage", string(stage)),
		zap.String("query_id", result.QueryID))
	return doc, nil
}

// Distribute routes a full result across every canonical stage it has
// content for: query, search, then citation and think when their slices are
// populated. CurrentStage lands on the last stage written. An unknown
// workspaceID creates a fresh document.
func (r *Router) Distribute(ctx context.Context, workspaceID string, q types.Query, result *types.QueryResult) (*types.WorkspaceDocument, error) {
	doc, created, err := r.loadOrCreate(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	now := r.now()
	for _, stage := range []types.Stage{types.StageQuery, types.StageSearch, types.StageCitation, types.StageThink} {
		incoming := stageDataFor(result, q, stage)
		if stageEmpty(incoming) {
			continue
		}
		doc.Stages[stage] = mergeStage(doc.Stages[stage], incoming, now)
		doc.CurrentStage = stage
	}
	doc.LastUpdated = now

	if err := r.save(ctx, doc, created); err != nil {
		return nil, err
	}
	return doc, nil
}

// BuildDocument creates and persists a new workspace document pre-populated
// from a completed result. Name defaults to the research question.
func (r *Router) BuildDocument(ctx context.Context, name, ownerID string, q types.Query, result *types.QueryResult) (*types.WorkspaceDocument, error) {
	if name == "" {
		name = q.Question
	}
	now := r.now()
	doc := &types.WorkspaceDocument{
		ID:           uuid.NewString(),
		Name:         name,
		OwnerID:      ownerID,
		Stages:       make(map[types.Stage]types.StageData),
		CurrentStage: types.StageQuery,
		CreatedAt:    now,
		LastUpdated:  now,
	}
	for _, stage := range []types.Stage{types.StageQuery, types.StageSearch, types.StageCitation, types.StageThink} {
		incoming := stageDataFor(result, q, stage)
		if stageEmpty(incoming) {
			continue
		}
		incoming.UpdatedAt = now
		doc.Stages[stage] = incoming
		doc.CurrentStage = stage
	}

	if err := r.store.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	r.logger.Info("created workspace document",
		zap.String("workspace_id", doc.ID),
		zap.String("name", doc.Name),
		zap.Int("stages", len(doc.Stages)))
	return doc, nil
}

func stageEmpty(s types.StageData) bool {
	return s.Query == "" && s.Area == "" && len(s.Sources) == 0 &&
		s.Citations == nil && s.Synthesis == nil && s.Gaps == nil && len(s.Extra) == 0
}
