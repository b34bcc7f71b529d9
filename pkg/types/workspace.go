// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Stage is a named phase of the research workflow used to key workspace
// document updates.
type Stage string

const (
	StageQuery    Stage = "query"
	StageSearch   Stage = "search"
	StageCitation Stage = "citation"
	StageThink    Stage = "think"
	StageShip     Stage = "ship"
)

// StageData is the snapshot stored under one workspace stage. Which fields
// are populated depends on the stage: query stores the question, search the
// sources, citation the bundle, think the synthesis. Extra carries data for
// stages outside the canonical set.
type StageData struct {
	Query     string           `json:"query,omitempty" yaml:"query,omitempty"`
	Area      string           `json:"research_area,omitempty" yaml:"research_area,omitempty"`
	Sources   []Source         `json:"sources,omitempty" yaml:"sources,omitempty"`
	Citations *CitationBundle  `json:"citations,omitempty" yaml:"citations,omitempty"`
	Synthesis *SynthesisResult `json:"synthesis,omitempty" yaml:"synthesis,omitempty"`
	Gaps      *GapAnalysis     `json:"gaps,omitempty" yaml:"gaps,omitempty"`

	// Extra holds stage-specific values that have no dedicated field.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`

	// UpdatedAt is when this stage was last written.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// WorkspaceDocument is the per-workspace, stage-keyed record of pipeline
// progress. Stage updates merge into Stages; they never replace the whole
// map, so earlier stages survive later updates.
type WorkspaceDocument struct {
	ID           string              `json:"id" yaml:"id"`
	Name         string              `json:"name,omitempty" yaml:"name,omitempty"`
	OwnerID      string              `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`
	Stages       map[Stage]StageData `json:"stages" yaml:"stages"`
	CurrentStage Stage               `json:"current_stage" yaml:"current_stage"`
	CreatedAt    time.Time           `json:"created_at" yaml:"created_at"`
	LastUpdated  time.Time           `json:"last_updated" yaml:"last_updated"`
}

// Clone returns a deep copy of the document. Stores return clones so callers
// cannot mutate stored state through shared maps.
func (d *WorkspaceDocument) Clone() *WorkspaceDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.Stages = make(map[Stage]StageData, len(d.Stages))
	for k, v := range d.Stages {
		out.Stages[k] = v.clone()
	}
	return &out
}

func (s StageData) clone() StageData {
	out := s
	if s.Sources != nil {
		out.Sources = append([]Source(nil), s.Sources...)
	}
	if s.Citations != nil {
		c := *s.Citations
		out.Citations = &c
	}
	if s.Synthesis != nil {
		c := *s.Synthesis
		out.Synthesis = &c
	}
	if s.Gaps != nil {
		c := *s.Gaps
		out.Gaps = &c
	}
	if s.Extra != nil {
		out.Extra = make(map[string]string, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = v
		}
	}
	return out
}
