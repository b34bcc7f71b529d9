// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns raw free-text model completions into the typed records
// the rest of the system consumes. Every parser is pure and total: malformed,
// truncated, or empty input degrades to a best-effort partial record, never
// an error, so a bad completion cannot abort the surrounding aggregation.
// Nothing downstream can tell whether a field came from structured JSON or a
// heuristic pull on prose.
package parse

import (
	"encoding/json"
	"strings"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Result wraps a parsed record with a degradation flag so callers can log
// when the input was not cleanly structured.
type Result[T any] struct {
	Value    T
	Degraded bool
	Notes    []string
}

// sourcesEnvelope matches the JSON shape the agents emit for literature
// results, tolerating both a bare array and a wrapped object.
type sourcesEnvelope struct {
	Sources []sourceJSON `json:"sources"`
}

type sourceJSON struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Authors        []string    `json:"authors"`
	Abstract       string      `json:"abstract"`
	Year           json.Number `json:"year"`
	Journal        string      `json:"journal"`
	DOI            string      `json:"doi"`
	URL            string      `json:"url"`
	CitationCount  json.Number `json:"citation_count"`
	RelevanceScore json.Number `json:"relevance_score"`
}

// Sources parses a literature-search completion into a LiteratureResult
// capped at maxResults. It first tries JSON (object with a "sources" key or
// a bare array, with or without code fences); failing that, it scans for
// title-like lines.
func Sources(text string, maxResults int) Result[types.LiteratureResult] {
	res := Result[types.LiteratureResult]{}
	res.Value.Metadata = map[string]string{}

	raw := extractJSON(text)
	var parsed []sourceJSON
	switch {
	case raw == "":
		res.Degraded = true
	case strings.HasPrefix(raw, "["):
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			res.Degraded = true
			res.Notes = append(res.Notes, "source array did not decode: "+err.Error())
		}
	default:
		var env sourcesEnvelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			res.Degraded = true
			res.Notes = append(res.Notes, "source object did not decode: "+err.Error())
		} else {
			parsed = env.Sources
		}
	}

	if len(parsed) == 0 && res.Degraded {
		res.Value.Sources = scanSourceLines(text, maxResults)
		if len(res.Value.Sources) > 0 {
			res.Notes = append(res.Notes, "sources recovered from prose")
		}
		res.Value.TotalResults = len(res.Value.Sources)
		return res
	}

	for _, s := range parsed {
		if maxResults > 0 && len(res.Value.Sources) >= maxResults {
			break
		}
		src := types.Source{
			ID:             strings.TrimSpace(s.ID),
			Title:          strings.TrimSpace(s.Title),
			Authors:        trimAll(s.Authors),
			Abstract:       strings.TrimSpace(s.Abstract),
			Journal:        strings.TrimSpace(s.Journal),
			DOI:            strings.TrimSpace(s.DOI),
			URL:            strings.TrimSpace(s.URL),
			Year:           asInt(s.Year),
			CitationCount:  asInt(s.CitationCount),
			RelevanceScore: clamp01(asFloat(s.RelevanceScore)),
		}
		if src.Title == "" {
			continue
		}
		if src.ID == "" {
			if src.DOI != "" {
				src.ID = src.DOI
			} else {
				src.ID = slug(src.Title)
			}
		}
		res.Value.Sources = append(res.Value.Sources, src)
	}
	res.Value.TotalResults = len(res.Value.Sources)
	return res
}

type synthesisJSON struct {
	Summary         string      `json:"executive_summary"`
	AltSummary      string      `json:"summary"`
	KeyFindings     []string    `json:"key_findings"`
	Themes          []themeJSON `json:"themes"`
	Recommendations []string    `json:"recommendations"`
	Confidence      json.Number `json:"confidence"`
}

type themeJSON struct {
	Theme             string      `json:"theme"`
	Description       string      `json:"description"`
	SupportingSources json.Number `json:"supporting_sources"`
	Confidence        json.Number `json:"confidence"`
}

// Synthesis parses a synthesis completion. When no JSON is found the first
// paragraph becomes the summary and bulleted lines become key findings.
func Synthesis(text, question string) Result[types.SynthesisResult] {
	res := Result[types.SynthesisResult]{}

	raw := extractJSON(text)
	if raw != "" {
		var s synthesisJSON
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			res.Value = types.SynthesisResult{
				Summary:         firstNonEmpty(s.Summary, s.AltSummary),
				KeyFindings:     trimAll(s.KeyFindings),
				Recommendations: trimAll(s.Recommendations),
				Confidence:      clamp01(asFloat(s.Confidence)),
			}
			for _, t := range s.Themes {
				if strings.TrimSpace(t.Theme) == "" {
					continue
				}
				res.Value.Themes = append(res.Value.Themes, types.Theme{
					Theme:             strings.TrimSpace(t.Theme),
					Description:       strings.TrimSpace(t.Description),
					SupportingSources: asInt(t.SupportingSources),
					Confidence:        clamp01(asFloat(t.Confidence)),
				})
			}
			if res.Value.Summary != "" || len(res.Value.KeyFindings) > 0 {
				return res
			}
		}
	}

	// Prose fallback: first paragraph as summary, bullets as findings.
	res.Degraded = true
	res.Value.Summary = firstParagraph(text)
	res.Value.KeyFindings = bulletLines(text)
	if res.Value.Summary != "" {
		res.Notes = append(res.Notes, "synthesis recovered from prose")
	}
	return res
}

type citationsJSON struct {
	Style        string      `json:"citation_style"`
	Bibliography []string    `json:"bibliography"`
	InText       []string    `json:"in_text_citations"`
	TotalSources json.Number `json:"total_sources"`
	Notes        []string    `json:"formatting_notes"`
}

// Citations parses a citation-formatting completion for the requested style.
// n is the expected source count, used when the completion omits it.
func Citations(text string, style types.CitationStyle, n int) Result[types.CitationBundle] {
	res := Result[types.CitationBundle]{}
	res.Value.Style = style

	raw := extractJSON(text)
	if raw != "" {
		var c citationsJSON
		if err := json.Unmarshal([]byte(raw), &c); err == nil && len(c.Bibliography) > 0 {
			res.Value.Bibliography = trimAll(c.Bibliography)
			res.Value.InText = trimAll(c.InText)
			res.Value.Notes = trimAll(c.Notes)
			res.Value.TotalSources = asInt(c.TotalSources)
			if res.Value.TotalSources == 0 {
				res.Value.TotalSources = len(res.Value.Bibliography)
			}
			return res
		}
	}

	// Prose fallback: numbered or bulleted lines are bibliography entries.
	res.Degraded = true
	res.Value.Bibliography = referenceLines(text)
	res.Value.TotalSources = len(res.Value.Bibliography)
	if res.Value.TotalSources == 0 && n > 0 {
		res.Value.TotalSources = n
	}
	if len(res.Value.Bibliography) > 0 {
		res.Notes = append(res.Notes, "bibliography recovered from prose")
	}
	return res
}

type gapsJSON struct {
	ResearchArea   string      `json:"research_area"`
	Gaps           []gapJSON   `json:"identified_gaps"`
	Methodologies  []string    `json:"suggested_methodologies"`
	Collaborations []string    `json:"collaboration_opportunities"`
	Funding        []string    `json:"funding_priorities"`
	Confidence     json.Number `json:"confidence"`
}

type gapJSON struct {
	Gap         string `json:"gap"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Importance  string `json:"importance"`
	Impact      string `json:"potential_impact"`
}

// Gaps parses a gap-analysis completion for area. Unrecognized priorities
// degrade to medium.
func Gaps(text, area string) Result[types.GapAnalysis] {
	res := Result[types.GapAnalysis]{}
	res.Value.ResearchArea = area

	raw := extractJSON(text)
	if raw != "" {
		var g gapsJSON
		if err := json.Unmarshal([]byte(raw), &g); err == nil {
			if g.ResearchArea != "" {
				res.Value.ResearchArea = g.ResearchArea
			}
			res.Value.Methodologies = trimAll(g.Methodologies)
			res.Value.Collaborations = trimAll(g.Collaborations)
			res.Value.FundingPriorities = trimAll(g.Funding)
			res.Value.Confidence = clamp01(asFloat(g.Confidence))
			for _, item := range g.Gaps {
				if strings.TrimSpace(item.Gap) == "" {
					continue
				}
				res.Value.Gaps = append(res.Value.Gaps, types.Gap{
					Gap:         strings.TrimSpace(item.Gap),
					Description: strings.TrimSpace(item.Description),
					Priority:    parsePriority(firstNonEmpty(item.Priority, item.Importance)),
					Impact:      strings.TrimSpace(item.Impact),
				})
			}
			if len(res.Value.Gaps) > 0 || len(res.Value.Methodologies) > 0 {
				return res
			}
		}
	}

	// Prose fallback: bullets become gaps with medium priority.
	res.Degraded = true
	for _, line := range bulletLines(text) {
		res.Value.Gaps = append(res.Value.Gaps, types.Gap{
			Gap:      line,
			Priority: types.PriorityMedium,
		})
	}
	if len(res.Value.Gaps) > 0 {
		res.Notes = append(res.Notes, "gaps recovered from prose")
	}
	return res
}

func parsePriority(s string) types.GapPriority {
	switch types.GapPriority(strings.ToLower(strings.TrimSpace(s))) {
	case types.PriorityHigh:
		return types.PriorityHigh
	case types.PriorityLow:
		return types.PriorityLow
	default:
		return types.PriorityMedium
	}
}
