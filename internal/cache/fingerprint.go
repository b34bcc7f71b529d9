// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache deduplicates research queries. A fingerprint derived from a
// query's identity fields keys an in-memory store of completed results with
// timed eviction; in-flight collapsing lives in the agents client on top of
// this package.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// Fingerprint returns a stable identity key for q. Only fields that affect
// agent output participate: question, research area, max results, citation
// style, synthesis type, and analysis depth. Request metadata (query ID,
// user ID, submission time) is excluded, so two requests for the same
// research differ only in metadata hash identically.
func Fingerprint(q types.Query) string {
	h := sha256.New()
	// Fixed field order keeps the serialization canonical.
	fmt.Fprintf(h, "q=%s\x00", normalizeText(q.Question))
	fmt.Fprintf(h, "area=%s\x00", normalizeText(q.ResearchArea))
	fmt.Fprintf(h, "max=%d\x00", q.MaxResults)
	fmt.Fprintf(h, "style=%s\x00", q.CitationStyle)
	fmt.Fprintf(h, "synth=%s\x00", q.SynthesisType)
	fmt.Fprintf(h, "depth=%s\x00", q.AnalysisDepth)
	return hex.EncodeToString(h.Sum(nil))
}

// normalizeText lowercases s and collapses runs of whitespace so trivial
// reformattings of the same question share a fingerprint.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
