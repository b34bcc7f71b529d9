// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

func TestFingerprintStable(t *testing.T) {
	q := types.Query{
		Question:      "What are the effects of microplastics on marine life?",
		ResearchArea:  "marine biology",
		MaxResults:    25,
		CitationStyle: types.StyleAPA,
		SynthesisType: types.SynthesisComprehensive,
		AnalysisDepth: types.DepthDetailed,
	}
	assert.Equal(t, Fingerprint(q), Fingerprint(q))
}

func TestFingerprintIgnoresRequestMetadata(t *testing.T) {
	base := types.Query{
		Question:      "effects of sleep deprivation on memory",
		CitationStyle: types.StyleMLA,
	}
	other := base
	other.QueryID = "abc-123"
	other.UserID = "user-9"
	other.SubmittedAt = time.Now()

	assert.Equal(t, Fingerprint(base), Fingerprint(other),
		"query ID, user ID, and submission time must not affect the fingerprint")
}

func TestFingerprintNormalizesText(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"case insensitive", "Machine Learning", "machine learning", true},
		{"collapses whitespace", "machine   learning\tmodels", "machine learning models", true},
		{"trims ends", "  quantum computing  ", "quantum computing", true},
		{"different words differ", "quantum computing", "quantum networking", false},
		{"unicode lowercased", "Überwachung VON Systemen", "überwachung von systemen", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := Fingerprint(types.Query{Question: tt.a})
			fb := Fingerprint(types.Query{Question: tt.b})
			if tt.same {
				assert.Equal(t, fa, fb)
			} else {
				assert.NotEqual(t, fa, fb)
			}
		})
	}
}

func TestFingerprintSensitiveToOptions(t *testing.T) {
	base := types.Query{Question: "gene editing ethics", CitationStyle: types.StyleAPA}

	styled := base
	styled.CitationStyle = types.StyleIEEE
	assert.NotEqual(t, Fingerprint(base), Fingerprint(styled))

	capped := base
	capped.MaxResults = 10
	assert.NotEqual(t, Fingerprint(base), Fingerprint(capped))

	depth := base
	depth.AnalysisDepth = types.DepthOverview
	assert.NotEqual(t, Fingerprint(base), Fingerprint(depth))
}

func TestFingerprintEmptyQuery(t *testing.T) {
	// The zero query still hashes; dedupe of degenerate input is allowed.
	assert.Len(t, Fingerprint(types.Query{}), 64)
}
