// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

func TestSplitAuthorName(t *testing.T) {
	tests := []struct {
		in     string
		given  string
		family string
	}{
		{"Smith, John", "John", "Smith"},
		{"John Smith", "John", "Smith"},
		{"Smith, J.", "J.", "Smith"},
		{"Cher", "", "Cher"},
		{"Maria van der Berg", "Maria van der", "Berg"},
		{"  Brown,  Ada  ", "Ada", "Brown"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := splitAuthorName(tt.in)
			assert.Equal(t, tt.given, got.Given)
			assert.Equal(t, tt.family, got.Family)
		})
	}
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "J. K.", authorName{Given: "John Kenneth"}.initials())
	assert.Equal(t, "J.", authorName{Given: "J."}.initials())
	assert.Equal(t, "", authorName{}.initials())
}

var citeSources = []types.Source{
	{
		ID:      "10.1000/2",
		Title:   "Zebra Stripes and Thermoregulation",
		Authors: []string{"Walker, Tessa", "Young, Sam"},
		Year:    2021,
		Journal: "Journal of Zoology",
		DOI:     "10.1000/2",
	},
	{
		ID:      "10.1000/1",
		Title:   "Ant Colony Route Optimization",
		Authors: []string{"Adams, Riley"},
		Year:    2023,
		Journal: "Swarm Intelligence",
		DOI:     "10.1000/1",
	},
}

func TestFormatBibliographySortsByFamilyName(t *testing.T) {
	bib := formatBibliography(citeSources, types.StyleAPA)
	require.Len(t, bib, 2)
	assert.Contains(t, bib[0], "Adams")
	assert.Contains(t, bib[1], "Walker")
}

func TestAPAEntry(t *testing.T) {
	bib := formatBibliography(citeSources[:1], types.StyleAPA)
	require.Len(t, bib, 1)
	assert.Equal(t,
		"Walker, T., & Young, S. (2021). Zebra Stripes and Thermoregulation. Journal of Zoology. https://doi.org/10.1000/2",
		bib[0])
}

func TestInTextCitationsPerStyle(t *testing.T) {
	// Sorted order: Adams (2023) first, Walker (2021) second.
	tests := []struct {
		style types.CitationStyle
		want  []string
	}{
		{types.StyleIEEE, []string{"[1]", "[2]"}},
		{types.StyleVancouver, []string{"(1)", "(2)"}},
		{types.StyleMLA, []string{"(Adams)", "(Walker and Young)"}},
		{types.StyleAPA, []string{"(Adams, 2023)", "(Walker & Young, 2021)"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			assert.Equal(t, tt.want, inTextCitations(citeSources, tt.style))
		})
	}
}

func TestBibTeXEntry(t *testing.T) {
	bib := formatBibliography(citeSources[1:], types.StyleBibTeX)
	require.Len(t, bib, 1)
	assert.Contains(t, bib[0], "@article{adams2023,")
	assert.Contains(t, bib[0], "title = {Ant Colony Route Optimization}")
	assert.Contains(t, bib[0], "doi = {10.1000/1}")
}

func TestShortAuthorsManyBecomesEtAl(t *testing.T) {
	s := types.Source{Authors: []string{"A One", "B Two", "C Three"}, Year: 2020}
	marks := inTextCitations([]types.Source{s}, types.StyleAPA)
	require.Len(t, marks, 1)
	assert.Equal(t, "(One et al., 2020)", marks[0])
}

func TestNoAuthorsFallsBackToTitleSortAndAnonymous(t *testing.T) {
	s := types.Source{Title: "Untitled Phenomena", Year: 2019}
	bib := formatBibliography([]types.Source{s}, types.StyleAPA)
	require.Len(t, bib, 1)
	assert.Contains(t, bib[0], "Anonymous")

	marks := inTextCitations([]types.Source{s}, types.StyleAPA)
	assert.Equal(t, []string{"(Anonymous, 2019)"}, marks)
}
