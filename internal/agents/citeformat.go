// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agents

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// authorName holds one author split into given/family parts. Single-token
// names keep the literal form in family.
type authorName struct {
	Given  string
	Family string
}

// splitAuthorName handles both "Family, Given" and "Given Family" forms.
// For the latter it splits on the last space: everything before is given,
// the last token is family.
func splitAuthorName(name string) authorName {
	name = strings.TrimSpace(name)
	if name == "" {
		return authorName{}
	}
	if idx := strings.Index(name, ","); idx >= 0 {
		return authorName{
			Family: strings.TrimSpace(name[:idx]),
			Given:  strings.TrimSpace(name[idx+1:]),
		}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return authorName{Family: name}
	}
	return authorName{Given: name[:idx], Family: name[idx+1:]}
}

// initials returns "J. K." for a given-name string, preserving already
// abbreviated forms.
func (a authorName) initials() string {
	var parts []string
	for _, tok := range strings.Fields(a.Given) {
		tok = strings.TrimSuffix(tok, ".")
		if tok == "" {
			continue
		}
		parts = append(parts, string([]rune(tok)[0])+".")
	}
	return strings.Join(parts, " ")
}

// formatBibliography renders sources as bibliography strings in the given
// style, sorted alphabetically by first author family name (title as a tie
// break), matching the research API's sort_alphabetically behavior.
func formatBibliography(sources []types.Source, style types.CitationStyle) []string {
	ordered := append([]types.Source(nil), sources...)
	sort.SliceStable(ordered, func(i, j int) bool {
		fi, fj := firstFamily(ordered[i]), firstFamily(ordered[j])
		if fi != fj {
			return fi < fj
		}
		return ordered[i].Title < ordered[j].Title
	})

	out := make([]string, 0, len(ordered))
	for i, s := range ordered {
		out = append(out, formatEntry(s, style, i+1))
	}
	return out
}

// inTextCitations renders the matching in-text citation markers, in the
// same (sorted) order as the bibliography.
func inTextCitations(sources []types.Source, style types.CitationStyle) []string {
	ordered := append([]types.Source(nil), sources...)
	sort.SliceStable(ordered, func(i, j int) bool {
		fi, fj := firstFamily(ordered[i]), firstFamily(ordered[j])
		if fi != fj {
			return fi < fj
		}
		return ordered[i].Title < ordered[j].Title
	})

	out := make([]string, 0, len(ordered))
	for i, s := range ordered {
		switch style {
		case types.StyleIEEE:
			out = append(out, fmt.Sprintf("[%d]", i+1))
		case types.StyleVancouver:
			out = append(out, fmt.Sprintf("(%d)", i+1))
		case types.StyleMLA:
			out = append(out, fmt.Sprintf("(%s)", shortAuthors(s, " and ", "")))
		default:
			// Author-year styles: APA, Chicago, Harvard, BibTeX key form.
			out = append(out, fmt.Sprintf("(%s, %d)", shortAuthors(s, " & ", " et al."), s.Year))
		}
	}
	return out
}

func firstFamily(s types.Source) string {
	if len(s.Authors) == 0 {
		return strings.ToLower(s.Title)
	}
	return strings.ToLower(splitAuthorName(s.Authors[0]).Family)
}

// shortAuthors renders "Family", "Family & Family", or "Family et al."
// depending on author count.
func shortAuthors(s types.Source, pair, many string) string {
	switch len(s.Authors) {
	case 0:
		return "Anonymous"
	case 1:
		return splitAuthorName(s.Authors[0]).Family
	case 2:
		return splitAuthorName(s.Authors[0]).Family + pair + splitAuthorName(s.Authors[1]).Family
	default:
		if many == "" {
			return splitAuthorName(s.Authors[0]).Family + " et al."
		}
		return splitAuthorName(s.Authors[0]).Family + many
	}
}

func formatEntry(s types.Source, style types.CitationStyle, rank int) string {
	switch style {
	case types.StyleMLA:
		return mlaEntry(s)
	case types.StyleChicago:
		return chicagoEntry(s)
	case types.StyleHarvard:
		return harvardEntry(s)
	case types.StyleIEEE:
		return ieeeEntry(s, rank)
	case types.StyleVancouver:
		return vancouverEntry(s, rank)
	case types.StyleBibTeX:
		return bibtexEntry(s)
	default:
		return apaEntry(s)
	}
}

// apaEntry: Family, G., & Family, G. (Year). Title. Journal. https://doi.org/...
func apaEntry(s types.Source) string {
	var names []string
	for _, a := range s.Authors {
		n := splitAuthorName(a)
		if ini := n.initials(); ini != "" {
			names = append(names, n.Family+", "+ini)
		} else {
			names = append(names, n.Family)
		}
	}
	var b strings.Builder
	b.WriteString(joinNames(names, ", ", ", & "))
	fmt.Fprintf(&b, " (%d). %s.", s.Year, s.Title)
	if s.Journal != "" {
		fmt.Fprintf(&b, " %s.", s.Journal)
	}
	if s.DOI != "" {
		fmt.Fprintf(&b, " https://doi.org/%s", s.DOI)
	}
	return b.String()
}

// mlaEntry: Family, Given. "Title." Journal, Year.
func mlaEntry(s types.Source) string {
	var b strings.Builder
	if len(s.Authors) > 0 {
		n := splitAuthorName(s.Authors[0])
		if n.Given != "" {
			fmt.Fprintf(&b, "%s, %s", n.Family, n.Given)
		} else {
			b.WriteString(n.Family)
		}
		if len(s.Authors) == 2 {
			m := splitAuthorName(s.Authors[1])
			fmt.Fprintf(&b, ", and %s %s", m.Given, m.Family)
		} else if len(s.Authors) > 2 {
			b.WriteString(", et al")
		}
		b.WriteString(". ")
	}
	fmt.Fprintf(&b, "%q", s.Title+".")
	if s.Journal != "" {
		fmt.Fprintf(&b, " %s,", s.Journal)
	}
	fmt.Fprintf(&b, " %d.", s.Year)
	return b.String()
}

// chicagoEntry: Family, Given. Year. "Title." Journal.
func chicagoEntry(s types.Source) string {
	var b strings.Builder
	if len(s.Authors) > 0 {
		n := splitAuthorName(s.Authors[0])
		if n.Given != "" {
			fmt.Fprintf(&b, "%s, %s. ", n.Family, n.Given)
		} else {
			fmt.Fprintf(&b, "%s. ", n.Family)
		}
	}
	fmt.Fprintf(&b, "%d. %q", s.Year, s.Title+".")
	if s.Journal != "" {
		fmt.Fprintf(&b, " %s.", s.Journal)
	}
	return b.String()
}

// harvardEntry: Family, G. (Year) 'Title', Journal.
func harvardEntry(s types.Source) string {
	var names []string
	for _, a := range s.Authors {
		n := splitAuthorName(a)
		if ini := n.initials(); ini != "" {
			names = append(names, n.Family+", "+ini)
		} else {
			names = append(names, n.Family)
		}
	}
	var b strings.Builder
	b.WriteString(joinNames(names, ", ", " and "))
	fmt.Fprintf(&b, " (%d) '%s'", s.Year, s.Title)
	if s.Journal != "" {
		fmt.Fprintf(&b, ", %s", s.Journal)
	}
	b.WriteString(".")
	return b.String()
}

// ieeeEntry: [n] G. Family, "Title," Journal, Year.
func ieeeEntry(s types.Source, rank int) string {
	var names []string
	for _, a := range s.Authors {
		n := splitAuthorName(a)
		if ini := n.initials(); ini != "" {
			names = append(names, ini+" "+n.Family)
		} else {
			names = append(names, n.Family)
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %s, \"%s,\"", rank, joinNames(names, ", ", " and "), s.Title)
	if s.Journal != "" {
		fmt.Fprintf(&b, " %s,", s.Journal)
	}
	fmt.Fprintf(&b, " %d.", s.Year)
	return b.String()
}

// vancouverEntry: n. Family G, Family G. Title. Journal. Year.
func vancouverEntry(s types.Source, rank int) string {
	var names []string
	for _, a := range s.Authors {
		n := splitAuthorName(a)
		names = append(names, strings.TrimSpace(n.Family+" "+strings.ReplaceAll(strings.ReplaceAll(n.initials(), ".", ""), " ", "")))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s. %s.", rank, strings.Join(names, ", "), s.Title)
	if s.Journal != "" {
		fmt.Fprintf(&b, " %s.", s.Journal)
	}
	fmt.Fprintf(&b, " %d.", s.Year)
	return b.String()
}

// bibtexEntry renders an @article record keyed by first-author family name
// and year.
func bibtexEntry(s types.Source) string {
	key := "anon"
	if len(s.Authors) > 0 {
		key = strings.ToLower(splitAuthorName(s.Authors[0]).Family)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "@article{%s%d,\n", key, s.Year)
	fmt.Fprintf(&b, "  title = {%s},\n", s.Title)
	if len(s.Authors) > 0 {
		fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(s.Authors, " and "))
	}
	if s.Journal != "" {
		fmt.Fprintf(&b, "  journal = {%s},\n", s.Journal)
	}
	fmt.Fprintf(&b, "  year = {%d}", s.Year)
	if s.DOI != "" {
		fmt.Fprintf(&b, ",\n  doi = {%s}", s.DOI)
	}
	b.WriteString("\n}")
	return b.String()
}

// joinNames joins with sep, using lastSep before the final element.
func joinNames(names []string, sep, lastSep string) string {
	switch len(names) {
	case 0:
		return "Anonymous"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], sep) + lastSep + names[len(names)-1]
}
