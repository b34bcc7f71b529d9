// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

// extractJSON returns the outermost balanced JSON object or array embedded
// in text, tolerating markdown code fences and surrounding prose. It returns
// "" when no balanced candidate decodes as JSON.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// Strip a ```json ... ``` fence if present.
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			if c := balancedJSON(rest[:end]); c != "" {
				return c
			}
		}
	}

	return balancedJSON(text)
}

// balancedJSON finds the first '{' or '[' and returns the shortest balanced
// span from there that parses as JSON. Brackets inside string literals are
// skipped.
func balancedJSON(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	open := text[start]
	var closing byte = '}'
	if open == '[' {
		closing = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				candidate := text[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate
				}
				return ""
			}
		}
	}
	return ""
}

// bulletLines returns the text of "-", "*", or "•" bulleted lines.
func bulletLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, prefix := range []string{"- ", "* ", "• "} {
			if strings.HasPrefix(line, prefix) {
				item := strings.TrimSpace(strings.TrimPrefix(line, prefix))
				if item != "" {
					out = append(out, item)
				}
				break
			}
		}
	}
	return out
}

// referenceLines returns lines that look like bibliography entries:
// numbered ("1. ...", "[1] ...") or bulleted.
func referenceLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "[") && strings.Contains(line, "]"):
			if item := strings.TrimSpace(line[strings.Index(line, "]")+1:]); item != "" {
				out = append(out, item)
			}
		case len(line) > 2 && unicode.IsDigit(rune(line[0])) && (line[1] == '.' || line[1] == ')'):
			if item := strings.TrimSpace(line[2:]); item != "" {
				out = append(out, item)
			}
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			if item := strings.TrimSpace(line[2:]); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// firstParagraph returns the first non-empty paragraph, truncated to a
// summary-sized length on a word boundary.
func firstParagraph(text string) string {
	const maxLen = 600
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "```") {
			continue
		}
		para = strings.Join(strings.Fields(para), " ")
		if len(para) > maxLen {
			cut := strings.LastIndexByte(para[:maxLen], ' ')
			if cut < 0 {
				cut = maxLen
			}
			para = para[:cut] + "..."
		}
		return para
	}
	return ""
}

// scanSourceLines recovers source titles from prose when no JSON decoded.
// Numbered and quoted lines are treated as titles.
func scanSourceLines(text string, maxResults int) []types.Source {
	var out []types.Source
	for _, line := range referenceLines(text) {
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
		title := strings.Trim(line, `"'`)
		if len(title) < 8 {
			continue
		}
		out = append(out, types.Source{Title: title, ID: slug(title)})
	}
	return out
}

// slug derives a stable lowercase identifier from a title.
func slug(title string) string {
	var b strings.Builder
	prev := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prev = false
		case !prev && b.Len() > 0:
			b.WriteByte('-')
			prev = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if len(s) > 48 {
		s = s[:48]
	}
	return s
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

func asInt(n json.Number) int {
	if n == "" {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return 0
}

func asFloat(n json.Number) float64 {
	if n == "" {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
