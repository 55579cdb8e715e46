// Package sections decodes the per-section text of a deep-dive article into ordered, render-ready sections.
//
// Each raw blob is a restricted markdown subset:
//
//	## Headline
//	### Subheader
//
//	Paragraph line
//	Paragraph line
//
// The first "## " line is the headline; "### " lines are flattened into ordinary paragraphs and
// blank lines are dropped. Section keys are ordered with numeric-aware collation so "section_2"
// sorts before "section_10".
//
// Parsing never fails: every input produces a value.
package sections

import (
	"slices"
	"strings"

	"github.com/desertthunder/deepdive/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	headlineMarker  = "## "
	subheaderMarker = "### "

	// FallbackHeadline is used when a blob has no headline line.
	FallbackHeadline = "Section"
)

// Parse converts a raw section map into sections ordered by [CompareKeys].
//
// A nil or empty map yields an empty, non-nil slice.
func Parse(raw map[string]string) []models.Section {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}

	c := newCollator()
	slices.SortFunc(keys, func(a, b string) int { return compareWith(c, a, b) })

	out := make([]models.Section, 0, len(keys))
	for _, k := range keys {
		out = append(out, ParseSection(k, raw[k]))
	}
	return out
}

// ParseSection transforms a single raw blob stored under key.
func ParseSection(key, raw string) models.Section {
	lines := splitLines(raw)

	headline := FallbackHeadline
	headlineAt := -1
	for i, line := range lines {
		if strings.HasPrefix(line, headlineMarker) {
			headline = strings.TrimSpace(strings.TrimPrefix(line, headlineMarker))
			headlineAt = i
			break
		}
	}

	content := make([]string, 0, len(lines))
	for i, line := range lines {
		if i == headlineAt {
			continue
		}
		if strings.HasPrefix(line, subheaderMarker) {
			line = strings.TrimSpace(strings.TrimPrefix(line, subheaderMarker))
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		content = append(content, line)
	}

	return models.Section{ID: key, Headline: headline, Content: content}
}

// CompareKeys orders section keys numerically where they embed integers,
// falling back to byte order so that distinct keys never compare equal.
func CompareKeys(a, b string) int {
	return compareWith(newCollator(), a, b)
}

// A Collator keeps internal buffers and is not safe for concurrent use,
// so every call builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric)
}

func compareWith(c *collate.Collator, a, b string) int {
	if r := c.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
