package team

import (
	"regexp"
	"sort"
	"strings"
)

// Matcher finds the team names contained in a cleaned match line. It returns
// zero, one or two names; callers treat anything short of two as unparseable.
type Matcher interface {
	MatchTeams(text string, catalog []string) []string
}

// CatalogMatcher recognises catalog names as whitespace-tolerant,
// case-insensitive substrings. Longer names win over shorter ones they overlap
// with, and the result is ordered by position in the text.
type CatalogMatcher struct{}

type span struct {
	name       string
	start, end int
}

// MatchTeams implements Matcher.
func (CatalogMatcher) MatchTeams(text string, catalog []string) []string {
	var candidates []span
	for _, name := range ByLengthDesc(catalog) {
		re := namePattern(name)
		if re == nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, span{name: name, start: loc[0], end: loc[1]})
		}
	}

	// Longest first, then leftmost.
	sort.SliceStable(candidates, func(i, j int) bool {
		li := candidates[i].end - candidates[i].start
		lj := candidates[j].end - candidates[j].start
		if li != lj {
			return li > lj
		}
		return candidates[i].start < candidates[j].start
	})

	var accepted []span
	for _, c := range candidates {
		if len(accepted) == 2 {
			break
		}
		if overlapsAny(c, accepted) || containsName(accepted, c.name) {
			continue
		}
		accepted = append(accepted, c)
	}

	sort.Slice(accepted, func(i, j int) bool { return accepted[i].start < accepted[j].start })
	names := make([]string, 0, len(accepted))
	for _, a := range accepted {
		names = append(names, a.name)
	}
	return names
}

func overlapsAny(c span, accepted []span) bool {
	for _, a := range accepted {
		if c.start < a.end && a.start < c.end {
			return true
		}
	}
	return false
}

func containsName(accepted []span, name string) bool {
	for _, a := range accepted {
		if a.name == name {
			return true
		}
	}
	return false
}

// namePattern builds a case-insensitive pattern for name in which any run of
// whitespace between words may be absent or repeated ("Alex. Vaidean" matches
// "Alex.Vaidean" and "ALEX.  VAIDEAN"). A trailing dot is optional, so
// "Marius L." also matches "Marius L".
func namePattern(name string) *regexp.Regexp {
	words := strings.Fields(name)
	if len(words) == 0 {
		return nil
	}
	last := len(words) - 1
	trailingDot := len(words[last]) > 1 && strings.HasSuffix(words[last], ".")
	if trailingDot {
		words[last] = strings.TrimSuffix(words[last], ".")
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	pattern := strings.Join(words, `\s*`)
	if trailingDot {
		pattern += `\.?`
	}
	return regexp.MustCompile(`(?i)` + pattern)
}

// SplitFallback wraps another Matcher and, when it cannot find two names,
// splits the text's words in half. The halves are returned verbatim. This is a
// best-effort mode that can mis-split multi-word names.
type SplitFallback struct {
	Inner Matcher
}

var standaloneNumber = regexp.MustCompile(`\b\d+\b`)

// Primary returns the wrapped matcher, CatalogMatcher when none is set.
func (s SplitFallback) Primary() Matcher {
	if s.Inner == nil {
		return CatalogMatcher{}
	}
	return s.Inner
}

// MatchTeams implements Matcher.
func (s SplitFallback) MatchTeams(text string, catalog []string) []string {
	if names := s.Primary().MatchTeams(text, catalog); len(names) == 2 {
		return names
	}

	words := strings.Fields(standaloneNumber.ReplaceAllString(text, " "))
	if len(words) < 2 {
		return nil
	}
	mid := len(words) / 2
	return []string{
		strings.Join(words[:mid], " "),
		strings.Join(words[mid:], " "),
	}
}
