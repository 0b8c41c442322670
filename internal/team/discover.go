package team

import (
	"regexp"
	"strings"
)

var (
	clockTime     = regexp.MustCompile(`\d{1,2}:\d{2}`)
	lineKeywords  = regexp.MustCompile(`(?i)\b(rezultat|etapa|data|duminic[aă]|s[aâ]mb[aă]t[aă]|ora)(?:$|[^\p{L}\p{N}])`)
	lineNumbers   = regexp.MustCompile(`\b\d+\b`)
	linePunct     = regexp.MustCompile(`[/()\-–]`)
	multipleSpace = regexp.MustCompile(`\s+`)
)

// Discover returns the catalog names that appear in the page text, sorted for
// display. Each name is also tried without its trailing dot, with an added dot
// and without spaces. Lines carrying a kick-off time are searched a second time
// after stripping keywords and punctuation.
//
// An empty result means the page did not mention any known team; callers fall
// back to the catalog itself.
func Discover(pageText string, catalog []string) []string {
	found := make(map[string]bool)

	for _, name := range catalog {
		for _, v := range variations(name) {
			if wordPattern(v).MatchString(pageText) {
				found[name] = true
				break
			}
		}
	}

	for _, line := range strings.Split(pageText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !clockTime.MatchString(line) {
			continue
		}
		clean := cleanDiscoveryLine(line)
		for _, name := range catalog {
			if found[name] {
				continue
			}
			if wordPattern(name).MatchString(clean) {
				found[name] = true
				continue
			}
			if noDot := strings.ReplaceAll(name, ".", ""); noDot != name && wordPattern(noDot).MatchString(clean) {
				found[name] = true
			}
		}
	}

	out := make([]string, 0, len(found))
	for _, name := range catalog {
		if found[name] {
			out = append(out, name)
		}
	}
	Sort(out)
	return out
}

func variations(name string) []string {
	return []string{
		name,
		strings.TrimSuffix(name, "."),
		name + ".",
		strings.Join(strings.Fields(name), ""),
	}
}

func cleanDiscoveryLine(line string) string {
	line = clockTime.ReplaceAllString(line, " ")
	line = lineKeywords.ReplaceAllString(line, " ")
	line = lineNumbers.ReplaceAllString(line, " ")
	line = linePunct.ReplaceAllString(line, " ")
	return strings.TrimSpace(multipleSpace.ReplaceAllString(line, " "))
}

// wordPattern matches s case-insensitively, requiring that it is not glued to
// surrounding letters or digits. A plain \b would fail for names ending in a
// dot such as "Marius L.".
func wordPattern(s string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(s) + `($|[^\p{L}\p{N}])`)
}
