package team

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// knownTeams is the roster of the current season's group. Update it when the
// league publishes a new roster.
var knownTeams = []string{
	"DNG",
	"Sport Team",
	"Alex. Vaidean",
	"Dan Chilom",
	"Marius L.",
	"Raiders",
	"Real Sport",
	"ACS Juniorul 2014",
	"Metaloglobus",
	"Partizan",
	"Academic",
	"Acad MCR",
	"D'angelo",
	"Derby",
}

// KnownTeams returns a copy of the static catalog in its published order.
func KnownTeams() []string {
	out := make([]string, len(knownTeams))
	copy(out, knownTeams)
	return out
}

// ByLengthDesc returns the names ordered longest first. Names of equal length
// keep their relative order.
func ByLengthDesc(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.SliceStable(out, func(i, j int) bool {
		return len([]rune(out[i])) > len([]rune(out[j]))
	})
	return out
}

// Merge returns the union of the given name lists, first occurrence wins.
// Comparison is case-insensitive and ignores surrounding whitespace.
func Merge(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, name := range list {
			name = strings.TrimSpace(name)
			key := strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, name)
		}
	}
	return out
}

// Sort orders team names the way a Romanian reader expects them.
func Sort(names []string) {
	collate.New(language.Romanian, collate.IgnoreCase).SortStrings(names)
}
