package fixture

import (
	"sort"
	"strings"
)

// Preview returns the fixtures of the earliest upcoming match day across the
// given per-team lists, together with that day's date (YYYY-MM-DD). A match
// listed from both sides (A vs B and B vs A) appears once. Undated fixtures are
// ignored. An empty date means nothing is scheduled.
func Preview(byTeam map[string][]Fixture, teams []string) (string, []Fixture) {
	var all []Fixture
	for _, team := range teams {
		for _, f := range byTeam[team] {
			if f.DateKey() == "" {
				continue
			}
			all = append(all, f)
		}
	}
	if len(all) == 0 {
		return "", []Fixture{}
	}

	earliest := all[0].DateKey()
	for _, f := range all[1:] {
		if k := f.DateKey(); k < earliest {
			earliest = k
		}
	}

	seen := make(map[string]bool)
	out := make([]Fixture, 0)
	for _, f := range all {
		if f.DateKey() != earliest {
			continue
		}
		key := pairKey(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DateISO < out[j].DateISO })
	return earliest, out
}

func pairKey(f Fixture) string {
	pair := []string{strings.ToLower(f.Team), strings.ToLower(f.Opponent)}
	sort.Strings(pair)
	return f.DateISO + "|" + pair[0] + "|" + pair[1]
}
