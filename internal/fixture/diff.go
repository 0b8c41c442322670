package fixture

// ChangeType classifies a Change.
type ChangeType string

const (
	ChangeAdded           ChangeType = "added"
	ChangeRemoved         ChangeType = "removed"
	ChangeTimeChanged     ChangeType = "time_changed"
	ChangeOpponentChanged ChangeType = "opponent_changed"
)

// Change is one detected difference between two snapshots of a team's
// fixtures. Added carries only Current, Removed only Previous, the other kinds
// carry both.
type Change struct {
	Type     ChangeType `json:"type"`
	Previous *Fixture   `json:"previous,omitempty"`
	Current  *Fixture   `json:"current,omitempty"`
}

// Diff compares a team's previous and current fixtures. The rules are applied
// independently, so one fixture can show up in several changes:
//
//   - opponent_changed: same non-empty date, different opponent
//   - time_changed: same opponent and team, different date
//   - added: current hash absent from previous
//   - removed: previous hash absent from current
//
// Changes are returned in that order. Identical inputs yield no changes.
func Diff(previous, current []Fixture) []Change {
	var changes []Change

	dated := func(f Fixture) (string, bool) { return f.DateISO, f.DateISO != "" }
	prevByDate, _ := index(previous, dated)
	currByDate, currDates := index(current, dated)
	for _, date := range currDates {
		c := currByDate[date]
		if p, ok := prevByDate[date]; ok && p.Opponent != c.Opponent {
			changes = append(changes, changed(ChangeOpponentChanged, p, c))
		}
	}

	paired := func(f Fixture) (string, bool) { return f.Opponent + "|" + f.Team, true }
	prevByPair, _ := index(previous, paired)
	currByPair, currPairs := index(current, paired)
	for _, key := range currPairs {
		c := currByPair[key]
		if p, ok := prevByPair[key]; ok && p.DateISO != c.DateISO {
			changes = append(changes, changed(ChangeTimeChanged, p, c))
		}
	}

	prevHashes := hashSet(previous)
	currHashes := hashSet(current)
	for _, c := range current {
		if !prevHashes[c.Hash] {
			c := c
			changes = append(changes, Change{Type: ChangeAdded, Current: &c})
		}
	}
	for _, p := range previous {
		if !currHashes[p.Hash] {
			p := p
			changes = append(changes, Change{Type: ChangeRemoved, Previous: &p})
		}
	}

	return changes
}

func changed(kind ChangeType, previous, current Fixture) Change {
	return Change{Type: kind, Previous: &previous, Current: &current}
}

// index groups fixtures by key. When several fixtures share a key the last one
// wins; keys are returned in order of first appearance.
func index(fixtures []Fixture, key func(Fixture) (string, bool)) (map[string]Fixture, []string) {
	m := make(map[string]Fixture, len(fixtures))
	var order []string
	for _, f := range fixtures {
		k, ok := key(f)
		if !ok {
			continue
		}
		if _, seen := m[k]; !seen {
			order = append(order, k)
		}
		m[k] = f
	}
	return m, order
}

func hashSet(fixtures []Fixture) map[string]bool {
	set := make(map[string]bool, len(fixtures))
	for _, f := range fixtures {
		set[f.Hash] = true
	}
	return set
}

// CountByType tallies changes per kind.
func CountByType(changes []Change) map[ChangeType]int {
	counts := make(map[ChangeType]int)
	for _, c := range changes {
		counts[c.Type]++
	}
	return counts
}
