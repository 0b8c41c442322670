package fixture

// SelectNotifyTargets returns the current-side fixture of every added,
// time_changed and opponent_changed change, deduplicated by hash and in order
// of first appearance. Removals have no current fixture and contribute nothing.
func SelectNotifyTargets(changes []Change) []Fixture {
	seen := make(map[string]bool)
	var out []Fixture
	for _, c := range changes {
		switch c.Type {
		case ChangeAdded, ChangeTimeChanged, ChangeOpponentChanged:
		default:
			continue
		}
		if c.Current == nil || seen[c.Current.Hash] {
			continue
		}
		seen[c.Current.Hash] = true
		out = append(out, *c.Current)
	}
	return out
}

// TeamReport is the outcome of comparing one team's snapshots.
type TeamReport struct {
	Team    string    `json:"team"`
	Current []Fixture `json:"current"`
	Changes []Change  `json:"changes,omitempty"`
	Notify  []Fixture `json:"notify,omitempty"`
	// Unseen lists current fixtures missing from the previous hash snapshot.
	Unseen []Fixture `json:"unseen,omitempty"`
}

// Changed reports whether the team has anything to report.
func (r TeamReport) Changed() bool {
	return len(r.Changes) > 0 || len(r.Unseen) > 0
}

// Compare builds a TeamReport from both views of the previous snapshot: the
// full fixture list drives Diff, the hash list catches fixtures the full view
// may have missed.
func Compare(team string, previous []Fixture, previousHashes []string, current []Fixture) TeamReport {
	known := make(map[string]bool, len(previousHashes))
	for _, h := range previousHashes {
		known[h] = true
	}
	var unseen []Fixture
	for _, f := range current {
		if !known[f.Hash] {
			unseen = append(unseen, f)
		}
	}

	changes := Diff(previous, current)
	return TeamReport{
		Team:    team,
		Current: current,
		Changes: changes,
		Notify:  SelectNotifyTargets(changes),
		Unseen:  unseen,
	}
}
