package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByTeam     SortOrder = "team"
	SortByOpponent SortOrder = "opponent"
)

// ParseSortOrder validates a --sort value.
func ParseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByDate, SortByTeam, SortByOpponent:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'team' or 'opponent')", s)
}

// sortFixtures sorts fixtures in place by the given order
func sortFixtures(fixtures []fixture.Fixture, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(fixtures, func(i, j int) bool {
			return compareByDate(fixtures[i], fixtures[j])
		})
	case SortByTeam:
		sort.SliceStable(fixtures, func(i, j int) bool {
			if a, b := strings.ToLower(fixtures[i].Team), strings.ToLower(fixtures[j].Team); a != b {
				return a < b
			}
			// If teams are equal, sort by date
			return compareByDate(fixtures[i], fixtures[j])
		})
	case SortByOpponent:
		sort.SliceStable(fixtures, func(i, j int) bool {
			if a, b := strings.ToLower(fixtures[i].Opponent), strings.ToLower(fixtures[j].Opponent); a != b {
				return a < b
			}
			return compareByDate(fixtures[i], fixtures[j])
		})
	}
}

// compareByDate returns true if fixture i kicks off before fixture j.
// Undated fixtures go last, ordered by team then opponent.
func compareByDate(i, j fixture.Fixture) bool {
	dateI := fixture.ParseISO(i.DateISO)
	dateJ := fixture.ParseISO(j.DateISO)

	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() {
		return true
	}
	if !dateJ.IsZero() {
		return false
	}

	if i.Team != j.Team {
		return strings.ToLower(i.Team) < strings.ToLower(j.Team)
	}
	return strings.ToLower(i.Opponent) < strings.ToLower(j.Opponent)
}
