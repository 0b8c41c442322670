package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/notify"
	"github.com/amfb-notifier/amfb-notifier/internal/tracker"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// CheckOutput is the result of the check command.
type CheckOutput struct {
	CheckedAt       time.Time                   `json:"checked_at"`
	Teams           []string                    `json:"teams"`
	Subscribers     int                         `json:"subscribers"`
	SourceAvailable bool                        `json:"source_available"`
	ChangeCount     int                         `json:"change_count"`
	ByTeam          map[string][]fixture.Change `json:"by_team,omitempty"`
	Sent            int                         `json:"sent"`
	Failed          int                         `json:"failed"`
	Persisted       bool                        `json:"persisted"`
}

// NewCheckOutput summarizes a run.
func NewCheckOutput(result tracker.RunResult, at time.Time) *CheckOutput {
	out := &CheckOutput{
		CheckedAt:       at.UTC(),
		Teams:           result.Teams,
		Subscribers:     result.Subscribers,
		SourceAvailable: result.SourceAvailable,
		Sent:            result.Sent,
		Failed:          result.Failed,
		Persisted:       result.Persisted,
	}
	for team, rep := range result.Reports {
		if len(rep.Changes) == 0 {
			continue
		}
		if out.ByTeam == nil {
			out.ByTeam = make(map[string][]fixture.Change)
		}
		out.ByTeam[team] = rep.Changes
		out.ChangeCount += len(rep.Changes)
	}
	return out
}

// FixturesOutput lists fixtures, optionally for a single match day.
type FixturesOutput struct {
	Date     string            `json:"date,omitempty"`
	Teams    []string          `json:"teams"`
	Fixtures []fixture.Fixture `json:"fixtures"`
}

// WriteCheck writes a check result in the specified format.
func WriteCheck(w io.Writer, result *CheckOutput, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	if !result.SourceAvailable {
		fmt.Fprintln(w, "Schedule page unavailable; previous snapshot kept.")
		return nil
	}
	if len(result.Teams) == 0 {
		fmt.Fprintln(w, "No followed teams.")
		return nil
	}
	if result.ChangeCount == 0 {
		fmt.Fprintln(w, "No changes found.")
		return nil
	}

	teams := make([]string, 0, len(result.ByTeam))
	for team := range result.ByTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	for _, team := range teams {
		changes := result.ByTeam[team]
		fmt.Fprintf(w, "\n%s (%d changes):\n", team, len(changes))
		for _, c := range changes {
			fmt.Fprintf(w, "  %s\n", describeChange(c))
			if verbose && c.Current != nil {
				fmt.Fprintf(w, "       Hash: %s\n", c.Current.Hash)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d changes across %d teams (%d sent, %d failed)\n",
		result.ChangeCount, len(result.ByTeam), result.Sent, result.Failed)
	return nil
}

func describeChange(c fixture.Change) string {
	switch c.Type {
	case fixture.ChangeAdded:
		return fmt.Sprintf("ADDED: %s vs %s, %s", c.Current.Team, c.Current.Opponent, notify.FormatKickoff(*c.Current))
	case fixture.ChangeRemoved:
		return fmt.Sprintf("REMOVED: %s vs %s, %s", c.Previous.Team, c.Previous.Opponent, notify.FormatKickoff(*c.Previous))
	case fixture.ChangeTimeChanged:
		return fmt.Sprintf("TIME CHANGED: %s vs %s, %s -> %s", c.Current.Team, c.Current.Opponent,
			notify.FormatKickoff(*c.Previous), notify.FormatKickoff(*c.Current))
	case fixture.ChangeOpponentChanged:
		return fmt.Sprintf("OPPONENT CHANGED: %s, %s: %s -> %s", c.Current.Team, notify.FormatKickoff(*c.Current),
			c.Previous.Opponent, c.Current.Opponent)
	default:
		return string(c.Type)
	}
}

// WriteFixtures writes a fixture listing in the specified format.
func WriteFixtures(w io.Writer, result *FixturesOutput, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	if len(result.Fixtures) == 0 {
		fmt.Fprintln(w, "No upcoming fixtures found.")
		return nil
	}
	if result.Date != "" {
		fmt.Fprintf(w, "Next match day: %s\n", result.Date)
	}
	for _, f := range result.Fixtures {
		fmt.Fprintln(w, notify.FormatFixtureLine(f.Team, f))
	}
	fmt.Fprintf(w, "\nTotal: %d fixtures\n", len(result.Fixtures))
	return nil
}

// WriteList writes a list of names, one per line, or as a JSON object under
// key.
func WriteList(w io.Writer, key string, items []string, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, map[string][]string{key: items})
	}
	for _, item := range items {
		fmt.Fprintln(w, item)
	}
	return nil
}

// WriteMessage writes a status message, or a JSON object with the message
// and extra fields.
func WriteMessage(w io.Writer, message string, extra map[string]interface{}, format OutputFormat) error {
	if format == FormatJSON {
		payload := map[string]interface{}{"ok": true, "message": message}
		for k, v := range extra {
			payload[k] = v
		}
		return writeJSON(w, payload)
	}
	fmt.Fprintln(w, message)
	return nil
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
