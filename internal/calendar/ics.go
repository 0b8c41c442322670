// Package calendar exports fixtures as iCalendar (.ics) documents.
package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
)

// MatchDuration is the length given to each calendar entry.
const MatchDuration = time.Hour

// maxLineOctets is the content line limit before folding.
const maxLineOctets = 75

// GenerateICS generates a calendar with one event per dated fixture of team.
// Undated fixtures have no place on a calendar and are left out.
func GenerateICS(team string, fixtures []fixture.Fixture, now time.Time) string {
	w := &icsWriter{}

	w.line("BEGIN", "VCALENDAR")
	w.line("VERSION", "2.0")
	w.line("PRODID", "-//AMFB Notifier//amfb-notifier//RO")
	w.line("CALSCALE", "GREGORIAN")
	w.line("METHOD", "PUBLISH")
	w.text("X-WR-CALNAME", "AMFB - "+team)
	w.line("X-WR-TIMEZONE", "Europe/Bucharest")

	for _, f := range fixtures {
		start := fixture.ParseISO(f.DateISO)
		if start.IsZero() {
			continue
		}
		w.event(f, start, now)
	}

	w.line("END", "VCALENDAR")
	return w.String()
}

type icsWriter struct {
	strings.Builder
}

func (w *icsWriter) event(f fixture.Fixture, start, now time.Time) {
	w.line("BEGIN", "VEVENT")
	// A rescheduled match gets a new hash, so it shows up as a new entry.
	w.line("UID", f.Hash+"@amfb-notifier")
	w.line("DTSTAMP", formatICSTime(now))
	w.line("DTSTART", formatICSTime(start))
	w.line("DTEND", formatICSTime(start.Add(MatchDuration)))
	w.text("SUMMARY", f.Team+" vs "+f.Opponent)
	w.text("DESCRIPTION", fmt.Sprintf("Meci AMFB: %s - %s\nOra: %s", f.Team, f.Opponent, start.Format("02.01.2006 15:04")))
	if f.Location != "" {
		w.text("LOCATION", f.Location)
	}
	w.line("STATUS", "CONFIRMED")
	w.line("TRANSP", "OPAQUE")
	w.line("END", "VEVENT")
}

// text writes a property whose value is free text.
func (w *icsWriter) text(name, value string) {
	w.line(name, escapeICS(value))
}

// line writes name:value, folding it into continuation lines that start with
// a space once it exceeds maxLineOctets. Folds never split a UTF-8 sequence.
func (w *icsWriter) line(name, value string) {
	content := name + ":" + value
	limit := maxLineOctets
	for len(content) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		w.WriteString(content[:cut])
		w.WriteString("\r\n ")
		content = content[cut:]
		limit = maxLineOctets - 1
	}
	w.WriteString(content)
	w.WriteString("\r\n")
}

func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes TEXT values per RFC 5545.
func escapeICS(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		",", `\,`,
		";", `\;`,
		"\r\n", `\n`,
		"\n", `\n`,
	).Replace(s)
}
