package fixture

import (
	"fmt"
	"time"
)

// ISOLayout is the fixed-offset timestamp format stored in Fixture.DateISO.
const ISOLayout = "2006-01-02T15:04:05-07:00"

const (
	standardOffset = 2 * 60 * 60
	summerOffset   = 3 * 60 * 60
)

// lastSunday returns the day of month of the last Sunday in the given month.
func lastSunday(year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return last.Day() - int(last.Weekday())
}

// OffsetSeconds returns the league's UTC offset for a calendar date: summer
// time from the last Sunday of March (inclusive) until the last Sunday of
// October (exclusive), standard time otherwise.
func OffsetSeconds(year int, month time.Month, day int) int {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	start := time.Date(year, time.March, lastSunday(year, time.March), 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.October, lastSunday(year, time.October), 0, 0, 0, 0, time.UTC)
	if !d.Before(start) && d.Before(end) {
		return summerOffset
	}
	return standardOffset
}

// Offset formats OffsetSeconds as "+HH:MM".
func Offset(year int, month time.Month, day int) string {
	secs := OffsetSeconds(year, month, day)
	return fmt.Sprintf("+%02d:%02d", secs/3600, (secs%3600)/60)
}

// Zone returns a fixed zone carrying the offset for the given date.
func Zone(year int, month time.Month, day int) *time.Location {
	return time.FixedZone(Offset(year, month, day), OffsetSeconds(year, month, day))
}

// Resolve combines a calendar date and a kick-off time into the league's local
// time. It reports false when the date does not exist (31.02, 00.13).
func Resolve(year int, month time.Month, day, hour, minute int) (time.Time, bool) {
	if month < time.January || month > time.December || hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, hour, minute, 0, 0, Zone(year, month, day))
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// FormatISO renders t in ISOLayout.
func FormatISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// ParseISO parses a DateISO value. It returns the zero time for empty or
// malformed input.
func ParseISO(dateISO string) time.Time {
	if dateISO == "" {
		return time.Time{}
	}
	t, err := time.Parse(ISOLayout, dateISO)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StartOfDay returns midnight of now's calendar day in league time.
func StartOfDay(now time.Time) time.Time {
	u := now.UTC()
	local := u.In(Zone(u.Year(), u.Month(), u.Day()))
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0,
		Zone(local.Year(), local.Month(), local.Day()))
}

// IsUpcoming reports whether the fixture starts strictly after the start of
// today. Undated fixtures are upcoming only when includeUndated is set.
func (f Fixture) IsUpcoming(now time.Time, includeUndated bool) bool {
	at := ParseISO(f.DateISO)
	if at.IsZero() {
		return includeUndated
	}
	return at.After(StartOfDay(now))
}

// DateKey returns the YYYY-MM-DD part of DateISO, or "" when undated.
func (f Fixture) DateKey() string {
	if len(f.DateISO) < 10 {
		return ""
	}
	return f.DateISO[:10]
}
