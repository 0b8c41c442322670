// Package scraper fetches the league's schedule page and turns it into
// per-team fixtures.
//
// The page has changed layout more than once: first an HTML table, then free
// text with "DATA <weekday> DD.MM.YYYY" headers followed by "HH:MM TeamA
// TeamB" lines. Both are handled by flattening the markup into text lines and
// folding over them with a date cursor. Team names are recovered with a
// pluggable team.Matcher anchored on the catalog.
package scraper
