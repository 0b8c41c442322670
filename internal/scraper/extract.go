package scraper

import (
	"strings"
	"time"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/logger"
	"github.com/amfb-notifier/amfb-notifier/internal/team"
)

// Extractor turns normalized page lines into per-team fixtures.
type Extractor struct {
	// Catalog is the set of anchor names. Requested teams are merged in.
	Catalog []string
	// Matcher recovers the two team names of a match line.
	Matcher team.Matcher
	// IncludeUndated keeps fixtures whose date could not be resolved.
	IncludeUndated bool
	// Now is the clock used by the future filter.
	Now func() time.Time

	log *logger.Logger
}

// NewExtractor returns an Extractor anchored on the built-in catalog using
// the catalog matcher and the wall clock.
func NewExtractor() *Extractor {
	return &Extractor{
		Catalog: team.KnownTeams(),
		Matcher: team.CatalogMatcher{},
		Now:     time.Now,
	}
}

func (e *Extractor) logger() *logger.Logger {
	if e.log != nil {
		return e.log
	}
	return logger.Default().With(logger.Fields{"component": "scraper"})
}

// Extract returns the upcoming fixtures of every requested team found in
// lines. Every requested team has an entry, possibly empty. Lines that do not
// yield two team names, or whose date does not exist, are skipped.
func (e *Extractor) Extract(lines []string, teams []string) map[string][]fixture.Fixture {
	byTeam := make(map[string][]fixture.Fixture, len(teams))
	seen := make(map[string]map[string]bool, len(teams))
	for _, t := range teams {
		byTeam[t] = []fixture.Fixture{}
		seen[t] = make(map[string]bool)
	}
	if len(teams) == 0 {
		return byTeam
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	anchors := team.Merge(e.Catalog, teams)
	log := e.logger()

	for _, m := range scan(lines) {
		text, location := cleanMatchText(m.Text)
		names := e.teamsOf(m.Text, text, anchors)
		if len(names) < 2 {
			log.Debug("skipping match line", logger.Fields{"text": m.Text, "teams_found": len(names)})
			continue
		}

		dateISO := ""
		if m.Date != nil {
			at, ok := fixture.Resolve(m.Date.Year, m.Date.Month, m.Date.Day, m.Hour, m.Minute)
			if !ok {
				log.Debug("skipping match line with invalid date", logger.Fields{"text": m.Text})
				continue
			}
			dateISO = fixture.FormatISO(at)
		}

		for _, t := range teams {
			opponent, ok := opponentOf(t, names[0], names[1])
			if !ok {
				continue
			}
			f := fixture.New(t, opponent, dateISO, location)
			if !f.IsUpcoming(now(), e.IncludeUndated) || seen[t][f.Hash] {
				continue
			}
			seen[t][f.Hash] = true
			byTeam[t] = append(byTeam[t], f)
		}
	}
	return byTeam
}

// teamsOf finds the two sides of a match line. The catalog match comes first.
// When it finds fewer than two names, the raw text's spaced dash decides the
// split; a side holding exactly one catalog name is reported in catalog form,
// any other side verbatim. A SplitFallback matcher only halves the words after
// both have failed.
func (e *Extractor) teamsOf(raw, text string, anchors []string) []string {
	var (
		primary  team.Matcher = team.CatalogMatcher{}
		fallback team.Matcher
	)
	switch m := e.Matcher.(type) {
	case nil:
	case team.SplitFallback:
		primary, fallback = m.Primary(), m
	default:
		primary = m
	}

	if names := primary.MatchTeams(text, anchors); len(names) == 2 {
		return names
	}
	if sides := splitSides(raw); sides != nil {
		for i, side := range sides {
			if names := primary.MatchTeams(side, anchors); len(names) == 1 {
				sides[i] = names[0]
			}
		}
		return sides
	}
	if fallback != nil {
		return fallback.MatchTeams(text, anchors)
	}
	return nil
}

// opponentOf returns the side that does not contain name when one side does.
func opponentOf(name, home, away string) (string, bool) {
	needle := foldName(name)
	if needle == "" {
		return "", false
	}
	switch {
	case strings.Contains(foldName(home), needle):
		return away, true
	case strings.Contains(foldName(away), needle):
		return home, true
	}
	return "", false
}

func foldName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
