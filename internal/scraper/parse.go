package scraper

import (
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Normalize flattens an HTML (or plain text) document into trimmed,
// whitespace-collapsed, non-empty lines. Line breaks and block elements become
// newlines; table cells are separated by a space. Schedule rows with at least
// three cells (kick-off, match, venue) become one line, see tableRowLine.
func Normalize(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(textNode("\n"))
	})
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() < 3 {
			return
		}
		line := tableRowLine(cellText(cells.Eq(0)), cellText(cells.Eq(1)), cellText(cells.Eq(2)))
		row.Empty()
		row.AppendNodes(textNode(line))
	})
	appendText(doc.Find("td, th"), " ")
	appendText(doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6, table, section, article"), "\n")

	var lines []string
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

var (
	sideSeparator = regexp.MustCompile(`\s+[-–]\s+`)
	locationLabel = regexp.MustCompile(`(?i)^(?:teren|loca[tț]ie|loca[tț]ia)\s*:\s*`)
)

// tableRowLine rewrites a schedule row as "<kick-off> <home> - <away>
// Teren: <venue>". The match cell keeps a spaced dash between the sides so
// Extract can split it when a side is not in the catalog. The venue cell is
// taken whole, without a label of its own.
func tableRowLine(when, match, venue string) string {
	if !sideSeparator.MatchString(match) && strings.Count(match, "-") == 1 {
		home, away, _ := strings.Cut(match, "-")
		match = strings.TrimSpace(home) + " - " + strings.TrimSpace(away)
	}
	parts := []string{when, match}
	if venue = strings.TrimSpace(locationLabel.ReplaceAllString(venue, "")); venue != "" {
		parts = append(parts, "Teren: "+venue)
	}
	return strings.Join(parts, " ")
}

func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

func textNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

func appendText(sel *goquery.Selection, text string) {
	for _, n := range sel.Nodes {
		n.AppendChild(textNode(text))
	}
}

// calendarDate is a day taken from a date header.
type calendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// scanState is carried from line to line while scanning the page.
type scanState struct {
	date *calendarDate
}

// matchLine is a kick-off time with the text that follows it, tagged with the
// date header in force at that point (nil when none was seen yet).
type matchLine struct {
	Date   *calendarDate
	Hour   int
	Minute int
	Text   string
}

var (
	// "DATA Duminică 12.10.2025", "Data: sambata, 4.10.2025" or a bare
	// "12.10.2025" as found in the old table layout.
	datePattern = regexp.MustCompile(`(?i)(?:\bdat[ae]\b\s*:?\s*(?:\p{L}+\s*,?\s*)?)?\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)
	timePattern = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

type token struct {
	start, end int
	date       *calendarDate
	hour, min  int
}

// step consumes one line: date headers move the cursor, each kick-off time
// yields a matchLine holding the text up to the next header or time.
func step(state scanState, line string) (scanState, []matchLine) {
	var tokens []token

	for _, m := range datePattern.FindAllStringSubmatchIndex(line, -1) {
		day, _ := strconv.Atoi(line[m[2]:m[3]])
		month, _ := strconv.Atoi(line[m[4]:m[5]])
		year, _ := strconv.Atoi(line[m[6]:m[7]])
		tokens = append(tokens, token{
			start: m[0],
			end:   m[1],
			date:  &calendarDate{Year: year, Month: time.Month(month), Day: day},
		})
	}
	for _, m := range timePattern.FindAllStringSubmatchIndex(line, -1) {
		if insideAny(m[0], tokens) {
			continue
		}
		hour, _ := strconv.Atoi(line[m[2]:m[3]])
		minute, _ := strconv.Atoi(line[m[4]:m[5]])
		tokens = append(tokens, token{start: m[0], end: m[1], hour: hour, min: minute})
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].start < tokens[j].start })

	var matches []matchLine
	for i, tok := range tokens {
		if tok.date != nil {
			state.date = tok.date
			continue
		}
		end := len(line)
		if i+1 < len(tokens) {
			end = tokens[i+1].start
		}
		matches = append(matches, matchLine{
			Date:   state.date,
			Hour:   tok.hour,
			Minute: tok.min,
			Text:   strings.TrimSpace(line[tok.end:end]),
		})
	}
	return state, matches
}

func insideAny(pos int, tokens []token) bool {
	for _, t := range tokens {
		if pos >= t.start && pos < t.end {
			return true
		}
	}
	return false
}

// scan folds step over all lines.
func scan(lines []string) []matchLine {
	var (
		state scanState
		out   []matchLine
	)
	for _, line := range lines {
		var found []matchLine
		state, found = step(state, line)
		out = append(out, found...)
	}
	return out
}

var (
	scoreMarker    = regexp.MustCompile(`\b\d+\s*[-:]\s*\d+\b`)
	locationMarker = regexp.MustCompile(`(?i)\b(?:teren|loca[tț]ie|loca[tț]ia)\s*:?\s*(.+)$`)
)

// noiseWords are dropped from match text wherever they appear.
var noiseWords = map[string]bool{
	"rezultat": true, "data": true, "date": true, "ora": true, "vs": true,
	"luni": true, "marti": true, "marți": true, "marţi": true, "miercuri": true,
	"joi": true, "vineri": true, "sambata": true, "sâmbătă": true, "sâmbata": true,
	"duminica": true, "duminică": true,
}

// roundWords are dropped together with the round number that follows them.
var roundWords = map[string]bool{"etapa": true, "etapă": true, "runda": true, "rundă": true}

// cleanMatchText strips noise tokens from the text following a kick-off time
// and splits off an explicit location marker.
func cleanMatchText(text string) (clean, location string) {
	if m := locationMarker.FindStringSubmatchIndex(text); m != nil {
		location = strings.TrimSpace(text[m[2]:m[3]])
		text = text[:m[0]]
	}
	text = scoreMarker.ReplaceAllString(text, " ")

	fields := strings.Fields(text)
	kept := make([]string, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		word := strings.ToLower(strings.Trim(fields[i], ",:;"))
		switch {
		case word == "" || strings.Trim(word, "-–—/|()[]") == "":
			continue
		case noiseWords[word]:
			continue
		case roundWords[word]:
			if i+1 < len(fields) && isNumber(fields[i+1]) {
				i++
			}
			continue
		}
		kept = append(kept, strings.Trim(fields[i], ",;|/()[]"))
	}
	return strings.Join(kept, " "), location
}

// splitSides splits a match text at its only spaced dash and cleans both
// sides. It returns nil when there is no such dash, more than one, or a side
// is left empty. Scores ("3-1", "2 - 0") are not separators.
func splitSides(text string) []string {
	if m := locationMarker.FindStringIndex(text); m != nil {
		text = text[:m[0]]
	}
	text = scoreMarker.ReplaceAllString(text, " ")

	parts := sideSeparator.Split(strings.TrimSpace(text), -1)
	if len(parts) != 2 {
		return nil
	}
	sides := make([]string, 0, 2)
	for _, p := range parts {
		clean, _ := cleanMatchText(p)
		if clean == "" {
			return nil
		}
		sides = append(sides, clean)
	}
	return sides
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
