package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/logger"
)

var testNow = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return data
}

func newTestScraper(url string) *Scraper {
	s := New(Config{URL: url}).WithLogger(logger.Discard())
	s.Extractor().Now = func() time.Time { return testNow }
	return s
}

func TestNormalize(t *testing.T) {
	input := `<div><p>DATA Sâmbătă 04.10.2025</p><p>10:00 DNG<br>11:00   Derby</p></div>
<table><tr><td>12.10.2025</td><td>10:00</td></tr></table><script>ignored()</script>`

	lines, err := Normalize(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	expected := []string{
		"DATA Sâmbătă 04.10.2025",
		"10:00 DNG",
		"11:00 Derby",
		"12.10.2025 10:00",
	}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d: %q", len(expected), len(lines), lines)
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d = %q, expected %q", i, lines[i], expected[i])
		}
	}
}

func TestStep(t *testing.T) {
	var state scanState

	state, found := step(state, "10:00 DNG Derby")
	if len(found) != 1 || found[0].Date != nil {
		t.Fatalf("expected one undated match before any header, got %+v", found)
	}

	state, found = step(state, "DATA Duminică 5.10.2025")
	if len(found) != 0 {
		t.Fatalf("header line should not yield matches, got %+v", found)
	}
	if state.date == nil || state.date.Day != 5 || state.date.Month != time.October || state.date.Year != 2025 {
		t.Fatalf("cursor not updated: %+v", state.date)
	}

	_, found = step(state, "09:00 DNG Derby 11:30 Raiders Partizan")
	if len(found) != 2 {
		t.Fatalf("expected two matches, got %d", len(found))
	}
	if found[0].Text != "DNG Derby" || found[0].Hour != 9 {
		t.Errorf("first match = %+v", found[0])
	}
	if found[1].Text != "Raiders Partizan" || found[1].Hour != 11 || found[1].Minute != 30 {
		t.Errorf("second match = %+v", found[1])
	}
	if found[1].Date == nil || found[1].Date.Day != 5 {
		t.Errorf("second match should carry the cursor date")
	}
}

func TestStep_HeaderMidLine(t *testing.T) {
	state, found := step(scanState{}, "12.10.2025 10:00 DNG - Derby")
	if len(found) != 1 {
		t.Fatalf("expected one match, got %d", len(found))
	}
	if found[0].Date == nil || found[0].Date.Day != 12 {
		t.Errorf("match should use the date preceding it on the line")
	}
	if state.date == nil || state.date.Day != 12 {
		t.Errorf("cursor should carry to the next line")
	}
}

func TestCleanMatchText(t *testing.T) {
	tests := []struct {
		input    string
		clean    string
		location string
	}{
		{"DNG / Sport Team", "DNG Sport Team", ""},
		{"Rezultat 3-1 Raiders Real Sport", "Raiders Real Sport", ""},
		{"Etapa 5 DNG - Derby", "DNG Derby", ""},
		{"ACS Juniorul 2014 Metaloglobus", "ACS Juniorul 2014 Metaloglobus", ""},
		{"DNG Derby Teren: Arena Nord", "DNG Derby", "Arena Nord"},
		{"Duminică, ora DNG (Derby)", "DNG Derby", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			clean, location := cleanMatchText(tt.input)
			if clean != tt.clean {
				t.Errorf("clean = %q, expected %q", clean, tt.clean)
			}
			if location != tt.location {
				t.Errorf("location = %q, expected %q", location, tt.location)
			}
		})
	}
}

func TestFixtures_TextLayout(t *testing.T) {
	data := loadFixture(t, "schedule_text.html")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != UserAgent {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Write(data)
	}))
	defer server.Close()

	teams := []string{"DNG", "Partizan", "Raiders", "ACS Juniorul 2014", "Acad MCR", "Alex. Vaidean", "Metaloglobus", "Zimbrii"}
	result := newTestScraper(server.URL).Fixtures(context.Background(), teams)
	if !result.Available {
		t.Fatal("expected result to be available")
	}

	expected := map[string][]fixture.Fixture{
		"DNG": {
			fixture.New("DNG", "Sport Team", "2025-10-04T10:00:00+03:00", ""),
			fixture.New("DNG", "Derby", "2025-10-26T10:00:00+02:00", ""),
		},
		"Partizan":          {fixture.New("Partizan", "Academic", "2025-10-05T10:30:00+03:00", "")},
		"Raiders":           {fixture.New("Raiders", "Real Sport", "2025-10-04T13:00:00+03:00", "")},
		"ACS Juniorul 2014": {fixture.New("ACS Juniorul 2014", "Metaloglobus", "2025-10-05T09:00:00+03:00", "Baza Sportivă Pipera")},
		"Acad MCR":          {fixture.New("Acad MCR", "D'angelo", "2025-10-05T12:00:00+03:00", "")},
		"Alex. Vaidean":     {fixture.New("Alex. Vaidean", "Dan Chilom", "2025-10-04T11:30:00+03:00", "")},
		"Metaloglobus":      {fixture.New("Metaloglobus", "ACS Juniorul 2014", "2025-10-05T09:00:00+03:00", "Baza Sportivă Pipera")},
		"Zimbrii":           {},
	}

	if len(result.ByTeam) != len(expected) {
		t.Fatalf("expected %d teams, got %d", len(expected), len(result.ByTeam))
	}
	for team, want := range expected {
		got, ok := result.ByTeam[team]
		if !ok {
			t.Errorf("missing team %q", team)
			continue
		}
		if len(got) != len(want) {
			t.Errorf("%s: expected %d fixtures, got %d: %+v", team, len(want), len(got), got)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s[%d] = %+v, expected %+v", team, i, got[i], want[i])
			}
		}
	}
}

func TestFixtures_TableLayout(t *testing.T) {
	data := loadFixture(t, "schedule_table.html")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer server.Close()

	result := newTestScraper(server.URL).Fixtures(context.Background(), []string{"DNG"})
	got := result.ByTeam["DNG"]
	want := []fixture.Fixture{
		fixture.New("DNG", "Derby", "2025-10-12T10:00:00+03:00", "Arena Nord"),
		fixture.New("DNG", "Raiders", "2025-10-19T09:30:00+03:00", ""),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d fixtures, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fixture %d = %+v, expected %+v", i, got[i], want[i])
		}
	}
}

func TestExtract_TableRows(t *testing.T) {
	page := `<table>
<tr><th>Data</th><th>Meci</th><th>Loc</th></tr>
<tr><td>12.10.2025 10:00</td><td>DNG - Derby</td><td>Arena Nord</td></tr>
<tr><td>12.10.2025 12:00</td><td>DNG - Vulturii Noi</td><td>Teren 2</td></tr>
<tr><td>19.10.2025 09:30</td><td>Raiders-DNG</td><td>Locație: Baza Pipera</td></tr>
</table>`

	lines, err := Normalize(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	wantLines := []string{
		"Data Meci Loc",
		"12.10.2025 10:00 DNG - Derby Teren: Arena Nord",
		"12.10.2025 12:00 DNG - Vulturii Noi Teren: Teren 2",
		"19.10.2025 09:30 Raiders - DNG Teren: Baza Pipera",
	}
	if strings.Join(lines, "\n") != strings.Join(wantLines, "\n") {
		t.Fatalf("lines = %q, expected %q", lines, wantLines)
	}

	e := NewExtractor()
	e.Now = func() time.Time { return testNow }
	got := e.Extract(lines, []string{"DNG"})["DNG"]
	want := []fixture.Fixture{
		fixture.New("DNG", "Derby", "2025-10-12T10:00:00+03:00", "Arena Nord"),
		fixture.New("DNG", "Vulturii Noi", "2025-10-12T12:00:00+03:00", "Teren 2"),
		fixture.New("DNG", "Raiders", "2025-10-19T09:30:00+03:00", "Baza Pipera"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d fixtures, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fixture %d = %+v, expected %+v", i, got[i], want[i])
		}
	}
}

func TestSplitSides(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"DNG - Vulturii Noi", []string{"DNG", "Vulturii Noi"}},
		{"Etapa 5 Soimii – Zimbrii Teren: Pipera", []string{"Soimii", "Zimbrii"}},
		{"Soimii 2 - 1 Zimbrii", nil},
		{"Soimii Zimbrii", nil},
		{"A - B - C", nil},
		{"Rezultat - Zimbrii", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := splitSides(tt.text)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || (got == nil) != (tt.want == nil) {
				t.Errorf("splitSides(%q) = %q, expected %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtract_NameWithoutTrailingDot(t *testing.T) {
	lines := []string{"DATA Duminică 05.10.2025", "10:00 Marius L - Partizan"}

	e := NewExtractor()
	e.Now = func() time.Time { return testNow }
	got := e.Extract(lines, []string{"Marius L."})["Marius L."]
	if len(got) != 1 || got[0].Opponent != "Partizan" || got[0].DateISO != "2025-10-05T10:00:00+03:00" {
		t.Fatalf("expected one fixture against Partizan, got %+v", got)
	}
}

func TestFixtures_EmptyDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Nu exista program momentan.</p></body></html>"))
	}))
	defer server.Close()

	result := newTestScraper(server.URL).Fixtures(context.Background(), []string{"DNG", "Derby"})
	if !result.Available {
		t.Fatal("an empty schedule is still a successful fetch")
	}
	for _, team := range []string{"DNG", "Derby"} {
		list, ok := result.ByTeam[team]
		if !ok || list == nil || len(list) != 0 {
			t.Errorf("%s: expected empty non-nil list, got %#v", team, list)
		}
	}
}

func TestFixtures_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result := newTestScraper(server.URL).Fixtures(context.Background(), []string{"DNG"})
	if result.Available {
		t.Error("expected result to be unavailable")
	}
	if list, ok := result.ByTeam["DNG"]; !ok || len(list) != 0 {
		t.Errorf("expected empty list for DNG, got %#v", list)
	}
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("<p>ok</p>"))
	}))
	defer server.Close()

	s := New(Config{URL: server.URL, MaxRetries: 2}).WithLogger(logger.Discard())
	body, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != "<p>ok</p>" {
		t.Errorf("unexpected body %q", body)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestFetch_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	s := New(Config{URL: server.URL, MaxRetries: 3}).WithLogger(logger.Discard())
	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 403")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected a single call, got %d", got)
	}
}

func TestExtract_SplitFallback(t *testing.T) {
	lines := []string{"DATA Duminică 05.10.2025", "10:00 Zimbrii Noi Soimii Vechi"}

	strict := NewExtractor()
	strict.Now = func() time.Time { return testNow }
	// The requested name becomes an anchor, but the other side is unknown.
	if got := strict.Extract(lines, []string{"Zimbrii Noi"})["Zimbrii Noi"]; len(got) != 0 {
		t.Fatalf("strict matcher should discard the line, got %+v", got)
	}

	s := New(Config{SplitFallback: true}).WithLogger(logger.Discard())
	s.Extractor().Now = func() time.Time { return testNow }
	got := s.Extractor().Extract(lines, []string{"Zimbrii Noi"})["Zimbrii Noi"]
	if len(got) != 1 || got[0].Opponent != "Soimii Vechi" {
		t.Fatalf("split fallback should pair halves, got %+v", got)
	}
}

func TestExtract_UndatedFixtures(t *testing.T) {
	lines := []string{"10:00 DNG Derby"}

	e := NewExtractor()
	e.Now = func() time.Time { return testNow }
	if got := e.Extract(lines, []string{"DNG"})["DNG"]; len(got) != 0 {
		t.Errorf("undated fixtures should be excluded by default, got %+v", got)
	}

	e.IncludeUndated = true
	got := e.Extract(lines, []string{"DNG"})["DNG"]
	if len(got) != 1 || got[0].DateISO != "" || got[0].Opponent != "Derby" {
		t.Errorf("expected one undated fixture, got %+v", got)
	}
}

func TestExtract_InvalidDateSkipsLine(t *testing.T) {
	e := NewExtractor()
	e.Now = func() time.Time { return testNow }
	got := e.Extract([]string{"DATA Luni 31.02.2026", "10:00 DNG Derby"}, []string{"DNG"})["DNG"]
	if len(got) != 0 {
		t.Errorf("expected line with impossible date to be skipped, got %+v", got)
	}
}

func TestDiscoverTeams(t *testing.T) {
	data := loadFixture(t, "schedule_text.html")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer server.Close()

	teams := newTestScraper(server.URL).DiscoverTeams(context.Background())
	want := map[string]bool{"DNG": true, "Derby": true, "Metaloglobus": true, "D'angelo": true}
	found := 0
	for _, name := range teams {
		if want[name] {
			found++
		}
	}
	if found != len(want) {
		t.Errorf("expected discovery to include %v, got %v", want, teams)
	}
}

func TestDiscoverTeams_FallsBackToCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	teams := newTestScraper(server.URL).DiscoverTeams(context.Background())
	if len(teams) != 14 {
		t.Errorf("expected the 14 catalog teams, got %d", len(teams))
	}
}
