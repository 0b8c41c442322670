package calendar

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
)

var stamp = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)

func TestGenerateICS(t *testing.T) {
	f := fixture.New("DNG", "Derby", "2025-10-12T10:00:00+03:00", "Arena Nord, teren 2")

	ics := GenerateICS("DNG", []fixture.Fixture{f}, stamp)

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//AMFB Notifier//amfb-notifier//RO",
		"X-WR-CALNAME:AMFB - DNG",
		"BEGIN:VEVENT",
		"UID:" + f.Hash + "@amfb-notifier",
		"DTSTAMP:20251001T090000Z",
		"DTSTART:20251012T070000Z",
		"DTEND:20251012T080000Z",
		"SUMMARY:DNG vs Derby",
		"DESCRIPTION:Meci AMFB: DNG - Derby\\nOra: 12.10.2025 10:00",
		"LOCATION:Arena Nord\\, teren 2", // Comma is escaped
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	for _, field := range requiredFields {
		if !strings.Contains(ics, field+"\r\n") {
			t.Errorf("ICS missing required field: %s", field)
		}
	}
}

func TestGenerateICS_StandardTime(t *testing.T) {
	f := fixture.New("DNG", "Raiders", "2025-11-02T09:30:00+02:00", "")

	ics := GenerateICS("DNG", []fixture.Fixture{f}, stamp)

	if !strings.Contains(ics, "DTSTART:20251102T073000Z\r\n") {
		t.Errorf("expected winter offset to be applied:\n%s", ics)
	}
	if strings.Contains(ics, "LOCATION:") {
		t.Error("LOCATION should be omitted when unknown")
	}
}

func TestGenerateICS_SkipsUndated(t *testing.T) {
	fixtures := []fixture.Fixture{
		fixture.New("DNG", "Derby", "", ""),
		fixture.New("DNG", "Raiders", "2025-11-02T09:30:00+02:00", ""),
		fixture.New("DNG", "Partizan", "2025-11-09T09:30:00+02:00", ""),
	}

	ics := GenerateICS("DNG", fixtures, stamp)

	if n := strings.Count(ics, "BEGIN:VEVENT"); n != 2 {
		t.Errorf("Expected 2 BEGIN:VEVENT, got %d", n)
	}
	if strings.Contains(ics, "Derby") {
		t.Error("undated fixture should not be exported")
	}
}

func TestGenerateICS_Empty(t *testing.T) {
	ics := GenerateICS("DNG", nil, stamp)

	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Errorf("empty calendar should still be well formed:\n%s", ics)
	}
	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("empty calendar should have no events")
	}
}

func TestGenerateICS_FoldsLongLines(t *testing.T) {
	location := "Baza sportivă Ștefan cel Mare, terenul sintetic din spatele tribunei principale"
	f := fixture.New("DNG", "Derby", "2025-10-12T10:00:00+03:00", location)

	ics := GenerateICS("DNG", []fixture.Fixture{f}, stamp)

	for _, line := range strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n") {
		if len(line) > maxLineOctets {
			t.Errorf("line exceeds %d octets: %q", maxLineOctets, line)
		}
		if !utf8.ValidString(line) {
			t.Errorf("fold split a UTF-8 sequence: %q", line)
		}
	}

	unfolded := strings.ReplaceAll(ics, "\r\n ", "")
	if !strings.Contains(unfolded, "LOCATION:Baza sportivă Ștefan cel Mare\\, terenul sintetic") {
		t.Errorf("unfolded location missing:\n%s", unfolded)
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Simple text", "Simple text"},
		{"Text, with comma", "Text\\, with comma"},
		{"Text; with semicolon", "Text\\; with semicolon"},
		{"Text\\with backslash", "Text\\\\with backslash"},
		{"Text\nwith newline", "Text\\nwith newline"},
		{"Text\r\nwith CRLF", "Text\\nwith CRLF"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeICS(tt.input); got != tt.expected {
				t.Errorf("escapeICS(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
