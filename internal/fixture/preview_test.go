package fixture

import "testing"

func TestPreview_Mirrored(t *testing.T) {
	byTeam := map[string][]Fixture{
		"X": {New("X", "Y", "2025-10-12T10:00:00+03:00", "")},
		"Y": {New("Y", "X", "2025-10-12T10:00:00+03:00", "")},
	}

	date, fixtures := Preview(byTeam, []string{"X", "Y"})
	if date != "2025-10-12" {
		t.Errorf("date = %q, want 2025-10-12", date)
	}
	if len(fixtures) != 1 {
		t.Fatalf("expected 1 fixture, got %d: %+v", len(fixtures), fixtures)
	}
	if fixtures[0].Team != "X" {
		t.Errorf("expected first listing to be kept, got %+v", fixtures[0])
	}
}

func TestPreview_EarliestDay(t *testing.T) {
	byTeam := map[string][]Fixture{
		"A": {
			New("A", "B", "2025-10-19T10:00:00+03:00", ""),
			New("A", "C", "2025-10-12T12:00:00+03:00", ""),
			New("A", "D", "", ""),
		},
		"E": {
			New("E", "F", "2025-10-12T09:00:00+03:00", ""),
		},
	}

	date, fixtures := Preview(byTeam, []string{"A", "E"})
	if date != "2025-10-12" {
		t.Errorf("date = %q", date)
	}
	if len(fixtures) != 2 {
		t.Fatalf("expected 2 fixtures, got %d", len(fixtures))
	}
	if fixtures[0].Opponent != "F" || fixtures[1].Opponent != "C" {
		t.Errorf("fixtures not sorted by time: %+v", fixtures)
	}
}

func TestPreview_Empty(t *testing.T) {
	date, fixtures := Preview(map[string][]Fixture{"A": {New("A", "B", "", "")}}, []string{"A", "Z"})
	if date != "" || len(fixtures) != 0 {
		t.Errorf("Preview() = %q, %+v; want nothing", date, fixtures)
	}
	if fixtures == nil {
		t.Error("Preview() should return an empty slice, not nil")
	}
}
