package fixture

import "testing"

func TestHash(t *testing.T) {
	h1 := Hash("Raiders", "Partizan", "2025-10-12T10:00:00+03:00")
	h2 := Hash("Raiders", "Partizan", "2025-10-12T10:00:00+03:00")

	if h1 != h2 {
		t.Errorf("Hash should be deterministic, got %s vs %s", h1, h2)
	}
	if len(h1) != 40 { // SHA1 produces 40 hex characters
		t.Errorf("expected hash length of 40, got %d", len(h1))
	}

	variants := []string{
		Hash("Derby", "Partizan", "2025-10-12T10:00:00+03:00"),
		Hash("Raiders", "DNG", "2025-10-12T10:00:00+03:00"),
		Hash("Raiders", "Partizan", "2025-10-12T11:00:00+03:00"),
		Hash("Raiders", "Partizan", ""),
	}
	for i, v := range variants {
		if v == h1 {
			t.Errorf("variant %d should hash differently", i)
		}
	}
}

func TestNew(t *testing.T) {
	f := New("Raiders", "Partizan", "2025-10-12T10:00:00+03:00", "Teren 2")

	if f.Hash != Hash("Raiders", "Partizan", "2025-10-12T10:00:00+03:00") {
		t.Errorf("New() hash = %q, want hash of team|opponent|date", f.Hash)
	}
	if f.Location != "Teren 2" {
		t.Errorf("New() location = %q, want Teren 2", f.Location)
	}
	if New("Raiders", "Partizan", "2025-10-12T10:00:00+03:00", "").Hash != f.Hash {
		t.Error("location must not take part in the hash")
	}
}

func TestHashes(t *testing.T) {
	a := New("A", "B", "", "")
	b := New("A", "C", "", "")

	got := Hashes([]Fixture{a, b})
	if len(got) != 2 || got[0] != a.Hash || got[1] != b.Hash {
		t.Errorf("Hashes() = %v", got)
	}
	if got := Hashes(nil); got == nil || len(got) != 0 {
		t.Errorf("Hashes(nil) = %#v, want empty slice", got)
	}
}
