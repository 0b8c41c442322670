package subscription

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"ana@example.com", "ana@example.com", false},
		{"  Ana.Pop@Example.RO ", "ana.pop@example.ro", false},
		{"not-an-email", "", true},
		{"ana@localhost", "", true},
		{"Ana <ana@example.com>", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeEmail(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEmail) {
					t.Errorf("NormalizeEmail(%q) error = %v, want ErrInvalidEmail", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeEmail(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	id, sub, err := New("Ana@Example.com", []string{" DNG ", "dng", "Sport  Team", ""}, now)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if id != "ana@example.com" {
		t.Errorf("id = %q", id)
	}
	if sub.Email != "Ana@Example.com" {
		t.Errorf("Email = %q", sub.Email)
	}
	if len(sub.Teams) != 2 || sub.Teams[0] != "DNG" || sub.Teams[1] != "Sport Team" {
		t.Errorf("Teams = %q", sub.Teams)
	}
	if sub.CreatedAt != now.UnixMilli() {
		t.Errorf("CreatedAt = %d, want %d", sub.CreatedAt, now.UnixMilli())
	}

	if _, _, err := New("ana@example.com", []string{" "}, now); !errors.Is(err, ErrNoTeams) {
		t.Errorf("expected ErrNoTeams, got %v", err)
	}
	if _, _, err := New("bad", []string{"DNG"}, now); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestSubscriptionsTeams(t *testing.T) {
	subs := Subscriptions{
		"b@example.com": {Email: "b@example.com", Teams: []string{"Derby", "DNG"}},
		"a@example.com": {Email: "a@example.com", Teams: []string{"DNG", "Raiders"}},
	}

	got := subs.Teams()
	want := []string{"DNG", "Raiders", "Derby"}
	if len(got) != len(want) {
		t.Fatalf("Teams() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Teams()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if ids := subs.IDs(); ids[0] != "a@example.com" || ids[1] != "b@example.com" {
		t.Errorf("IDs() = %q", ids)
	}
	if !subs["a@example.com"].Follows("Raiders") || subs["b@example.com"].Follows("Raiders") {
		t.Error("Follows() mismatch")
	}
}

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantLen int
		wantErr bool
	}{
		{"empty", "", 0, false},
		{"null", "null", 0, false},
		{"object", `{"ana@example.com":{"email":"ana@example.com","teams":["DNG"],"createdAt":1}}`, 1, false},
		{"invalid", `{`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs, err := FromJSON([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(subs) != tt.wantLen {
				t.Errorf("FromJSON() len = %d, want %d", len(subs), tt.wantLen)
			}
		})
	}
}
