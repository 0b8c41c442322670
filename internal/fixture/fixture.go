package fixture

import (
	"crypto/sha1"
	"fmt"
)

// Fixture is one scheduled match seen from one team's side. Values are never
// modified after construction; a changed field means a new Fixture.
type Fixture struct {
	Team     string `json:"team"`
	Opponent string `json:"opponent"`
	DateISO  string `json:"dateISO"` // "2006-01-02T15:04:05-07:00", empty when unknown
	Location string `json:"location,omitempty"`
	Hash     string `json:"hash"`
}

// Hash returns the hex SHA1 of "team|opponent|dateISO".
func Hash(team, opponent, dateISO string) string {
	h := sha1.New()
	h.Write([]byte(team + "|" + opponent + "|" + dateISO))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates a Fixture with its hash populated.
func New(team, opponent, dateISO, location string) Fixture {
	return Fixture{
		Team:     team,
		Opponent: opponent,
		DateISO:  dateISO,
		Location: location,
		Hash:     Hash(team, opponent, dateISO),
	}
}

// Hashes returns the hashes of fixtures in order.
func Hashes(fixtures []Fixture) []string {
	out := make([]string, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, f.Hash)
	}
	return out
}
