package subscription

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrNoTeams      = errors.New("at least one team is required")
)

// Subscription is one subscriber and the teams they follow.
type Subscription struct {
	Email     string   `json:"email"`
	Teams     []string `json:"teams"`
	CreatedAt int64    `json:"createdAt"` // unix milliseconds
}

// Subscriptions maps subscription IDs to subscriptions.
type Subscriptions map[string]Subscription

// NormalizeEmail validates address and returns its canonical form, which is
// also the subscription ID.
func NormalizeEmail(address string) (string, error) {
	address = strings.TrimSpace(address)
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address || !strings.Contains(address[strings.LastIndex(address, "@")+1:], ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, address)
	}
	return strings.ToLower(address), nil
}

// New validates the input and returns the subscription and its ID. Teams are
// trimmed and deduplicated case-insensitively, keeping the first spelling.
func New(email string, teams []string, now time.Time) (string, Subscription, error) {
	id, err := NormalizeEmail(email)
	if err != nil {
		return "", Subscription{}, err
	}

	seen := make(map[string]bool, len(teams))
	clean := make([]string, 0, len(teams))
	for _, t := range teams {
		t = strings.Join(strings.Fields(t), " ")
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		clean = append(clean, t)
	}
	if len(clean) == 0 {
		return "", Subscription{}, ErrNoTeams
	}

	return id, Subscription{
		Email:     strings.TrimSpace(email),
		Teams:     clean,
		CreatedAt: now.UnixMilli(),
	}, nil
}

// IDs returns the subscription IDs in sorted order.
func (s Subscriptions) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Teams returns the union of followed teams, in order of first appearance
// when walking subscriptions by ID.
func (s Subscriptions) Teams() []string {
	seen := make(map[string]bool)
	var teams []string
	for _, id := range s.IDs() {
		for _, t := range s[id].Teams {
			if !seen[t] {
				seen[t] = true
				teams = append(teams, t)
			}
		}
	}
	return teams
}

// Follows reports whether the subscription includes team.
func (sub Subscription) Follows(team string) bool {
	for _, t := range sub.Teams {
		if t == team {
			return true
		}
	}
	return false
}

// ToJSON serializes subscriptions.
func (s Subscriptions) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FromJSON deserializes subscriptions. Empty input yields an empty set.
func FromJSON(data []byte) (Subscriptions, error) {
	subs := make(Subscriptions)
	if len(strings.TrimSpace(string(data))) == 0 {
		return subs, nil
	}
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("unmarshaling subscriptions: %w", err)
	}
	if subs == nil {
		subs = make(Subscriptions)
	}
	return subs, nil
}
