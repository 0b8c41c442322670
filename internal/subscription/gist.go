package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/amfb-notifier/amfb-notifier/internal/crypto"
)

const (
	gistAPIURL   = "https://api.github.com/gists"
	gistFilename = "subscriptions.json"
	timeout      = 15 * time.Second
)

// GistStore keeps subscriptions in a private GitHub Gist. When a sealer is
// configured, entries are keyed by a fingerprint of the ID and email
// addresses are encrypted.
type GistStore struct {
	gistID      string
	githubToken string
	baseURL     string
	httpClient  *http.Client
	sealer      *crypto.Sealer

	mu sync.Mutex
}

// NewGistStore creates a Gist-backed store. encryptionKey may be empty.
func NewGistStore(gistID, githubToken, encryptionKey string) (*GistStore, error) {
	if gistID == "" {
		return nil, fmt.Errorf("gist ID is required")
	}
	if githubToken == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	return &GistStore{
		gistID:      gistID,
		githubToken: githubToken,
		baseURL:     gistAPIURL,
		httpClient:  &http.Client{Timeout: timeout},
		sealer:      crypto.NewSealer(encryptionKey),
	}, nil
}

// WithBaseURL points the store at a different API endpoint.
func (g *GistStore) WithBaseURL(url string) *GistStore {
	g.baseURL = url
	return g
}

// List implements storage.SubscriptionStore.
func (g *GistStore) List(ctx context.Context) (Subscriptions, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.load(ctx)
}

// Add implements storage.SubscriptionStore. An existing entry for id is
// replaced.
func (g *GistStore) Add(ctx context.Context, id string, sub Subscription) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	subs, err := g.load(ctx)
	if err != nil {
		return err
	}
	subs[id] = sub
	return g.save(ctx, subs)
}

// Remove implements storage.SubscriptionStore. Removing an unknown id is not
// an error.
func (g *GistStore) Remove(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	subs, err := g.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := subs[id]; !ok {
		return nil
	}
	delete(subs, id)
	return g.save(ctx, subs)
}

// Count implements storage.SubscriptionStore.
func (g *GistStore) Count(ctx context.Context) (int, error) {
	subs, err := g.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}

// stored is the on-gist form of a subscription. ID is kept sealed so the
// fingerprint key can be mapped back.
type stored struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Teams     []string `json:"teams"`
	CreatedAt int64    `json:"createdAt"`
}

func (g *GistStore) load(ctx context.Context) (Subscriptions, error) {
	url := fmt.Sprintf("%s/%s", g.baseURL, g.gistID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching gist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Don't include response body in error to prevent information leakage
		return nil, fmt.Errorf("GitHub API error (status %d)", resp.StatusCode)
	}

	var gistResp struct {
		Files map[string]struct {
			Content string `json:"content"`
		} `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gistResp); err != nil {
		return nil, fmt.Errorf("decoding gist response: %w", err)
	}

	file, exists := gistResp.Files[gistFilename]
	if !exists {
		return make(Subscriptions), nil
	}

	var entries map[string]stored
	if err := json.Unmarshal([]byte(file.Content), &entries); err != nil {
		return nil, fmt.Errorf("parsing subscriptions: %w", err)
	}

	subs := make(Subscriptions, len(entries))
	for key, e := range entries {
		id, err := g.sealer.Open(e.ID)
		if err != nil {
			return nil, fmt.Errorf("decrypting subscription %s: %w", key, err)
		}
		email, err := g.sealer.Open(e.Email)
		if err != nil {
			return nil, fmt.Errorf("decrypting subscription %s: %w", key, err)
		}
		if id == "" {
			id = key
		}
		subs[id] = Subscription{Email: email, Teams: e.Teams, CreatedAt: e.CreatedAt}
	}
	return subs, nil
}

func (g *GistStore) save(ctx context.Context, subs Subscriptions) error {
	entries := make(map[string]stored, len(subs))
	for id, sub := range subs {
		sealedID, err := g.sealer.Seal(id)
		if err != nil {
			return fmt.Errorf("encrypting subscription: %w", err)
		}
		sealedEmail, err := g.sealer.Seal(sub.Email)
		if err != nil {
			return fmt.Errorf("encrypting subscription: %w", err)
		}
		entries[g.sealer.Fingerprint(id)] = stored{
			ID:        sealedID,
			Email:     sealedEmail,
			Teams:     sub.Teams,
			CreatedAt: sub.CreatedAt,
		}
	}

	content, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling subscriptions: %w", err)
	}

	payload := map[string]interface{}{
		"files": map[string]interface{}{
			gistFilename: map[string]string{
				"content": string(content),
			},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s", g.baseURL, g.gistID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("updating gist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub API error (status %d)", resp.StatusCode)
	}
	return nil
}

func (g *GistStore) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("token %s", g.githubToken))
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}
