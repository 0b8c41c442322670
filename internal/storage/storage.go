package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/subscription"
)

// SnapshotStore persists the state the next run is diffed against.
type SnapshotStore interface {
	HashSnapshot(ctx context.Context) (map[string][]string, error)
	SetHashSnapshot(ctx context.Context, hashes map[string][]string) error
	FullSnapshot(ctx context.Context) (map[string][]fixture.Fixture, error)
	SetFullSnapshot(ctx context.Context, fixtures map[string][]fixture.Fixture) error
}

// SubscriptionStore persists subscriptions keyed by ID.
type SubscriptionStore interface {
	List(ctx context.Context) (subscription.Subscriptions, error)
	Add(ctx context.Context, id string, sub subscription.Subscription) error
	Remove(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Store is a backend holding both subscriptions and snapshots.
type Store interface {
	SnapshotStore
	SubscriptionStore
}

const (
	subscriptionsFile = "subscriptions.json"
	hashSnapshotFile  = "last_fixtures.json"
	fullSnapshotFile  = "last_fixtures_full.json"
)

// FileStore keeps subscriptions and snapshots as JSON files.
type FileStore struct {
	dataDir string
	mu      sync.Mutex
}

// New creates a FileStore rooted at dataDir, creating it if needed.
func New(dataDir string) (*FileStore, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &FileStore{dataDir: dataDir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dataDir
}

// HashSnapshot implements SnapshotStore.
func (s *FileStore) HashSnapshot(ctx context.Context) (map[string][]string, error) {
	hashes := make(map[string][]string)
	if err := s.read(hashSnapshotFile, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

// SetHashSnapshot implements SnapshotStore.
func (s *FileStore) SetHashSnapshot(ctx context.Context, hashes map[string][]string) error {
	return s.write(hashSnapshotFile, hashes)
}

// FullSnapshot implements SnapshotStore.
func (s *FileStore) FullSnapshot(ctx context.Context) (map[string][]fixture.Fixture, error) {
	fixtures := make(map[string][]fixture.Fixture)
	if err := s.read(fullSnapshotFile, &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

// SetFullSnapshot implements SnapshotStore.
func (s *FileStore) SetFullSnapshot(ctx context.Context, fixtures map[string][]fixture.Fixture) error {
	return s.write(fullSnapshotFile, fixtures)
}

// List implements SubscriptionStore.
func (s *FileStore) List(ctx context.Context) (subscription.Subscriptions, error) {
	subs := make(subscription.Subscriptions)
	if err := s.read(subscriptionsFile, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Add implements SubscriptionStore. An existing entry for id is replaced.
func (s *FileStore) Add(ctx context.Context, id string, sub subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := make(subscription.Subscriptions)
	if err := s.readLocked(subscriptionsFile, &subs); err != nil {
		return err
	}
	subs[id] = sub
	return s.writeLocked(subscriptionsFile, subs)
}

// Remove implements SubscriptionStore. Removing an unknown id is not an error.
func (s *FileStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := make(subscription.Subscriptions)
	if err := s.readLocked(subscriptionsFile, &subs); err != nil {
		return err
	}
	if _, ok := subs[id]; !ok {
		return nil
	}
	delete(subs, id)
	return s.writeLocked(subscriptionsFile, subs)
}

// Count implements SubscriptionStore.
func (s *FileStore) Count(ctx context.Context) (int, error) {
	subs, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}

func (s *FileStore) read(name string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(name, v)
}

func (s *FileStore) write(name string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(name, v)
}

// readLocked decodes the named file into v, leaving v untouched when the file
// does not exist yet.
func (s *FileStore) readLocked(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// writeLocked replaces the named file through a temporary file so readers
// never observe a partial write.
func (s *FileStore) writeLocked(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dataDir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dataDir, name)); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

type combined struct {
	SnapshotStore
	SubscriptionStore
}

// Combine returns a Store that reads snapshots and subscriptions from
// different backends.
func Combine(snapshots SnapshotStore, subs SubscriptionStore) Store {
	return combined{SnapshotStore: snapshots, SubscriptionStore: subs}
}
