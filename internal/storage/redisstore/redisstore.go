// Package redisstore implements storage.Store on Redis.
//
// Keys:
//
//	subs                hash, subscription ID -> JSON subscription
//	last_fixtures       JSON object, team -> fixture hashes
//	last_fixtures_full  JSON object, team -> fixtures
//
// An optional prefix is prepended to every key.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/amfb-notifier/amfb-notifier/internal/fixture"
	"github.com/amfb-notifier/amfb-notifier/internal/logger"
	"github.com/amfb-notifier/amfb-notifier/internal/subscription"
)

const (
	subsKey         = "subs"
	lastFixturesKey = "last_fixtures"
	lastFullKey     = "last_fixtures_full"
)

// Store is a Redis-backed storage.Store.
type Store struct {
	client redis.UniversalClient
	prefix string
	log    *logger.Logger
}

// New wraps an existing client.
func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
		log:    logger.Default().With(logger.Fields{"component": "redisstore"}),
	}
}

// Open connects to the Redis server at url (redis://[:password@]host:port/db).
func Open(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return New(client, prefix), nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// List implements storage.SubscriptionStore. Entries that fail to decode are
// logged and skipped.
func (s *Store) List(ctx context.Context) (subscription.Subscriptions, error) {
	all, err := s.client.HGetAll(ctx, s.key(subsKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	subs := make(subscription.Subscriptions, len(all))
	for id, raw := range all {
		var sub subscription.Subscription
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			s.log.Warn("skipping malformed subscription", logger.Fields{"id": id, "error": err.Error()})
			continue
		}
		subs[id] = sub
	}
	return subs, nil
}

// Add implements storage.SubscriptionStore.
func (s *Store) Add(ctx context.Context, id string, sub subscription.Subscription) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encoding subscription: %w", err)
	}
	if err := s.client.HSet(ctx, s.key(subsKey), id, data).Err(); err != nil {
		return fmt.Errorf("adding subscription: %w", err)
	}
	return nil
}

// Remove implements storage.SubscriptionStore.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, s.key(subsKey), id).Err(); err != nil {
		return fmt.Errorf("removing subscription: %w", err)
	}
	return nil
}

// Count implements storage.SubscriptionStore.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, s.key(subsKey)).Result()
	if err != nil {
		return 0, fmt.Errorf("counting subscriptions: %w", err)
	}
	return int(n), nil
}

// HashSnapshot implements storage.SnapshotStore.
func (s *Store) HashSnapshot(ctx context.Context) (map[string][]string, error) {
	hashes := make(map[string][]string)
	if err := s.getJSON(ctx, lastFixturesKey, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

// SetHashSnapshot implements storage.SnapshotStore.
func (s *Store) SetHashSnapshot(ctx context.Context, hashes map[string][]string) error {
	return s.setJSON(ctx, lastFixturesKey, hashes)
}

// FullSnapshot implements storage.SnapshotStore.
func (s *Store) FullSnapshot(ctx context.Context) (map[string][]fixture.Fixture, error) {
	fixtures := make(map[string][]fixture.Fixture)
	if err := s.getJSON(ctx, lastFullKey, &fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

// SetFullSnapshot implements storage.SnapshotStore.
func (s *Store) SetFullSnapshot(ctx context.Context, fixtures map[string][]fixture.Fixture) error {
	return s.setJSON(ctx, lastFullKey, fixtures)
}

func (s *Store) getJSON(ctx context.Context, name string, v interface{}) error {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

func (s *Store) setJSON(ctx context.Context, name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
