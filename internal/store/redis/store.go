package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tabdeck/tabdeck/internal/bus"
)

// Publisher receives a storage-change event after every successful write.
// Decouples persistence from UI notification: consumers subscribe to the
// bus instead of polling the store.
type Publisher interface {
	Publish(ev bus.Event)
}

// Store persists every collection as one opaque JSON blob per key.
// All mutations are whole-value read-modify-write; the daemon is the only
// writer, so last-writer-wins is acceptable.
type Store struct {
	client *redis.Client
	events Publisher
}

// NewStore creates a new store. events may be nil (no notifications).
func NewStore(client *redis.Client, events Publisher) *Store {
	return &Store{
		client: client,
		events: events,
	}
}

// getJSON reads key into dst. A missing key is not an error: dst keeps its
// zero value (empty list / null), per the fail-soft storage contract.
func (s *Store) getJSON(ctx context.Context, key string, dst interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// setJSON writes v at key and notifies subscribers.
func (s *Store) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	s.notify(key)
	return nil
}

// delete removes key and notifies subscribers.
func (s *Store) delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	s.notify(key)
	return nil
}

// exists reports whether key holds a value.
func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *Store) notify(key string) {
	if s.events != nil {
		s.events.Publish(bus.StorageChanged{Key: ShortKey(key)})
	}
}
