package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// GetBackground returns the stored background-image setting (an opaque blob
// chosen by the UI: a URL or a data URI). Empty string when unset.
func (s *Store) GetBackground(ctx context.Context) (string, error) {
	value, err := s.client.Get(ctx, KeyBackground).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get %s: %w", KeyBackground, err)
	}
	return value, nil
}

// SaveBackground stores the background-image setting.
func (s *Store) SaveBackground(ctx context.Context, value string) error {
	if err := s.client.Set(ctx, KeyBackground, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", KeyBackground, err)
	}
	s.notify(KeyBackground)
	return nil
}
