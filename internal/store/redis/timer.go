package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tabdeck/tabdeck/internal/domain"
)

// GetTimerState returns the persisted countdown, or nil when no timer is set.
func (s *Store) GetTimerState(ctx context.Context) (*domain.TimerState, error) {
	data, err := s.client.Get(ctx, KeyTimer).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", KeyTimer, err)
	}

	var state domain.TimerState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timer state: %w", err)
	}
	return &state, nil
}

// SaveTimerState persists the countdown singleton.
func (s *Store) SaveTimerState(ctx context.Context, state *domain.TimerState) error {
	return s.setJSON(ctx, KeyTimer, state)
}

// DeleteTimerState removes the persisted countdown (cancel / completion ack).
func (s *Store) DeleteTimerState(ctx context.Context) error {
	return s.delete(ctx, KeyTimer)
}
