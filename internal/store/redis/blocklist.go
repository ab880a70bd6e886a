package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tabdeck/tabdeck/internal/domain"
)

// GetBlocklist returns all blocklist entries, active or not.
func (s *Store) GetBlocklist(ctx context.Context) ([]domain.BlockedItem, error) {
	var list []domain.BlockedItem
	if err := s.getJSON(ctx, KeyBlocklist, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveBlocklist replaces the full blocklist.
func (s *Store) SaveBlocklist(ctx context.Context, list []domain.BlockedItem) error {
	if list == nil {
		list = []domain.BlockedItem{}
	}
	return s.setJSON(ctx, KeyBlocklist, list)
}

// AddBlockedItem appends a new active entry. The host is normalized before
// storing; an entry for the same host is reactivated instead of duplicated.
func (s *Store) AddBlockedItem(ctx context.Context, rawURL string) (domain.BlockedItem, error) {
	host := domain.NormalizeHost(rawURL)
	if host == "" {
		return domain.BlockedItem{}, fmt.Errorf("cannot block empty host %q", rawURL)
	}

	list, err := s.GetBlocklist(ctx)
	if err != nil {
		return domain.BlockedItem{}, err
	}

	for i, item := range list {
		if item.URL == host {
			list[i].IsActive = true
			return list[i], s.SaveBlocklist(ctx, list)
		}
	}

	item := domain.BlockedItem{URL: host, IsActive: true}
	list = append(list, item)
	return item, s.SaveBlocklist(ctx, list)
}

// ToggleBlockedItem flips IsActive on the entry for host (soft-disable).
func (s *Store) ToggleBlockedItem(ctx context.Context, host string) error {
	list, err := s.GetBlocklist(ctx)
	if err != nil {
		return err
	}

	host = domain.NormalizeHost(host)
	for i, item := range list {
		if item.URL == host {
			list[i].IsActive = !item.IsActive
			return s.SaveBlocklist(ctx, list)
		}
	}
	return fmt.Errorf("blocklist entry not found: %s", host)
}

// RemoveBlockedItem deletes the entry for host.
func (s *Store) RemoveBlockedItem(ctx context.Context, host string) error {
	list, err := s.GetBlocklist(ctx)
	if err != nil {
		return err
	}

	host = domain.NormalizeHost(host)
	kept := make([]domain.BlockedItem, 0, len(list))
	for _, item := range list {
		if item.URL != host {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(list) {
		return fmt.Errorf("blocklist entry not found: %s", host)
	}
	return s.SaveBlocklist(ctx, kept)
}

// EnsureBlocklist seeds an empty blocklist on first install so later reads
// distinguish "never initialized" from "user cleared it".
func (s *Store) EnsureBlocklist(ctx context.Context) (created bool, err error) {
	ok, err := s.exists(ctx, KeyBlocklist)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	return true, s.SaveBlocklist(ctx, []domain.BlockedItem{})
}

// MigrateBlocklist upgrades legacy string-only entries ("example.com") into
// the {url,isActive} shape. Runs at install time; a list already in the new
// shape is left untouched. Returns the number of migrated entries.
func (s *Store) MigrateBlocklist(ctx context.Context) (int, error) {
	data, err := s.client.Get(ctx, KeyBlocklist).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get %s: %w", KeyBlocklist, err)
	}

	var current []domain.BlockedItem
	if err := json.Unmarshal(data, &current); err == nil {
		return 0, nil // already migrated
	}

	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return 0, fmt.Errorf("blocklist is neither current nor legacy shape: %w", err)
	}

	migrated := make([]domain.BlockedItem, 0, len(legacy))
	for _, raw := range legacy {
		host := domain.NormalizeHost(raw)
		if host == "" {
			continue
		}
		migrated = append(migrated, domain.BlockedItem{URL: host, IsActive: true})
	}
	return len(migrated), s.SaveBlocklist(ctx, migrated)
}
