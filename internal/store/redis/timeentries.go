package redis

import (
	"context"

	"github.com/tabdeck/tabdeck/internal/domain"
)

// GetTimeEntries returns all accumulated dwell-time entries.
func (s *Store) GetTimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	var entries []domain.TimeEntry
	if err := s.getJSON(ctx, KeyTimeEntries, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveTimeEntries replaces the full entry list. The tracker owns the
// read-modify-write cycle and serializes its writes through one queue.
func (s *Store) SaveTimeEntries(ctx context.Context, entries []domain.TimeEntry) error {
	if entries == nil {
		entries = []domain.TimeEntry{}
	}
	return s.setJSON(ctx, KeyTimeEntries, entries)
}
