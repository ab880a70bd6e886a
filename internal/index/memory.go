package index

import (
	"sync"
	"time"

	"github.com/tabdeck/tabdeck/internal/domain"
)

// BlocklistIndex holds an in-memory snapshot of the blocklist so navigation
// checks never pay a store round-trip per browser event. The snapshot is
// refreshed from storage-change events and on startup.
type BlocklistIndex struct {
	mu         sync.RWMutex
	items      []domain.BlockedItem
	lastReload time.Time
}

// NewBlocklistIndex creates an empty index.
func NewBlocklistIndex() *BlocklistIndex {
	return &BlocklistIndex{}
}

// Update replaces the snapshot.
func (idx *BlocklistIndex) Update(items []domain.BlockedItem) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.items = make([]domain.BlockedItem, len(items))
	copy(idx.items, items)
	idx.lastReload = time.Now()
}

// Items returns a copy of the current snapshot.
func (idx *BlocklistIndex) Items() []domain.BlockedItem {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	items := make([]domain.BlockedItem, len(idx.items))
	copy(items, idx.items)
	return items
}

// ShouldBlock evaluates a hostname against the snapshot.
func (idx *BlocklistIndex) ShouldBlock(hostname string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return domain.ShouldBlock(hostname, idx.items)
}

// ShouldBlockURL evaluates a raw URL against the snapshot, failing open on
// malformed input.
func (idx *BlocklistIndex) ShouldBlockURL(rawURL string) (bool, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return domain.ShouldBlockURL(rawURL, idx.items)
}

// Count returns the number of entries in the snapshot.
func (idx *BlocklistIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.items)
}

// LastReload returns when the snapshot was last refreshed.
func (idx *BlocklistIndex) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
