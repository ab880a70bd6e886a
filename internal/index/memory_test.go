package index

import (
	"sync"
	"testing"

	"github.com/tabdeck/tabdeck/internal/domain"
)

func TestNewBlocklistIndex(t *testing.T) {
	idx := NewBlocklistIndex()
	if idx == nil {
		t.Fatal("NewBlocklistIndex() returned nil")
	}
	if idx.Count() != 0 {
		t.Errorf("new index should be empty, got %d entries", idx.Count())
	}
	if !idx.LastReload().IsZero() {
		t.Error("new index should have zero LastReload")
	}
}

func TestUpdateOverwrites(t *testing.T) {
	idx := NewBlocklistIndex()

	idx.Update([]domain.BlockedItem{{URL: "example.com", IsActive: true}})
	idx.Update([]domain.BlockedItem{
		{URL: "one.org", IsActive: true},
		{URL: "two.org", IsActive: false},
	})

	if idx.Count() != 2 {
		t.Errorf("Update() should overwrite, got %d entries want 2", idx.Count())
	}
	if idx.LastReload().IsZero() {
		t.Error("LastReload should be set after Update")
	}
}

func TestShouldBlockUsesSnapshot(t *testing.T) {
	idx := NewBlocklistIndex()
	idx.Update([]domain.BlockedItem{{URL: "example.com", IsActive: true}})

	if !idx.ShouldBlock("mail.example.com") {
		t.Error("ShouldBlock(mail.example.com) = false, want true")
	}
	if idx.ShouldBlock("other.org") {
		t.Error("ShouldBlock(other.org) = true, want false")
	}

	idx.Update(nil)
	if idx.ShouldBlock("mail.example.com") {
		t.Error("ShouldBlock after clearing snapshot = true, want false")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	idx := NewBlocklistIndex()
	idx.Update([]domain.BlockedItem{{URL: "example.com", IsActive: true}})

	items := idx.Items()
	items[0].IsActive = false

	if !idx.ShouldBlock("example.com") {
		t.Error("mutating Items() result must not affect the snapshot")
	}
}

func TestConcurrentAccess(t *testing.T) {
	idx := NewBlocklistIndex()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			idx.Update([]domain.BlockedItem{{URL: "example.com", IsActive: true}})
		}()
		go func() {
			defer wg.Done()
			idx.ShouldBlock("example.com")
		}()
	}
	wg.Wait()
}
