package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.AppendJournalEntry(ctx, "alice", JournalEntry{Title: fmt.Sprintf("entry %d", i)}); err != nil {
				t.Errorf("append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := s.ListJournalEntries(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(entries))
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.AppendJournalEntry(ctx, "alice", JournalEntry{Classification: map[string]any{"Joy": 1}})

	entries, _ := s.ListJournalEntries(ctx, "alice")
	entries[0].Classification["Joy"] = 99

	again, _ := s.ListJournalEntries(ctx, "alice")
	if again[0].Classification["Joy"] != 1.0 {
		t.Fatalf("stored entry was mutated through a returned copy: %v", again[0].Classification)
	}
}
