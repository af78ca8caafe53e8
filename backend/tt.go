package main

import (
	"sort"
	"sync"
)

type TTEntry struct {
	Key   string
	Value int
	Hits  uint32
}

// TranspositionTable memoizes negamax values keyed by the canonical board
// encoding. Entries are never evicted: the table grows for as long as its
// owning engine lives and is dropped with it.
//
// Values are reused regardless of the alpha/beta window they were computed
// under. This is a plain memo cache, not a bound-tagged transposition scheme.
type TranspositionTable struct {
	mu      sync.RWMutex
	entries map[string]*TTEntry
}

func NewTranspositionTable() *TranspositionTable {
	return &TranspositionTable{entries: make(map[string]*TTEntry)}
}

func (tt *TranspositionTable) Probe(key string) (int, bool) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	entry, ok := tt.entries[key]
	if !ok {
		return 0, false
	}
	entry.Hits++
	return entry.Value, true
}

func (tt *TranspositionTable) Store(key string, value int) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if entry, ok := tt.entries[key]; ok {
		entry.Value = value
		return
	}
	tt.entries[key] = &TTEntry{Key: key, Value: value}
}

func (tt *TranspositionTable) Count() int {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return len(tt.entries)
}

func (tt *TranspositionTable) Clear() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.entries = make(map[string]*TTEntry)
}

// TopEntriesByHits returns a page of entries sorted by probe hits, for the
// cache inspection API. The second return is the total entry count.
func (tt *TranspositionTable) TopEntriesByHits(offset, limit int) ([]TTEntry, int) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	tt.mu.RLock()
	entries := make([]TTEntry, 0, len(tt.entries))
	for _, entry := range tt.entries {
		entries = append(entries, *entry)
	}
	tt.mu.RUnlock()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Hits != entries[j].Hits {
			return entries[i].Hits > entries[j].Hits
		}
		return entries[i].Key < entries[j].Key
	})
	total := len(entries)
	if offset >= total {
		return []TTEntry{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return entries[offset:end], total
}
