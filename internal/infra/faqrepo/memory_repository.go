package faqrepo

import (
	"context"
	"sync"

	"github.com/yanqian/smartfaq/internal/domain/faq"
)

// MemoryRepository is an in-memory faq.Repository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []faq.Entry
}

// NewMemoryRepository constructs a repo backed by memory, optionally seeded.
func NewMemoryRepository(seed ...faq.Entry) *MemoryRepository {
	return &MemoryRepository{entries: cloneEntries(seed)}
}

// List implements faq.Repository.
func (r *MemoryRepository) List(_ context.Context) ([]faq.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneEntries(r.entries), nil
}

// Save implements faq.Repository.
func (r *MemoryRepository) Save(_ context.Context, entries []faq.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = cloneEntries(entries)
	return nil
}

// cloneEntries deep copies entries so callers never share tag slices.
func cloneEntries(entries []faq.Entry) []faq.Entry {
	out := make([]faq.Entry, len(entries))
	for i, entry := range entries {
		entry.Tags = append([]string{}, entry.Tags...)
		out[i] = entry
	}
	return out
}

var _ faq.Repository = (*MemoryRepository)(nil)
