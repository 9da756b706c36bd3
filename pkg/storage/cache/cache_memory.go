package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ErdemAslans/ReCiSt/pkg/apierrors"
	"github.com/ErdemAslans/ReCiSt/pkg/domain"
)

// MemoryCache is an in-memory RecencyCache used as the default test
// double so agent tests don't need a real Redis instance.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	entry    domain.KnowledgeEntry
	expires  time.Time
}

// NewMemoryCache builds an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]memoryEntry{}}
}

func (m *MemoryCache) Put(ctx context.Context, entry domain.KnowledgeEntry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID.String()] = memoryEntry{entry: entry, expires: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, id string) (*domain.KnowledgeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || time.Now().After(e.expires) {
		return nil, apierrors.NotFound("knowledge entry %s not cached", id)
	}
	entry := e.entry
	return &entry, nil
}

func (m *MemoryCache) List(ctx context.Context, namespace string) ([]domain.KnowledgeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var entries []domain.KnowledgeEntry
	for _, e := range m.entries {
		if now.After(e.expires) {
			continue
		}
		if e.entry.Namespace == namespace {
			entries = append(entries, e.entry)
		}
	}
	return entries, nil
}
