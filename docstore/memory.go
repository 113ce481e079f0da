package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used for local development and
// tests. Data does not survive a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	lastWrite   time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

// stamp returns the current store timestamp, forced strictly monotonic
// so that back-to-back writes never share a createdAt.
func (m *MemoryStore) stamp() string {
	now := time.Now().UTC()
	if !now.After(m.lastWrite) {
		now = m.lastWrite.Add(time.Nanosecond)
	}
	m.lastWrite = now
	return Stamp(now)
}

func (m *MemoryStore) coll(name string) map[string]Document {
	c, ok := m.collections[name]
	if !ok {
		c = make(map[string]Document)
		m.collections[name] = c
	}
	return c
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	out := doc.Clone()
	out[FieldID] = id
	return out, nil
}

func (m *MemoryStore) List(ctx context.Context, collection string, order Order) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]Document, 0, len(m.collections[collection]))
	for id, doc := range m.collections[collection] {
		out := doc.Clone()
		out[FieldID] = id
		docs = append(docs, out)
	}
	SortDocuments(docs, order)
	return docs, nil
}

func (m *MemoryStore) Create(ctx context.Context, collection string, doc Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	stored := doc.Clone()
	now := m.stamp()
	stored[FieldCreatedAt] = now
	stored[FieldUpdatedAt] = now
	m.coll(collection)[id] = stored
	return id, nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, id string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := doc.Clone()
	now := m.stamp()
	if existing, ok := m.collections[collection][id]; ok {
		stored[FieldCreatedAt] = existing[FieldCreatedAt]
	} else {
		stored[FieldCreatedAt] = now
	}
	stored[FieldUpdatedAt] = now
	m.coll(collection)[id] = stored
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, partial Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	merged := existing.Clone()
	for k, v := range partial {
		merged[k] = v
	}
	merged[FieldCreatedAt] = existing[FieldCreatedAt]
	merged[FieldUpdatedAt] = m.stamp()
	m.collections[collection][id] = merged
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
