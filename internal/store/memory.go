package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"item-tracker/internal/models"
)

type memoryEntry struct {
	item models.Item
	seq  uint64
}

// Memory is an in-process Store. Items with equal dates are ordered by
// insertion, newest first.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	seq   uint64
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (m *Memory) Create(ctx context.Context, name string, description *string) (models.Item, error) {
	if err := ctx.Err(); err != nil {
		return models.Item{}, err
	}
	it, err := newItem(name, description, m.now())
	if err != nil {
		return models.Item{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.items[it.ID] = memoryEntry{item: it, seq: m.seq}
	return it, nil
}

func (m *Memory) List(ctx context.Context) ([]models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	entries := make([]memoryEntry, 0, len(m.items))
	for _, e := range m.items {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].item.Date.Equal(entries[j].item.Date) {
			return entries[i].item.Date.After(entries[j].item.Date)
		}
		return entries[i].seq > entries[j].seq
	})

	items := make([]models.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.item)
	}
	return items, nil
}

func (m *Memory) DeleteByID(ctx context.Context, id string) (models.Item, error) {
	if err := ctx.Err(); err != nil {
		return models.Item{}, err
	}
	u, err := parseID(id)
	if err != nil {
		return models.Item{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[u.String()]
	if !ok {
		return models.Item{}, ErrNotFound
	}
	delete(m.items, u.String())
	return e.item, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) Close() {}
