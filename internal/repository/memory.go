package repository

import (
	"context"
	"sort"
	"sync"

	"vitrine/internal/domain"
)

// MemoryStore keeps the catalog in an ordered slice behind a RWMutex. It
// backs tests and ephemeral runs; the slice preserves insertion order so the
// List tie-break matches the file store's behavior.
type MemoryStore struct {
	mu       sync.RWMutex
	products []domain.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make([]domain.Product, 0)}
}

var _ ProductRepository = (*MemoryStore)(nil)

func (m *MemoryStore) List(ctx context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Order = len(m.products)
	m.products = append(m.products, *p)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == p.ID {
			m.products[i] = *p
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) Reorder(ctx context.Context, orderedIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := make(map[string]int, len(orderedIDs))
	for i, id := range orderedIDs {
		index[id] = i
	}
	for i := range m.products {
		if pos, ok := index[m.products[i].ID]; ok {
			m.products[i].Order = pos
		}
	}
	return nil
}
