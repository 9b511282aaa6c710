package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"vitrine/internal/domain"
)

// FileStore persists the catalog as one JSON array on disk. Every operation
// reads the whole file and every mutation rewrites it in full; there is no
// append log and no partial write. The mutex only serializes handlers inside
// this process — another process (or a second store on the same path) still
// races under last-write-wins.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore ensures the data directory exists and seeds an empty catalog
// when the file is missing.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path}, nil
}

var _ ProductRepository = (*FileStore)(nil)

// readAll degrades an unreadable or corrupt file to an empty catalog. The
// storefront stays up with nothing to sell instead of erroring.
func (f *FileStore) readAll() []domain.Product {
	data, err := os.ReadFile(f.path)
	if err != nil {
		slog.Warn("catalog file unreadable, serving empty catalog", "path", f.path, "err", err)
		return []domain.Product{}
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		slog.Warn("catalog file corrupt, serving empty catalog", "path", f.path, "err", err)
		return []domain.Product{}
	}
	return products
}

func (f *FileStore) writeAll(products []domain.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

func (f *FileStore) List(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	products := f.readAll()
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Order < products[j].Order
	})
	return products, nil
}

func (f *FileStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.readAll() {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *FileStore) Create(ctx context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	products := f.readAll()
	p.Order = len(products)
	products = append(products, *p)
	return f.writeAll(products)
}

func (f *FileStore) Update(ctx context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	products := f.readAll()
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = *p
			return f.writeAll(products)
		}
	}
	return ErrNotFound
}

func (f *FileStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	products := f.readAll()
	kept := products[:0]
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrNotFound
	}
	return f.writeAll(kept)
}

func (f *FileStore) Reorder(ctx context.Context, orderedIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	index := make(map[string]int, len(orderedIDs))
	for i, id := range orderedIDs {
		index[id] = i
	}
	products := f.readAll()
	for i := range products {
		if pos, ok := index[products[i].ID]; ok {
			products[i].Order = pos
		}
	}
	return f.writeAll(products)
}
