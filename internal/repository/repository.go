package repository

import (
	"context"
	"errors"

	"vitrine/internal/domain"
)

// ErrNotFound is returned when an entity does not exist
var ErrNotFound = errors.New("not found")

// ProductRepository is the one seam over the catalog's backing store, so the
// mechanism (flat file, in-memory map, relational table) stays swappable
// without touching callers.
//
// Known limitation, by contract rather than accident: mutations follow a
// read-modify-rewrite-everything pattern with no merge. Two writers racing on
// the same backing data end with the later rewrite silently replacing the
// earlier one ("last write wins"). Acceptable for a single administrator and
// tens of products.
type ProductRepository interface {
	// List returns every product sorted ascending by display order, ties
	// broken by storage position. An unreadable or corrupt backing store
	// yields an empty list, not an error.
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// Create appends: the product's Order is set to the current count.
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	// Reorder assigns each listed product's Order to its index in orderedIDs.
	// Products omitted from the input keep their prior Order value.
	Reorder(ctx context.Context, orderedIDs []string) error
}
