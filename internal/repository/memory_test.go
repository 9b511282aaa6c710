package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"vitrine/internal/domain"
)

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := domain.Product{ID: "p1", Name: "Prestígio", Price: decimal.NewFromFloat(4.50), Available: true}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Order != 0 {
		t.Fatalf("first product should get order 0, got %d", p.Order)
	}

	got, err := store.GetByID(ctx, "p1")
	if err != nil || got.ID != "p1" {
		t.Fatalf("get: %v", err)
	}

	got.Name = "Prestígio Premium"
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := store.Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, "p1"); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestMemoryStore_CreateAppendsToEnd(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i, name := range []string{"a", "b", "c"} {
		p := domain.Product{ID: name, Name: name}
		if err := store.Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
		if p.Order != i {
			t.Fatalf("product %q: order %d, want %d", name, p.Order, i)
		}
	}
}

func TestMemoryStore_Reorder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, id := range []string{"a", "b", "c"} {
		p := domain.Product{ID: id, Name: id}
		if err := store.Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.Reorder(ctx, []string{"c", "a"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	// c=0 and a=1 now; b keeps its old order 1 and ties break by storage order
	list, _ := store.List(ctx)
	gotIDs := []string{list[0].ID, list[1].ID, list[2].ID}
	if gotIDs[0] != "c" || gotIDs[1] != "a" || gotIDs[2] != "b" {
		t.Fatalf("expected [c a b], got %v", gotIDs)
	}

	// ids omitted from the input keep their prior order value
	b, _ := store.GetByID(ctx, "b")
	if b.Order != 1 {
		t.Fatalf("b should keep order 1, got %d", b.Order)
	}
}

func TestMemoryStore_ListSortedByOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, id := range []string{"a", "b", "c", "d"} {
		p := domain.Product{ID: id}
		if err := store.Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Reorder(ctx, []string{"d", "c", "b", "a"}); err != nil {
		t.Fatal(err)
	}
	list, _ := store.List(ctx)
	for i := 1; i < len(list); i++ {
		if list[i-1].Order > list[i].Order {
			t.Fatalf("list not sorted by order: %+v", list)
		}
	}
	if list[0].ID != "d" || list[3].ID != "a" {
		t.Fatalf("unexpected ordering: %+v", list)
	}
}
