package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vitrine/internal/domain"
	"vitrine/internal/repository"
)

// PlaceholderImage is used when a product is created without any image.
const PlaceholderImage = "https://placehold.co/100x100?text=Sem+Imagem"

var ErrInvalidInput = errors.New("invalid input")

// CatalogService owns the catalog mutation rules: sanitization, price
// validation, append-to-end ordering and the image replacement policy.
type CatalogService struct {
	repo repository.ProductRepository
}

func NewCatalogService(repo repository.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// CreateProductInput carries raw form values; Price and Available arrive as
// submitted text. ImagePath is the public path of an already stored upload
// and always wins over ImageURL.
type CreateProductInput struct {
	Name        string
	Description string
	Price       string
	Available   string
	ImagePath   string
	ImageURL    string
}

// UpdateProductInput is the partial variant: empty fields are left untouched.
type UpdateProductInput struct {
	Name        string
	Description string
	Price       string
	Available   string
	ImagePath   string
	ImageURL    string
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *CatalogService) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	image := in.ImagePath
	if image == "" {
		image = in.ImageURL
	}
	if image == "" {
		image = PlaceholderImage
	}
	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        sanitize(in.Name),
		Description: sanitize(in.Description),
		Price:       price,
		Image:       image,
		Available:   parseBoolish(in.Available),
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		p.Name = sanitize(in.Name)
	}
	if in.Description != "" {
		p.Description = sanitize(in.Description)
	}
	if in.Price != "" {
		price, err := parsePrice(in.Price)
		if err != nil {
			return nil, err
		}
		p.Price = price
	}
	if in.Available != "" {
		p.Available = parseBoolish(in.Available)
	}
	// a freshly uploaded file always wins, then an explicit URL, then keep
	if in.ImagePath != "" {
		p.Image = in.ImagePath
	} else if in.ImageURL != "" {
		p.Image = in.ImageURL
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	// stored image assets are never reclaimed, orphans are acceptable
	return s.repo.Delete(ctx, id)
}

func (s *CatalogService) Reorder(ctx context.Context, orderedIDs []string) error {
	if orderedIDs == nil {
		return fmt.Errorf("%w: orderedIds must be an array of ids", ErrInvalidInput)
	}
	return s.repo.Reorder(ctx, orderedIDs)
}

// sanitize neutralizes markup-significant characters in free text so stored
// values are safe to render verbatim.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: price must be a number", ErrInvalidInput)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: price must be non-negative", ErrInvalidInput)
	}
	return price, nil
}

func parseBoolish(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
