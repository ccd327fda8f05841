package services

import (
	"context"
	"strings"
	"time"

	"caja/internal/core"
	"caja/internal/storage"

	"github.com/google/uuid"
)

// ProductService maintains the per-user product catalog that prices
// invoice lines.
type ProductService struct {
	storage *storage.SQLiteRepository
}

func NewProductService(storage *storage.SQLiteRepository) *ProductService {
	return &ProductService{storage: storage}
}

func (s *ProductService) Create(ctx context.Context, p core.Product) (core.Product, error) {
	p.ID = uuid.NewString()
	p.Name = strings.TrimSpace(p.Name)
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}
	if err := s.storage.CreateProduct(ctx, p); err != nil {
		return core.Product{}, err
	}
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, userID, id string) (core.Product, error) {
	return s.storage.GetProduct(ctx, userID, id)
}

// List returns the catalog sorted by name; a non-empty name filters to
// case-insensitive substring matches.
func (s *ProductService) List(ctx context.Context, userID, name string) ([]core.Product, error) {
	return s.storage.ListProducts(ctx, userID, strings.TrimSpace(name))
}

func (s *ProductService) Update(ctx context.Context, p core.Product) (core.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.UpdatedAt = time.Now().UTC()
	if err := p.Validate(); err != nil {
		return core.Product{}, err
	}
	if err := s.storage.UpdateProduct(ctx, p); err != nil {
		return core.Product{}, err
	}
	return s.storage.GetProduct(ctx, p.UserID, p.ID)
}

func (s *ProductService) Delete(ctx context.Context, userID, id string) error {
	return s.storage.DeleteProduct(ctx, userID, id)
}
