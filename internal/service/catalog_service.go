package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fairyhunter13/edu-checkout/internal/model"
)

// ProductRepositoryInterface defines the interface for catalog data access.
type ProductRepositoryInterface interface {
	GetByRef(ctx context.Context, ref string) (*model.Product, error)
}

// CatalogService resolves products for checkout and the admin tools.
type CatalogService struct {
	products ProductRepositoryInterface
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products ProductRepositoryInterface) *CatalogService {
	return &CatalogService{products: products}
}

// GetProduct retrieves a product by id or slug.
// Returns ErrProductNotFound if it doesn't exist.
func (s *CatalogService) GetProduct(ctx context.Context, ref string) (*model.Product, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrProductNotFound
	}

	p, err := s.products.GetByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}
