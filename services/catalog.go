package services

import (
	"context"
	"strings"

	"github.com/jdgroup-ug/storefront/logger"
	"github.com/jdgroup-ug/storefront/models"
)

// Product list sources. Callers and tests can tell a live listing from the
// built-in fallback.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// CatalogClient is the slice of the platform client the catalog needs.
type CatalogClient interface {
	CheckConnection(ctx context.Context) bool
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, token, productID string) (*models.Product, error)
}

// ProductList is a product listing plus the source it came from.
type ProductList struct {
	Products []models.Product `json:"products"`
	Source   string           `json:"source"`
}

// Catalog serves the product grid. When the platform is unreachable it
// falls back to a small built-in sample set so the storefront stays up,
// with the source flag marking the degraded path.
type Catalog struct {
	client CatalogClient
}

func NewCatalog(client CatalogClient) *Catalog {
	return &Catalog{client: client}
}

// ListProducts returns the catalog with category names joined in. Every
// failure path degrades to the sample set instead of erroring.
func (s *Catalog) ListProducts(ctx context.Context) *ProductList {
	if !s.client.CheckConnection(ctx) {
		logger.Warn(ctx, "platform unreachable, serving sample products")
		return &ProductList{Products: sampleProducts(), Source: SourceFallback}
	}

	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		logger.Error(ctx, "failed to fetch categories", err)
		return &ProductList{Products: sampleProducts(), Source: SourceFallback}
	}
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		logger.Error(ctx, "failed to fetch products", err)
		return &ProductList{Products: sampleProducts(), Source: SourceFallback}
	}
	if len(products) == 0 {
		return &ProductList{Products: sampleProducts(), Source: SourceFallback}
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	for i := range products {
		if name, ok := names[products[i].CategoryID]; ok {
			products[i].Category = name
		} else {
			products[i].Category = "Uncategorized"
		}
	}
	return &ProductList{Products: products, Source: SourceLive}
}

// GetProduct fetches one product.
func (s *Catalog) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	return s.client.GetProduct(ctx, "", productID)
}

// ListCategories passes the category list through.
func (s *Catalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.client.ListCategories(ctx)
}

// Search filters the live listing by a case-insensitive substring match on
// name and description. No matches is an empty result, not an error.
func (s *Catalog) Search(ctx context.Context, query string) []models.Product {
	list := s.ListProducts(ctx)

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list.Products
	}

	matches := make([]models.Product, 0)
	for _, p := range list.Products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			matches = append(matches, p)
		}
	}
	return matches
}
