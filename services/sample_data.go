package services

import "github.com/jdgroup-ug/storefront/models"

// sampleProducts is the built-in listing served when the platform cannot be
// reached. Kept deliberately small: it exists so the storefront renders
// something during an outage, not as a real catalog.
func sampleProducts() []models.Product {
	return []models.Product{
		{
			ID:            "sample-1",
			Name:          "Modern Sofa",
			Description:   "Comfortable 3-seater sofa with premium fabric upholstery",
			Price:         899.99,
			CategoryID:    "sample-furniture",
			Category:      "Furniture",
			Slug:          "modern-sofa",
			StockQuantity: 10,
			IsAvailable:   true,
			ImageURL:      "https://images.unsplash.com/photo-1555041469-a586c61ea9bc?auto=format&fit=crop&q=80",
		},
		{
			ID:            "sample-2",
			Name:          "Smart TV 55\"",
			Description:   "4K Ultra HD Smart LED TV with HDR",
			Price:         699.99,
			CategoryID:    "sample-electronics",
			Category:      "Electronics",
			Slug:          "smart-tv-55",
			StockQuantity: 15,
			IsAvailable:   true,
			ImageURL:      "https://images.unsplash.com/photo-1593784991095-a205069470b6?auto=format&fit=crop&q=80",
		},
	}
}
