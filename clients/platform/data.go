package platform

import (
	"context"

	"github.com/jdgroup-ug/storefront/models"
)

// productColumns is the column set the storefront reads for a product,
// whether directly or embedded under a favorites/cart row.
const productColumns = "id,name,description,price,image_url,category_id,slug,stock_quantity,is_available,created_at,updated_at"

type favoriteRow struct {
	ProductID string          `json:"product_id"`
	Product   *models.Product `json:"products"`
}

type cartRow struct {
	Quantity int             `json:"quantity"`
	Product  *models.Product `json:"products"`
}

// ListFavorites returns the user's favorited products, joined with the
// product rows.
func (c *Client) ListFavorites(ctx context.Context, token, userID string) ([]models.Product, error) {
	var rows []favoriteRow
	err := c.From("favorites").
		Auth(token).
		Select("product_id,products("+productColumns+")").
		Eq("user_id", userID).
		Get(ctx, &rows)
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		if row.Product != nil {
			products = append(products, *row.Product)
		}
	}
	return products, nil
}

// ListCart returns the user's cart entries, joined with the product rows.
func (c *Client) ListCart(ctx context.Context, token, userID string) ([]models.CartItem, error) {
	var rows []cartRow
	err := c.From("cart_items").
		Auth(token).
		Select("quantity,products("+productColumns+")").
		Eq("user_id", userID).
		Get(ctx, &rows)
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(rows))
	for _, row := range rows {
		if row.Product != nil {
			items = append(items, models.CartItem{Product: *row.Product, Quantity: row.Quantity})
		}
	}
	return items, nil
}

// ListSearchHistory returns the user's search history, newest first.
func (c *Client) ListSearchHistory(ctx context.Context, token, userID string) ([]models.SearchEntry, error) {
	var entries []models.SearchEntry
	err := c.From("search_history").
		Auth(token).
		Select("*").
		Eq("user_id", userID).
		Order("created_at", true).
		Get(ctx, &entries)
	return entries, err
}

// GetProduct fetches a single product row.
func (c *Client) GetProduct(ctx context.Context, token, productID string) (*models.Product, error) {
	var product models.Product
	err := c.From("products").
		Auth(token).
		Select("*").
		Eq("id", productID).
		Single(ctx, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// InsertFavorite marks a product as a favorite. Favoriting an already
// favorited product merges into the existing row rather than erroring.
func (c *Client) InsertFavorite(ctx context.Context, token, userID, productID string) error {
	row := models.Favorite{UserID: userID, ProductID: productID}
	return c.From("favorites").Auth(token).Upsert(ctx, []models.Favorite{row})
}

func (c *Client) DeleteFavorite(ctx context.Context, token, userID, productID string) error {
	return c.From("favorites").
		Auth(token).
		Eq("user_id", userID).
		Eq("product_id", productID).
		Delete(ctx)
}

func (c *Client) InsertCartItem(ctx context.Context, token, userID, productID string, quantity int) error {
	row := map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	}
	return c.From("cart_items").Auth(token).Insert(ctx, []map[string]interface{}{row}, nil)
}

func (c *Client) UpdateCartQuantity(ctx context.Context, token, userID, productID string, quantity int) error {
	return c.From("cart_items").
		Auth(token).
		Eq("user_id", userID).
		Eq("product_id", productID).
		Update(ctx, map[string]int{"quantity": quantity})
}

func (c *Client) DeleteCartItem(ctx context.Context, token, userID, productID string) error {
	return c.From("cart_items").
		Auth(token).
		Eq("user_id", userID).
		Eq("product_id", productID).
		Delete(ctx)
}

// InsertSearchEntry records a query and returns the stored row so the
// caller can prepend it locally.
func (c *Client) InsertSearchEntry(ctx context.Context, token, userID, query string) (*models.SearchEntry, error) {
	row := map[string]string{"user_id": userID, "query": query}
	var entry models.SearchEntry
	err := c.From("search_history").Auth(token).Insert(ctx, []map[string]string{row}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) ClearSearchHistory(ctx context.Context, token, userID string) error {
	return c.From("search_history").Auth(token).Eq("user_id", userID).Delete(ctx)
}

// ListCategories returns all categories ordered by name.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := c.From("categories").
		Select("id,name,slug").
		Order("name", false).
		Get(ctx, &categories)
	return categories, err
}

// ListProducts returns the full catalog, newest first.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := c.From("products").
		Select("*").
		Order("created_at", true).
		Get(ctx, &products)
	return products, err
}

// InsertJobApplication stores a job application row and returns the
// representation.
func (c *Client) InsertJobApplication(ctx context.Context, app models.JobApplication) (*models.JobApplication, error) {
	var stored models.JobApplication
	err := c.From("job_applications").Insert(ctx, []models.JobApplication{app}, &stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetProfile fetches the user's profile row.
func (c *Client) GetProfile(ctx context.Context, token, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := c.From("user_profiles").
		Auth(token).
		Select("*").
		Eq("id", userID).
		Single(ctx, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListOrders returns the user's orders, newest first.
func (c *Client) ListOrders(ctx context.Context, token, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := c.From("orders").
		Auth(token).
		Select("*").
		Eq("user_id", userID).
		Order("created_at", true).
		Get(ctx, &orders)
	return orders, err
}

// ListOrderItems returns the line items for one order.
func (c *Client) ListOrderItems(ctx context.Context, token, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := c.From("order_items").
		Auth(token).
		Select("*").
		Eq("order_id", orderID).
		Get(ctx, &items)
	return items, err
}
