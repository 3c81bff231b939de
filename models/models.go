package models

import "time"

// User mirrors the platform's auth user record. It is read-only on this
// side: the hosted platform owns the row.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Session is the token pair issued by the platform's auth API plus the user
// it belongs to. ExpiresAt refers to the access token.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// Expired reports whether the access token lifetime has passed.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	CategoryID    string  `json:"category_id"`
	Category      string  `json:"category,omitempty"`
	Slug          string  `json:"slug,omitempty"`
	StockQuantity int     `json:"stock_quantity"`
	IsAvailable   bool    `json:"is_available"`
	ImageURL      string  `json:"image_url"`
	CreatedAt     string  `json:"created_at,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}

// Purchasable reports whether the product may be added to an order. A
// product can still be displayed when this is false.
func (p *Product) Purchasable() bool {
	return p.IsAvailable && p.StockQuantity > 0
}

// CartItem is a product plus the quantity the user holds in the cart.
// Quantity is never below 1; dropping to 0 removes the row instead.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

type Favorite struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

type SearchEntry struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id,omitempty"`
	Query     string `json:"query"`
	CreatedAt string `json:"created_at"`
}

// Application status values. Transitions are performed out of band by staff;
// this client only ever writes StatusPending.
const (
	StatusPending     = "pending"
	StatusReviewing   = "reviewing"
	StatusShortlisted = "shortlisted"
	StatusRejected    = "rejected"
	StatusAccepted    = "accepted"
)

type JobApplication struct {
	ID          string `json:"id,omitempty"`
	JobID       string `json:"job_id"`
	JobTitle    string `json:"job_title"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CVPath      string `json:"cv_path"`
	CoverLetter string `json:"cover_letter,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type Order struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Status    string  `json:"status"`
	Total     float64 `json:"total"`
	CreatedAt string  `json:"created_at"`
}

type OrderItem struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}
