package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jdgroup-ug/storefront/logger"
	"github.com/jdgroup-ug/storefront/models"
)

// DataClient is the slice of the platform client the user-data container
// needs.
type DataClient interface {
	ListFavorites(ctx context.Context, token, userID string) ([]models.Product, error)
	ListCart(ctx context.Context, token, userID string) ([]models.CartItem, error)
	ListSearchHistory(ctx context.Context, token, userID string) ([]models.SearchEntry, error)
	GetProduct(ctx context.Context, token, productID string) (*models.Product, error)
	InsertFavorite(ctx context.Context, token, userID, productID string) error
	DeleteFavorite(ctx context.Context, token, userID, productID string) error
	InsertCartItem(ctx context.Context, token, userID, productID string, quantity int) error
	UpdateCartQuantity(ctx context.Context, token, userID, productID string, quantity int) error
	DeleteCartItem(ctx context.Context, token, userID, productID string) error
	InsertSearchEntry(ctx context.Context, token, userID, query string) (*models.SearchEntry, error)
	ClearSearchHistory(ctx context.Context, token, userID string) error
}

// keyedMutex hands out one mutex per key so mutations on the same product
// are serialized while different products proceed in parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// UserDataStore mirrors the signed-in user's favorites, cart and search
// history. Collections are loaded in full when the user appears and cleared
// when the user goes away. Every mutation writes to the platform first and
// touches the local collection only after the write succeeds.
type UserDataStore struct {
	client DataClient
	auth   *AuthStore

	mu        sync.RWMutex
	favorites []models.Product
	cart      []models.CartItem
	history   []models.SearchEntry

	productLocks keyedMutex
}

// NewUserDataStore builds the container and subscribes it to the auth
// container. If a user is already present the collections load immediately.
func NewUserDataStore(ctx context.Context, client DataClient, auth *AuthStore) *UserDataStore {
	s := &UserDataStore{client: client, auth: auth}
	auth.OnChange(func(u *models.User) {
		if u == nil {
			s.Clear()
			return
		}
		s.load(context.Background())
	})
	if auth.User() != nil {
		s.load(ctx)
	}
	return s
}

// session snapshots the current credentials. ok is false when signed out,
// which turns every mutation into a no-op.
func (s *UserDataStore) session() (token, userID string, ok bool) {
	sess := s.auth.Session()
	if sess == nil || sess.User == nil {
		return "", "", false
	}
	return sess.AccessToken, sess.User.ID, true
}

// load performs the three independent collection loads. A failed load
// leaves that collection empty and is logged, not propagated: the container
// stays usable.
func (s *UserDataStore) load(ctx context.Context) {
	token, userID, ok := s.session()
	if !ok {
		return
	}

	favorites, err := s.client.ListFavorites(ctx, token, userID)
	if err != nil {
		logger.Error(ctx, "failed to load favorites", err, zap.String("user_id", userID))
	}
	cart, err := s.client.ListCart(ctx, token, userID)
	if err != nil {
		logger.Error(ctx, "failed to load cart", err, zap.String("user_id", userID))
	}
	history, err := s.client.ListSearchHistory(ctx, token, userID)
	if err != nil {
		logger.Error(ctx, "failed to load search history", err, zap.String("user_id", userID))
	}

	s.mu.Lock()
	s.favorites = favorites
	s.cart = cart
	s.history = history
	s.mu.Unlock()
}

// Clear empties all three collections in memory. Server-side rows are
// untouched.
func (s *UserDataStore) Clear() {
	s.mu.Lock()
	s.favorites = nil
	s.cart = nil
	s.history = nil
	s.mu.Unlock()
}

// AddToFavorites fetches the product, inserts the favorite row and appends
// the product locally once the insert succeeded.
func (s *UserDataStore) AddToFavorites(ctx context.Context, productID string) error {
	token, userID, ok := s.session()
	if !ok {
		return nil
	}

	unlock := s.productLocks.lock(userID + "/" + productID)
	defer unlock()

	product, err := s.client.GetProduct(ctx, token, productID)
	if err != nil {
		logger.Error(ctx, "failed to add to favorites", err, zap.String("product_id", productID))
		return err
	}
	if err := s.client.InsertFavorite(ctx, token, userID, productID); err != nil {
		logger.Error(ctx, "failed to add to favorites", err, zap.String("product_id", productID))
		return err
	}

	s.mu.Lock()
	// The backend insert merges duplicate rows; mirror that here so a
	// repeated favorite never shows up twice.
	present := false
	for _, p := range s.favorites {
		if p.ID == productID {
			present = true
			break
		}
	}
	if !present {
		s.favorites = append(s.favorites, *product)
	}
	s.mu.Unlock()
	return nil
}

// RemoveFromFavorites deletes the favorite row and filters the product out
// locally on success.
func (s *UserDataStore) RemoveFromFavorites(ctx context.Context, productID string) error {
	token, userID, ok := s.session()
	if !ok {
		return nil
	}

	unlock := s.productLocks.lock(userID + "/" + productID)
	defer unlock()

	if err := s.client.DeleteFavorite(ctx, token, userID, productID); err != nil {
		logger.Error(ctx, "failed to remove from favorites", err, zap.String("product_id", productID))
		return err
	}

	s.mu.Lock()
	kept := s.favorites[:0]
	for _, p := range s.favorites {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	s.favorites = kept
	s.mu.Unlock()
	return nil
}

// AddToCart inserts a new cart row, or folds the quantity into the existing
// entry when the product is already in the cart. The product record is
// fetched fresh every time.
func (s *UserDataStore) AddToCart(ctx context.Context, productID string, quantity int) error {
	token, userID, ok := s.session()
	if !ok {
		return nil
	}

	unlock := s.productLocks.lock(userID + "/" + productID)
	defer unlock()

	product, err := s.client.GetProduct(ctx, token, productID)
	if err != nil {
		logger.Error(ctx, "failed to add to cart", err, zap.String("product_id", productID))
		return err
	}

	s.mu.RLock()
	existing := 0
	found := false
	for _, item := range s.cart {
		if item.ID == productID {
			existing = item.Quantity
			found = true
			break
		}
	}
	s.mu.RUnlock()

	if found {
		return s.updateQuantity(ctx, token, userID, productID, existing+quantity)
	}

	if err := s.client.InsertCartItem(ctx, token, userID, productID, quantity); err != nil {
		logger.Error(ctx, "failed to add to cart", err, zap.String("product_id", productID))
		return err
	}

	s.mu.Lock()
	s.cart = append(s.cart, models.CartItem{Product: *product, Quantity: quantity})
	s.mu.Unlock()
	return nil
}

// UpdateCartQuantity sets the quantity of a cart entry. Keeping quantity
// at 1 or above is the caller's responsibility; dropping below 1 should
// remove the item instead.
func (s *UserDataStore) UpdateCartQuantity(ctx context.Context, productID string, quantity int) error {
	token, userID, ok := s.session()
	if !ok {
		return nil
	}

	unlock := s.productLocks.lock(userID + "/" + productID)
	defer unlock()

	return s.updateQuantity(ctx, token, userID, productID, quantity)
}

// updateQuantity writes the new quantity and replaces the matching local
// entry. Caller holds the per-product lock.
func (s *UserDataStore) updateQuantity(ctx context.Context, token, userID, productID string, quantity int) error {
	if err := s.client.UpdateCartQuantity(ctx, token, userID, productID, quantity); err != nil {
		logger.Error(ctx, "failed to update cart quantity", err, zap.String("product_id", productID))
		return err
	}

	s.mu.Lock()
	for i := range s.cart {
		if s.cart[i].ID == productID {
			s.cart[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// RemoveFromCart deletes the cart row and filters it out locally.
func (s *UserDataStore) RemoveFromCart(ctx context.Context, productID string) error {
	token, userID, ok := s.session()
	if !ok {
		return nil
	}

	unlock := s.productLocks.lock(userID + "/" + productID)
	defer unlock()

	if err := s.client.DeleteCartItem(ctx, token, userID, productID); err != nil {
		logger.Error(ctx, "failed to remove from cart", err, zap.String("product_id", productID))
		return err
	}

	s.mu.Lock()
	kept := s.cart[:0]
	for _, item := range s.cart {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	s.cart = kept
	s.mu.Unlock()
	return nil
}

// AddToSearchHistory records a query and prepends the stored row, keeping
// the list most-recent-first.
func (s *UserDataStore) AddToSearchHistory(ctx context.Context, query string) error {
	token, userID, ok := s.session()
	if !ok {
		return nil
	}

	entry, err := s.client.InsertSearchEntry(ctx, token, userID, query)
	if err != nil {
		logger.Error(ctx, "failed to add search history", err)
		return err
	}

	s.mu.Lock()
	s.history = append([]models.SearchEntry{*entry}, s.history...)
	s.mu.Unlock()
	return nil
}

// ClearSearchHistory deletes all of the user's rows and empties the list.
func (s *UserDataStore) ClearSearchHistory(ctx context.Context) error {
	token, userID, ok := s.session()
	if !ok {
		return nil
	}

	if err := s.client.ClearSearchHistory(ctx, token, userID); err != nil {
		logger.Error(ctx, "failed to clear search history", err)
		return err
	}

	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
	return nil
}

// Favorites returns a copy of the favorites collection.
func (s *UserDataStore) Favorites() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product{}, s.favorites...)
}

// CartItems returns a copy of the cart collection.
func (s *UserDataStore) CartItems() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartItem{}, s.cart...)
}

// SearchHistory returns a copy of the search history, newest first.
func (s *UserDataStore) SearchHistory() []models.SearchEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SearchEntry{}, s.history...)
}

// CartCount is the sum of quantities across cart entries, recomputed on
// every call.
func (s *UserDataStore) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.cart {
		total += item.Quantity
	}
	return total
}

// FavoritesCount is the number of favorited products.
func (s *UserDataStore) FavoritesCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.favorites)
}

// CartTotal is the current cart value, recomputed on every call.
func (s *UserDataStore) CartTotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, item := range s.cart {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
