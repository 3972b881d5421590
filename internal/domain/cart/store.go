// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/remotecart"
)

// User-facing error messages. Operation failures never surface as Go
// errors to the presentation layer; they land in the snapshot's Error
// field instead.
const (
	msgSignInRequired = "Please sign in to manage your cart"
	msgAddFailed      = "Failed to add item to cart"
	msgRemoveFailed   = "Failed to remove item from cart"
	msgUpdateFailed   = "Failed to update item quantity"
	msgClearFailed    = "Failed to clear cart"
	msgLoadFailed     = "Failed to load cart"
)

// RemoteCart is the slice of the remote cart service the store depends on
type RemoteCart interface {
	AddItem(ctx context.Context, req remotecart.AddItemRequest) (*remotecart.MutationResult, error)
	FetchCartForUser(ctx context.Context, userID string) (*remotecart.UserCart, error)
	RemoveItem(ctx context.Context, itemID int64, userID string) (*remotecart.MutationResult, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*remotecart.MutationResult, error)
	ClearCart(ctx context.Context, userID string) (*remotecart.MutationResult, error)
}

// Store holds the authoritative-from-server cart mapping for one user and
// reconciles every mutation with the remote service by refetching. Local
// edits are provisional; the next successful fetch overwrites them.
type Store struct {
	mu     sync.Mutex
	client RemoteCart
	logger *logrus.Logger

	userID     string
	items      map[int64]Item
	loading    bool
	cartError  string
	drawerOpen bool

	// seq increments at the start of every operation. A refetch result is
	// applied only if no newer operation has started since, so a slow
	// response cannot clobber fresher state.
	seq uint64
}

// NewStore creates an empty, signed-out cart store
func NewStore(client RemoteCart, logger *logrus.Logger) *Store {
	return &Store{
		client: client,
		logger: logger,
		items:  map[int64]Item{},
	}
}

// SignIn binds the store to a user identity and loads their remote cart.
// A failed initial load leaves the mapping empty rather than keeping
// possibly-stale data.
func (s *Store) SignIn(ctx context.Context, userID string) {
	s.mu.Lock()
	s.userID = userID
	s.items = map[int64]Item{}
	s.cartError = ""
	s.loading = true
	s.seq++
	token := s.seq
	s.mu.Unlock()

	remote, err := s.client.FetchCartForUser(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != token {
		return
	}
	s.loading = false
	if err != nil {
		s.items = map[int64]Item{}
		s.cartError = errorMessage(err, msgLoadFailed)
		s.logger.WithError(err).WithField("user_id", userID).Warn("Initial cart load failed")
		return
	}
	s.items = ItemsFromWire(remote.Items)
}

// SignOut clears the mapping immediately and unconditionally. No network
// call is made.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.userID = ""
	s.items = map[int64]Item{}
	s.cartError = ""
	s.loading = false
	s.drawerOpen = false
}

// AddToCart adds a product to the remote cart and resyncs. On success the
// cart drawer is flagged open as a hint to the presentation layer. On
// failure the mapping is left as-is; the add never took effect remotely,
// so there is nothing to reconcile.
func (s *Store) AddToCart(ctx context.Context, productID int64, details AddDetails) {
	s.mu.Lock()
	if s.userID == "" {
		s.cartError = msgSignInRequired
		s.mu.Unlock()
		return
	}
	userID := s.userID
	s.cartError = ""
	s.loading = true
	s.seq++
	token := s.seq
	s.mu.Unlock()

	_, err := s.client.AddItem(ctx, AddPayload(productID, details))
	if err != nil {
		s.finish(token, errorMessage(err, msgAddFailed))
		return
	}

	s.refetch(ctx, userID, token, "")

	s.mu.Lock()
	if s.seq == token && s.cartError == "" {
		s.drawerOpen = true
	}
	s.mu.Unlock()
}

// RemoveFromCart deletes a cart line. The local entry is removed
// optimistically for a responsive UI, then the cart is refetched whether
// or not the remote delete succeeded, undoing the optimistic delete if
// the server still has the line.
func (s *Store) RemoveFromCart(ctx context.Context, itemID int64) {
	s.mu.Lock()
	if s.userID == "" {
		s.cartError = msgSignInRequired
		s.mu.Unlock()
		return
	}
	userID := s.userID
	s.cartError = ""
	s.loading = true
	s.seq++
	token := s.seq
	delete(s.items, itemID)
	s.mu.Unlock()

	var failure string
	if _, err := s.client.RemoveItem(ctx, itemID, userID); err != nil {
		failure = errorMessage(err, msgRemoveFailed)
	}

	s.refetch(ctx, userID, token, failure)
}

// UpdateCartQuantity rewrites a line's quantity optimistically, pushes the
// change upstream, and refetches regardless of outcome. A quantity of
// zero or less is redefined as removal; the mapping never holds a line
// with quantity below 1.
func (s *Store) UpdateCartQuantity(ctx context.Context, itemID int64, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, itemID)
		return
	}

	s.mu.Lock()
	if s.userID == "" {
		s.cartError = msgSignInRequired
		s.mu.Unlock()
		return
	}
	userID := s.userID
	s.cartError = ""
	s.loading = true
	s.seq++
	token := s.seq
	if item, ok := s.items[itemID]; ok {
		item.Quantity = quantity
		item.Subtotal = item.Price.Mul(decimal.NewFromInt(int64(quantity)))
		s.items[itemID] = item
	}
	s.mu.Unlock()

	var failure string
	if _, err := s.client.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		failure = errorMessage(err, msgUpdateFailed)
	}

	s.refetch(ctx, userID, token, failure)
}

// ClearCart empties the remote cart. Success needs no refetch since the
// result is unambiguous; failure records the error and refetches to
// recover the true state.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	if s.userID == "" {
		s.cartError = msgSignInRequired
		s.mu.Unlock()
		return
	}
	userID := s.userID
	s.cartError = ""
	s.loading = true
	s.seq++
	token := s.seq
	s.mu.Unlock()

	if _, err := s.client.ClearCart(ctx, userID); err != nil {
		s.refetch(ctx, userID, token, errorMessage(err, msgClearFailed))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != token {
		return
	}
	s.items = map[int64]Item{}
	s.loading = false
}

// TotalItems returns the sum of quantities across the mapping
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of price times quantity across the mapping,
// recomputed on every call
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPriceLocked(s.items)
}

// OpenDrawer marks the cart drawer visible
func (s *Store) OpenDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = true
}

// CloseDrawer marks the cart drawer hidden
func (s *Store) CloseDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = false
}

// DismissError clears the current cart error
func (s *Store) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartError = ""
}

// Snapshot returns a read-only view of the store. Items are sorted by
// line ID for stable rendering.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, 0, len(s.items))
	totalItems := 0
	for _, item := range s.items {
		items = append(items, item)
		totalItems += item.Quantity
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return Snapshot{
		Items:      items,
		TotalItems: totalItems,
		TotalPrice: totalPriceLocked(s.items),
		Loading:    s.loading,
		Error:      s.cartError,
		DrawerOpen: s.drawerOpen,
	}
}

// refetch replaces the mapping with the server's current cart, unless a
// newer operation has started since token was taken. failure is the
// error message from the mutation that forced this refetch, if any.
func (s *Store) refetch(ctx context.Context, userID string, token uint64, failure string) {
	remote, err := s.client.FetchCartForUser(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != token {
		return
	}
	s.loading = false
	s.cartError = failure
	if err != nil {
		// Keep the last known mapping; the view should not blank on a
		// failed resync.
		if s.cartError == "" {
			s.cartError = errorMessage(err, msgLoadFailed)
		}
		s.logger.WithError(err).WithField("user_id", userID).Warn("Cart resync failed")
		return
	}
	s.items = ItemsFromWire(remote.Items)
}

// finish ends an operation without a refetch
func (s *Store) finish(token uint64, failure string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != token {
		return
	}
	s.loading = false
	s.cartError = failure
}

func totalPriceLocked(items map[int64]Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// errorMessage prefers the server-provided message over the generic
// per-operation fallback
func errorMessage(err error, fallback string) string {
	var apiErr *remotecart.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
