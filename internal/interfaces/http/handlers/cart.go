// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/interfaces/http/middleware"
)

// CartHandler renders cart store snapshots and routes user interactions
// into store operations. It never mutates cart state itself; all writes
// go through the store.
type CartHandler struct {
	registry *cart.Registry
	config   *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(registry *cart.Registry, cfg *config.Config) *CartHandler {
	return &CartHandler{
		registry: registry,
		config:   cfg,
	}
}

// AddToCartRequest is the add-to-cart body accepted from the storefront
type AddToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	cart.AddDetails
}

// UpdateQuantityRequest is the quantity update body
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// DrawerRequest toggles cart drawer visibility
type DrawerRequest struct {
	Open bool `json:"open"`
}

// GetCart handles GET /cart. Without an identity the cart is inert: an
// empty snapshot, no remote call.
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart retrieved successfully",
			"data":    cart.Snapshot{Items: []cart.Item{}},
		})
		return
	}

	snapshot := h.registry.Session(userID).Store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    snapshot,
	})
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart count retrieved successfully",
			"data":    gin.H{"count": 0},
		})
		return
	}

	count := h.registry.Session(userID).Store.TotalItems()
	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data":    gin.H{"count": count},
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Please sign in to manage your cart",
		})
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.registry.Session(userID).Store
	if store.Snapshot().Loading {
		h.busy(c)
		return
	}

	store.AddToCart(c.Request.Context(), req.ProductID, req.AddDetails)
	h.respond(c, store.Snapshot(), "Item added to cart successfully")
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Please sign in to manage your cart",
		})
		return
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.registry.Session(userID).Store
	if store.Snapshot().Loading {
		h.busy(c)
		return
	}

	store.UpdateCartQuantity(c.Request.Context(), itemID, *req.Quantity)
	h.respond(c, store.Snapshot(), "Cart item updated successfully")
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Please sign in to manage your cart",
		})
		return
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	store := h.registry.Session(userID).Store
	if store.Snapshot().Loading {
		h.busy(c)
		return
	}

	store.RemoveFromCart(c.Request.Context(), itemID)
	h.respond(c, store.Snapshot(), "Item removed from cart successfully")
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Please sign in to manage your cart",
		})
		return
	}

	store := h.registry.Session(userID).Store
	if store.Snapshot().Loading {
		h.busy(c)
		return
	}

	store.ClearCart(c.Request.Context())
	h.respond(c, store.Snapshot(), "Cart cleared successfully")
}

// SetDrawer handles PUT /cart/drawer
func (h *CartHandler) SetDrawer(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Please sign in to manage your cart",
		})
		return
	}

	var req DrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store := h.registry.Session(userID).Store
	if req.Open {
		store.OpenDrawer()
	} else {
		store.CloseDrawer()
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart drawer updated successfully",
		"data":    store.Snapshot(),
	})
}

// DismissError handles DELETE /cart/error
func (h *CartHandler) DismissError(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Please sign in to manage your cart",
		})
		return
	}

	store := h.registry.Session(userID).Store
	store.DismissError()

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart error dismissed",
		"data":    store.Snapshot(),
	})
}

// respond renders the post-operation snapshot. Operation failures live in
// the snapshot's error field, not in the HTTP status; the cart view keeps
// rendering the last known-good mapping.
func (h *CartHandler) respond(c *gin.Context, snapshot cart.Snapshot, message string) {
	if snapshot.Error != "" {
		message = snapshot.Error
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    snapshot,
	})
}

func (h *CartHandler) busy(c *gin.Context) {
	c.JSON(http.StatusConflict, gin.H{
		"error": "Cart operation already in progress",
	})
}
