// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/interfaces/http/middleware"
)

// SessionHandler manages the lifecycle of per-user cart sessions
type SessionHandler struct {
	registry *cart.Registry
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *cart.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// SignOut handles POST /session/signout. The user's cart mapping is
// cleared immediately; the remote cart is untouched and reloads on the
// next sign-in.
func (h *SessionHandler) SignOut(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	h.registry.Drop(userID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out successfully",
	})
}
