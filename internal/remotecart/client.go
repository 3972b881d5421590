// internal/remotecart/client.go
package remotecart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/config"
)

// Precondition errors detected locally before any network call
var (
	ErrUserIDRequired    = errors.New("user ID is required")
	ErrItemIDRequired    = errors.New("item ID is required")
	ErrProductIDRequired = errors.New("product ID is required")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// APIError represents a non-success response from the cart service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("cart service returned status %d", e.StatusCode)
}

// envelope is the uniform {success, message, data} wrapper the cart
// service puts around every response
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client wraps the five remote cart operations behind a uniform contract
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new remote cart service client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: cfg.RemoteCart.BaseURL,
		token:   cfg.RemoteCart.ServiceToken,
		httpClient: &http.Client{
			Timeout: cfg.RemoteCart.RequestTimeout,
		},
		logger: logger,
	}
}

// AddItem adds a product to the user's remote cart via POST /cart/items.
// Quantity defaults to 1 when unspecified; a negative quantity is rejected
// locally.
func (c *Client) AddItem(ctx context.Context, req AddItemRequest) (*MutationResult, error) {
	if req.ProductID == 0 {
		return nil, ErrProductIDRequired
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	env, err := c.do(ctx, http.MethodPost, "/cart/items", req)
	if err != nil {
		return nil, err
	}

	result := &MutationResult{
		Success: env.Success,
		Message: env.Message,
	}

	// data carries the new cart total; tolerate its absence
	if len(env.Data) > 0 {
		var data struct {
			CartTotal WirePrice `json:"cartTotal"`
		}
		if err := json.Unmarshal(env.Data, &data); err == nil {
			result.CartTotal = data.CartTotal
		}
	}

	return result, nil
}

// FetchCartForUser retrieves the full cart for a user via
// GET /cart/user/{userId}. A response with absent or malformed data
// degrades to an empty cart rather than an error.
func (c *Client) FetchCartForUser(ctx context.Context, userID string) (*UserCart, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	env, err := c.do(ctx, http.MethodGet, "/cart/user/"+userID, nil)
	if err != nil {
		return nil, err
	}

	cart := &UserCart{UserID: userID, Items: []WireItem{}}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return cart, nil
	}

	if err := json.Unmarshal(env.Data, cart); err != nil {
		c.logger.WithError(err).Warn("Malformed cart payload, returning empty cart")
		return &UserCart{UserID: userID, Items: []WireItem{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []WireItem{}
	}

	return cart, nil
}

// RemoveItem deletes one cart line via DELETE /cart/items/{itemId}
func (c *Client) RemoveItem(ctx context.Context, itemID int64, userID string) (*MutationResult, error) {
	if itemID == 0 {
		return nil, ErrItemIDRequired
	}
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	body := map[string]string{"userId": userID}
	env, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), body)
	if err != nil {
		return nil, err
	}

	return &MutationResult{Success: env.Success, Message: env.Message}, nil
}

// UpdateItemQuantity changes a cart line's quantity via
// PUT /cart/items/{itemId}. Quantities below 1 are a caller-side
// precondition failure; removal is a separate operation.
func (c *Client) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*MutationResult, error) {
	if itemID == 0 {
		return nil, ErrItemIDRequired
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	body := map[string]int{"quantity": quantity}
	env, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), body)
	if err != nil {
		return nil, err
	}

	return &MutationResult{Success: env.Success, Message: env.Message}, nil
}

// ClearCart removes every line for a user via DELETE /cart
func (c *Client) ClearCart(ctx context.Context, userID string) (*MutationResult, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	body := map[string]string{"userId": userID}
	env, err := c.do(ctx, http.MethodDelete, "/cart", body)
	if err != nil {
		return nil, err
	}

	return &MutationResult{Success: env.Success, Message: env.Message}, nil
}

// do issues one request and decodes the response envelope. No retries;
// a failure is surfaced once and the caller decides what to do with it.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart service request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// Leave Data empty; callers treat it as an absent payload
		env = envelope{}
	}

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("Cart service call completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}
