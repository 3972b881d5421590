package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/config"
	"github.com/your-org/storefront-cart/internal/domain/cart"
	"github.com/your-org/storefront-cart/internal/interfaces/http/routes"
	"github.com/your-org/storefront-cart/internal/pkg/auth"
	"github.com/your-org/storefront-cart/internal/remotecart"
)

// stubRemote serves a fixed upstream cart and records mutations
type stubRemote struct {
	items map[int64]remotecart.WireItem
	next  int64
}

func newStubRemote() *stubRemote {
	return &stubRemote{items: map[int64]remotecart.WireItem{}, next: 1}
}

func (s *stubRemote) AddItem(ctx context.Context, req remotecart.AddItemRequest) (*remotecart.MutationResult, error) {
	id := s.next
	s.next++
	s.items[id] = remotecart.WireItem{
		ID:        id,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Price:     remotecart.WirePrice{Decimal: decimal.NewFromInt(1499)},
	}
	return &remotecart.MutationResult{Success: true}, nil
}

func (s *stubRemote) FetchCartForUser(ctx context.Context, userID string) (*remotecart.UserCart, error) {
	out := &remotecart.UserCart{UserID: userID, Items: []remotecart.WireItem{}}
	for _, item := range s.items {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func (s *stubRemote) RemoveItem(ctx context.Context, itemID int64, userID string) (*remotecart.MutationResult, error) {
	delete(s.items, itemID)
	return &remotecart.MutationResult{Success: true}, nil
}

func (s *stubRemote) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*remotecart.MutationResult, error) {
	item := s.items[itemID]
	item.Quantity = quantity
	s.items[itemID] = item
	return &remotecart.MutationResult{Success: true}, nil
}

func (s *stubRemote) ClearCart(ctx context.Context, userID string) (*remotecart.MutationResult, error) {
	s.items = map[int64]remotecart.WireItem{}
	return &remotecart.MutationResult{Success: true}, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *config.Config, *stubRemote) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Name = "storefront-cart-test"
	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.JWT.AccessTokenExpiry = time.Hour

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	remote := newStubRemote()
	registry := cart.NewRegistry(remote, logger)

	engine := gin.New()
	apiV1 := engine.Group("/api/v1")
	routes.SetupCartRoutes(apiV1, registry, cfg)
	routes.SetupSessionRoutes(apiV1, registry, cfg)

	return engine, cfg, remote
}

func bearerToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := auth.NewJWTManager(cfg).GenerateAccessToken("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	var decoded map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode response %q: %v", recorder.Body.String(), err)
	}
	return recorder, decoded
}

func snapshotItems(t *testing.T, decoded map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := decoded["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %v", decoded)
	}
	items, ok := data["items"].([]interface{})
	if !ok {
		t.Fatalf("snapshot has no items list: %v", data)
	}
	return items
}

func TestGetCartUnauthenticatedIsInert(t *testing.T) {
	engine, _, _ := setupRouter(t)

	recorder, decoded := doRequest(t, engine, http.MethodGet, "/api/v1/cart", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if items := snapshotItems(t, decoded); len(items) != 0 {
		t.Fatalf("expected inert empty cart, got %d items", len(items))
	}
}

func TestAddToCartUnauthenticated(t *testing.T) {
	engine, _, remote := setupRouter(t)

	recorder, decoded := doRequest(t, engine, http.MethodPost, "/api/v1/cart/items", "",
		map[string]interface{}{"productId": 7, "quantity": 2})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if msg, _ := decoded["error"].(string); msg == "" {
		t.Fatal("expected a sign-in prompt in the error field")
	}
	if len(remote.items) != 0 {
		t.Fatal("unauthenticated add must not reach the upstream cart")
	}
}

func TestAddToCartOpensDrawer(t *testing.T) {
	engine, cfg, _ := setupRouter(t)
	token := bearerToken(t, cfg)

	recorder, decoded := doRequest(t, engine, http.MethodPost, "/api/v1/cart/items", token,
		map[string]interface{}{"productId": 7, "quantity": 2})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", recorder.Code, decoded)
	}

	items := snapshotItems(t, decoded)
	if len(items) != 1 {
		t.Fatalf("expected 1 item after add, got %d", len(items))
	}
	data := decoded["data"].(map[string]interface{})
	if data["drawerOpen"] != true {
		t.Fatal("expected drawerOpen true after a successful add")
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	engine, cfg, _ := setupRouter(t)
	token := bearerToken(t, cfg)

	doRequest(t, engine, http.MethodPost, "/api/v1/cart/items", token,
		map[string]interface{}{"productId": 7, "quantity": 2})

	recorder, decoded := doRequest(t, engine, http.MethodPut, "/api/v1/cart/items/1", token,
		map[string]interface{}{"quantity": 0})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", recorder.Code, decoded)
	}
	if items := snapshotItems(t, decoded); len(items) != 0 {
		t.Fatalf("expected line removed, got %d items", len(items))
	}
}

func TestClearCart(t *testing.T) {
	engine, cfg, _ := setupRouter(t)
	token := bearerToken(t, cfg)

	doRequest(t, engine, http.MethodPost, "/api/v1/cart/items", token,
		map[string]interface{}{"productId": 7})
	doRequest(t, engine, http.MethodPost, "/api/v1/cart/items", token,
		map[string]interface{}{"productId": 8})

	recorder, decoded := doRequest(t, engine, http.MethodDelete, "/api/v1/cart", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if items := snapshotItems(t, decoded); len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestCartCount(t *testing.T) {
	engine, cfg, _ := setupRouter(t)
	token := bearerToken(t, cfg)

	doRequest(t, engine, http.MethodPost, "/api/v1/cart/items", token,
		map[string]interface{}{"productId": 7, "quantity": 2})

	_, decoded := doRequest(t, engine, http.MethodGet, "/api/v1/cart/count", token, nil)
	data := decoded["data"].(map[string]interface{})
	if data["count"] != float64(2) {
		t.Fatalf("expected count 2, got %v", data["count"])
	}
}

func TestSignOutClearsSession(t *testing.T) {
	engine, cfg, _ := setupRouter(t)
	token := bearerToken(t, cfg)

	doRequest(t, engine, http.MethodPost, "/api/v1/cart/items", token,
		map[string]interface{}{"productId": 7})

	recorder, _ := doRequest(t, engine, http.MethodPost, "/api/v1/session/signout", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestDrawerToggle(t *testing.T) {
	engine, cfg, _ := setupRouter(t)
	token := bearerToken(t, cfg)

	_, decoded := doRequest(t, engine, http.MethodPut, "/api/v1/cart/drawer", token,
		map[string]interface{}{"open": true})
	data := decoded["data"].(map[string]interface{})
	if data["drawerOpen"] != true {
		t.Fatal("expected drawer open")
	}

	_, decoded = doRequest(t, engine, http.MethodPut, "/api/v1/cart/drawer", token,
		map[string]interface{}{"open": false})
	data = decoded["data"].(map[string]interface{})
	if data["drawerOpen"] != false {
		t.Fatal("expected drawer closed")
	}
}
