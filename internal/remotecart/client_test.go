package remotecart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.RemoteCart.BaseURL = srv.URL
	cfg.RemoteCart.RequestTimeout = 2 * time.Second
	cfg.RemoteCart.ServiceToken = "test-token"

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewClient(cfg, logger), srv
}

func TestAddItemSendsMinimalPayload(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Item added to cart",
			"data":    map[string]interface{}{"cartTotal": "2998"},
		})
	}))

	result, err := client.AddItem(context.Background(), AddItemRequest{ProductID: 7, Quantity: 2, Color: "black"})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if gotPath != "POST /cart/items" {
		t.Fatalf("unexpected request %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("missing bearer credential, got %q", gotAuth)
	}
	if gotBody["productId"] != float64(7) || gotBody["quantity"] != float64(2) || gotBody["color"] != "black" {
		t.Fatalf("unexpected payload: %v", gotBody)
	}
	for _, key := range []string{"size", "customText", "customImageUrl"} {
		if _, present := gotBody[key]; present {
			t.Fatalf("empty field %q must be omitted", key)
		}
	}
	if !result.CartTotal.Equal(decimal.NewFromInt(2998)) {
		t.Fatalf("cart total not parsed, got %s", result.CartTotal)
	}
}

func TestAddItemDefaultsQuantity(t *testing.T) {
	var gotBody map[string]interface{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))

	if _, err := client.AddItem(context.Background(), AddItemRequest{ProductID: 7}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if gotBody["quantity"] != float64(1) {
		t.Fatalf("expected quantity defaulted to 1, got %v", gotBody["quantity"])
	}
}

func TestAddItemPreconditions(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	if _, err := client.AddItem(context.Background(), AddItemRequest{}); !errors.Is(err, ErrProductIDRequired) {
		t.Fatalf("expected ErrProductIDRequired, got %v", err)
	}
	if _, err := client.AddItem(context.Background(), AddItemRequest{ProductID: 7, Quantity: -1}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if requests != 0 {
		t.Fatalf("precondition failures must not hit the wire, saw %d requests", requests)
	}
}

func TestFetchCartForUser(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart/user/u1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"userId": "u1",
				"items": []map[string]interface{}{
					{"id": 5, "productId": 7, "quantity": 2, "price": "1499"},
					{"id": 6, "productId": 8, "quantity": 1, "price": 2599},
				},
				"subtotal": "5597",
			},
		})
	}))

	cart, err := client.FetchCartForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FetchCartForUser: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(cart.Items))
	}
	if !cart.Items[0].Price.Equal(decimal.NewFromInt(1499)) || !cart.Items[1].Price.Equal(decimal.NewFromInt(2599)) {
		t.Fatalf("mixed string/number prices not parsed: %s, %s", cart.Items[0].Price, cart.Items[1].Price)
	}
	if !cart.Subtotal.Equal(decimal.NewFromInt(5597)) {
		t.Fatalf("subtotal not parsed, got %s", cart.Subtotal)
	}
}

func TestFetchCartForUserRequiresUserID(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	if _, err := client.FetchCartForUser(context.Background(), ""); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
	if requests != 0 {
		t.Fatal("precondition failure must not hit the wire")
	}
}

func TestFetchCartForUserEmptyDataDefault(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": nil})
	}))

	cart, err := client.FetchCartForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("FetchCartForUser: %v", err)
	}
	if cart.Items == nil || len(cart.Items) != 0 {
		t.Fatalf("expected safe empty cart, got %+v", cart)
	}
	if cart.UserID != "u1" {
		t.Fatalf("expected userId preserved, got %q", cart.UserID)
	}
}

func TestFetchCartForUserMalformedDataDefault(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"items": "not-a-list"}}`))
	}))

	cart, err := client.FetchCartForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected malformed payload tolerated, got %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart for malformed payload, got %+v", cart)
	}
}

func TestRemoveItemSendsUserScopedDelete(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "Item removed"})
	}))

	result, err := client.RemoveItem(context.Background(), 5, "u1")
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if gotPath != "DELETE /cart/items/5" {
		t.Fatalf("unexpected request %q", gotPath)
	}
	if gotBody["userId"] != "u1" {
		t.Fatalf("delete not scoped by user: %v", gotBody)
	}
	if result.Message != "Item removed" {
		t.Fatalf("message lost, got %q", result.Message)
	}
}

func TestUpdateItemQuantityPrecondition(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	if _, err := client.UpdateItemQuantity(context.Background(), 5, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if requests != 0 {
		t.Fatal("precondition failure must not hit the wire")
	}
}

func TestServerFailureSurfacesMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Product is out of stock"})
	}))

	_, err := client.AddItem(context.Background(), AddItemRequest{ProductID: 7})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Product is out of stock" || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestNonJSONFailureSurfacesStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))

	_, err := client.ClearCart(context.Background(), "u1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", apiErr.StatusCode)
	}
}

func TestWirePriceDecoding(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{`"1499"`, 1499},
		{`2599`, 2599},
		{`null`, 0},
		{`"not-a-price"`, 0},
		{`""`, 0},
	}

	for _, tc := range cases {
		var price WirePrice
		if err := json.Unmarshal([]byte(tc.in), &price); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if !price.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("decode %s: expected %d, got %s", tc.in, tc.want, price)
		}
	}
}
