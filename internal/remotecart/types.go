// internal/remotecart/types.go
package remotecart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// WirePrice decodes a price the upstream may send as a JSON number or a
// quoted string. Values that fail to parse decode as zero instead of
// aborting the whole cart payload.
type WirePrice struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler
func (p *WirePrice) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		p.Decimal = decimal.Zero
		return nil
	}
	raw = strings.Trim(raw, `"`)

	value, err := decimal.NewFromString(raw)
	if err != nil {
		p.Decimal = decimal.Zero
		return nil
	}

	p.Decimal = value
	return nil
}

// WireProduct is the product sub-object nested inside a cart item
type WireProduct struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Image string    `json:"image"`
	Price WirePrice `json:"price"`
}

// WireItem is a single cart line as the upstream service reports it
type WireItem struct {
	ID             int64        `json:"id"`
	ProductID      int64        `json:"productId"`
	Quantity       int          `json:"quantity"`
	Price          WirePrice    `json:"price"`
	Subtotal       WirePrice    `json:"subtotal"`
	Color          string       `json:"color,omitempty"`
	Size           string       `json:"size,omitempty"`
	CustomText     string       `json:"customText,omitempty"`
	CustomImageURL string       `json:"customImageUrl,omitempty"`
	Product        *WireProduct `json:"product,omitempty"`
}

// UserCart is the full cart payload returned by GET /cart/user/{userId}
type UserCart struct {
	UserID   string     `json:"userId"`
	Items    []WireItem `json:"items"`
	Subtotal WirePrice  `json:"subtotal"`
}

// AddItemRequest is the body for POST /cart/items. Optional customization
// fields are omitted from the payload when empty.
type AddItemRequest struct {
	ProductID      int64  `json:"productId"`
	Quantity       int    `json:"quantity"`
	Color          string `json:"color,omitempty"`
	Size           string `json:"size,omitempty"`
	CustomText     string `json:"customText,omitempty"`
	CustomImageURL string `json:"customImageUrl,omitempty"`
}

// MutationResult is the normalized outcome of a cart mutation call
type MutationResult struct {
	Success   bool
	Message   string
	CartTotal WirePrice
}
