// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
)

// Item represents one cart line in its flat, display-ready form.
// Title and image are copied from the associated product at fetch time and
// may go stale if the product changes upstream; no invalidation is
// attempted. Optional customization fields hold the empty string when
// absent.
type Item struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"productId"`
	Title          string          `json:"title"`
	Image          string          `json:"image"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	Color          string          `json:"color,omitempty"`
	Size           string          `json:"size,omitempty"`
	CustomText     string          `json:"customText,omitempty"`
	CustomImageURL string          `json:"customImageUrl,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// AddDetails is the caller-supplied bag of options for an add-to-cart
// intent. The snake_case fields are compatibility aliases accepted on
// input only; Normalized folds them into the canonical camelCase fields.
type AddDetails struct {
	Quantity       int    `json:"quantity"`
	Color          string `json:"color"`
	Size           string `json:"size"`
	CustomText     string `json:"customText"`
	CustomImageURL string `json:"customImageUrl"`

	CustomTextAlias     string `json:"custom_text"`
	CustomImageURLAlias string `json:"custom_image_url"`
}

// Normalized returns a copy with alias fields folded into the canonical
// ones and the aliases cleared. Canonical values win when both are set.
func (d AddDetails) Normalized() AddDetails {
	if d.CustomText == "" {
		d.CustomText = d.CustomTextAlias
	}
	if d.CustomImageURL == "" {
		d.CustomImageURL = d.CustomImageURLAlias
	}
	d.CustomTextAlias = ""
	d.CustomImageURLAlias = ""
	return d
}

// Snapshot is the read-only view of the store handed to the presentation
// layer. Items is a materialized copy; mutating it has no effect on the
// store.
type Snapshot struct {
	Items      []Item          `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Loading    bool            `json:"loading"`
	Error      string          `json:"error,omitempty"`
	DrawerOpen bool            `json:"drawerOpen"`
}
